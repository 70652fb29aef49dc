package migrate

import "strings"

// DefaultGateMarker is the directory segment legacy form fields live under.
const DefaultGateMarker = "/models/fields/"

// PathGate decides whether the rule applies to a file at all.
type PathGate struct {
	markers []string
}

// NewPathGate returns a gate allowing paths that contain any of markers.
// Markers are slash-normalized. With no markers DefaultGateMarker is used.
func NewPathGate(markers ...string) *PathGate {
	out := make([]string, 0, len(markers))

	for _, marker := range markers {
		if marker = NormalizePath(marker); marker != "" {
			out = append(out, marker)
		}
	}

	if len(out) == 0 {
		out = append(out, DefaultGateMarker)
	}

	return &PathGate{markers: out}
}

// Markers returns the normalized markers.
func (pg *PathGate) Markers() []string {
	return append([]string(nil), pg.markers...)
}

// Allows reports whether filePath contains one of the gate markers.
// Empty or NUL-bearing paths are never allowed.
func (pg *PathGate) Allows(filePath string) bool {
	_, ok := pg.Locate(filePath)

	return ok
}

// Locate returns the byte offset of the first marker in the normalized path.
func (pg *PathGate) Locate(filePath string) (int, bool) {
	if filePath == "" || strings.ContainsRune(filePath, '\x00') {
		return 0, false
	}

	normalized := NormalizePath(filePath)
	best := -1

	for _, marker := range pg.markers {
		if idx := strings.Index(normalized, marker); idx >= 0 && (best < 0 || idx < best) {
			best = idx
		}
	}

	return best, best >= 0
}

// NormalizePath converts Windows separators to forward slashes.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
