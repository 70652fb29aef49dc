// Package namespace provides helpers for PHP-style backslash namespaces:
// splitting, joining, qualifying short names and mapping a namespace onto a
// directory tree.
package namespace

import (
	"path/filepath"
	"strings"
	"unicode"
)

// Separator is the namespace segment separator.
const Separator = `\`

// Name is a class name split into its namespace and short name.
// The zero value is the empty global name.
type Name struct {
	Namespace string
	Short     string
}

// Parse splits a possibly qualified name. A leading separator is ignored.
func Parse(qualified string) Name {
	qualified = Trim(qualified)

	idx := strings.LastIndex(qualified, Separator)
	if idx < 0 {
		return Name{Short: qualified}
	}

	return Name{Namespace: qualified[:idx], Short: qualified[idx+1:]}
}

// New builds a Name from a namespace and a short name.
func New(ns, short string) Name {
	return Name{Namespace: Trim(ns), Short: short}
}

// IsGlobal reports whether the name lives in the global namespace.
func (n Name) IsGlobal() bool {
	return n.Namespace == ""
}

// String returns the relative qualified form, without a leading separator.
func (n Name) String() string {
	if n.Namespace == "" {
		return n.Short
	}

	return n.Namespace + Separator + n.Short
}

// FullyQualified returns the name with a leading separator.
func (n Name) FullyQualified() string {
	return Separator + n.String()
}

// Trim removes leading and trailing separators and surrounding whitespace.
func Trim(ns string) string {
	return strings.Trim(strings.TrimSpace(ns), Separator)
}

// Split returns the non-empty segments of ns.
func Split(ns string) []string {
	ns = Trim(ns)
	if ns == "" {
		return nil
	}

	parts := strings.Split(ns, Separator)
	out := parts[:0]

	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}

	return out
}

// Join joins segments into a namespace, skipping empty ones.
func Join(segments ...string) string {
	out := make([]string, 0, len(segments))

	for _, seg := range segments {
		seg = Trim(seg)
		if seg != "" {
			out = append(out, seg)
		}
	}

	return strings.Join(out, Separator)
}

// Last returns the final segment of ns, or "" for the global namespace.
func Last(ns string) string {
	segs := Split(ns)
	if len(segs) == 0 {
		return ""
	}

	return segs[len(segs)-1]
}

// IsValid reports whether every segment of ns is a valid identifier.
// The global namespace is not valid as a migration target.
func IsValid(ns string) bool {
	segs := Split(ns)
	if len(segs) == 0 || len(segs) != strings.Count(Trim(ns), Separator)+1 {
		return false
	}

	for _, seg := range segs {
		if !IsIdentifier(seg) {
			return false
		}
	}

	return true
}

// IsIdentifier reports whether s is a PHP label: a letter or underscore
// followed by letters, digits and underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}

	return true
}

// TrimRoot removes root from the front of ns when ns lies inside it.
// The second result is false when ns is not under root.
func TrimRoot(ns, root string) (string, bool) {
	ns, root = Trim(ns), Trim(root)

	switch {
	case root == "":
		return ns, true
	case ns == root:
		return "", true
	case strings.HasPrefix(ns, root+Separator):
		return ns[len(root)+1:], true
	default:
		return ns, false
	}
}

// ToDir converts ns to a relative directory path using the OS separator.
func ToDir(ns string) string {
	return filepath.Join(Split(ns)...)
}
