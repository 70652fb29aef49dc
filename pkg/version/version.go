// Package version holds build metadata injected with -ldflags.
package version

import "runtime/debug"

// Build metadata. Release builds set these with
// -ldflags "-X github.com/Sumatoshi-tech/nsmigrate/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const (
	revisionKey = "vcs.revision"
	timeKey     = "vcs.time"
)

// InitBinaryVersion fills unset metadata from the module build info.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case revisionKey:
			if Commit == "none" {
				Commit = setting.Value
			}
		case timeKey:
			if Date == "unknown" {
				Date = setting.Value
			}
		}
	}
}

// String returns the one-line version banner.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
