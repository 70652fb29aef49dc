// Package config provides YAML-based project configuration for nsmigrate.
package config

import "github.com/Sumatoshi-tech/nsmigrate/pkg/migrate"

// Relocation defaults.
const (
	DefaultRelocationBaseDir       = migrate.DefaultBaseDir
	DefaultRelocationNamespaceRoot = ""
	DefaultRelocationExtension     = migrate.DefaultExtension
)

// Rewrite defaults.
const (
	DefaultRewriteShortName = migrate.ShortNameSuffix
)

// Run defaults. Zero workers means one per CPU.
const (
	DefaultRunWorkers = 0
	DefaultRunDryRun  = false
)

// Logging defaults.
const (
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"
)

// DefaultGateMarkers are the path markers used when none are configured.
func DefaultGateMarkers() []string {
	return []string{migrate.DefaultGateMarker}
}
