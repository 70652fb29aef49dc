package config

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/nsmigrate/pkg/migrate"
	"github.com/Sumatoshi-tech/nsmigrate/pkg/namespace"
	"github.com/Sumatoshi-tech/nsmigrate/pkg/rules"
)

// Config is the top-level configuration struct for nsmigrate.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Rules      RulesConfig      `mapstructure:"rules"`
	Gate       GateConfig       `mapstructure:"gate"`
	Relocation RelocationConfig `mapstructure:"relocation"`
	Rewrite    RewriteConfig    `mapstructure:"rewrite"`
	Run        RunConfig        `mapstructure:"run"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// RulesConfig selects the legacy prefix mappings. File wins over inline
// Mappings; with neither, rules.Default() applies.
type RulesConfig struct {
	File     string          `mapstructure:"file"`
	Mappings []rules.Mapping `mapstructure:"mappings"`
}

// GateConfig holds the path markers a file must contain to be rewritten.
type GateConfig struct {
	Markers []string `mapstructure:"markers"`
}

// RelocationConfig controls where relocated declarations go.
type RelocationConfig struct {
	BaseDir       string `mapstructure:"base_dir"`
	NamespaceRoot string `mapstructure:"namespace_root"`
	Extension     string `mapstructure:"extension"`
}

// RewriteConfig holds rewrite policy settings.
type RewriteConfig struct {
	ShortName string `mapstructure:"short_name"`
}

// RunConfig holds runner settings.
type RunConfig struct {
	Workers int      `mapstructure:"workers"`
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`
	DryRun  bool     `mapstructure:"dry_run"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds metrics settings.
type MetricsConfig struct {
	// File is a node-exporter textfile written after a run. Empty disables it.
	File string `mapstructure:"file"`
}

// Sentinel validation errors.
var (
	// ErrInvalidWorkers indicates the workers value is negative.
	ErrInvalidWorkers = errors.New("run.workers must be non-negative")
	// ErrInvalidShortName indicates an unknown short name policy.
	ErrInvalidShortName = errors.New("rewrite.short_name must be suffix or strip")
	// ErrInvalidNamespaceRoot indicates a malformed namespace root.
	ErrInvalidNamespaceRoot = errors.New("relocation.namespace_root is not a valid namespace")
	// ErrInvalidExtension indicates an extension without a leading dot.
	ErrInvalidExtension = errors.New("relocation.extension must start with a dot")
	// ErrInvalidLogLevel indicates an unknown log level.
	ErrInvalidLogLevel = errors.New("logging.level must be debug, info, warn or error")
	// ErrInvalidLogFormat indicates an unknown log format.
	ErrInvalidLogFormat = errors.New("logging.format must be text or json")
)

// Validate checks all configuration values.
func (c *Config) Validate() error {
	if c.Run.Workers < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkers, c.Run.Workers)
	}

	switch c.Rewrite.ShortName {
	case "", migrate.ShortNameSuffix, migrate.ShortNameStrip:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidShortName, c.Rewrite.ShortName)
	}

	if root := c.Relocation.NamespaceRoot; root != "" && !namespace.IsValid(namespace.Trim(root)) {
		return fmt.Errorf("%w: got %q", ErrInvalidNamespaceRoot, root)
	}

	if ext := c.Relocation.Extension; ext != "" && ext[0] != '.' {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	return nil
}
