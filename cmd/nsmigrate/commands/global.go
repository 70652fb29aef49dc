// Package commands implements CLI command handlers for nsmigrate.
package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/nsmigrate/internal/config"
	"github.com/Sumatoshi-tech/nsmigrate/pkg/observability"
	"github.com/Sumatoshi-tech/nsmigrate/pkg/version"
)

// GlobalOptions are the persistent flags of the root command.
type GlobalOptions struct {
	ConfigPath string
	RulesPath  string
	Verbose    bool
	Quiet      bool
}

// Register adds the persistent flags to root.
func (g *GlobalOptions) Register(root *cobra.Command) {
	root.PersistentFlags().StringVar(&g.ConfigPath, "config", "", "config file (default: .nsmigrate.yaml in . or $HOME)")
	root.PersistentFlags().StringVar(&g.RulesPath, "rules", "", "rules file with legacy prefix mappings")
	root.PersistentFlags().BoolVarP(&g.Verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVarP(&g.Quiet, "quiet", "q", false, "suppress output")
}

// session is the loaded configuration and telemetry of one command.
type session struct {
	cfg       *config.Config
	providers observability.Providers
	logger    *slog.Logger
}

func (g *GlobalOptions) open(cmd *cobra.Command, mode observability.AppMode) (*session, error) {
	cfg, err := config.LoadConfig(g.ConfigPath)
	if err != nil {
		return nil, err
	}

	if g.RulesPath != "" {
		cfg.Rules.File = g.RulesPath
	}

	level, err := observability.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	switch {
	case g.Verbose:
		level = slog.LevelDebug
	case g.Quiet:
		level = slog.LevelError
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.Format == "json"
	obsCfg.LogOutput = cmd.ErrOrStderr()

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	return &session{cfg: cfg, providers: providers, logger: providers.Logger}, nil
}

func (s *session) close(cmd *cobra.Command) {
	if err := s.providers.Shutdown(cmd.Context()); err != nil {
		s.logger.Warn("telemetry shutdown failed", "error", err)
	}
}

// printf writes to w unless quiet.
func (g *GlobalOptions) printf(w io.Writer, format string, args ...any) {
	if g.Quiet {
		return
	}

	fmt.Fprintf(w, format, args...)
}
