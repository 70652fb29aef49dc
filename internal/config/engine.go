package config

import (
	"fmt"
	"log/slog"

	"github.com/Sumatoshi-tech/nsmigrate/pkg/migrate"
	"github.com/Sumatoshi-tech/nsmigrate/pkg/rules"
)

// Engine is the shared, read-only part of a migration: everything except
// the per-worker RuleDriver.
type Engine struct {
	Table    *migrate.PolicyTable
	Gate     *migrate.PathGate
	Rewriter *migrate.ReferenceRewriter
}

// RulesFile resolves the rule source: rules.file, then inline
// rules.mappings, then rules.Default().
func (c *Config) RulesFile() (rules.File, error) {
	switch {
	case c.Rules.File != "":
		return rules.Load(c.Rules.File)
	case len(c.Rules.Mappings) > 0:
		return rules.File{Mappings: c.Rules.Mappings}, nil
	default:
		return rules.Default(), nil
	}
}

// Engine builds the engine described by the configuration.
func (c *Config) Engine() (*Engine, error) {
	rf, err := c.RulesFile()
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	table, err := rf.Table()
	if err != nil {
		return nil, fmt.Errorf("build rules: %w", err)
	}

	namer, err := migrate.ShortNamerByName(c.Rewrite.ShortName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShortName, err)
	}

	gate := migrate.NewPathGate(c.Gate.Markers...)

	relocator := migrate.NewDeclarationRelocator(gate, c.Relocation.NamespaceRoot)
	if c.Relocation.BaseDir != "" {
		relocator.BaseDir = c.Relocation.BaseDir
	}

	if c.Relocation.Extension != "" {
		relocator.Extension = c.Relocation.Extension
	}

	return &Engine{
		Table:    table,
		Gate:     gate,
		Rewriter: migrate.NewReferenceRewriter(nil, relocator, migrate.WithShortNamer(namer)),
	}, nil
}

// NewDriver returns a RuleDriver over the shared engine. Each goroutine
// needs its own.
func (e *Engine) NewDriver(logger *slog.Logger) *migrate.RuleDriver {
	return migrate.NewRuleDriver(e.Table, e.Gate, e.Rewriter, migrate.WithLogger(logger))
}
