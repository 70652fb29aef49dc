package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/nsmigrate/internal/runner"
	"github.com/Sumatoshi-tech/nsmigrate/pkg/observability"
)

// ErrFilesFailed is returned when some files could not be migrated.
var ErrFilesFailed = errors.New("files failed to migrate")

// RunCommand holds the flags of the run command.
type RunCommand struct {
	globals *GlobalOptions

	dryRun      bool
	showDiff    bool
	noColor     bool
	workers     int
	include     []string
	exclude     []string
	metricsFile string
}

// NewRunCommand creates the run command.
func NewRunCommand(globals *GlobalOptions) *cobra.Command {
	rc := &RunCommand{globals: globals}

	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Migrate legacy class names to namespaces",
		Long: `Rewrite legacy prefixed class names in PHP files to namespaced ones.

Uses are replaced with fully qualified names. Declarations are renamed, get
a namespace statement and their file moves under the relocation base dir.
Only files whose path contains a gate marker are touched.`,
		RunE: rc.run,
	}

	cmd.Flags().BoolVarP(&rc.dryRun, "dry-run", "n", false, "compute changes without writing files")
	cmd.Flags().BoolVar(&rc.showDiff, "diff", false, "print a unified diff of every changed file")
	cmd.Flags().BoolVar(&rc.noColor, "no-color", false, "disable colored diff output")
	cmd.Flags().IntVar(&rc.workers, "workers", 0, "number of parallel workers (0 = use CPU count)")
	cmd.Flags().StringSliceVar(&rc.include, "include", nil, "only process files matching these globs")
	cmd.Flags().StringSliceVar(&rc.exclude, "exclude", nil, "skip files matching these globs")
	cmd.Flags().StringVar(&rc.metricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")

	return cmd
}

func (rc *RunCommand) run(cmd *cobra.Command, args []string) error {
	mode := observability.ModeApply
	if rc.dryRun {
		mode = observability.ModeDryRun
	}

	sess, err := rc.globals.open(cmd, mode)
	if err != nil {
		return err
	}
	defer sess.close(cmd)

	cfg := sess.cfg
	flags := cmd.Flags()

	if flags.Changed("dry-run") {
		cfg.Run.DryRun = rc.dryRun
	}

	if flags.Changed("workers") {
		cfg.Run.Workers = rc.workers
	}

	if flags.Changed("include") {
		cfg.Run.Include = rc.include
	}

	if flags.Changed("exclude") {
		cfg.Run.Exclude = rc.exclude
	}

	if flags.Changed("metrics-file") {
		cfg.Metrics.File = rc.metricsFile
	}

	if rc.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	engine, err := cfg.Engine()
	if err != nil {
		return err
	}

	metrics, err := observability.NewMigrationMetrics(sess.providers.Meter)
	if err != nil {
		return err
	}

	r, err := runner.New(runner.Options{
		Engine:  engine,
		Workers: cfg.Run.Workers,
		Include: cfg.Run.Include,
		Exclude: cfg.Run.Exclude,
		DryRun:  cfg.Run.DryRun,
		Logger:  sess.logger,
		Tracer:  sess.providers.Tracer,
		Metrics: metrics,
	})
	if err != nil {
		return err
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	report, runErr := r.Run(cmd.Context(), roots)

	if report != nil {
		out := cmd.OutOrStdout()

		if rc.showDiff {
			for _, res := range report.ChangedResults() {
				writeDiff(out, res.Diff())
			}
		}

		if !rc.globals.Quiet {
			writeSummary(out, report, cfg.Run.DryRun)
		}
	}

	if cfg.Metrics.File != "" {
		if err := sess.providers.WriteTextfile(cfg.Metrics.File); err != nil {
			sess.logger.Warn("metrics not written", "error", err)
		}
	}

	if runErr != nil {
		return runErr
	}

	if report.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrFilesFailed, report.Failed, report.Files)
	}

	return nil
}
