package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/nsmigrate/pkg/migrate"
	"github.com/Sumatoshi-tech/nsmigrate/pkg/observability"
)

// defaultExplainPath passes the default path gate.
const defaultExplainPath = "./models/fields/example.php"

// ExplainCommand holds the flags of the explain command.
type ExplainCommand struct {
	globals *GlobalOptions

	path string
	kind string
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(globals *GlobalOptions) *cobra.Command {
	ec := &ExplainCommand{globals: globals}

	cmd := &cobra.Command{
		Use:   "explain NAME",
		Short: "Show what the rules do with one class name",
		Long: `Show the decision for a single class name without touching any file.

The name is considered as if it appeared in --path, as a use or as a
declaration depending on --kind.`,
		Args: cobra.ExactArgs(1),
		RunE: ec.run,
	}

	cmd.Flags().StringVar(&ec.path, "path", defaultExplainPath, "file the name is considered in")
	cmd.Flags().StringVar(&ec.kind, "kind", migrate.KindUse.String(), "reference kind: use or declaration")

	return cmd
}

func (ec *ExplainCommand) run(cmd *cobra.Command, args []string) error {
	kind, err := migrate.ParseReferenceKind(ec.kind)
	if err != nil {
		return err
	}

	sess, err := ec.globals.open(cmd, observability.ModeExplain)
	if err != nil {
		return err
	}
	defer sess.close(cmd)

	engine, err := sess.cfg.Engine()
	if err != nil {
		return err
	}

	name := args[0]
	ref := migrate.SymbolicReference{Name: name, Kind: kind, FilePath: ec.path}

	decision := engine.NewDriver(sess.logger).ConsiderNode(ref, ec.path)

	writeDecision(cmd.OutOrStdout(), engine.Table, ref, decision)

	return nil
}

func writeDecision(w io.Writer, table *migrate.PolicyTable, ref migrate.SymbolicReference, decision migrate.RewriteDecision) {
	switch dec := decision.(type) {
	case migrate.ReplaceNode:
		fmt.Fprintf(w, "%s -> %s\n", ref.Name, dec.Node.Source())
	case migrate.RelocateDeclaration:
		fmt.Fprintf(w, "%s -> class %s in namespace %s\n", ref.Name, dec.ShortName, dec.Namespace)
		fmt.Fprintf(w, "file: %s -> %s\n", ref.FilePath, dec.FilePath)
	case migrate.NoChange:
		fmt.Fprintf(w, "%s unchanged (%s)", ref.Name, migrate.ReasonLabel(dec))

		if dec.Reason != nil {
			fmt.Fprintf(w, ": %v", dec.Reason)
		}

		fmt.Fprintln(w)

		return
	}

	if m, ok := table.Resolve(ref.Name); ok {
		fmt.Fprintf(w, "mapping: %s\n", m)
	}
}
