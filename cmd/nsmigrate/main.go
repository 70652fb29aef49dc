// Package main provides the entry point for the nsmigrate CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/nsmigrate/cmd/nsmigrate/commands"
	"github.com/Sumatoshi-tech/nsmigrate/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	globals := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "nsmigrate",
		Short: "nsmigrate - move legacy prefixed PHP classes into namespaces",
		Long: `nsmigrate rewrites legacy prefixed class names (JFormFieldText) into
namespaced ones (\Acme\Example\Administrator\Field\TextField).

Commands:
  run       Migrate files in place, or preview with --dry-run --diff
  explain   Show the decision for one class name`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	globals.Register(rootCmd)

	rootCmd.AddCommand(commands.NewRunCommand(globals))
	rootCmd.AddCommand(commands.NewExplainCommand(globals))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nsmigrate %s\n", version.String())
		},
	}
}
