// Package cmd wires the seqprep command-line interface: discovering and
// validating samples in an input directory, writing the sample sheet and
// audit trail, and inspecting the history of past runs.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for seqprep
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seqprep",
		Short: "Prepare sequencing run directories for pipeline processing",
		Long: `Seqprep classifies the files in a bioinformatics run directory, groups
them per biological sample, detects which upstream pipeline (if any)
produced the directory layout, and validates that every sample carries
the complete set of input files a pipeline run requires.

A validated run produces a YAML sample sheet plus an audit trail, and is
recorded in the run-history ledger.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewDiscoverCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
