package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bkoning/seqprep/internal/config"
	"github.com/bkoning/seqprep/internal/history"
)

// NewHistoryCommand creates and returns the history subcommand
func NewHistoryCommand() *cobra.Command {
	var (
		configPath string
		limit      int
		inputDir   string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past discovery runs from the run-history ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			store, err := history.NewStore(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := context.Background()
			var runs []history.Run
			if inputDir != "" {
				runs, err = store.RunsForInputDir(ctx, inputDir)
			} else {
				runs, err = store.RecentRuns(ctx, limit)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No discovery runs recorded yet.")
				return nil
			}
			for _, run := range runs {
				status := "ok"
				if !run.Success {
					status = "FAILED"
				}
				fmt.Fprintf(out, "%s  %-6s  %-28s  %d sample(s)  [%s] %s\n",
					run.CreatedAt.Format("2006-01-02 15:04:05"), status,
					run.Signature, run.SampleCount, run.InputTypes, run.InputDir)
				if run.Detail != "" {
					fmt.Fprintf(out, "    %s\n", run.Detail)
				}
			}
			return nil
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "seqprep.yaml", "path to the configuration file")
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum number of runs to list")
	cmd.Flags().StringVarP(&inputDir, "input-dir", "i", "", "only list runs for this input directory")
	return cmd
}
