package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/submittal/internal/history"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	var out string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent validation runs",
		Long:  `History lists recent validation and packaging runs recorded in the local run database.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.NewStore(filepath.Join(out, historyDBName))
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-19s  %-8s  %6s  %6s  %6s  %6s  %-8s  %s\n",
				"WHEN", "STAGE", "FILES", "PAGES", "ERRS", "WARNS", "PACKAGED", "RUN")
			for _, run := range runs {
				packaged := "no"
				if run.Packaged {
					packaged = "yes"
				}
				fmt.Fprintf(w, "%-19s  %-8s  %6d  %6d  %6d  %6d  %-8s  %s\n",
					run.CreatedAt.Format("2006-01-02 15:04:05"), run.Stage,
					run.Files, run.Pages, run.Errors, run.Warnings, packaged, run.RunID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "submittal_output", "Output directory holding the history database")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")

	return cmd
}
