package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stealthspanner/internal/report"
	pkgerrors "stealthspanner/pkg/errors"
)

var historyCmd = &cobra.Command{
	Use:   "history <host>",
	Short: "Show recent probe results for a host",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		host := args[0]
		limit, _ := cmd.Flags().GetInt("limit")

		outcomes, err := appInstance.Storage.GetHostHistory(context.Background(), host, limit)
		if err != nil {
			return err
		}
		if len(outcomes) == 0 {
			fmt.Printf("No history recorded for %s\n", host)
			return nil
		}

		report.RenderHistory(os.Stdout, host, outcomes)
		return nil
	},
}

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the results of the most recent run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		run, err := appInstance.Storage.GetLatestRun(ctx)
		if errors.Is(err, pkgerrors.ErrNoHistory) {
			fmt.Println("No runs recorded yet")
			return nil
		}
		if err != nil {
			return err
		}
		outcomes, err := appInstance.Storage.GetRunOutcomes(ctx, run.ID)
		if err != nil {
			return err
		}

		fmt.Printf("Run #%d (%s, %s strategy) finished %s: %d tested, %d succeeded\n",
			run.ID, run.Provider, run.Strategy,
			run.FinishedAt.Format("2006-01-02 15:04:05"),
			run.Tested, run.Succeeded)
		report.RenderHistory(os.Stdout, "", outcomes)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "maximum number of entries to show")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(lastCmd)
}
