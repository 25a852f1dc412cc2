package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/nota/internal/cli"
	"github.com/Veraticus/nota/internal/common"
	"github.com/Veraticus/nota/internal/review"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent analyses and saves",
		Long: `List the most recent entries of the local review journal, newest first,
with a summary of the period they cover.

Examples:
  nota history                # Last 20 entries, last 7 days summary
  nota history --limit 50     # Last 50 entries
  nota history --since 720h   # Summary of the last 30 days`,
		RunE: runHistory,
	}

	cmd.Flags().IntP("limit", "n", 20, "Number of entries to show")
	cmd.Flags().Duration("since", 7*24*time.Hour, "Summary period")
	cmd.Flags().StringP("output", "o", string(cli.FormatText), "Output format (text, json, yaml)")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")
	since, _ := cmd.Flags().GetDuration("since")
	output, _ := cmd.Flags().GetString("output")

	if limit <= 0 {
		return common.NewUserError("--limit must be positive", common.ErrInvalidConfig)
	}
	format, err := cli.ParseFormat(output)
	if err != nil {
		return err
	}

	store, err := initJournal(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return common.NewUserError("The review journal is disabled (journal.enabled: false).", common.ErrMissingConfig)
	}
	defer closeJournal(store)

	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	stats, err := store.Stats(ctx, time.Now().Add(-since))
	if err != nil {
		return err
	}

	return cli.NewPrinter(cmd.OutOrStdout(), format).PrintHistory(review.History(entries), stats)
}
