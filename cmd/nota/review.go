package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/nota/internal/extraction"
	"github.com/Veraticus/nota/internal/tui"
	"github.com/Veraticus/nota/internal/tui/themes"
	"github.com/spf13/cobra"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review [FILE]",
		Short: "Review invoices in the terminal UI",
		Long: `Open the interactive review screen. Pick a PDF, inspect the extracted data
and the validation report, and save it after confirming.

Examples:
  nota review              # Start in the file picker
  nota review nota.pdf     # Analyze nota.pdf right away`,
		Args: cobra.MaximumNArgs(1),
		RunE: runReview,
	}

	cmd.Flags().String("theme", "", "Color theme (default, catppuccin-mocha)")
	cmd.Flags().String("dir", "", "Directory the file picker starts in")

	return cmd
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// The alternate screen owns the terminal, so logs go to a file.
	logFile, err := openLogFile(settings.Logging.File)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	if err := setupLogging(logFile); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	theme := settings.UI.Theme
	if flagTheme, _ := cmd.Flags().GetString("theme"); flagTheme != "" {
		theme = flagTheme
	}
	startDir := settings.UI.StartDir
	if flagDir, _ := cmd.Flags().GetString("dir"); flagDir != "" {
		startDir = flagDir
	}

	client, err := extraction.New(settings.Server.URL, extraction.WithTimeout(settings.Server.Timeout))
	if err != nil {
		return err
	}

	store, err := initJournal(ctx)
	if err != nil {
		return err
	}
	defer closeJournal(store)

	opts := []tui.Option{
		tui.WithExtractor(client),
		tui.WithTheme(themes.GetTheme(theme)),
		tui.WithStartDir(startDir),
		tui.WithRequestTimeout(settings.Server.Timeout + 5*time.Second),
	}
	if journal := asJournal(store); journal != nil {
		opts = append(opts, tui.WithJournal(journal))
	}
	if len(args) == 1 {
		opts = append(opts, tui.WithInitialFile(args[0]))
	}

	slog.Info("Starting review session",
		"server", settings.Server.URL,
		"journal", settings.Journal.Enabled,
		"theme", theme)

	return tui.Run(ctx, opts...)
}
