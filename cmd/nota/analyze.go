package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/nota/internal/cli"
	"github.com/Veraticus/nota/internal/common"
	"github.com/Veraticus/nota/internal/extraction"
	"github.com/Veraticus/nota/internal/filegate"
	"github.com/Veraticus/nota/internal/model"
	"github.com/Veraticus/nota/internal/review"
	"github.com/Veraticus/nota/internal/service"
	"github.com/Veraticus/nota/internal/tui/viewmodel"
	"github.com/Veraticus/nota/internal/workflow"
	"github.com/spf13/cobra"
)

// confirmQuestion is asked before every headless save.
const confirmQuestion = "Save this invoice to the database?"

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Analyze one invoice PDF without the terminal UI",
		Long: `Upload one invoice PDF for analysis and print what was extracted, what is
already on file and what a save would create.

With --commit the result is saved after you confirm it. Invoices already on
file are never saved.

Examples:
  nota analyze nota.pdf                  # Review only
  nota analyze nota.pdf --commit         # Review, confirm, save
  nota analyze nota.pdf --commit --yes   # Save without asking
  nota analyze nota.pdf --output json    # Machine-readable review`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	// Flags
	cmd.Flags().Bool("commit", false, "Save the result after review")
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation before saving")
	cmd.Flags().StringP("output", "o", string(cli.FormatText), "Output format (text, json, yaml)")
	cmd.Flags().String("type", "", "Declared media type (default: from the file extension)")

	return cmd
}

// analyzeOptions are the headless command's choices.
type analyzeOptions struct {
	format  cli.Format
	commit  bool
	yes     bool
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	onWrite func(committing bool)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	commit, _ := cmd.Flags().GetBool("commit")
	yes, _ := cmd.Flags().GetBool("yes")
	output, _ := cmd.Flags().GetString("output")
	declaredType, _ := cmd.Flags().GetString("type")

	format, err := cli.ParseFormat(output)
	if err != nil {
		return err
	}

	doc, err := filegate.Check(args[0], declaredType)
	if err != nil {
		return err
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context())

	clientOpts := []extraction.Option{extraction.WithTimeout(settings.Server.Timeout)}
	if format == cli.FormatText {
		clientOpts = append(clientOpts, extraction.WithProgress(cli.UploadProgress(cmd.ErrOrStderr())))
	}
	client, err := extraction.New(settings.Server.URL, clientOpts...)
	if err != nil {
		return err
	}

	store, err := initJournal(ctx)
	if err != nil {
		return err
	}
	defer closeJournal(store)

	slog.Debug("Analyzing document",
		"file", doc.Path,
		"server", settings.Server.URL,
		"commit", commit)

	return analyzeDocument(ctx, client, asJournal(store), doc, analyzeOptions{
		format:  format,
		commit:  commit,
		yes:     yes,
		in:      cmd.InOrStdin(),
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		onWrite: interrupts.SetCommitting,
	})
}

// analyzeDocument analyzes doc, prints the review and, when asked, saves it.
// Structured formats print the final review once so stdout stays parseable.
func analyzeDocument(ctx context.Context, extractor service.Extractor, journal service.Journal, doc model.Document, opts analyzeOptions) error {
	runner := workflow.NewRunner(extractor, journal)
	printer := cli.NewPrinter(opts.out, opts.format)

	if err := runner.Analyze(ctx, doc); err != nil {
		return err
	}

	ctrl := runner.Controller()
	if !opts.commit || opts.format == cli.FormatText {
		if err := printer.PrintReview(review.FromController(ctrl)); err != nil {
			return fmt.Errorf("failed to print review: %w", err)
		}
	}
	if !opts.commit {
		return nil
	}

	commitErr := commitReviewed(ctx, runner, printer, opts)

	if opts.format != cli.FormatText {
		if err := printer.PrintReview(review.FromController(ctrl)); err != nil {
			return fmt.Errorf("failed to print review: %w", err)
		}
	}
	return commitErr
}

func commitReviewed(ctx context.Context, runner *workflow.Runner, printer *cli.Printer, opts analyzeOptions) error {
	ctrl := runner.Controller()
	if !ctrl.CanCommit() {
		return common.NewUserError("This invoice is already on file. Nothing was saved.", workflow.ErrCommitBlocked)
	}

	if !opts.yes {
		confirmed, err := cli.NewConfirmer(opts.in, opts.errOut).Confirm(ctx, confirmQuestion)
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			return printer.PrintStatus(viewmodel.ToneInfo, "Nothing was saved.")
		}
	}

	if opts.onWrite != nil {
		opts.onWrite(true)
		defer opts.onWrite(false)
	}

	invoice := ctrl.Result().InvoiceNumber()
	outcome, err := runner.Commit(ctx)
	if err != nil {
		return err
	}

	common.LogInfo("Invoice saved", common.Fields{
		"file":    ctrl.Document().Name,
		"invoice": invoice,
		"message": outcome.Message,
	})

	status := ctrl.Status()
	if status == "" {
		status = workflow.LabelCommitted
	}
	return printer.PrintStatus(viewmodel.ToneSuccess, status)
}
