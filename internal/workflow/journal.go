package workflow

import (
	"context"
	"time"

	"github.com/Veraticus/nota/internal/common"
	"github.com/Veraticus/nota/internal/model"
	"github.com/Veraticus/nota/internal/service"
	"github.com/google/uuid"
)

// AnalysisEntry describes the outcome of an analysis for the journal.
func AnalysisEntry(doc model.Document, result *model.ExtractionResult, err error) *model.JournalEntry {
	entry := newEntry(model.JournalAnalysis, doc, result)

	switch {
	case err != nil:
		entry.Outcome = model.OutcomeFailed
		entry.Message = common.UserMessage(err)
	case result != nil && result.Validation.InvoiceExists:
		entry.Outcome = model.OutcomeBlocked
		entry.Message = "invoice already on file"
	default:
		entry.Outcome = model.OutcomeSucceeded
	}

	return entry
}

// CommitEntry describes the outcome of a commit for the journal.
func CommitEntry(doc model.Document, result *model.ExtractionResult, outcome *model.CommitOutcome, err error) *model.JournalEntry {
	entry := newEntry(model.JournalCommit, doc, result)

	if err != nil {
		entry.Outcome = model.OutcomeFailed
		entry.Message = common.UserMessage(err)
		return entry
	}

	entry.Outcome = model.OutcomeSucceeded
	if outcome != nil {
		entry.Message = outcome.Message
	}
	return entry
}

// RecordBestEffort writes entry to journal and logs failures. A nil journal
// is a no-op.
func RecordBestEffort(ctx context.Context, journal service.Journal, entry *model.JournalEntry) {
	if journal == nil || entry == nil {
		return
	}
	if err := journal.Record(ctx, entry); err != nil {
		common.LogError(err, "Failed to record journal entry", common.Fields{
			"kind": string(entry.Kind),
			"file": entry.FileName,
		})
	}
}

func newEntry(kind model.JournalKind, doc model.Document, result *model.ExtractionResult) *model.JournalEntry {
	entry := &model.JournalEntry{
		ID:         uuid.NewString(),
		RecordedAt: time.Now().UTC(),
		Kind:       kind,
		FileName:   doc.Name,
	}
	if result != nil {
		entry.InvoiceNumber = result.InvoiceNumber()
		entry.IssuerDocument = result.IssuerDocument()
		entry.Duplicate = result.Validation.InvoiceExists
	}
	return entry
}
