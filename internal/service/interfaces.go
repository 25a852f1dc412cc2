// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/nota/internal/model"
)

// Extractor is the contract for the remote analysis server.
type Extractor interface {
	// Analyze uploads a document and returns the structured extraction.
	Analyze(ctx context.Context, doc model.Document) (*model.ExtractionResult, error)
	// Commit submits a previously analyzed result for persistence.
	Commit(ctx context.Context, result *model.ExtractionResult) (*model.CommitOutcome, error)
}

// Journal records what happened to each reviewed document.
type Journal interface {
	Record(ctx context.Context, entry *model.JournalEntry) error
	Recent(ctx context.Context, limit int) ([]model.JournalEntry, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// SessionStats summarizes a review session.
type SessionStats struct {
	Analyzed  int
	Failed    int
	Blocked   int
	Committed int
}
