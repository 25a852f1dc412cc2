package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Veraticus/nota/internal/extraction"
	"github.com/Veraticus/nota/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryJournal struct {
	err     error
	entries []model.JournalEntry
	mu      sync.Mutex
}

func (j *memoryJournal) Record(_ context.Context, entry *model.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.entries = append(j.entries, *entry)
	return nil
}

func (j *memoryJournal) Recent(_ context.Context, limit int) ([]model.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if limit > len(j.entries) {
		limit = len(j.entries)
	}
	return append([]model.JournalEntry(nil), j.entries[:limit]...), nil
}

func (j *memoryJournal) Migrate(context.Context) error { return nil }
func (j *memoryJournal) Close() error                  { return nil }

func TestRunner_AnalyzeAndCommit(t *testing.T) {
	mock := extraction.NewMockExtractor(cleanResult())
	journal := &memoryJournal{}
	r := NewRunner(mock, journal)
	ctx := context.Background()

	require.NoError(t, r.Analyze(ctx, testDoc("nota.pdf")))
	assert.Equal(t, StateReviewing, r.Controller().State())

	outcome, err := r.Commit(ctx)
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, StateCommitted, r.Controller().State())
	assert.Equal(t, LabelCommitted, r.Controller().CommitLabel())

	require.Len(t, mock.Committed(), 1)
	assert.Same(t, r.Controller().Result(), mock.Committed()[0])

	require.Len(t, journal.entries, 2)
	assert.Equal(t, model.JournalAnalysis, journal.entries[0].Kind)
	assert.Equal(t, model.OutcomeSucceeded, journal.entries[0].Outcome)
	assert.Equal(t, "123", journal.entries[0].InvoiceNumber)
	assert.Equal(t, model.JournalCommit, journal.entries[1].Kind)
	assert.Equal(t, "Data saved successfully", journal.entries[1].Message)
}

func TestRunner_SecondCommitDoesNotReachServer(t *testing.T) {
	mock := extraction.NewMockExtractor(cleanResult())
	r := NewRunner(mock, nil)
	ctx := context.Background()

	require.NoError(t, r.Analyze(ctx, testDoc("nota.pdf")))
	_, err := r.Commit(ctx)
	require.NoError(t, err)

	_, err = r.Commit(ctx)
	assert.ErrorIs(t, err, ErrAlreadyCommitted)
	assert.Equal(t, 1, mock.CommitCalls())
}

func TestRunner_AnalyzeFailure(t *testing.T) {
	mock := extraction.NewMockExtractor(nil)
	mock.AnalyzeErr = errors.New("connection refused")
	journal := &memoryJournal{}
	r := NewRunner(mock, journal)

	err := r.Analyze(context.Background(), testDoc("nota.pdf"))
	require.Error(t, err)

	ctrl := r.Controller()
	assert.Equal(t, StateIdle, ctrl.State())
	assert.Equal(t, mock.AnalyzeErr, ctrl.LastError())
	assert.True(t, ctrl.Interpretation().Preview.IsEmpty())
	assert.False(t, ctrl.CanCommit())

	require.Len(t, journal.entries, 1)
	assert.Equal(t, model.OutcomeFailed, journal.entries[0].Outcome)
	assert.Equal(t, "connection refused", journal.entries[0].Message)
}

func TestRunner_BlockedCommitMakesNoRequest(t *testing.T) {
	mock := extraction.NewMockExtractor(duplicateResult())
	journal := &memoryJournal{}
	r := NewRunner(mock, journal)
	ctx := context.Background()

	require.NoError(t, r.Analyze(ctx, testDoc("nota.pdf")))
	_, err := r.Commit(ctx)

	assert.ErrorIs(t, err, ErrCommitBlocked)
	assert.Zero(t, mock.CommitCalls())
	require.Len(t, journal.entries, 1)
	assert.Equal(t, model.OutcomeBlocked, journal.entries[0].Outcome)
	assert.True(t, journal.entries[0].Duplicate)
}

func TestRunner_CommitFailureKeepsResult(t *testing.T) {
	mock := extraction.NewMockExtractor(cleanResult())
	mock.CommitErr = &extraction.Failure{Op: extraction.OpCommit, Message: "database locked", Err: extraction.ErrServer}
	r := NewRunner(mock, &memoryJournal{})
	ctx := context.Background()

	require.NoError(t, r.Analyze(ctx, testDoc("nota.pdf")))
	_, err := r.Commit(ctx)
	require.ErrorIs(t, err, extraction.ErrServer)

	assert.Equal(t, StateReviewing, r.Controller().State())
	assert.True(t, r.Controller().CanCommit())

	mock.CommitErr = nil
	_, err = r.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.CommitCalls())
}

func TestRunner_JournalFailureIsNotFatal(t *testing.T) {
	mock := extraction.NewMockExtractor(cleanResult())
	r := NewRunner(mock, &memoryJournal{err: errors.New("disk full")})

	require.NoError(t, r.Analyze(context.Background(), testDoc("nota.pdf")))
	assert.Equal(t, StateReviewing, r.Controller().State())
}
