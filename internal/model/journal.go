package model

import "time"

// JournalKind tells which workflow step produced a journal entry.
type JournalKind string

// Journal kinds.
const (
	JournalAnalysis JournalKind = "ANALYSIS"
	JournalCommit   JournalKind = "COMMIT"
)

// JournalOutcome is the result recorded for a workflow step.
type JournalOutcome string

// Journal outcomes.
const (
	OutcomeSucceeded JournalOutcome = "SUCCEEDED"
	OutcomeFailed    JournalOutcome = "FAILED"
	OutcomeBlocked   JournalOutcome = "BLOCKED"
)

// JournalEntry is one line of the local review journal.
type JournalEntry struct {
	RecordedAt     time.Time
	ID             string
	FileName       string
	InvoiceNumber  string
	IssuerDocument string
	Message        string
	Kind           JournalKind
	Outcome        JournalOutcome
	Duplicate      bool
}
