package tui

import (
	"github.com/Veraticus/nota/internal/model"
	"github.com/Veraticus/nota/internal/workflow"
)

// Request replies. Each carries the token it was issued with so the
// controller can drop replies to superseded requests.
type analysisDoneMsg struct {
	err    error
	result *model.ExtractionResult
	token  workflow.Token
}

type commitDoneMsg struct {
	err     error
	outcome *model.CommitOutcome
	token   workflow.Token
}

// Data loading messages.
type historyLoadedMsg struct {
	err     error
	entries []model.JournalEntry
}

// analyzeInitialMsg starts the analysis of the file given on start-up.
type analyzeInitialMsg struct{}
