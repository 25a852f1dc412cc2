package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/nota/internal/model"
	"github.com/Veraticus/nota/internal/workflow"
	tea "github.com/charmbracelet/bubbletea"
)

// analyze sends doc to the server. The command only sees values captured
// here; the controller is updated when the reply reaches Update.
func (m Model) analyze(doc model.Document, token workflow.Token) tea.Cmd {
	extractor := m.config.Extractor
	journal := m.config.Journal
	timeout := m.config.RequestTimeout

	return func() tea.Msg {
		if extractor == nil {
			return analysisDoneMsg{token: token, err: fmt.Errorf("analysis server not configured")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result, err := extractor.Analyze(ctx, doc)
		workflow.RecordBestEffort(ctx, journal, workflow.AnalysisEntry(doc, result, err))

		return analysisDoneMsg{token: token, result: result, err: err}
	}
}

// commit sends result to the server.
func (m Model) commit(doc model.Document, result *model.ExtractionResult, token workflow.Token) tea.Cmd {
	extractor := m.config.Extractor
	journal := m.config.Journal
	timeout := m.config.RequestTimeout

	return func() tea.Msg {
		if extractor == nil {
			return commitDoneMsg{token: token, err: fmt.Errorf("analysis server not configured")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		outcome, err := extractor.Commit(ctx, result)
		workflow.RecordBestEffort(ctx, journal, workflow.CommitEntry(doc, result, outcome, err))

		return commitDoneMsg{token: token, outcome: outcome, err: err}
	}
}

// loadHistory reads the most recent journal entries.
func (m Model) loadHistory() tea.Cmd {
	journal := m.config.Journal
	limit := m.config.HistoryLimit

	return func() tea.Msg {
		if journal == nil {
			return historyLoadedMsg{}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		entries, err := journal.Recent(ctx, limit)
		return historyLoadedMsg{entries: entries, err: err}
	}
}
