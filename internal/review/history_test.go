package review

import (
	"testing"
	"time"

	"github.com/Veraticus/nota/internal/model"
	"github.com/Veraticus/nota/internal/tui/viewmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	entries := []model.JournalEntry{
		{RecordedAt: now, Kind: model.JournalCommit, Outcome: model.OutcomeSucceeded, FileName: "a.pdf", InvoiceNumber: "123", Message: "Data saved successfully"},
		{RecordedAt: now, Kind: model.JournalAnalysis, Outcome: model.OutcomeBlocked, FileName: "b.pdf", InvoiceNumber: "123", IssuerDocument: "12.345.678/0001-90"},
		{RecordedAt: now, Kind: model.JournalAnalysis, Outcome: model.OutcomeFailed, FileName: "c.pdf"},
	}

	view := History(entries)
	require.Len(t, view.Entries, 3)

	assert.Equal(t, "COMMIT", view.Entries[0].Kind)
	assert.Equal(t, viewmodel.ToneSuccess, view.Entries[0].Tone)
	assert.Equal(t, viewmodel.Placeholder, view.Entries[0].Issuer)

	assert.Equal(t, viewmodel.ToneWarning, view.Entries[1].Tone)
	assert.Equal(t, "12.345.678/0001-90", view.Entries[1].Issuer)

	assert.Equal(t, viewmodel.ToneDanger, view.Entries[2].Tone)
	assert.Equal(t, viewmodel.Placeholder, view.Entries[2].Invoice)
}

func TestHistory_Empty(t *testing.T) {
	view := History(nil)
	assert.NotNil(t, view.Entries)
	assert.Empty(t, view.Entries)
}
