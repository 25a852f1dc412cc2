package review

import (
	"github.com/Veraticus/nota/internal/model"
	"github.com/Veraticus/nota/internal/tui/viewmodel"
)

// History projects journal entries, newest first as given, into the view model.
func History(entries []model.JournalEntry) viewmodel.HistoryView {
	view := viewmodel.HistoryView{Entries: make([]viewmodel.HistoryEntryView, 0, len(entries))}
	for _, e := range entries {
		view.Entries = append(view.Entries, viewmodel.HistoryEntryView{
			RecordedAt: e.RecordedAt,
			Kind:       string(e.Kind),
			Outcome:    string(e.Outcome),
			FileName:   viewmodel.OrPlaceholder(e.FileName),
			Invoice:    viewmodel.OrPlaceholder(e.InvoiceNumber),
			Issuer:     viewmodel.OrPlaceholder(e.IssuerDocument),
			Message:    e.Message,
			Tone:       outcomeTone(e.Outcome),
		})
	}
	return view
}

func outcomeTone(o model.JournalOutcome) viewmodel.Tone {
	switch o {
	case model.OutcomeSucceeded:
		return viewmodel.ToneSuccess
	case model.OutcomeBlocked:
		return viewmodel.ToneWarning
	case model.OutcomeFailed:
		return viewmodel.ToneDanger
	default:
		return viewmodel.ToneInfo
	}
}
