package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/Veraticus/nota/internal/common"
	"github.com/Veraticus/nota/internal/service"
	"github.com/Veraticus/nota/internal/tui/viewmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReview() viewmodel.ReviewView {
	return viewmodel.ReviewView{
		FileName: "nota.pdf",
		State:    "Analyzed",
		Status:   "Analysis complete",
		Sections: []viewmodel.Section{
			{Title: "Invoice", Rows: []viewmodel.Row{
				{Label: "Number", Value: "12345"},
				{Label: "Total", Value: "1500.00"},
			}},
		},
		Messages: []viewmodel.MessageView{
			{Text: "Invoice already registered", Tone: viewmodel.ToneDanger},
		},
		Commit: viewmodel.CommitControlView{Label: "Save to database"},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "text", want: FormatText},
		{in: "JSON", want: FormatJSON},
		{in: " yaml ", want: FormatYAML},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrinter_PrintReviewText(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewPrinter(&out, FormatText).PrintReview(sampleReview()))

	text := out.String()
	assert.Contains(t, text, "nota.pdf")
	assert.Contains(t, text, "Analysis complete")
	assert.Contains(t, text, "12345")
	assert.Contains(t, text, "Invoice already registered")
	assert.NotContains(t, text, "Will be created")
}

func TestPrinter_PrintReviewJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewPrinter(&out, FormatJSON).PrintReview(sampleReview()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "nota.pdf", decoded["file"])

	messages, ok := decoded["validation"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, "danger", messages[0].(map[string]any)["tone"])
	assert.NotContains(t, decoded, "preview")
}

func TestPrinter_PrintReviewYAML(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewPrinter(&out, FormatYAML).PrintReview(sampleReview()))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "nota.pdf", decoded["file"])
	assert.Contains(t, out.String(), "tone: danger")
}

func TestPrinter_PrintHistory(t *testing.T) {
	view := viewmodel.HistoryView{Entries: []viewmodel.HistoryEntryView{{
		RecordedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Kind:       "COMMIT",
		Outcome:    "SUCCEEDED",
		FileName:   "nota.pdf",
		Invoice:    "12345",
		Issuer:     "12.345.678/0001-90",
		Tone:       viewmodel.ToneSuccess,
	}}}
	stats := service.SessionStats{Analyzed: 2, Committed: 1}

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, NewPrinter(&out, FormatText).PrintHistory(view, stats))
		assert.Contains(t, out.String(), "12345")
		assert.Contains(t, out.String(), "Saved: 1")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, NewPrinter(&out, FormatJSON).PrintHistory(view, stats))

		var decoded struct {
			Stats   statsView                    `json:"stats"`
			Entries []viewmodel.HistoryEntryView `json:"entries"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, 2, decoded.Stats.Analyzed)
		require.Len(t, decoded.Entries, 1)
		assert.Equal(t, "12345", decoded.Entries[0].Invoice)
	})

	t.Run("empty json has empty list", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, NewPrinter(&out, FormatJSON).PrintHistory(viewmodel.HistoryView{}, service.SessionStats{}))
		assert.Contains(t, out.String(), `"entries": []`)
	})

	t.Run("empty text", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, NewPrinter(&out, FormatText).PrintHistory(viewmodel.HistoryView{}, stats))
		assert.Contains(t, out.String(), "Nothing recorded yet.")
	})
}

func TestPrinter_PrintStatus(t *testing.T) {
	var text, structured bytes.Buffer
	require.NoError(t, NewPrinter(&text, FormatText).PrintStatus(viewmodel.ToneSuccess, "Saved"))
	require.NoError(t, NewPrinter(&structured, FormatJSON).PrintStatus(viewmodel.ToneSuccess, "Saved"))

	assert.Contains(t, text.String(), "Saved")
	assert.Empty(t, structured.String())
}
