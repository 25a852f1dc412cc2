package viewmodel

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreen_String(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		screen Screen
	}{
		{name: "picking", screen: ScreenPicking, want: "Picking"},
		{name: "analyzing", screen: ScreenAnalyzing, want: "Analyzing"},
		{name: "reviewing", screen: ScreenReviewing, want: "Reviewing"},
		{name: "history", screen: ScreenHistory, want: "History"},
		{name: "unknown", screen: Screen(99), want: "Unknown(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.screen.String())
		})
	}
}

func TestTone_MarshalsByName(t *testing.T) {
	data, err := json.Marshal(MessageView{Text: "x", Tone: ToneDanger})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"x","tone":"danger"}`, string(data))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		amount decimal.NullDecimal
	}{
		{name: "whole", amount: decimal.NewNullDecimal(decimal.NewFromInt(500)), want: "500.00"},
		{name: "rounds", amount: decimal.NewNullDecimal(decimal.RequireFromString("10.005")), want: "10.01"},
		{name: "missing", amount: decimal.NullDecimal{}, want: Placeholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.amount))
		})
	}
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "10", FormatQuantity(decimal.NewNullDecimal(decimal.RequireFromString("10.0"))))
	assert.Equal(t, Placeholder, FormatQuantity(decimal.NullDecimal{}))
}

func TestFormatRecordID(t *testing.T) {
	assert.Equal(t, "#4", FormatRecordID(4))
	assert.Equal(t, Placeholder, FormatRecordID(0))
}

func TestOrPlaceholder(t *testing.T) {
	assert.Equal(t, Placeholder, OrPlaceholder(""))
	assert.Equal(t, Placeholder, OrPlaceholder("  \n "))
	assert.Equal(t, "Rua A, 1", OrPlaceholder("Rua A,\n1"))
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		maxLen int
	}{
		{name: "short", input: "abc", maxLen: 10, want: "abc"},
		{name: "exact", input: "abcde", maxLen: 5, want: "abcde"},
		{name: "truncated", input: "Agro Insumos Ltda", maxLen: 10, want: "Agro In..."},
		{name: "tiny limit", input: "abcdef", maxLen: 2, want: "ab"},
		{name: "multibyte", input: "João da Silva", maxLen: 7, want: "João..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateString(tt.input, tt.maxLen))
		})
	}
}

func TestSanitizeForDisplay(t *testing.T) {
	assert.Equal(t, "a b c", SanitizeForDisplay("a\x00b\r\nc"))
	assert.Equal(t, "", SanitizeForDisplay("   "))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "5s", FormatDuration(5*time.Second))
	assert.Equal(t, "2m", FormatDuration(2*time.Minute))
	assert.Equal(t, "1m 30s", FormatDuration(90*time.Second))
}

func TestReviewView_Queries(t *testing.T) {
	view := ReviewView{
		Sections: []Section{{Title: "Invoice", Rows: []Row{{Label: "Number", Value: "123"}}}},
		Messages: []MessageView{{Text: "dup", Tone: ToneDanger}},
	}

	assert.True(t, view.ShowValidation())
	assert.False(t, view.ShowPreview())
	assert.True(t, view.IsBlocked())

	section, ok := view.Section("Invoice")
	require.True(t, ok)
	value, ok := section.Value("Number")
	require.True(t, ok)
	assert.Equal(t, "123", value)

	_, ok = view.Section("Items")
	assert.False(t, ok)

	view.Preview = &PreviewView{}
	assert.False(t, view.ShowPreview())
}

func TestAppView_GetActiveKeyBindings(t *testing.T) {
	view := AppView{KeyBindings: []KeyBinding{
		{Key: "a", Description: "analyze", IsActive: true},
		{Key: "c", Description: "commit"},
	}}

	active := view.GetActiveKeyBindings()
	require.Len(t, active, 1)
	assert.Equal(t, "a", active[0].Key)
	assert.False(t, view.HasError())
}
