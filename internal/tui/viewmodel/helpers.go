package viewmodel

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// String returns a string representation of the screen.
func (s Screen) String() string {
	switch s {
	case ScreenPicking:
		return "Picking"
	case ScreenAnalyzing:
		return "Analyzing"
	case ScreenReviewing:
		return "Reviewing"
	case ScreenHistory:
		return "History"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// String returns a string representation of the tone.
func (t Tone) String() string {
	switch t {
	case ToneInfo:
		return "info"
	case ToneSuccess:
		return "success"
	case ToneWarning:
		return "warning"
	case ToneDanger:
		return "danger"
	default:
		return fmt.Sprintf("unknown(%d)", t)
	}
}

// MarshalText encodes the tone by name.
func (t Tone) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tone name.
func (t *Tone) UnmarshalText(text []byte) error {
	for _, candidate := range []Tone{ToneInfo, ToneSuccess, ToneWarning, ToneDanger} {
		if candidate.String() == string(text) {
			*t = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown tone %q", text)
}

// OrPlaceholder returns s, or the placeholder when s is blank.
func OrPlaceholder(s string) string {
	s = SanitizeForDisplay(s)
	if s == "" {
		return Placeholder
	}
	return s
}

// FormatAmount formats a monetary amount with two decimals.
func FormatAmount(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return Placeholder
	}
	return amount.Decimal.StringFixed(2)
}

// FormatQuantity formats a count without trailing zeros.
func FormatQuantity(q decimal.NullDecimal) string {
	if !q.Valid {
		return Placeholder
	}
	return q.Decimal.String()
}

// FormatRecordID formats a stored record id.
func FormatRecordID(id int64) string {
	if id == 0 {
		return Placeholder
	}
	return fmt.Sprintf("#%d", id)
}

// TruncateString truncates a string to the specified number of runes with ellipsis.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// SanitizeForDisplay removes potentially problematic characters for terminal display.
func SanitizeForDisplay(s string) string {
	// Remove control characters and normalize whitespace
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return ' '
		}
		return r
	}, s)

	return strings.Join(strings.Fields(s), " ")
}

// FormatDate formats a timestamp for consistent display.
func FormatDate(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// FormatDuration formats a duration in human-readable form.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	if seconds > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%dm", minutes)
}
