package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a numeric invoice field as extracted from a document. Values that
// are not numbers ("10 sacos") keep their text in Raw so they can still be
// shown.
type Amount struct {
	Raw string
	decimal.NullDecimal
}

// NewAmount returns a valid amount holding d.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{NullDecimal: decimal.NewNullDecimal(d)}
}

// ParseAmount reads s as a number, accepting both "1500.00" and the Brazilian
// "1.500,00". Anything else is kept as raw text.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}
	}

	number := strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if d, err := decimal.NewFromString(normalizeNumber(number)); err == nil {
		return NewAmount(d)
	}
	return Amount{Raw: s}
}

// normalizeNumber rewrites locale separators so the last of "," or "." is the
// decimal point.
func normalizeNumber(s string) string {
	comma := strings.LastIndex(s, ",")
	if comma < 0 {
		return s
	}
	if comma > strings.LastIndex(s, ".") {
		return strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	}
	return strings.ReplaceAll(s, ",", "")
}

// UnmarshalJSON accepts a JSON number, a numeric string, or any other text.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*a = Amount{}
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = ParseAmount(s)
		return nil
	default:
		*a = ParseAmount(string(data))
		return nil
	}
}

// MarshalJSON writes numbers the way decimal.NullDecimal does and raw text as
// a string.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid && a.Raw != "" {
		return json.Marshal(a.Raw)
	}
	return a.NullDecimal.MarshalJSON()
}

// flexText decodes a JSON value that should be a string but may arrive as a
// number or another literal.
func flexText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")):
		return "", nil
	case raw[0] == '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	default:
		return string(raw), nil
	}
}
