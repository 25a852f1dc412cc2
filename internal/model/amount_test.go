package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantRaw string
		valid   bool
	}{
		{name: "number", input: `1500.5`, valid: true, want: "1500.50"},
		{name: "numeric string", input: `"2"`, valid: true, want: "2.00"},
		{name: "brazilian format", input: `"1.500,00"`, valid: true, want: "1500.00"},
		{name: "currency prefix", input: `"R$ 1.234,56"`, valid: true, want: "1234.56"},
		{name: "thousands comma", input: `"1,500.00"`, valid: true, want: "1500.00"},
		{name: "text", input: `"10 sacos"`, wantRaw: "10 sacos"},
		{name: "blank", input: `"  "`},
		{name: "null", input: `null`},
		{name: "boolean", input: `true`, wantRaw: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			require.NoError(t, json.Unmarshal([]byte(tt.input), &a))

			assert.Equal(t, tt.valid, a.Valid)
			assert.Equal(t, tt.wantRaw, a.Raw)
			if tt.valid {
				assert.Equal(t, tt.want, a.Decimal.StringFixed(2))
			}
		})
	}
}

func TestAmount_MarshalJSONKeepsText(t *testing.T) {
	out, err := json.Marshal(Items{Quantity: ParseAmount("10 sacos"), Total: ParseAmount("1.500,00")})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "10 sacos", decoded["quantidade"])
	assert.Equal(t, "1500", decoded["valor_total"])
	assert.Nil(t, decoded["parcelas"])
}

func TestParseExtractionResult_ToleratesFieldTypes(t *testing.T) {
	tests := []struct {
		check func(t *testing.T, r *ExtractionResult)
		name  string
		input string
	}{
		{
			name:  "numeric invoice number",
			input: `{"nota_fiscal": {"numero": 123456, "serie": "1"}, "validacoes": {}}`,
			check: func(t *testing.T, r *ExtractionResult) {
				require.NotNil(t, r.Invoice)
				assert.Equal(t, "123456", r.Invoice.Number)
				assert.Equal(t, "1", r.Invoice.Series)
				assert.Equal(t, "123456", r.InvoiceNumber())
			},
		},
		{
			name:  "brazilian total",
			input: `{"itens": {"valor_total": "1.500,00"}, "validacoes": {}}`,
			check: func(t *testing.T, r *ExtractionResult) {
				require.NotNil(t, r.Items)
				assert.True(t, r.Items.Total.Valid)
				assert.Equal(t, "1500.00", r.Items.Total.Decimal.StringFixed(2))
			},
		},
		{
			name:  "quantity with unit",
			input: `{"itens": {"quantidade": "10 sacos", "parcelas": 3}, "validacoes": {}}`,
			check: func(t *testing.T, r *ExtractionResult) {
				require.NotNil(t, r.Items)
				assert.False(t, r.Items.Quantity.Valid)
				assert.Equal(t, "10 sacos", r.Items.Quantity.Raw)
				assert.Equal(t, "3", r.Items.Installments.Decimal.String())
			},
		},
		{
			name:  "numeric number on matched record",
			input: `{"validacoes": {"nota_fiscal_existe": true, "detalhes": {"nota_fiscal": {"id": 4, "numero": 77, "valor_total": 10}}}}`,
			check: func(t *testing.T, r *ExtractionResult) {
				require.NotNil(t, r.Validation.Details.Invoice)
				assert.Equal(t, "77", r.Validation.Details.Invoice.Number)
				assert.Equal(t, int64(4), r.Validation.Details.Invoice.ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseExtractionResult([]byte(tt.input))
			require.NoError(t, err)
			tt.check(t, result)
		})
	}
}
