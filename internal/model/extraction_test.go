package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const analysisResponse = `{
	"emitente": {"razao_social": "Agro Insumos Ltda", "cnpj": "12.345.678/0001-90", "endereco": "Rua A, 1"},
	"itens": {"descricao_produtos": "Fertilizante NPK 20-05-20", "quantidade": 10, "parcelas": "2", "valor_total": 1500.5},
	"classificacoes": ["INSUMOS AGRÍCOLAS"],
	"validacoes": {
		"emitente_existe": false,
		"remetente_existe": true,
		"nota_fiscal_existe": false,
		"classificacoes_existem": [{"id": 3, "nome": "INSUMOS AGRÍCOLAS", "descricao": null}],
		"classificacoes_novas": [],
		"detalhes": {"remetente": {"id": 9, "razao_social": "João Silva", "documento": "123.456.789-00", "tipo": "CLIENTE"}},
		"dados_novos": {
			"emitente": {"razao_social": "Agro Insumos Ltda", "cnpj": "12.345.678/0001-90"},
			"remetente": null,
			"nota_fiscal": {"numero": "000123", "serie": "1", "data_emissao": "15/01/2024"},
			"classificacoes_novas": []
		}
	},
	"dados_originais": {"nota_fiscal": {"numero": "000123"}, "unknown_field": true}
}`

func TestParseExtractionResult(t *testing.T) {
	result, err := ParseExtractionResult([]byte(analysisResponse))
	require.NoError(t, err)

	require.NotNil(t, result.Issuer)
	assert.Equal(t, "Agro Insumos Ltda", result.Issuer.LegalName)
	assert.Nil(t, result.Sender, "sender is filtered out by the server when on file")
	assert.Nil(t, result.Invoice)

	require.NotNil(t, result.Items)
	assert.True(t, result.Items.Total.Valid)
	assert.Equal(t, "1500.50", result.Items.Total.Decimal.StringFixed(2))
	assert.Equal(t, "2", result.Items.Installments.Decimal.String())

	v := result.Validation
	assert.False(t, v.IssuerExists)
	assert.True(t, v.SenderExists)
	require.NotNil(t, v.Details.Sender)
	assert.Equal(t, int64(9), v.Details.Sender.ID)
	require.Len(t, v.KnownClassifications, 1)
	assert.Equal(t, "INSUMOS AGRÍCOLAS", v.KnownClassifications[0].Name)
	assert.Nil(t, v.NewEntities.Sender)
	require.NotNil(t, v.NewEntities.Invoice)
	assert.Equal(t, "000123", v.NewEntities.Invoice.Number)
}

func TestParseExtractionResult_Invalid(t *testing.T) {
	_, err := ParseExtractionResult([]byte(`{"validacoes": [}`))
	require.Error(t, err)
}

func TestExtractionResult_PayloadKeepsReceivedBytes(t *testing.T) {
	result, err := ParseExtractionResult([]byte(analysisResponse))
	require.NoError(t, err)

	payload, err := result.Payload()
	require.NoError(t, err)
	assert.JSONEq(t, analysisResponse, string(payload))

	// mutating the returned slice must not leak into the result
	payload[0] = 'X'
	again, err := result.Payload()
	require.NoError(t, err)
	assert.Equal(t, byte('{'), again[0])
}

func TestExtractionResult_PayloadWithoutRaw(t *testing.T) {
	result := &ExtractionResult{
		Invoice: &InvoiceHeader{Number: "42"},
	}

	payload, err := result.Payload()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Contains(t, decoded, "nota_fiscal")
	assert.Contains(t, decoded, "validacoes")
}

func TestExtractionResult_InvoiceNumber(t *testing.T) {
	tests := []struct {
		name   string
		result ExtractionResult
		want   string
	}{
		{
			name:   "top level header",
			result: ExtractionResult{Invoice: &InvoiceHeader{Number: "1"}},
			want:   "1",
		},
		{
			name: "matched record",
			result: ExtractionResult{Validation: ValidationReport{
				Details: ValidationDetails{Invoice: &InvoiceMatch{Number: "2"}},
			}},
			want: "2",
		},
		{
			name: "new entity projection",
			result: ExtractionResult{Validation: ValidationReport{
				NewEntities: NewEntities{Invoice: &InvoiceHeader{Number: "3"}},
			}},
			want: "3",
		},
		{
			name: "nothing known",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.InvoiceNumber())
		})
	}
}

func TestValidationReport_CreatedClassificationNames(t *testing.T) {
	report := ValidationReport{NewClassifications: []string{"FRETE"}}
	assert.Equal(t, []string{"FRETE"}, report.CreatedClassificationNames())

	report.CreatedClassifications = []ClassificationRecord{{ID: 7, Name: "FRETE E TRANSPORTE"}}
	assert.Equal(t, []string{"FRETE E TRANSPORTE"}, report.CreatedClassificationNames())
}

func TestSaveResult_Failed(t *testing.T) {
	no := false
	yes := true

	assert.False(t, (*SaveResult)(nil).Failed())
	assert.False(t, (&SaveResult{}).Failed())
	assert.False(t, (&SaveResult{Success: &yes}).Failed())
	assert.True(t, (&SaveResult{Success: &no, Error: "constraint"}).Failed())
}
