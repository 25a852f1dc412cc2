package model

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationReport is the server's verdict on which referenced entities are
// already stored and which would be created.
type ValidationReport struct {
	KnownClassifications   []ClassificationRecord `json:"classificacoes_existem"`
	NewClassifications     []string               `json:"classificacoes_novas"`
	CreatedClassifications []ClassificationRecord `json:"classificacoes_criadas,omitempty"`
	Details                ValidationDetails      `json:"detalhes"`
	NewEntities            NewEntities            `json:"dados_novos"`
	IssuerExists           bool                   `json:"emitente_existe"`
	SenderExists           bool                   `json:"remetente_existe"`
	InvoiceExists          bool                   `json:"nota_fiscal_existe"`
}

// ValidationDetails holds the matched record for each *Exists flag that is true.
type ValidationDetails struct {
	Issuer  *PartyMatch   `json:"emitente,omitempty"`
	Sender  *PartyMatch   `json:"remetente,omitempty"`
	Invoice *InvoiceMatch `json:"nota_fiscal,omitempty"`
}

// PartyMatch is a stored person or company that matched an extracted party.
type PartyMatch struct {
	Name     string `json:"razao_social"`
	Document string `json:"documento"`
	Kind     string `json:"tipo"`
	ID       int64  `json:"id"`
}

// InvoiceMatch is a stored invoice that resolves the extracted natural key.
type InvoiceMatch struct {
	Total       decimal.NullDecimal `json:"valor_total"`
	Number      string              `json:"numero"`
	IssueDate   string              `json:"data_emissao"`
	Description string              `json:"descricao"`
	ID          int64               `json:"id"`
}

// UnmarshalJSON accepts a numeric invoice number as its digits.
func (m *InvoiceMatch) UnmarshalJSON(data []byte) error {
	type match InvoiceMatch
	aux := struct {
		*match
		Number json.RawMessage `json:"numero"`
	}{match: (*match)(m)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	number, err := flexText(aux.Number)
	if err != nil {
		return fmt.Errorf("invalid invoice number: %w", err)
	}
	m.Number = number
	return nil
}

// ClassificationRecord is a stored classification tag.
type ClassificationRecord struct {
	Name        string `json:"nome"`
	Description string `json:"descricao"`
	ID          int64  `json:"id"`
}

// NewEntities is the server's projection of entities that are candidates for
// creation on commit.
type NewEntities struct {
	Issuer          *Issuer        `json:"emitente"`
	Sender          *Sender        `json:"remetente"`
	Invoice         *InvoiceHeader `json:"nota_fiscal"`
	Classifications []string       `json:"classificacoes_novas"`
}

// CreatedClassificationNames returns the names of classifications created
// during analysis, preferring the stored records when present.
func (v ValidationReport) CreatedClassificationNames() []string {
	if len(v.CreatedClassifications) > 0 {
		names := make([]string, 0, len(v.CreatedClassifications))
		for _, c := range v.CreatedClassifications {
			names = append(names, c.Name)
		}
		return names
	}
	return v.NewClassifications
}
