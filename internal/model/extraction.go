// Package model defines the core domain models used throughout the application.
package model

import (
	"encoding/json"
	"fmt"
)

// Issuer is the party that billed the invoice (the "emitente").
type Issuer struct {
	LegalName string `json:"razao_social,omitempty"`
	TradeName string `json:"nome_fantasia,omitempty"`
	CNPJ      string `json:"cnpj,omitempty"`
	Address   string `json:"endereco,omitempty"`
}

// Sender is the counterparty named on the invoice (the "remetente").
type Sender struct {
	FullName string `json:"nome_completo,omitempty"`
	Document string `json:"cpf_ou_cnpj,omitempty"`
	Address  string `json:"endereco,omitempty"`
}

// InvoiceHeader identifies the invoice document itself.
type InvoiceHeader struct {
	Number    string `json:"numero,omitempty"`
	Series    string `json:"serie,omitempty"`
	IssueDate string `json:"data_emissao,omitempty"`
}

// UnmarshalJSON accepts a numeric invoice number as its digits.
func (h *InvoiceHeader) UnmarshalJSON(data []byte) error {
	type header InvoiceHeader
	aux := struct {
		*header
		Number json.RawMessage `json:"numero"`
	}{header: (*header)(h)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	number, err := flexText(aux.Number)
	if err != nil {
		return fmt.Errorf("invalid invoice number: %w", err)
	}
	h.Number = number
	return nil
}

// Items summarizes the invoice line items.
type Items struct {
	Description  string              `json:"descricao_produtos,omitempty"`
	Quantity     Amount `json:"quantidade"`
	Installments Amount `json:"parcelas"`
	Total        Amount `json:"valor_total"`
}

// ExtractionResult is the structured data the server produced for one document,
// together with the validation report computed against stored records.
//
// The server drops issuer, sender and invoice from the top level when they are
// already on file; the untouched extraction travels in Original.
type ExtractionResult struct {
	Invoice         *InvoiceHeader   `json:"nota_fiscal,omitempty"`
	Issuer          *Issuer          `json:"emitente,omitempty"`
	Sender          *Sender          `json:"remetente,omitempty"`
	Items           *Items           `json:"itens,omitempty"`
	Original        json.RawMessage  `json:"dados_originais,omitempty"`
	Classifications []string         `json:"classificacoes,omitempty"`
	Validation      ValidationReport `json:"validacoes"`

	raw []byte
}

// ParseExtractionResult decodes an analysis response and keeps the exact bytes
// so the same document can be sent back on commit.
func ParseExtractionResult(data []byte) (*ExtractionResult, error) {
	var result ExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode extraction result: %w", err)
	}

	result.raw = make([]byte, len(data))
	copy(result.raw, data)

	return &result, nil
}

// Payload returns the document to submit on commit: the bytes received from
// analysis when available, otherwise the encoded struct.
func (r *ExtractionResult) Payload() ([]byte, error) {
	if len(r.raw) > 0 {
		out := make([]byte, len(r.raw))
		copy(out, r.raw)
		return out, nil
	}

	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode extraction result: %w", err)
	}
	return data, nil
}

// InvoiceNumber returns the best known invoice number: the top-level header,
// then the matched record, then the new-entity projection.
func (r *ExtractionResult) InvoiceNumber() string {
	switch {
	case r.Invoice != nil && r.Invoice.Number != "":
		return r.Invoice.Number
	case r.Validation.Details.Invoice != nil && r.Validation.Details.Invoice.Number != "":
		return r.Validation.Details.Invoice.Number
	case r.Validation.NewEntities.Invoice != nil:
		return r.Validation.NewEntities.Invoice.Number
	default:
		return ""
	}
}

// IssuerDocument returns the issuer's CNPJ from whichever part of the result
// carries it.
func (r *ExtractionResult) IssuerDocument() string {
	switch {
	case r.Issuer != nil && r.Issuer.CNPJ != "":
		return r.Issuer.CNPJ
	case r.Validation.Details.Issuer != nil && r.Validation.Details.Issuer.Document != "":
		return r.Validation.Details.Issuer.Document
	case r.Validation.NewEntities.Issuer != nil:
		return r.Validation.NewEntities.Issuer.CNPJ
	default:
		return ""
	}
}
