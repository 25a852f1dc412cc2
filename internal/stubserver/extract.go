package stubserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/crc32"

	"github.com/Veraticus/nota/internal/model"
	"github.com/shopspring/decimal"
)

// Extraction is the structured data read from one document.
type Extraction struct {
	Invoice         *model.InvoiceHeader `json:"nota_fiscal,omitempty"`
	Issuer          *model.Issuer        `json:"emitente,omitempty"`
	Sender          *model.Sender        `json:"remetente,omitempty"`
	Items           *model.Items         `json:"itens,omitempty"`
	Classifications []string             `json:"classificacoes"`
}

// ExtractFunc turns an uploaded document into an extraction.
type ExtractFunc func(name string, content []byte) (*Extraction, error)

// SampleExtract is the default ExtractFunc. A document whose content is a
// JSON object is decoded as the extraction itself. Anything else yields a
// fixed sample invoice numbered after the content checksum, so uploading the
// same file twice names the same invoice.
func SampleExtract(name string, content []byte) (*Extraction, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var ext Extraction
		if err := json.Unmarshal(trimmed, &ext); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", name, err)
		}
		return &ext, nil
	}

	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%s is empty", name)
	}

	sum := crc32.ChecksumIEEE(content)
	return &Extraction{
		Invoice: &model.InvoiceHeader{
			Number:    fmt.Sprintf("%06d", sum%1000000),
			Series:    "1",
			IssueDate: "15/01/2024",
		},
		Issuer: &model.Issuer{
			LegalName: "Agro Insumos Ltda",
			TradeName: "Agro Insumos",
			CNPJ:      "12.345.678/0001-90",
			Address:   "Rua das Flores, 123, São Paulo, SP",
		},
		Sender: &model.Sender{
			FullName: "João Silva",
			Document: "123.456.789-00",
			Address:  "Fazenda Santa Maria, Zona Rural",
		},
		Items: &model.Items{
			Description:  "Fertilizante NPK 20-05-20",
			Quantity:     model.NewAmount(decimal.NewFromInt(10)),
			Installments: model.NewAmount(decimal.NewFromInt(1)),
			Total:        model.NewAmount(decimal.RequireFromString("1500.00")),
		},
	}, nil
}
