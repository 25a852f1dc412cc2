// Package validation turns the server's validation report into operator
// messages, a commit gate and a preview of the entities a commit would create.
package validation

import (
	"fmt"

	"github.com/Veraticus/nota/internal/model"
)

// Placeholder stands in for values the server did not provide.
const Placeholder = "—"

// Severity classifies a validation message.
type Severity int

const (
	// SeverityInfo marks an entity that is already on file.
	SeverityInfo Severity = iota
	// SeveritySuccess marks something created during analysis.
	SeveritySuccess
	// SeverityBlocking marks a condition that forbids committing.
	SeverityBlocking
)

// Subject names the entity a message is about.
type Subject string

// Message subjects.
const (
	SubjectInvoice        Subject = "invoice"
	SubjectIssuer         Subject = "issuer"
	SubjectSender         Subject = "sender"
	SubjectClassification Subject = "classification"
)

// Message is one line of the validation panel.
type Message struct {
	Subject  Subject
	Text     string
	Severity Severity
}

// Preview lists the entities a commit would create. A nil entity is not
// going to be created.
type Preview struct {
	Issuer          *model.Issuer
	Sender          *model.Sender
	Invoice         *model.InvoiceHeader
	Classifications []string
}

// IsEmpty reports whether the preview names nothing.
func (p Preview) IsEmpty() bool {
	return p.Issuer == nil && p.Sender == nil && p.Invoice == nil && len(p.Classifications) == 0
}

// Interpretation is the full reading of one validation report.
type Interpretation struct {
	Messages     []Message
	Preview      Preview
	BlocksCommit bool
}

// ShowPanel reports whether the validation panel has anything to show.
func (i Interpretation) ShowPanel() bool {
	return len(i.Messages) > 0
}

// Interpret reads the validation report embedded in result. It is a pure
// function: the result is not modified and the returned values share no
// memory with it.
func Interpret(result *model.ExtractionResult) Interpretation {
	if result == nil {
		return Interpretation{}
	}

	report := result.Validation
	var out Interpretation

	if report.InvoiceExists {
		out.BlocksCommit = true
		out.Messages = append(out.Messages, Message{
			Severity: SeverityBlocking,
			Subject:  SubjectInvoice,
			Text:     duplicateInvoiceText(result),
		})
	} else {
		out.Preview.Invoice = clone(first(report.NewEntities.Invoice, result.Invoice))
	}

	if report.IssuerExists {
		out.Messages = append(out.Messages, Message{
			Severity: SeverityInfo,
			Subject:  SubjectIssuer,
			Text:     onFileText("Issuer", report.Details.Issuer),
		})
	} else {
		out.Preview.Issuer = clone(first(report.NewEntities.Issuer, result.Issuer))
	}

	if report.SenderExists {
		out.Messages = append(out.Messages, Message{
			Severity: SeverityInfo,
			Subject:  SubjectSender,
			Text:     onFileText("Sender", report.Details.Sender),
		})
	} else {
		out.Preview.Sender = clone(first(report.NewEntities.Sender, result.Sender))
	}

	for _, c := range report.KnownClassifications {
		out.Messages = append(out.Messages, Message{
			Severity: SeverityInfo,
			Subject:  SubjectClassification,
			Text:     "Classification already on file: " + orPlaceholder(c.Name),
		})
	}

	created := report.CreatedClassificationNames()
	for _, name := range created {
		out.Messages = append(out.Messages, Message{
			Severity: SeveritySuccess,
			Subject:  SubjectClassification,
			Text:     "Classification created during analysis: " + orPlaceholder(name),
		})
	}

	if len(report.NewEntities.Classifications) > 0 {
		out.Preview.Classifications = append([]string(nil), report.NewEntities.Classifications...)
	} else if len(created) > 0 {
		out.Preview.Classifications = append([]string(nil), created...)
	}

	return out
}

func duplicateInvoiceText(result *model.ExtractionResult) string {
	match := result.Validation.Details.Invoice
	if match == nil {
		number := result.InvoiceNumber()
		if number == "" {
			return "This invoice is already on file and cannot be saved again."
		}
		return fmt.Sprintf("Invoice %s is already on file and cannot be saved again.", number)
	}

	total := Placeholder
	if match.Total.Valid {
		total = match.Total.Decimal.StringFixed(2)
	}

	text := fmt.Sprintf("Invoice %s issued %s with total %s is already on file",
		orPlaceholder(match.Number), orPlaceholder(match.IssueDate), total)
	if match.ID != 0 {
		text += fmt.Sprintf(" (record #%d)", match.ID)
	}
	return text + " and cannot be saved again."
}

func onFileText(role string, match *model.PartyMatch) string {
	if match == nil {
		return role + " already on file."
	}
	text := fmt.Sprintf("%s already on file: %s (%s)", role, orPlaceholder(match.Name), orPlaceholder(match.Document))
	if match.ID != 0 {
		text += fmt.Sprintf(", record #%d", match.ID)
	}
	return text
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// first returns the first non-nil candidate.
func first[T any](candidates ...*T) *T {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

func clone[T any](in *T) *T {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}
