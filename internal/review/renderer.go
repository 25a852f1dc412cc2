// Package review projects an extraction result and its interpretation into
// the view model shared by the terminal UI and the headless printer.
package review

import (
	"strconv"

	"github.com/Veraticus/nota/internal/common"
	"github.com/Veraticus/nota/internal/model"
	"github.com/Veraticus/nota/internal/tui/viewmodel"
	"github.com/Veraticus/nota/internal/validation"
	"github.com/Veraticus/nota/internal/workflow"
)

// Section titles.
const (
	TitleIssuer          = "Issuer"
	TitleSender          = "Sender"
	TitleInvoice         = "Invoice"
	TitleItems           = "Items"
	TitleClassifications = "Classifications"
)

// Status carries the workflow facts the renderer needs besides the result.
type Status struct {
	Err         error
	FileName    string
	State       string
	CommitLabel string
	Message     string
	CanCommit   bool
	Confirming  bool
	Committed   bool
}

// StatusFrom reads the status of ctrl.
func StatusFrom(ctrl *workflow.Controller) Status {
	return Status{
		Err:         ctrl.LastError(),
		FileName:    ctrl.Document().Name,
		State:       ctrl.State().String(),
		CommitLabel: ctrl.CommitLabel(),
		Message:     ctrl.Status(),
		CanCommit:   ctrl.CanCommit(),
		Confirming:  ctrl.State() == workflow.StateConfirming,
		Committed:   ctrl.State() == workflow.StateCommitted,
	}
}

// FromController renders the controller's pending result.
func FromController(ctrl *workflow.Controller) viewmodel.ReviewView {
	return Render(ctrl.Result(), ctrl.Interpretation(), StatusFrom(ctrl))
}

// Render builds the review view. It never fails: a nil result yields a view
// with no sections, and missing fields render as the placeholder.
func Render(result *model.ExtractionResult, in validation.Interpretation, status Status) viewmodel.ReviewView {
	view := viewmodel.ReviewView{
		FileName: status.FileName,
		State:    status.State,
		Status:   status.Message,
		Commit: viewmodel.CommitControlView{
			Label:      status.CommitLabel,
			Enabled:    status.CanCommit && !in.BlocksCommit,
			Confirming: status.Confirming,
			Done:       status.Committed,
		},
	}
	if status.Err != nil {
		view.Error = common.UserMessage(status.Err)
	}
	if result == nil {
		return view
	}

	view.Sections = resultSections(result)

	for _, m := range in.Messages {
		view.Messages = append(view.Messages, viewmodel.MessageView{
			Text: m.Text,
			Tone: tone(m.Severity),
		})
	}

	if !in.BlocksCommit && !in.Preview.IsEmpty() {
		view.Preview = &viewmodel.PreviewView{Sections: previewSections(in.Preview)}
	}

	return view
}

// resultSections renders the extracted data with the validation report and
// the server's original copy left out. Entities the server removed because
// they are on file are shown from the matched record.
func resultSections(result *model.ExtractionResult) []viewmodel.Section {
	details := result.Validation.Details

	var issuer viewmodel.Section
	switch {
	case result.Issuer != nil:
		issuer = issuerSection(TitleIssuer, result.Issuer)
	case details.Issuer != nil:
		issuer = matchSection(TitleIssuer, details.Issuer)
	default:
		issuer = issuerSection(TitleIssuer, &model.Issuer{})
	}

	var sender viewmodel.Section
	switch {
	case result.Sender != nil:
		sender = senderSection(TitleSender, result.Sender)
	case details.Sender != nil:
		sender = matchSection(TitleSender, details.Sender)
	default:
		sender = senderSection(TitleSender, &model.Sender{})
	}

	var invoice viewmodel.Section
	switch {
	case result.Invoice != nil:
		invoice = invoiceSection(TitleInvoice, result.Invoice)
	case details.Invoice != nil:
		invoice = invoiceMatchSection(details.Invoice)
	default:
		invoice = invoiceSection(TitleInvoice, &model.InvoiceHeader{})
	}

	return []viewmodel.Section{
		issuer,
		sender,
		invoice,
		itemsSection(result.Items),
		classificationSection(TitleClassifications, result.Classifications),
	}
}

func previewSections(p validation.Preview) []viewmodel.Section {
	var sections []viewmodel.Section
	if p.Issuer != nil {
		sections = append(sections, issuerSection("New issuer", p.Issuer))
	}
	if p.Sender != nil {
		sections = append(sections, senderSection("New sender", p.Sender))
	}
	if p.Invoice != nil {
		sections = append(sections, invoiceSection("New invoice", p.Invoice))
	}
	if len(p.Classifications) > 0 {
		sections = append(sections, classificationSection("New classifications", p.Classifications))
	}
	return sections
}

func issuerSection(title string, i *model.Issuer) viewmodel.Section {
	return viewmodel.Section{
		Title: title,
		Rows: []viewmodel.Row{
			row("Legal name", i.LegalName),
			row("Trade name", i.TradeName),
			row("CNPJ", i.CNPJ),
			row("Address", i.Address),
		},
	}
}

func senderSection(title string, s *model.Sender) viewmodel.Section {
	return viewmodel.Section{
		Title: title,
		Rows: []viewmodel.Row{
			row("Name", s.FullName),
			row("CPF/CNPJ", s.Document),
			row("Address", s.Address),
		},
	}
}

func invoiceSection(title string, h *model.InvoiceHeader) viewmodel.Section {
	return viewmodel.Section{
		Title: title,
		Rows: []viewmodel.Row{
			row("Number", h.Number),
			row("Series", h.Series),
			row("Issue date", h.IssueDate),
		},
	}
}

func matchSection(title string, m *model.PartyMatch) viewmodel.Section {
	return viewmodel.Section{
		Title: title + " (on file)",
		Rows: []viewmodel.Row{
			row("Name", m.Name),
			row("Document", m.Document),
			{Label: "Record", Value: viewmodel.FormatRecordID(m.ID)},
		},
	}
}

func invoiceMatchSection(m *model.InvoiceMatch) viewmodel.Section {
	return viewmodel.Section{
		Title: TitleInvoice + " (on file)",
		Rows: []viewmodel.Row{
			row("Number", m.Number),
			row("Issue date", m.IssueDate),
			{Label: "Total", Value: viewmodel.FormatAmount(m.Total)},
			{Label: "Record", Value: viewmodel.FormatRecordID(m.ID)},
		},
	}
}

func itemsSection(items *model.Items) viewmodel.Section {
	if items == nil {
		items = &model.Items{}
	}
	return viewmodel.Section{
		Title: TitleItems,
		Rows: []viewmodel.Row{
			row("Description", items.Description),
			{Label: "Quantity", Value: quantityValue(items.Quantity)},
			{Label: "Installments", Value: quantityValue(items.Installments)},
			{Label: "Total", Value: amountValue(items.Total)},
		},
	}
}

// amountValue formats a as money, or shows the extracted text when it was not
// a number.
func amountValue(a model.Amount) string {
	if !a.Valid && a.Raw != "" {
		return viewmodel.OrPlaceholder(a.Raw)
	}
	return viewmodel.FormatAmount(a.NullDecimal)
}

func quantityValue(a model.Amount) string {
	if !a.Valid && a.Raw != "" {
		return viewmodel.OrPlaceholder(a.Raw)
	}
	return viewmodel.FormatQuantity(a.NullDecimal)
}

func classificationSection(title string, names []string) viewmodel.Section {
	section := viewmodel.Section{Title: title}
	if len(names) == 0 {
		section.Rows = []viewmodel.Row{{Label: "1", Value: viewmodel.Placeholder}}
		return section
	}
	for i, name := range names {
		section.Rows = append(section.Rows, row(strconv.Itoa(i+1), name))
	}
	return section
}

func row(label, value string) viewmodel.Row {
	return viewmodel.Row{Label: label, Value: viewmodel.OrPlaceholder(value)}
}

func tone(s validation.Severity) viewmodel.Tone {
	switch s {
	case validation.SeverityBlocking:
		return viewmodel.ToneDanger
	case validation.SeveritySuccess:
		return viewmodel.ToneSuccess
	default:
		return viewmodel.ToneInfo
	}
}
