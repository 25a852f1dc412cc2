package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/nota/internal/common"
	"github.com/Veraticus/nota/internal/service"
	"github.com/Veraticus/nota/internal/tui/viewmodel"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Format selects how results are printed.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses an --output value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown output format %q (want text, json or yaml)", common.ErrInvalidConfig, s)
	}
}

// Printer writes review and history views in one format.
type Printer struct {
	writer io.Writer
	format Format
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{writer: w, format: format}
}

// statsView is the serialized form of service.SessionStats.
type statsView struct {
	Analyzed  int `json:"analyzed" yaml:"analyzed"`
	Failed    int `json:"failed" yaml:"failed"`
	Blocked   int `json:"blocked" yaml:"blocked"`
	Committed int `json:"committed" yaml:"committed"`
}

type historyOutput struct {
	Stats   statsView                    `json:"stats" yaml:"stats"`
	Entries []viewmodel.HistoryEntryView `json:"entries" yaml:"entries"`
}

// PrintReview prints one analyzed document.
func (p *Printer) PrintReview(v viewmodel.ReviewView) error {
	switch p.format {
	case FormatJSON:
		return p.json(v)
	case FormatYAML:
		return p.yaml(v)
	default:
		_, err := io.WriteString(p.writer, RenderReview(v))
		return err
	}
}

// PrintHistory prints journal entries and the session summary.
func (p *Printer) PrintHistory(v viewmodel.HistoryView, stats service.SessionStats) error {
	out := historyOutput{
		Stats: statsView{
			Analyzed:  stats.Analyzed,
			Failed:    stats.Failed,
			Blocked:   stats.Blocked,
			Committed: stats.Committed,
		},
		Entries: v.Entries,
	}
	if out.Entries == nil {
		out.Entries = []viewmodel.HistoryEntryView{}
	}

	switch p.format {
	case FormatJSON:
		return p.json(out)
	case FormatYAML:
		return p.yaml(out)
	default:
		_, err := io.WriteString(p.writer, RenderHistory(v, stats))
		return err
	}
}

// PrintStatus prints a one-line outcome. Structured formats stay silent so
// stdout remains parseable.
func (p *Printer) PrintStatus(tone viewmodel.Tone, text string) error {
	if p.format != FormatText {
		return nil
	}
	_, err := fmt.Fprintln(p.writer, FormatMessage(viewmodel.MessageView{Text: text, Tone: tone}))
	return err
}

func (p *Printer) json(v any) error {
	enc := json.NewEncoder(p.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func (p *Printer) yaml(v any) error {
	enc := yaml.NewEncoder(p.writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

// RenderReview renders a review as styled text.
func RenderReview(v viewmodel.ReviewView) string {
	var b strings.Builder

	b.WriteString(FormatTitle(v.FileName))
	b.WriteString("\n")
	if v.Status != "" {
		b.WriteString(SubtleStyle.Render(v.Status))
		b.WriteString("\n")
	}
	if v.Error != "" {
		b.WriteString(FormatError(v.Error))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, s := range v.Sections {
		b.WriteString(renderSection(s))
		b.WriteString("\n")
	}

	if v.ShowValidation() {
		lines := make([]string, 0, len(v.Messages))
		for _, m := range v.Messages {
			lines = append(lines, FormatMessage(m))
		}
		b.WriteString(RenderBox("Validation", strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	if v.ShowPreview() {
		b.WriteString(TitleStyle.Render("Will be created"))
		b.WriteString("\n")
		for _, s := range v.Preview.Sections {
			b.WriteString(renderSection(s))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func renderSection(s viewmodel.Section) string {
	width := 0
	for _, r := range s.Rows {
		width = max(width, lipgloss.Width(r.Label))
	}

	lines := make([]string, 0, len(s.Rows))
	for _, r := range s.Rows {
		label := BoldStyle.Render(fmt.Sprintf("%-*s", width, r.Label))
		lines = append(lines, label+"  "+r.Value)
	}
	if len(lines) == 0 {
		lines = append(lines, SubtleStyle.Render(viewmodel.Placeholder))
	}

	return RenderBox(s.Title, strings.Join(lines, "\n"))
}

// RenderHistory renders journal entries as a table.
func RenderHistory(v viewmodel.HistoryView, stats service.SessionStats) string {
	var b strings.Builder

	b.WriteString(FormatTitle("Review history"))
	b.WriteString("\n\n")

	if len(v.Entries) == 0 {
		b.WriteString(SubtleStyle.Render("Nothing recorded yet."))
		b.WriteString("\n")
	} else {
		header := fmt.Sprintf("%-16s  %-8s  %-9s  %-24s  %-12s  %s", "When", "Kind", "Outcome", "File", "Invoice", "Issuer")
		b.WriteString(TableHeaderStyle.Render(header))
		b.WriteString("\n")
		for _, e := range v.Entries {
			row := fmt.Sprintf("%-16s  %-8s  %-9s  %-24s  %-12s  %s",
				e.RecordedAt.Local().Format("2006-01-02 15:04"),
				e.Kind,
				e.Outcome,
				viewmodel.TruncateString(e.FileName, 24),
				viewmodel.TruncateString(e.Invoice, 12),
				e.Issuer,
			)
			b.WriteString(FormatMessage(viewmodel.MessageView{Text: row, Tone: e.Tone}))
			b.WriteString("\n")
			if e.Message != "" {
				b.WriteString(SubtleStyle.Render("    " + e.Message))
				b.WriteString("\n")
			}
		}
	}

	summary := fmt.Sprintf("  • Analyzed: %d\n", stats.Analyzed) +
		fmt.Sprintf("  • Blocked: %d\n", stats.Blocked) +
		fmt.Sprintf("  • Failed: %d\n", stats.Failed) +
		fmt.Sprintf("  • Saved: %d", stats.Committed)
	b.WriteString("\n")
	b.WriteString(RenderBox("Summary", summary))
	b.WriteString("\n")

	return b.String()
}
