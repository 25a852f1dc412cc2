package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/nota/internal/tui/viewmodel"
	"github.com/Veraticus/nota/internal/workflow"
	"github.com/charmbracelet/lipgloss"
)

// renderReview renders the review screen: header lines, then the scrollable
// body.
func (m Model) renderReview(av viewmodel.AppView) string {
	title := m.theme.Title.Render("Invoice Review")

	var header []string
	switch {
	case av.Screen == viewmodel.ScreenAnalyzing:
		header = append(header, fmt.Sprintf("%s Analyzing %s...",
			m.spinner.View(), m.theme.Bold.Render(av.Review.FileName)))
	case av.Review.Commit.Label == workflow.LabelCommitting:
		header = append(header, fmt.Sprintf("%s Saving %s...",
			m.spinner.View(), m.theme.Bold.Render(av.Review.FileName)))
	case av.FileName != "":
		header = append(header, "File: "+m.theme.Bold.Render(av.FileName))
	default:
		header = append(header, lipgloss.NewStyle().Foreground(m.theme.Muted).
			Render("No document selected. Press o to choose a PDF."))
	}

	if av.Review.Commit.Confirming {
		header = append(header, m.renderConfirm())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		strings.Join(header, "\n"),
		"",
		m.viewport.View(),
	)
}

// renderReviewBody renders everything below the review header.
func (m Model) renderReviewBody(rv viewmodel.ReviewView) string {
	var parts []string

	if rv.Error != "" {
		parts = append(parts, m.theme.StatusError.Render("✗ "+rv.Error), "")
	}
	if rv.Status != "" {
		parts = append(parts, m.theme.StatusSuccess.Render("✓ "+rv.Status), "")
	}

	if len(rv.Sections) == 0 {
		return strings.Join(parts, "\n")
	}

	parts = append(parts, m.renderSections("Extracted data", rv.Sections))

	if rv.ShowValidation() {
		parts = append(parts, "", m.renderMessages(rv.Messages))
	}

	if rv.ShowPreview() {
		parts = append(parts, "", m.renderSections("Will be created", rv.Preview.Sections))
	}

	parts = append(parts, "", m.renderCommitControl(rv.Commit))

	return strings.Join(parts, "\n")
}

// renderSections renders titled label/value blocks, two per line on wide
// terminals.
func (m Model) renderSections(heading string, sections []viewmodel.Section) string {
	blocks := make([]string, 0, len(sections))
	for _, s := range sections {
		blocks = append(blocks, m.renderSection(s))
	}

	perLine := 1
	if m.width >= 120 {
		perLine = 2
	}

	lines := []string{m.theme.Subtitle.Render(heading)}
	for i := 0; i < len(blocks); i += perLine {
		end := min(i+perLine, len(blocks))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, blocks[i:end]...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderSection(s viewmodel.Section) string {
	labelWidth := 0
	for _, r := range s.Rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.Label))
	}

	lines := []string{m.theme.Bold.Render(s.Title)}
	for _, r := range s.Rows {
		label := lipgloss.NewStyle().
			Foreground(m.theme.Muted).
			Width(labelWidth + 2).
			Render(r.Label + ":")
		lines = append(lines, label+m.theme.Normal.Render(r.Value))
	}

	width := 50
	if m.width > 0 && m.width < 60 {
		width = m.width - 8
	}

	return m.theme.RoundedBox.
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// renderMessages renders the validation panel.
func (m Model) renderMessages(messages []viewmodel.MessageView) string {
	lines := []string{m.theme.Subtitle.Render("Validation")}
	for _, msg := range messages {
		lines = append(lines, m.toneStyle(msg.Tone).Render(toneIcon(msg.Tone)+" "+msg.Text))
	}
	return strings.Join(lines, "\n")
}

// renderCommitControl renders the commit button.
func (m Model) renderCommitControl(c viewmodel.CommitControlView) string {
	label := " " + c.Label + " "
	switch {
	case c.Done:
		return m.theme.StatusSuccess.Render("✓" + label)
	case c.Confirming:
		return m.theme.StatusWarning.Render(label)
	case c.Enabled:
		return m.theme.Selected.Render(label) + lipgloss.NewStyle().Foreground(m.theme.Muted).Render("  [s]")
	default:
		return m.theme.Highlighted.Foreground(m.theme.Muted).Render(label)
	}
}

// renderConfirm renders the commit confirmation dialog.
func (m Model) renderConfirm() string {
	question := m.theme.Bold.Render("Save this invoice to the database?")
	note := m.theme.Italic.Render("This cannot be undone from here.")
	help := lipgloss.NewStyle().Foreground(m.theme.Muted).Render("[y/Enter] Confirm | [n/Esc] Cancel")

	return m.theme.BorderedBox.
		BorderForeground(m.theme.Warning).
		Render(lipgloss.JoinVertical(lipgloss.Left, question, note, "", help))
}

// renderPicker renders the file selection screen.
func (m Model) renderPicker() string {
	title := m.theme.Title.Render("Select an invoice PDF")

	current := lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Directory: " + m.picker.CurrentDirectory)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		current,
		"",
		m.picker.View(),
	)
}

// renderHistory renders the journal screen.
func (m Model) renderHistory(av viewmodel.AppView) string {
	title := m.theme.Title.Render("Review History")

	if av.History == nil {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			m.theme.StatusPending.Render("Loading..."))
	}
	if len(av.History.Entries) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			m.theme.StatusPending.Render("Nothing recorded yet."))
	}

	header := fmt.Sprintf("%-16s  %-8s  %-9s  %-20s  %-10s  %s",
		"When", "Step", "Outcome", "File", "Invoice", "Message")
	lines := []string{title, m.theme.Bold.Render(header)}

	for _, e := range av.History.Entries {
		line := fmt.Sprintf("%-16s  %-8s  %-9s  %-20s  %-10s  %s",
			viewmodel.FormatDate(e.RecordedAt),
			e.Kind,
			e.Outcome,
			viewmodel.TruncateString(e.FileName, 20),
			viewmodel.TruncateString(e.Invoice, 10),
			e.Message,
		)
		lines = append(lines, m.toneStyle(e.Tone).UnsetBold().Render(line))
	}

	return strings.Join(lines, "\n")
}

// renderHelp renders the full key binding help.
func (m Model) renderHelp() string {
	return m.theme.Box.Padding(1, 0, 0, 0).Render(m.help.View(m.keymap))
}

// wrapWithBorder adds the status bar and the outer border.
func (m Model) wrapWithBorder(content string, av viewmodel.AppView) string {
	statusBar := m.renderStatusBar(av)

	fullContent := lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		statusBar,
	)

	return m.theme.BorderedBox.
		Padding(0, 1).
		Width(m.width).
		Height(m.height).
		Render(fullContent)
}

// renderStatusBar renders the workflow state, the last notice and key hints.
func (m Model) renderStatusBar(av viewmodel.AppView) string {
	left := av.Screen.String()
	if av.Review != nil && av.Screen != viewmodel.ScreenPicking && av.Screen != viewmodel.ScreenHistory {
		left = av.Review.State
	}

	var center string
	if av.HasError() {
		center = m.theme.StatusError.Render(av.Error)
	}

	hints := make([]string, 0, len(av.KeyBindings))
	for _, kb := range av.GetActiveKeyBindings() {
		hints = append(hints, kb.Key+" "+kb.Description)
	}
	right := strings.Join(hints, " · ")

	totalWidth := m.width - 6
	spacing := max(totalWidth-lipgloss.Width(left)-lipgloss.Width(center)-lipgloss.Width(right), 2)
	leftPad := spacing / 2
	rightPad := spacing - leftPad

	status := fmt.Sprintf("%s%s%s%s%s",
		m.theme.StatusInfo.Render(left),
		strings.Repeat(" ", leftPad),
		center,
		strings.Repeat(" ", rightPad),
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render(right),
	)

	return m.theme.Normal.
		Background(m.theme.Border).
		Width(max(m.width-4, 0)).
		MaxWidth(max(m.width-4, 0)).
		Render(status)
}

func (m Model) toneStyle(t viewmodel.Tone) lipgloss.Style {
	switch t {
	case viewmodel.ToneSuccess:
		return m.theme.StatusSuccess
	case viewmodel.ToneWarning:
		return m.theme.StatusWarning
	case viewmodel.ToneDanger:
		return m.theme.StatusError
	default:
		return m.theme.StatusInfo
	}
}

func toneIcon(t viewmodel.Tone) string {
	switch t {
	case viewmodel.ToneSuccess:
		return "✓"
	case viewmodel.ToneWarning:
		return "!"
	case viewmodel.ToneDanger:
		return "✗"
	default:
		return "•"
	}
}
