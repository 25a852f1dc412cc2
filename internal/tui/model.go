package tui

import (
	"errors"
	"log/slog"

	"github.com/Veraticus/nota/internal/common"
	"github.com/Veraticus/nota/internal/filegate"
	"github.com/Veraticus/nota/internal/review"
	"github.com/Veraticus/nota/internal/tui/themes"
	"github.com/Veraticus/nota/internal/tui/viewmodel"
	"github.com/Veraticus/nota/internal/workflow"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrNoDocument is shown when analysis is requested before a file was chosen.
var ErrNoDocument = common.NewUserError("Select a PDF file first.", common.ErrNoCandidate)

// chromeHeight is the number of lines taken by the border, header and status bar.
const chromeHeight = 7

// Model holds the main TUI state. The controller is the single owner of the
// pending result; Model only translates keys and replies into controller
// calls.
type Model struct {
	theme    themes.Theme
	notice   error
	ctrl     *workflow.Controller
	gate     *filegate.Gate
	history  *viewmodel.HistoryView
	config   Config
	keymap   KeyMap
	picker   filepicker.Model
	spinner  spinner.Model
	help     help.Model
	viewport viewport.Model
	screen   viewmodel.Screen
	width    int
	height   int
	quitting bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	picker := filepicker.New()
	picker.CurrentDirectory = cfg.StartDir
	picker.ShowPermissions = false

	h := help.New()
	h.ShowAll = cfg.ShowHelp

	m := Model{
		theme:  cfg.Theme,
		ctrl:   workflow.New(),
		gate:   filegate.New(),
		config: cfg,
		keymap: DefaultKeyMap(),
		picker: picker,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(cfg.Theme.Primary)),
		),
		help:     h,
		viewport: viewport.New(cfg.Width-4, cfg.Height-chromeHeight),
		screen:   viewmodel.ScreenPicking,
		width:    cfg.Width,
		height:   cfg.Height,
	}

	if cfg.InitialFile != "" {
		if _, err := m.gate.Offer(cfg.InitialFile, ""); err != nil {
			m.notice = err
		} else {
			m.screen = viewmodel.ScreenReviewing
		}
	}

	m.refreshReview()
	return m
}

// Init initializes the model. A file named on the command line is analyzed at
// once; files picked later wait for the analyze key.
func (m Model) Init() tea.Cmd {
	if !m.gate.Ready() {
		return m.picker.Init()
	}
	return tea.Batch(m.picker.Init(), func() tea.Msg { return analyzeInitialMsg{} })
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			m.refreshReview()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		msg.Height -= chromeHeight
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		m.refreshReview()
		return m, cmd

	case analysisDoneMsg:
		m.handleAnalysisDone(msg)
		m.refreshReview()
		return m, nil

	case commitDoneMsg:
		m.handleCommitDone(msg)
		m.refreshReview()
		return m, nil

	case analyzeInitialMsg:
		cmd := m.startAnalysis()
		m.refreshReview()
		return m, cmd

	case historyLoadedMsg:
		if msg.err != nil {
			common.LogError(msg.err, "Failed to load journal", nil)
			m.notice = msg.err
			return m, nil
		}
		view := review.History(msg.entries)
		m.history = &view
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshReview()
		return m, cmd
	}

	// Delegate to the active component.
	switch m.screen {
	case viewmodel.ScreenReviewing, viewmodel.ScreenAnalyzing:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	default:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)

		if selected, path := m.picker.DidSelectFile(msg); selected {
			m.offer(path)
			m.refreshReview()
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	av := m.appView()

	var content string
	switch av.Screen {
	case viewmodel.ScreenPicking:
		content = m.renderPicker()
	case viewmodel.ScreenHistory:
		content = m.renderHistory(av)
	default:
		content = m.renderReview(av)
	}

	if av.ShowHelp {
		content = lipgloss.JoinVertical(lipgloss.Left, content, m.renderHelp())
	}

	return m.wrapWithBorder(content, av)
}

// handleKey applies global keys and the keys of the current screen. Keys it
// does not handle fall through to the active component.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit):
		m.quitting = true
		return tea.Quit, true
	case key.Matches(msg, m.keymap.ClearScreen):
		return tea.ClearScreen, true
	}

	switch m.screen {
	case viewmodel.ScreenPicking:
		switch {
		case key.Matches(msg, m.keymap.Back):
			m.screen = viewmodel.ScreenReviewing
			return nil, true
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return tea.Quit, true
		}
		return nil, false

	case viewmodel.ScreenHistory:
		switch {
		case key.Matches(msg, m.keymap.Back), key.Matches(msg, m.keymap.History):
			m.screen = viewmodel.ScreenReviewing
		case key.Matches(msg, m.keymap.Refresh):
			return m.loadHistory(), true
		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return tea.Quit, true
		}
		return nil, true
	}

	if m.ctrl.State() == workflow.StateConfirming {
		switch {
		case key.Matches(msg, m.keymap.Confirm):
			return m.confirmCommit(), true
		case key.Matches(msg, m.keymap.Cancel):
			if err := m.ctrl.CancelCommit(); err != nil {
				slog.Debug("Ignoring cancel", "error", err)
			}
		}
		return nil, true
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return tea.Quit, true
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil, true
	case key.Matches(msg, m.keymap.Open):
		m.screen = viewmodel.ScreenPicking
		return nil, true
	case key.Matches(msg, m.keymap.Analyze):
		return m.startAnalysis(), true
	case key.Matches(msg, m.keymap.Commit):
		if err := m.ctrl.RequestCommit(); err != nil {
			slog.Debug("Commit not available", "error", err, "state", m.ctrl.State().String())
		}
		return nil, true
	case key.Matches(msg, m.keymap.History):
		m.screen = viewmodel.ScreenHistory
		return m.loadHistory(), true
	}

	return nil, false
}

// offer passes a picked file through the gate. An accepted file becomes the
// candidate and enables the analyze action; a rejected one keeps the
// previous candidate.
func (m *Model) offer(path string) {
	doc, err := m.gate.Offer(path, "")
	if err != nil {
		slog.Info("Rejected document", "path", path, "error", err)
		m.notice = err
		return
	}

	slog.Debug("Selected document", "file", doc.Name)
	m.notice = nil
	m.screen = viewmodel.ScreenReviewing
}

// startAnalysis analyzes the current candidate. Re-analyzing the document
// already in flight is a no-op; a different candidate supersedes it.
func (m *Model) startAnalysis() tea.Cmd {
	doc, ok := m.gate.Current()
	if !ok {
		m.notice = ErrNoDocument
		return nil
	}

	var token workflow.Token
	if m.ctrl.State() == workflow.StateAnalyzing && doc.Path != m.ctrl.Document().Path {
		token = m.ctrl.BeginAnalysis(doc)
	} else {
		var err error
		token, err = m.ctrl.TryBeginAnalysis(doc)
		if err != nil {
			slog.Debug("Analyze not available", "error", err)
			return nil
		}
	}

	m.notice = nil
	m.viewport.GotoTop()
	slog.Info("Analyzing document", "file", doc.Name, "size", doc.Size)

	return tea.Batch(m.analyze(doc, token), m.spinner.Tick)
}

// confirmCommit sends the pending result. The commit action is disabled by
// the controller until the reply arrives.
func (m *Model) confirmCommit() tea.Cmd {
	result, token, err := m.ctrl.ConfirmCommit()
	if err != nil {
		slog.Debug("Confirm not available", "error", err)
		return nil
	}

	slog.Info("Saving document", "file", m.ctrl.Document().Name, "invoice", result.InvoiceNumber())
	return tea.Batch(m.commit(m.ctrl.Document(), result, token), m.spinner.Tick)
}

func (m *Model) handleAnalysisDone(msg analysisDoneMsg) {
	var err error
	if msg.err != nil {
		err = m.ctrl.AnalysisFailed(msg.token, msg.err)
	} else {
		err = m.ctrl.AnalysisSucceeded(msg.token, msg.result)
	}

	switch {
	case errors.Is(err, workflow.ErrStaleResponse):
		return
	case err != nil:
		common.LogError(err, "Failed to apply analysis reply", nil)
	case msg.err != nil:
		common.LogError(msg.err, "Analysis failed", common.Fields{"file": m.ctrl.Document().Name})
	default:
		slog.Info("Analysis finished",
			"file", m.ctrl.Document().Name,
			"invoice_exists", m.ctrl.Interpretation().BlocksCommit)
	}
}

func (m *Model) handleCommitDone(msg commitDoneMsg) {
	var err error
	if msg.err != nil {
		err = m.ctrl.CommitFailed(msg.token, msg.err)
	} else {
		err = m.ctrl.CommitSucceeded(msg.token, msg.outcome)
	}

	switch {
	case errors.Is(err, workflow.ErrStaleResponse):
		return
	case err != nil:
		common.LogError(err, "Failed to apply commit reply", nil)
	case msg.err != nil:
		common.LogError(msg.err, "Commit failed", common.Fields{"file": m.ctrl.Document().Name})
	default:
		slog.Info("Document saved", "file", m.ctrl.Document().Name)
	}
}

// busy reports whether a request is outstanding.
func (m Model) busy() bool {
	s := m.ctrl.State()
	return s == workflow.StateAnalyzing || s == workflow.StateCommitting || m.ctrl.CommitInFlight()
}

// handleResize updates component sizes.
func (m *Model) handleResize() {
	m.help.Width = m.width - 4
	m.viewport.Width = max(m.width-4, 0)
	m.viewport.Height = max(m.height-chromeHeight, 1)
}

// refreshReview re-renders the review body into the viewport so scrolling
// works on current content.
func (m *Model) refreshReview() {
	rv := review.FromController(m.ctrl)
	m.viewport.SetContent(m.renderReviewBody(rv))
}

// appView assembles the view model for the current frame.
func (m Model) appView() viewmodel.AppView {
	rv := review.FromController(m.ctrl)

	av := viewmodel.AppView{
		Review:   &rv,
		History:  m.history,
		Screen:   m.screen,
		Width:    m.width,
		Height:   m.height,
		ShowHelp: m.help.ShowAll,
	}
	if doc, ok := m.gate.Current(); ok {
		av.FileName = doc.Name
	}
	if m.screen == viewmodel.ScreenReviewing && m.ctrl.State() == workflow.StateAnalyzing {
		av.Screen = viewmodel.ScreenAnalyzing
	}
	if m.notice != nil {
		av.Error = common.UserMessage(m.notice)
	}
	av.StatusMessage = rv.Status
	av.KeyBindings = m.keyBindings(av.Screen, rv)

	return av
}

// keyBindings lists the hints shown in the status bar.
func (m Model) keyBindings(screen viewmodel.Screen, rv viewmodel.ReviewView) []viewmodel.KeyBinding {
	hint := func(b key.Binding, active bool) viewmodel.KeyBinding {
		return viewmodel.KeyBinding{Key: b.Help().Key, Description: b.Help().Desc, IsActive: active}
	}

	switch screen {
	case viewmodel.ScreenPicking:
		return []viewmodel.KeyBinding{
			hint(m.keymap.Back, true),
			hint(m.keymap.Quit, true),
		}
	case viewmodel.ScreenHistory:
		return []viewmodel.KeyBinding{
			hint(m.keymap.Refresh, true),
			hint(m.keymap.Back, true),
			hint(m.keymap.Quit, true),
		}
	}

	if rv.Commit.Confirming {
		return []viewmodel.KeyBinding{
			hint(m.keymap.Confirm, true),
			hint(m.keymap.Cancel, true),
		}
	}

	return []viewmodel.KeyBinding{
		hint(m.keymap.Open, true),
		hint(m.keymap.Analyze, m.gate.Ready() && m.ctrl.CanAnalyze()),
		hint(m.keymap.Commit, rv.Commit.Enabled),
		hint(m.keymap.History, true),
		hint(m.keymap.Help, true),
		hint(m.keymap.Quit, true),
	}
}
