package tui

import (
	"time"

	"github.com/Veraticus/nota/internal/service"
	"github.com/Veraticus/nota/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme          themes.Theme
	Extractor      service.Extractor
	Journal        service.Journal
	StartDir       string
	InitialFile    string
	RequestTimeout time.Duration
	HistoryLimit   int
	Width          int
	Height         int
	ShowHelp       bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:          themes.Default,
		StartDir:       ".",
		RequestTimeout: 2 * time.Minute,
		HistoryLimit:   20,
		Width:          80,
		Height:         24,
	}
}

// WithExtractor sets the analysis server client.
func WithExtractor(extractor service.Extractor) Option {
	return func(c *Config) {
		c.Extractor = extractor
	}
}

// WithJournal sets the review journal. Without one nothing is recorded and
// the history screen stays empty.
func WithJournal(journal service.Journal) Option {
	return func(c *Config) {
		c.Journal = journal
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithStartDir sets the directory the file picker opens in.
func WithStartDir(dir string) Option {
	return func(c *Config) {
		c.StartDir = dir
	}
}

// WithInitialFile offers a document to the file gate on startup.
func WithInitialFile(path string) Option {
	return func(c *Config) {
		c.InitialFile = path
	}
}

// WithRequestTimeout bounds each analysis and commit request.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.RequestTimeout = timeout
	}
}

// WithHistoryLimit sets how many journal entries the history screen shows.
func WithHistoryLimit(limit int) Option {
	return func(c *Config) {
		c.HistoryLimit = limit
	}
}
