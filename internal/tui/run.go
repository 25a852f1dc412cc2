package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// New creates the review program. An extractor is required.
func New(ctx context.Context, opts ...Option) (*tea.Program, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}

	return tea.NewProgram(
		newModel(cfg),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	), nil
}

// Run starts the review program and blocks until the operator quits or ctx
// is canceled.
func Run(ctx context.Context, opts ...Option) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Restore the terminal even if the program exits abnormally.
	cleanupTerminal := func() {
		_, _ = os.Stdout.Write([]byte("\033[?1049l")) // Exit alternate screen
		_, _ = os.Stdout.Write([]byte("\033[?25h"))   // Show cursor
		_, _ = os.Stdout.Write([]byte("\033[m"))      // Reset colors
	}
	defer cleanupTerminal()

	program, err := New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
