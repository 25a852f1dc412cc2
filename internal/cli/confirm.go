package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ErrNoAnswer is returned when input ends before a valid answer.
var ErrNoAnswer = errors.New("no answer given")

// Confirmer asks yes/no questions on a terminal.
type Confirmer struct {
	reader *NonBlockingReader
	writer io.Writer
}

// NewConfirmer creates a confirmer. Nil arguments default to stdin and
// stderr.
func NewConfirmer(reader io.Reader, writer io.Writer) *Confirmer {
	if writer == nil {
		writer = os.Stderr
	}
	return &Confirmer{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// Confirm asks question until the answer is yes or no. An empty answer
// means no.
func (c *Confirmer) Confirm(ctx context.Context, question string) (bool, error) {
	for {
		if _, err := fmt.Fprintf(c.writer, "%s[y/N] ", FormatPrompt(question)); err != nil {
			return false, fmt.Errorf("failed to write prompt: %w", err)
		}

		answer, err := c.reader.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, ErrNoAnswer
			}
			return false, err
		}

		switch strings.ToLower(answer) {
		case "y", "yes", "s", "sim":
			return true, nil
		case "", "n", "no", "nao", "não":
			return false, nil
		}

		if _, err := fmt.Fprintln(c.writer, FormatError("Please answer y or n.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}
