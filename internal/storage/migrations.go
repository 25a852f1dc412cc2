package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/nota/internal/common"
)

// ExpectedSchemaVersion is the journal schema this build writes. Migrate
// fails with common.ErrDatabaseCorrupted if the file ends up elsewhere.
const ExpectedSchemaVersion = 2

// Migration is one forward step of the journal schema.
type Migration struct {
	Description string
	Statements  []string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial journal schema",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS journal (
				id TEXT PRIMARY KEY,
				recorded_at DATETIME NOT NULL,
				kind TEXT NOT NULL,
				outcome TEXT NOT NULL,
				file_name TEXT NOT NULL,
				invoice_number TEXT,
				issuer_document TEXT,
				message TEXT
			)`,
			`CREATE INDEX idx_journal_recorded_at ON journal(recorded_at)`,
		},
	},
	{
		Version:     2,
		Description: "Track duplicate verdicts",
		Statements: []string{
			`ALTER TABLE journal ADD COLUMN duplicate INTEGER NOT NULL DEFAULT 0`,
			`CREATE INDEX idx_journal_invoice ON journal(invoice_number, issuer_document)`,
		},
	},
}

// Migrate brings the journal schema up to ExpectedSchemaVersion. Each step
// runs in its own transaction together with its user_version bump.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := s.apply(ctx, m); err != nil {
			return err
		}
		slog.Debug("Applied journal migration",
			"version", m.Version,
			"description", m.Description)
	}

	final, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if final != ExpectedSchemaVersion {
		return fmt.Errorf("%w: journal schema is version %d, want %d",
			common.ErrDatabaseCorrupted, final, ExpectedSchemaVersion)
	}

	return nil
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func (s *SQLiteStorage) apply(ctx context.Context, m Migration) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range m.Statements {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
	}
	// PRAGMA does not accept bound parameters.
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", m.Version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}
