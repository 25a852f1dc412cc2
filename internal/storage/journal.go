package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Veraticus/nota/internal/model"
	"github.com/Veraticus/nota/internal/service"
)

// Record appends entry to the journal.
func (s *SQLiteStorage) Record(ctx context.Context, entry *model.JournalEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEntry(entry); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO journal (
			id, recorded_at, kind, outcome, file_name,
			invoice_number, issuer_document, message, duplicate
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.RecordedAt.UTC(),
		string(entry.Kind),
		string(entry.Outcome),
		entry.FileName,
		nullString(entry.InvoiceNumber),
		nullString(entry.IssuerDocument),
		nullString(entry.Message),
		entry.Duplicate,
	)
	if err != nil {
		return fmt.Errorf("failed to record journal entry: %w", err)
	}

	return nil
}

// Recent returns up to limit entries, newest first.
func (s *SQLiteStorage) Recent(ctx context.Context, limit int) ([]model.JournalEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageLimit, limit)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recorded_at, kind, outcome, file_name,
		       invoice_number, issuer_document, message, duplicate
		FROM journal
		ORDER BY recorded_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.JournalEntry
	for rows.Next() {
		var (
			entry                            model.JournalEntry
			kind, outcome                    string
			invoice, issuerDocument, message sql.NullString
			recordedAt                       time.Time
		)
		if err := rows.Scan(
			&entry.ID,
			&recordedAt,
			&kind,
			&outcome,
			&entry.FileName,
			&invoice,
			&issuerDocument,
			&message,
			&entry.Duplicate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}

		entry.RecordedAt = recordedAt.UTC()
		entry.Kind = model.JournalKind(kind)
		entry.Outcome = model.JournalOutcome(outcome)
		entry.InvoiceNumber = invoice.String
		entry.IssuerDocument = issuerDocument.String
		entry.Message = message.String
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal: %w", err)
	}

	return entries, nil
}

// Stats summarizes the journal entries recorded since the given time.
func (s *SQLiteStorage) Stats(ctx context.Context, since time.Time) (service.SessionStats, error) {
	var stats service.SessionStats
	if err := validateContext(ctx); err != nil {
		return stats, err
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN kind = 'ANALYSIS' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome = 'FAILED' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome = 'BLOCKED' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'COMMIT' AND outcome = 'SUCCEEDED' THEN 1 ELSE 0 END), 0)
		FROM journal
		WHERE recorded_at >= ?`, since.UTC()).Scan(
		&stats.Analyzed,
		&stats.Failed,
		&stats.Blocked,
		&stats.Committed,
	)
	if err != nil {
		return stats, fmt.Errorf("failed to summarize journal: %w", err)
	}

	return stats, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
