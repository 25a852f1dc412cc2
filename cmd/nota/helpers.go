package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/nota/internal/service"
	"github.com/Veraticus/nota/internal/storage"
)

// initJournal opens the review journal and applies migrations. It returns
// nil when the journal is disabled.
func initJournal(ctx context.Context) (*storage.SQLiteStorage, error) {
	if !settings.Journal.Enabled {
		return nil, nil
	}

	store, err := storage.NewSQLiteStorage(settings.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// asJournal keeps a disabled journal a nil interface.
func asJournal(store *storage.SQLiteStorage) service.Journal {
	if store == nil {
		return nil
	}
	return store
}

// closeJournal closes store if it was opened.
func closeJournal(store *storage.SQLiteStorage) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		slog.Warn("Failed to close journal", "error", err)
	}
}

// openLogFile creates the log file used while the terminal UI owns the screen.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
