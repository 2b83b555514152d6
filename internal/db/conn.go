// Package db stores corpus snapshots and analysis history in SQLite.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abdulachik/redditcompat/internal/db/migrations"
	_ "modernc.org/sqlite"
)

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// Store wraps the database connection and provides access to queries.
type Store struct {
	*sql.DB
	*Queries
}

// NewStore opens the database at dbPath, creating its directory if needed.
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One writer at a time; the HTTP server records reports concurrently.
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := sqlDB.ExecContext(ctx, pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("exec %q: %w", pragma, err)
		}
	}

	return &Store{
		DB:      sqlDB,
		Queries: New(sqlDB),
	}, nil
}

// Migrate applies every embedded migration not yet recorded in
// schema_migrations, in file name order.
func (s *Store) Migrate(ctx context.Context) error {
	slog.Info("running database migrations")

	if _, err := s.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	applied, err := s.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	files, err := migrationFiles()
	if err != nil {
		return err
	}

	for _, file := range files {
		if applied[file] {
			slog.Debug("migration already applied", "file", file)
			continue
		}
		if err := s.applyMigration(ctx, file); err != nil {
			return err
		}
		slog.Info("migration applied", "file", file)
	}

	return nil
}

func (s *Store) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := s.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan migration: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate migrations: %w", err)
	}
	return applied, nil
}

func migrationFiles() ([]string, error) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func (s *Store) applyMigration(ctx context.Context, file string) error {
	content, err := fs.ReadFile(migrations.FS, file)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", file, err)
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, extractUpMigration(string(content))); err != nil {
		return fmt.Errorf("execute migration %s: %w", file, err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", file); err != nil {
		return fmt.Errorf("record migration %s: %w", file, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", file, err)
	}
	return nil
}

// extractUpMigration returns the statements between the Up and Down markers.
func extractUpMigration(content string) string {
	if idx := strings.Index(content, downMarker); idx != -1 {
		content = content[:idx]
	}
	content = strings.TrimSpace(content)
	return strings.TrimSpace(strings.TrimPrefix(content, upMarker))
}

// ReplaceCorpus swaps the stored snapshot for account with items in one
// transaction.
func (s *Store) ReplaceCorpus(ctx context.Context, account string, items []InsertCorpusItemParams) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := s.WithTx(tx)
	if err := q.DeleteCorpusItems(ctx, account); err != nil {
		return fmt.Errorf("delete corpus items: %w", err)
	}
	for _, item := range items {
		item.Account = account
		if err := q.InsertCorpusItem(ctx, item); err != nil {
			return fmt.Errorf("insert corpus item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit corpus: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.DB.Close()
}
