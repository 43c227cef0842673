package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const defaultBusyTimeout = 5 * time.Second

// Store wraps a pooled sqlx.DB connection to the project database.
type Store struct {
	db *sqlx.DB

	mu  sync.Mutex
	cat *catalog
}

// Open constructs a Store backed by the SQLite database at path. The schema
// is migrated on first use.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve sqlite path: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", abs, defaultBusyTimeout.Milliseconds())
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, defaultBusyTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for i, stmt := range schemaStatements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("execute schema statement %d: %w", i+1, err)
			}
		}
		return nil
	})
}

// invalidate drops cached catalog metadata after a write.
func (s *Store) invalidate() {
	s.mu.Lock()
	s.cat = nil
	s.mu.Unlock()
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS project (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS data_types (
		name TEXT PRIMARY KEY,
		size_bytes INTEGER NOT NULL DEFAULT 0,
		base_type TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS table_types (
		name TEXT PRIMARY KEY,
		category TEXT NOT NULL DEFAULT 'other'
	);`,
	`CREATE TABLE IF NOT EXISTS type_columns (
		type_name TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'other',
		PRIMARY KEY (type_name, position),
		FOREIGN KEY(type_name) REFERENCES table_types(name) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS prototypes (
		name TEXT PRIMARY KEY,
		type_name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY(type_name) REFERENCES table_types(name)
	);`,
	`CREATE TABLE IF NOT EXISTS table_rows (
		table_name TEXT NOT NULL,
		row_index INTEGER NOT NULL,
		cells TEXT NOT NULL,
		PRIMARY KEY (table_name, row_index),
		FOREIGN KEY(table_name) REFERENCES prototypes(name) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS custom_values (
		table_path TEXT NOT NULL,
		variable TEXT NOT NULL,
		column_name TEXT NOT NULL,
		value TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (table_path, variable, column_name)
	);`,
	`CREATE TABLE IF NOT EXISTS groups (
		name TEXT PRIMARY KEY,
		description TEXT NOT NULL DEFAULT '',
		is_application INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS group_tables (
		group_name TEXT NOT NULL,
		table_path TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (group_name, table_path),
		FOREIGN KEY(group_name) REFERENCES groups(name) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS data_fields (
		owner TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		value TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (owner, name)
	);`,
	`CREATE TABLE IF NOT EXISTS links (
		name TEXT PRIMARY KEY,
		rate TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS link_members (
		link_name TEXT NOT NULL,
		member TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (link_name, member),
		FOREIGN KEY(link_name) REFERENCES links(name) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS associations (
		name TEXT PRIMARY KEY,
		description TEXT NOT NULL DEFAULT '',
		script_file TEXT NOT NULL,
		members TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0
	);`,
}
