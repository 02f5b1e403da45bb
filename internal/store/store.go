// Package store provides the SQLite persistence layer: tenant calendar
// integrations and the booking audit trail.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite connection.
type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the SQLite database at path and applies
// the schema.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &DB{DB: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS calendar_integrations (
			tenant_id     TEXT PRIMARY KEY,
			workflow_id   TEXT NOT NULL DEFAULT '',
			calendar_id   TEXT NOT NULL,
			access_token  TEXT NOT NULL DEFAULT '',
			refresh_token TEXT NOT NULL DEFAULT '',
			token_expiry  TIMESTAMP,
			created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_integrations_workflow
			ON calendar_integrations(workflow_id)`,
		`CREATE TABLE IF NOT EXISTS booking_audit (
			id         TEXT PRIMARY KEY,
			tenant_id  TEXT NOT NULL,
			action     TEXT NOT NULL,
			slot_start TIMESTAMP,
			slot_end   TIMESTAMP,
			event_id   TEXT NOT NULL DEFAULT '',
			detail     TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_booking_audit_created
			ON booking_audit(created_at)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// PingContext checks database liveness for readiness probes.
func (db *DB) PingContext(ctx context.Context) error {
	return db.DB.PingContext(ctx)
}
