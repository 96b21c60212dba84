// Package migrations applies the database schema. Statements are ordered and
// idempotent (CREATE ... IF NOT EXISTS) so Apply can run at every startup.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS app_states (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		hex_color TEXT NOT NULL DEFAULT '',
		seq_no INTEGER NOT NULL,
		deactivated_utc TIMESTAMPTZ,
		created_utc TIMESTAMPTZ NOT NULL,
		updated_utc TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		password_hash BYTEA NOT NULL,
		deactivated_utc TIMESTAMPTZ,
		created_utc TIMESTAMPTZ NOT NULL,
		updated_utc TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		company_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		compensation_min INTEGER NOT NULL DEFAULT 0,
		compensation_max INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		contacts JSONB NOT NULL DEFAULT '[]',
		appointments JSONB NOT NULL DEFAULT '[]',
		states JSONB NOT NULL DEFAULT '[]',
		rejection JSONB,
		acceptance JSONB,
		archived_utc TIMESTAMPTZ,
		deactivated_utc TIMESTAMPTZ,
		revision BIGINT NOT NULL DEFAULT 1,
		created_utc TIMESTAMPTZ NOT NULL,
		updated_utc TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_user ON applications (user_id, created_utc)`,
	`CREATE TABLE IF NOT EXISTS system_events (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		created_by TEXT NOT NULL,
		created_utc TIMESTAMPTZ NOT NULL,
		entity_name TEXT NOT NULL DEFAULT '',
		entity_id TEXT NOT NULL DEFAULT '',
		key_props JSONB NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_system_events_window ON system_events (name, created_utc)`,
	`CREATE TABLE IF NOT EXISTS user_statistics (
		user_id UUID PRIMARY KEY,
		rejection_state_counts JSONB NOT NULL DEFAULT '{}',
		avg_application_lifetime_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
		updated_utc TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS system_state (
		id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		last_statistics_run_utc TIMESTAMPTZ
	)`,
}

// Apply executes every schema statement in order.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}

// Count reports how many schema statements Apply runs; used by tests.
func Count() int {
	return len(statements)
}
