package database

import (
	"database/sql"
	"fmt"
	"log"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            uuid PRIMARY KEY,
		email         text NOT NULL UNIQUE,
		username      text NOT NULL UNIQUE,
		password_hash text NOT NULL,
		first_name    text NOT NULL DEFAULT '',
		last_name     text NOT NULL DEFAULT '',
		preferences   jsonb NOT NULL DEFAULT '{}',
		created       timestamptz NOT NULL DEFAULT now(),
		updated       timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         uuid PRIMARY KEY,
		user_id    uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token      text NOT NULL UNIQUE,
		expires_at timestamptz NOT NULL,
		revoked    boolean NOT NULL DEFAULT FALSE,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS goals (
		id                     uuid PRIMARY KEY,
		user_id                uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		parent_id              uuid,
		name                   text NOT NULL,
		description            text NOT NULL DEFAULT '',
		unit                   text NOT NULL,
		target                 double precision NOT NULL CHECK (target >= 0),
		progress               double precision NOT NULL DEFAULT 0 CHECK (progress >= 0),
		timeframe              text NOT NULL,
		current_period_start   timestamptz NOT NULL,
		reset_frequency        text NOT NULL DEFAULT 'never',
		current_reset_progress double precision NOT NULL DEFAULT 0,
		reset_target           double precision,
		resets_completed       integer NOT NULL DEFAULT 0,
		last_reset             timestamptz NOT NULL,
		reset_logs             jsonb NOT NULL DEFAULT '[]',
		goal_direction         text NOT NULL DEFAULT 'increase',
		scale_percent          double precision NOT NULL DEFAULT 5,
		scale_up_enabled       boolean NOT NULL DEFAULT TRUE,
		scale_down_enabled     boolean NOT NULL DEFAULT TRUE,
		round_up               boolean NOT NULL DEFAULT TRUE,
		min_target             double precision NOT NULL DEFAULT 1,
		max_target             double precision NOT NULL DEFAULT 100,
		is_active              boolean NOT NULL DEFAULT TRUE,
		is_archived            boolean NOT NULL DEFAULT FALSE,
		history                jsonb NOT NULL DEFAULT '[]',
		created                timestamptz NOT NULL DEFAULT now(),
		updated                timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_goals_user ON goals (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_goals_parent ON goals (parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_goals_user_flags ON goals (user_id, is_active, is_archived)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_token ON refresh_tokens (token)`,
}

// SetupSchema creates the tables and indexes if they do not exist yet.
// parent_id deliberately has no foreign key: cascading delete is the
// hierarchy manager's job and runs in application code.
func SetupSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema setup failed: %w", err)
		}
	}
	log.Println("Database schema ready")
	return nil
}
