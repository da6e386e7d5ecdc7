// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS. The DDL sticks to the
// dialect subset shared by SQLite and PostgreSQL.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Accounts
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin'))
);

-- Blueprints (admin-authored templates; root_steps holds the step tree as JSON)
CREATE TABLE IF NOT EXISTS blueprint (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    institution TEXT NOT NULL,
    target_audience TEXT NOT NULL,
    root_steps TEXT NOT NULL DEFAULT '[]'
);

-- Per-user step records. parent_id references step_id within the same
-- (user_id, blueprint_id) scope, not another row's id. Progress rows
-- reference blueprints by id only; deleting a blueprint does not cascade.
CREATE TABLE IF NOT EXISTS user_progress (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    blueprint_id TEXT NOT NULL,
    step_id TEXT NOT NULL,
    parent_id TEXT,
    step_order INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'To_Do' CHECK (status IN ('To_Do', 'In_Progress', 'Completed', 'Comment')),
    title TEXT NOT NULL DEFAULT '',
    details TEXT,
    has_feedback BOOLEAN NOT NULL DEFAULT FALSE,
    user_rating INTEGER,
    user_feedback TEXT,
    personal_comment TEXT,
    updated_at TIMESTAMP NOT NULL,
    UNIQUE (user_id, blueprint_id, step_id)
);

CREATE INDEX IF NOT EXISTS idx_user_progress_scope ON user_progress(user_id, blueprint_id);
CREATE INDEX IF NOT EXISTS idx_user_progress_parent ON user_progress(user_id, blueprint_id, parent_id);
`
