// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles schema creation and the SQL-backed stores.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and
indexes. The DDL is restricted to syntax both SQLite and PostgreSQL
accept, and every query is written with ? placeholders that DB rewrites
to $N when running on postgres.

# Tables

  - app_user: accounts with hashed passwords and a role
  - blueprint: admin-authored templates; the step tree lives in root_steps
    as a JSON document
  - user_progress: one flat row per user per step, with parent_id pointing
    at another row's step_id in the same (user_id, blueprint_id) scope

# Constraints

user_progress carries UNIQUE (user_id, blueprint_id, step_id). That
constraint is what makes concurrent first-initialization safe: the losing
bulk insert fails instead of duplicating rows, and ProgressStore reports
it as progress.ErrConflict.

There is deliberately no foreign key from user_progress to blueprint -
deleting a blueprint leaves user progress in place.

# Stores

  - ProgressStore: progress.RecordStore over user_progress
  - BlueprintStore: template CRUD over blueprint
  - UserStore: account lookup over app_user
*/
package db
