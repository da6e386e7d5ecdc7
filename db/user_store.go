// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	"github.com/hanacho/journey-map/models"
)

// ErrEmailTaken is returned when registration collides with an existing
// account.
var ErrEmailTaken = fmt.Errorf("email already registered")

// UserStore persists accounts.
type UserStore struct {
	db *DB
}

func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(user *models.User) error {
	_, err := s.db.conn.Exec(s.db.q(`
		INSERT INTO app_user (id, email, password_hash, role)
		VALUES (?, ?, ?, ?)
	`), user.ID, user.Email, user.PasswordHash, user.Role)
	if err != nil {
		if isConflict(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// ByEmail returns nil without error when no account matches.
func (s *UserStore) ByEmail(email string) (*models.User, error) {
	return s.one(`SELECT id, email, password_hash, role FROM app_user WHERE email = ?`, email)
}

// ByID returns nil without error when no account matches.
func (s *UserStore) ByID(id string) (*models.User, error) {
	return s.one(`SELECT id, email, password_hash, role FROM app_user WHERE id = ?`, id)
}

func (s *UserStore) one(query string, arg any) (*models.User, error) {
	var user models.User
	err := s.db.conn.QueryRow(s.db.q(query), arg).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}
