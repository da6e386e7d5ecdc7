// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hanacho/journey-map/models"
)

// BlueprintStore persists admin-authored templates. The step tree is stored
// as a JSON document; immutability for ordinary users is enforced at the
// handler layer.
type BlueprintStore struct {
	db *DB
}

func NewBlueprintStore(db *DB) *BlueprintStore {
	return &BlueprintStore{db: db}
}

func (s *BlueprintStore) Create(bp *models.Blueprint) error {
	steps, err := marshalSteps(bp.RootSteps)
	if err != nil {
		return err
	}

	_, err = s.db.conn.Exec(s.db.q(`
		INSERT INTO blueprint (id, title, institution, target_audience, root_steps)
		VALUES (?, ?, ?, ?, ?)
	`), bp.ID, bp.Title, bp.Institution, bp.TargetAudience, steps)
	if err != nil {
		return fmt.Errorf("failed to insert blueprint: %w", err)
	}
	return nil
}

func (s *BlueprintStore) Get(id string) (*models.Blueprint, error) {
	var bp models.Blueprint
	var steps string
	err := s.db.conn.QueryRow(s.db.q(`
		SELECT id, title, institution, target_audience, root_steps
		FROM blueprint
		WHERE id = ?
	`), id).Scan(&bp.ID, &bp.Title, &bp.Institution, &bp.TargetAudience, &steps)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: blueprint %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query blueprint: %w", err)
	}

	if err := json.Unmarshal([]byte(steps), &bp.RootSteps); err != nil {
		return nil, fmt.Errorf("failed to decode blueprint steps: %w", err)
	}
	return &bp, nil
}

// List returns blueprint metadata without step trees.
func (s *BlueprintStore) List() ([]models.Blueprint, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, title, institution, target_audience
		FROM blueprint
		ORDER BY title, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query blueprints: %w", err)
	}
	defer rows.Close()

	var blueprints []models.Blueprint
	for rows.Next() {
		var bp models.Blueprint
		if err := rows.Scan(&bp.ID, &bp.Title, &bp.Institution, &bp.TargetAudience); err != nil {
			return nil, fmt.Errorf("failed to scan blueprint: %w", err)
		}
		blueprints = append(blueprints, bp)
	}
	return blueprints, rows.Err()
}

func (s *BlueprintStore) Update(bp *models.Blueprint) error {
	steps, err := marshalSteps(bp.RootSteps)
	if err != nil {
		return err
	}

	res, err := s.db.conn.Exec(s.db.q(`
		UPDATE blueprint
		SET title = ?, institution = ?, target_audience = ?, root_steps = ?
		WHERE id = ?
	`), bp.Title, bp.Institution, bp.TargetAudience, steps, bp.ID)
	if err != nil {
		return fmt.Errorf("failed to update blueprint: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: blueprint %s", ErrNotFound, bp.ID)
	}
	return nil
}

// Delete removes the blueprint only. Existing user progress keeps its rows;
// they reference the blueprint by id without a foreign key.
func (s *BlueprintStore) Delete(id string) error {
	res, err := s.db.conn.Exec(s.db.q(`DELETE FROM blueprint WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete blueprint: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: blueprint %s", ErrNotFound, id)
	}
	return nil
}

func marshalSteps(steps []*models.Step) (string, error) {
	if steps == nil {
		steps = []*models.Step{}
	}
	data, err := json.Marshal(steps)
	if err != nil {
		return "", fmt.Errorf("failed to encode blueprint steps: %w", err)
	}
	return string(data), nil
}
