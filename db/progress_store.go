// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	"github.com/hanacho/journey-map/models"
	"github.com/hanacho/journey-map/progress"
)

// ProgressStore is the SQL implementation of progress.RecordStore.
type ProgressStore struct {
	db *DB
}

func NewProgressStore(db *DB) *ProgressStore {
	return &ProgressStore{db: db}
}

const progressColumns = `id, user_id, blueprint_id, step_id, parent_id, step_order, status, title,
       details, has_feedback, user_rating, user_feedback, personal_comment, updated_at`

func (s *ProgressStore) Count(scope progress.Scope) (int, error) {
	var count int
	err := s.db.conn.QueryRow(s.db.q(`
		SELECT COUNT(*) FROM user_progress WHERE user_id = ? AND blueprint_id = ?
	`), scope.UserID, scope.BlueprintID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count progress records: %w", err)
	}
	return count, nil
}

func (s *ProgressStore) FindAll(scope progress.Scope) ([]models.ProgressRecord, error) {
	rows, err := s.db.conn.Query(s.db.q(`
		SELECT `+progressColumns+`
		FROM user_progress
		WHERE user_id = ? AND blueprint_id = ?
		ORDER BY step_order, step_id
	`), scope.UserID, scope.BlueprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress records: %w", err)
	}
	defer rows.Close()

	return collectProgress(rows)
}

func (s *ProgressStore) FindOne(scope progress.Scope, stepID string) (*models.ProgressRecord, error) {
	row := s.db.conn.QueryRow(s.db.q(`
		SELECT `+progressColumns+`
		FROM user_progress
		WHERE user_id = ? AND blueprint_id = ? AND step_id = ?
	`), scope.UserID, scope.BlueprintID, stepID)

	rec, err := scanProgress(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query progress record: %w", err)
	}
	return rec, nil
}

func (s *ProgressStore) FindChildren(scope progress.Scope, parentID string) ([]models.ProgressRecord, error) {
	rows, err := s.db.conn.Query(s.db.q(`
		SELECT `+progressColumns+`
		FROM user_progress
		WHERE user_id = ? AND blueprint_id = ? AND parent_id = ?
		ORDER BY step_order, step_id
	`), scope.UserID, scope.BlueprintID, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query child records: %w", err)
	}
	defer rows.Close()

	return collectProgress(rows)
}

func (s *ProgressStore) BulkInsert(records []models.ProgressRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := s.db.q(`
		INSERT INTO user_progress (` + progressColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	for _, rec := range records {
		_, err := tx.Exec(insert,
			rec.ID, rec.UserID, rec.BlueprintID, rec.StepID, rec.ParentID, rec.Order, rec.Status, rec.Title,
			rec.Details, rec.HasFeedback, rec.UserRating, rec.UserFeedback, rec.PersonalComment, rec.UpdatedAt,
		)
		if err != nil {
			if isConflict(err) {
				return fmt.Errorf("%w: step %s", progress.ErrConflict, rec.StepID)
			}
			return fmt.Errorf("failed to insert progress record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk insert: %w", err)
	}
	return nil
}

func (s *ProgressStore) BulkDelete(scope progress.Scope, stepIDs []string) error {
	if len(stepIDs) == 0 {
		return nil
	}

	args := []any{scope.UserID, scope.BlueprintID}
	for _, id := range stepIDs {
		args = append(args, id)
	}

	_, err := s.db.conn.Exec(s.db.q(`
		DELETE FROM user_progress
		WHERE user_id = ? AND blueprint_id = ? AND step_id IN (`+placeholders(len(stepIDs))+`)
	`), args...)
	if err != nil {
		return fmt.Errorf("failed to delete progress records: %w", err)
	}
	return nil
}

func (s *ProgressStore) Save(rec *models.ProgressRecord) error {
	res, err := s.db.conn.Exec(s.db.q(`
		UPDATE user_progress
		SET parent_id = ?, step_order = ?, status = ?, title = ?, details = ?, has_feedback = ?,
		    user_rating = ?, user_feedback = ?, personal_comment = ?, updated_at = ?
		WHERE user_id = ? AND blueprint_id = ? AND step_id = ?
	`), rec.ParentID, rec.Order, rec.Status, rec.Title, rec.Details, rec.HasFeedback,
		rec.UserRating, rec.UserFeedback, rec.PersonalComment, rec.UpdatedAt,
		rec.UserID, rec.BlueprintID, rec.StepID)
	if err != nil {
		return fmt.Errorf("failed to update progress record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected > 0 {
		return nil
	}

	_, err = s.db.conn.Exec(s.db.q(`
		INSERT INTO user_progress (`+progressColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), rec.ID, rec.UserID, rec.BlueprintID, rec.StepID, rec.ParentID, rec.Order, rec.Status, rec.Title,
		rec.Details, rec.HasFeedback, rec.UserRating, rec.UserFeedback, rec.PersonalComment, rec.UpdatedAt)
	if err != nil {
		if isConflict(err) {
			return fmt.Errorf("%w: step %s", progress.ErrConflict, rec.StepID)
		}
		return fmt.Errorf("failed to insert progress record: %w", err)
	}
	return nil
}

func (s *ProgressStore) BlueprintIDs(userID string) ([]string, error) {
	rows, err := s.db.conn.Query(s.db.q(`
		SELECT DISTINCT blueprint_id FROM user_progress WHERE user_id = ?
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query started blueprints: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan blueprint id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func collectProgress(rows *sql.Rows) ([]models.ProgressRecord, error) {
	var records []models.ProgressRecord
	for rows.Next() {
		rec, err := scanProgress(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func scanProgress(scan func(...any) error) (*models.ProgressRecord, error) {
	var rec models.ProgressRecord
	var parentID, details, userFeedback, personalComment sql.NullString
	var userRating sql.NullInt64

	err := scan(
		&rec.ID, &rec.UserID, &rec.BlueprintID, &rec.StepID, &parentID, &rec.Order, &rec.Status, &rec.Title,
		&details, &rec.HasFeedback, &userRating, &userFeedback, &personalComment, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		rec.ParentID = &parentID.String
	}
	if details.Valid {
		rec.Details = &details.String
	}
	if userRating.Valid {
		rating := int(userRating.Int64)
		rec.UserRating = &rating
	}
	if userFeedback.Valid {
		rec.UserFeedback = &userFeedback.String
	}
	if personalComment.Valid {
		rec.PersonalComment = &personalComment.String
	}
	return &rec, nil
}
