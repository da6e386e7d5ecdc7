// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package progress

import (
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hanacho/journey-map/models"
)

// Scope identifies one user's records for one blueprint.
type Scope struct {
	UserID      string
	BlueprintID string
}

// RecordStore is the flat per-user record collection the engine runs
// against. Implementations must keep (UserID, BlueprintID, StepID) unique
// and report constraint collisions as ErrConflict.
type RecordStore interface {
	Count(scope Scope) (int, error)
	FindAll(scope Scope) ([]models.ProgressRecord, error)
	FindOne(scope Scope, stepID string) (*models.ProgressRecord, error)
	FindChildren(scope Scope, parentID string) ([]models.ProgressRecord, error)
	BulkInsert(records []models.ProgressRecord) error
	BulkDelete(scope Scope, stepIDs []string) error
	Save(rec *models.ProgressRecord) error
	BlueprintIDs(userID string) ([]string, error)
}

// TreeSummary is one user's assembled view of a blueprint.
type TreeSummary struct {
	Steps      []*models.Step
	HasStarted bool
	Completed  int
	Total      int
}

// Engine reconciles blueprint templates with per-user progress records:
// initialization, tree assembly, single-record upserts, guarded status
// transitions, and cascading deletes.
type Engine struct {
	store RecordStore
	now   func() time.Time
}

func NewEngine(store RecordStore) *Engine {
	return &Engine{store: store, now: time.Now}
}

// Initialize seeds the scope from a template forest. Idempotent: if any
// record already exists the call is a no-op and returns false. A concurrent
// first access losing the insert race to the uniqueness constraint is
// treated the same way.
func (e *Engine) Initialize(userID, blueprintID string, roots []*models.Step) (bool, error) {
	scope := Scope{UserID: userID, BlueprintID: blueprintID}

	count, err := e.store.Count(scope)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	records := TemplateToRecords(roots, userID, blueprintID)
	if len(records) == 0 {
		return false, nil
	}

	stamp := e.now()
	for i := range records {
		records[i].ID = uuid.NewString()
		records[i].UpdatedAt = stamp
	}

	if err := e.store.BulkInsert(records); err != nil {
		if errors.Is(err, ErrConflict) {
			slog.Info("blueprint initialized concurrently", "user_id", userID, "blueprint_id", blueprintID)
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// Summary loads the scope and assembles the user's tree with completion
// counters. An empty scope yields HasStarted=false with no steps; the
// caller decides what "not started" means.
func (e *Engine) Summary(userID, blueprintID string) (TreeSummary, error) {
	scope := Scope{UserID: userID, BlueprintID: blueprintID}

	records, err := e.store.FindAll(scope)
	if err != nil {
		return TreeSummary{}, err
	}

	roots, orphans := RecordsToTree(records)
	if len(orphans) > 0 {
		slog.Warn("malformed progress hierarchy, orphaned steps promoted to roots",
			"user_id", userID, "blueprint_id", blueprintID, "step_ids", orphans)
	}

	completed, total := Completion(records)
	return TreeSummary{
		Steps:      roots,
		HasStarted: len(records) > 0,
		Completed:  completed,
		Total:      total,
	}, nil
}

// Upsert merges a patch into the record for (user, blueprint, step),
// creating the record when absent. Only fields present in the patch are
// overwritten; UpdatedAt is refreshed on every call. Last write wins.
func (e *Engine) Upsert(userID, blueprintID, stepID string, patch models.ProgressPatch) (*models.ProgressRecord, error) {
	scope := Scope{UserID: userID, BlueprintID: blueprintID}

	rec, err := e.store.FindOne(scope, stepID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = &models.ProgressRecord{
			ID:          uuid.NewString(),
			UserID:      userID,
			BlueprintID: blueprintID,
			StepID:      stepID,
			Status:      models.StatusToDo,
		}
	}

	applyPatch(rec, patch)
	rec.UpdatedAt = e.now()

	if err := e.store.Save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Transition applies the guarded status cycle to one step. The guard is
// evaluated against the step's direct children before the write; rejection
// returns ErrInvalidTransition and leaves the record untouched.
func (e *Engine) Transition(userID, blueprintID, stepID, next string) (*models.ProgressRecord, error) {
	scope := Scope{UserID: userID, BlueprintID: blueprintID}

	rec, err := e.store.FindOne(scope, stepID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}

	children, err := e.store.FindChildren(scope, stepID)
	if err != nil {
		return nil, err
	}
	if err := CanTransition(rec.Status, next, children); err != nil {
		return nil, err
	}

	rec.Status = next
	rec.UpdatedAt = e.now()
	if err := e.store.Save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteSubtree removes a step and every transitive descendant in one bulk
// delete. Descendants are gathered level by level; the visited set bounds
// the walk so malformed cyclic data still terminates. Deleting a step that
// does not exist is a no-op.
func (e *Engine) DeleteSubtree(userID, blueprintID, stepID string) error {
	scope := Scope{UserID: userID, BlueprintID: blueprintID}

	visited := map[string]bool{stepID: true}
	frontier := []string{stepID}
	for len(frontier) > 0 {
		var next []string
		for _, id := range frontier {
			children, err := e.store.FindChildren(scope, id)
			if err != nil {
				return err
			}
			for _, child := range children {
				if visited[child.StepID] {
					continue
				}
				visited[child.StepID] = true
				next = append(next, child.StepID)
			}
		}
		frontier = next
	}

	stepIDs := make([]string, 0, len(visited))
	for id := range visited {
		stepIDs = append(stepIDs, id)
	}
	sort.Strings(stepIDs)

	return e.store.BulkDelete(scope, stepIDs)
}

// HasStarted reports whether the user has any records for the blueprint.
func (e *Engine) HasStarted(userID, blueprintID string) (bool, error) {
	count, err := e.store.Count(Scope{UserID: userID, BlueprintID: blueprintID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// StartedBlueprintIDs returns the distinct blueprint IDs the user has
// records for.
func (e *Engine) StartedBlueprintIDs(userID string) ([]string, error) {
	return e.store.BlueprintIDs(userID)
}

func applyPatch(rec *models.ProgressRecord, patch models.ProgressPatch) {
	if patch.Title != nil {
		rec.Title = *patch.Title
	}
	if patch.Details != nil {
		rec.Details = patch.Details
	}
	if patch.ParentID != nil {
		rec.ParentID = patch.ParentID
	}
	if patch.Order != nil {
		rec.Order = *patch.Order
	}
	if patch.Status != nil {
		rec.Status = *patch.Status
	}
	if patch.HasFeedback != nil {
		rec.HasFeedback = *patch.HasFeedback
	}
	if patch.UserRating != nil {
		rec.UserRating = patch.UserRating
	}
	if patch.UserFeedback != nil {
		rec.UserFeedback = patch.UserFeedback
	}
	if patch.PersonalComment != nil {
		rec.PersonalComment = patch.PersonalComment
	}
}
