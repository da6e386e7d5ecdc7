// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hanacho/journey-map/cliparse"
	"github.com/hanacho/journey-map/db"
	"github.com/hanacho/journey-map/middleware"
	"github.com/hanacho/journey-map/models"
	"github.com/hanacho/journey-map/progress"
)

type ProgressHandler struct {
	engine *progress.Engine
	cfg    cliparse.Config
}

func NewProgressHandler(d *db.DB, cfg cliparse.Config) *ProgressHandler {
	return &ProgressHandler{
		engine: progress.NewEngine(db.NewProgressStore(d)),
		cfg:    cfg,
	}
}

// GetProgress handles GET /progress?blueprintId=...
// Returns the caller's assembled tree with completion counters. An empty
// tree with hasStarted=false means the blueprint was never started.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	blueprintID := r.URL.Query().Get("blueprintId")
	if blueprintID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "blueprintId is required")
		return
	}

	sum, err := h.engine.Summary(ident.UserID, blueprintID)
	if err != nil {
		slog.Error("failed to assemble progress tree", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	steps := sum.Steps
	if steps == nil {
		steps = []*models.Step{}
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProgressTreeResponse{
		HasStarted: sum.HasStarted,
		Steps:      steps,
		Completed:  sum.Completed,
		Total:      sum.Total,
		Percent:    progress.Percent(sum.Completed, sum.Total),
	})
}

// UpdateProgress handles PATCH /progress
// Raw upsert: only fields present in the body are overwritten. This is the
// path for saving feedback, ratings, and comments; it does not consult the
// status guard.
func (h *ProgressHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.UpdateProgressRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.BlueprintID == "" || req.StepID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "blueprintId and stepId are required")
		return
	}
	if req.Status != nil && !models.ValidStatus(*req.Status) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown status "+*req.Status)
		return
	}

	rec, err := h.engine.Upsert(ident.UserID, req.BlueprintID, req.StepID, req.ProgressPatch)
	if err != nil {
		slog.Error("failed to upsert progress", "error", err, "step_id", req.StepID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save progress")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, rec)
}

// CreateProgress handles POST /progress
// Adds a user-authored step to the caller's tree.
func (h *ProgressHandler) CreateProgress(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CreateProgressRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.BlueprintID == "" || req.StepID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "blueprintId and stepId are required")
		return
	}
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Status != nil && !models.ValidStatus(*req.Status) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown status "+*req.Status)
		return
	}

	patch := models.ProgressPatch{
		Title:       &req.Title,
		ParentID:    req.ParentID,
		Order:       req.Order,
		Status:      req.Status,
		Details:     req.Details,
		HasFeedback: req.HasFeedback,
	}
	rec, err := h.engine.Upsert(ident.UserID, req.BlueprintID, req.StepID, patch)
	if err != nil {
		slog.Error("failed to create progress", "error", err, "step_id", req.StepID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create step")
		return
	}

	slog.Info("step created", "user_id", ident.UserID, "blueprint_id", req.BlueprintID, "step_id", req.StepID)

	middleware.JSONResponse(w, http.StatusCreated, rec)
}

// TransitionStatus handles POST /progress/{stepId}/status
// Guarded status change: a step completes only once every non-Comment
// child is completed. Rejections leave the record untouched.
func (h *ProgressHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	stepID := r.PathValue("stepId")
	if stepID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "stepId is required")
		return
	}

	var req models.TransitionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.BlueprintID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "blueprintId is required")
		return
	}
	if !models.ValidStatus(req.Status) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown status "+req.Status)
		return
	}

	rec, err := h.engine.Transition(ident.UserID, req.BlueprintID, stepID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, progress.ErrNotFound):
			middleware.ErrorResponse(w, http.StatusNotFound, "Step not found")
		case errors.Is(err, progress.ErrInvalidTransition):
			middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		default:
			slog.Error("failed to transition step", "error", err, "step_id", stepID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update status")
		}
		return
	}

	middleware.JSONResponse(w, http.StatusOK, rec)
}

// DeleteProgress handles DELETE /progress/{stepId}?blueprintId=...
// Removes the step and its whole subtree from the caller's records.
func (h *ProgressHandler) DeleteProgress(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	stepID := r.PathValue("stepId")
	if stepID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "stepId is required")
		return
	}
	blueprintID := r.URL.Query().Get("blueprintId")
	if blueprintID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "blueprintId is required")
		return
	}

	if err := h.engine.DeleteSubtree(ident.UserID, blueprintID, stepID); err != nil {
		slog.Error("failed to delete subtree", "error", err, "step_id", stepID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete step")
		return
	}

	slog.Info("subtree deleted", "user_id", ident.UserID, "blueprint_id", blueprintID, "step_id", stepID)

	w.WriteHeader(http.StatusNoContent)
}
