// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/hanacho/journey-map/auth"
	"github.com/hanacho/journey-map/cliparse"
	"github.com/hanacho/journey-map/db"
	"github.com/hanacho/journey-map/middleware"
	"github.com/hanacho/journey-map/models"
	"github.com/hanacho/journey-map/progress"
)

type BlueprintHandler struct {
	blueprints *db.BlueprintStore
	engine     *progress.Engine
	cfg        cliparse.Config
}

func NewBlueprintHandler(d *db.DB, cfg cliparse.Config) *BlueprintHandler {
	return &BlueprintHandler{
		blueprints: db.NewBlueprintStore(d),
		engine:     progress.NewEngine(db.NewProgressStore(d)),
		cfg:        cfg,
	}
}

// CreateBlueprint handles POST /blueprints (admin only)
func (h *BlueprintHandler) CreateBlueprint(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	var req models.CreateBlueprintRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" || req.Institution == "" || req.TargetAudience == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title, institution and targetAudience are required")
		return
	}
	if err := validateSteps(req.RootSteps); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	bp := models.Blueprint{
		ID:             uuid.NewString(),
		Title:          req.Title,
		Institution:    req.Institution,
		TargetAudience: req.TargetAudience,
		RootSteps:      req.RootSteps,
	}
	if err := h.blueprints.Create(&bp); err != nil {
		slog.Error("failed to insert blueprint", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create blueprint")
		return
	}

	slog.Info("blueprint created", "blueprint_id", bp.ID, "admin_id", ident.UserID)

	middleware.JSONResponse(w, http.StatusCreated, bp)
}

// ListBlueprints handles GET /blueprints
// Returns blueprint metadata with the caller's started flag per blueprint.
func (h *BlueprintHandler) ListBlueprints(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	blueprints, err := h.blueprints.List()
	if err != nil {
		slog.Error("failed to query blueprints", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	startedIDs, err := h.engine.StartedBlueprintIDs(ident.UserID)
	if err != nil {
		slog.Error("failed to query started blueprints", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	started := make(map[string]bool, len(startedIDs))
	for _, id := range startedIDs {
		started[id] = true
	}

	summaries := []models.BlueprintSummary{}
	for _, bp := range blueprints {
		summaries = append(summaries, models.BlueprintSummary{
			ID:             bp.ID,
			Title:          bp.Title,
			Institution:    bp.Institution,
			TargetAudience: bp.TargetAudience,
			HasStarted:     started[bp.ID],
		})
	}

	middleware.JSONResponse(w, http.StatusOK, summaries)
}

// GetBlueprint handles GET /blueprints/{id}
// Once the caller has started the blueprint, their own steps replace the
// template in the response.
func (h *BlueprintHandler) GetBlueprint(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	bp, err := h.getBlueprint(w, r)
	if bp == nil || err != nil {
		return
	}

	sum, err := h.engine.Summary(ident.UserID, bp.ID)
	if err != nil {
		slog.Error("failed to assemble progress tree", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	view := models.BlueprintView{Blueprint: *bp, HasStarted: sum.HasStarted, IsNew: !sum.HasStarted}
	if sum.HasStarted && len(sum.Steps) > 0 {
		view.RootSteps = sum.Steps
	}

	middleware.JSONResponse(w, http.StatusOK, view)
}

// StartBlueprint handles POST /blueprints/{id}/start
// Initializes the caller's progress from the template. Starting an already
// started blueprint is a benign no-op that returns the current tree.
func (h *BlueprintHandler) StartBlueprint(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	bp, err := h.getBlueprint(w, r)
	if bp == nil || err != nil {
		return
	}

	created, err := h.engine.Initialize(ident.UserID, bp.ID, bp.RootSteps)
	if err != nil {
		slog.Error("failed to initialize blueprint", "error", err, "blueprint_id", bp.ID, "user_id", ident.UserID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start blueprint")
		return
	}
	if created {
		slog.Info("blueprint started", "blueprint_id", bp.ID, "user_id", ident.UserID)
	}

	sum, err := h.engine.Summary(ident.UserID, bp.ID)
	if err != nil {
		slog.Error("failed to assemble progress tree", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	view := models.BlueprintView{Blueprint: *bp, HasStarted: sum.HasStarted, IsNew: false}
	if len(sum.Steps) > 0 {
		view.RootSteps = sum.Steps
	}

	middleware.JSONResponse(w, http.StatusOK, view)
}

// UpdateBlueprint handles PATCH /blueprints/{id} (admin only)
// Edits never touch records of users who already started the blueprint.
func (h *BlueprintHandler) UpdateBlueprint(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	bp, err := h.getBlueprint(w, r)
	if bp == nil || err != nil {
		return
	}

	var req models.UpdateBlueprintRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title != nil {
		bp.Title = *req.Title
	}
	if req.Institution != nil {
		bp.Institution = *req.Institution
	}
	if req.TargetAudience != nil {
		bp.TargetAudience = *req.TargetAudience
	}
	if req.RootSteps != nil {
		if err := validateSteps(req.RootSteps); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		bp.RootSteps = req.RootSteps
	}

	if err := h.blueprints.Update(bp); err != nil {
		slog.Error("failed to update blueprint", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update blueprint")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, bp)
}

// DeleteBlueprint handles DELETE /blueprints/{id} (admin only)
// Existing user progress keeps its rows; only the template goes away.
func (h *BlueprintHandler) DeleteBlueprint(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "blueprint id is required")
		return
	}

	if err := h.blueprints.Delete(id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Blueprint not found")
			return
		}
		slog.Error("failed to delete blueprint", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete blueprint")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// getBlueprint loads the blueprint named in the path, writing the error
// response itself when it cannot.
func (h *BlueprintHandler) getBlueprint(w http.ResponseWriter, r *http.Request) (*models.Blueprint, error) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "blueprint id is required")
		return nil, nil
	}

	bp, err := h.blueprints.Get(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Blueprint not found")
			return nil, nil
		}
		slog.Error("failed to query blueprint", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil, err
	}
	return bp, nil
}

func requireAdmin(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	ident, ok := middleware.IdentityFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return auth.Identity{}, false
	}
	if ident.Role != models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin role required")
		return auth.Identity{}, false
	}
	return ident, true
}

// validateSteps checks ids, titles, and statuses through the whole forest.
func validateSteps(steps []*models.Step) error {
	for _, step := range steps {
		if step == nil {
			return fmt.Errorf("steps must not be null")
		}
		if step.ID == "" {
			return fmt.Errorf("every step needs an id")
		}
		if step.Title == "" {
			return fmt.Errorf("step %s needs a title", step.ID)
		}
		if step.Status != "" && !models.ValidStatus(step.Status) {
			return fmt.Errorf("step %s has unknown status %q", step.ID, step.Status)
		}
		if err := validateSteps(step.Children); err != nil {
			return err
		}
	}
	return nil
}
