// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/hanacho/journey-map/cliparse"
	"github.com/hanacho/journey-map/db"
	"github.com/hanacho/journey-map/handlers"
	"github.com/hanacho/journey-map/middleware"
)

func NewRouter(d *db.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(d, cfg)
	blueprintHandler := handlers.NewBlueprintHandler(d, cfg)
	progressHandler := handlers.NewProgressHandler(d, cfg)

	secured := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(cfg.JWTSecret, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /auth/register", middleware.WithLogging(userHandler.Register))
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(userHandler.Login))
	mux.HandleFunc("GET /auth/me", secured(userHandler.Me))

	// Blueprints (admin authoring + user browsing)
	mux.HandleFunc("POST /blueprints", secured(blueprintHandler.CreateBlueprint))
	mux.HandleFunc("GET /blueprints", secured(blueprintHandler.ListBlueprints))
	mux.HandleFunc("GET /blueprints/{id}", secured(blueprintHandler.GetBlueprint))
	mux.HandleFunc("PATCH /blueprints/{id}", secured(blueprintHandler.UpdateBlueprint))
	mux.HandleFunc("DELETE /blueprints/{id}", secured(blueprintHandler.DeleteBlueprint))
	mux.HandleFunc("POST /blueprints/{id}/start", secured(blueprintHandler.StartBlueprint))

	// Per-user progress
	mux.HandleFunc("GET /progress", secured(progressHandler.GetProgress))
	mux.HandleFunc("PATCH /progress", secured(progressHandler.UpdateProgress))
	mux.HandleFunc("POST /progress", secured(progressHandler.CreateProgress))
	mux.HandleFunc("POST /progress/{stepId}/status", secured(progressHandler.TransitionStatus))
	mux.HandleFunc("DELETE /progress/{stepId}", secured(progressHandler.DeleteProgress))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("journey-map API v1"))
	})

	return mux
}
