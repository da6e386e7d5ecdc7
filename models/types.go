// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Step status constants
const (
	StatusToDo       = "To_Do"
	StatusInProgress = "In_Progress"
	StatusCompleted  = "Completed"
	StatusComment    = "Comment"
)

// User role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidStatus reports whether s is one of the four step statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusCompleted, StatusComment:
		return true
	}
	return false
}

// Domain types

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never expose in JSON
	Role         string `json:"role"`
}

// Step is a node in a step tree: both the immutable template shape stored
// on a blueprint and the per-user view rebuilt from progress records.
type Step struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Status          string  `json:"status,omitempty"`
	Details         *string `json:"details,omitempty"`
	HasFeedback     bool    `json:"hasFeedback"`
	UserRating      *int    `json:"userRating,omitempty"`
	UserFeedback    *string `json:"userFeedback,omitempty"`
	PersonalComment *string `json:"personalComment,omitempty"`
	Children        []*Step `json:"children"`
}

type Blueprint struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Institution    string  `json:"institution"`
	TargetAudience string  `json:"targetAudience"`
	RootSteps      []*Step `json:"rootSteps"`
}

// ProgressRecord is one flat per-user step row. ParentID references another
// record's StepID within the same (UserID, BlueprintID) scope, not its
// record ID.
type ProgressRecord struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	BlueprintID     string    `json:"blueprintId"`
	StepID          string    `json:"stepId"`
	ParentID        *string   `json:"parentId,omitempty"`
	Order           int       `json:"order"`
	Status          string    `json:"status"`
	Title           string    `json:"title"`
	Details         *string   `json:"details,omitempty"`
	HasFeedback     bool      `json:"hasFeedback"`
	UserRating      *int      `json:"userRating,omitempty"`
	UserFeedback    *string   `json:"userFeedback,omitempty"`
	PersonalComment *string   `json:"personalComment,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ProgressPatch is a partial update for one record. Nil fields are left
// untouched by an upsert; set fields overwrite.
type ProgressPatch struct {
	Title           *string `json:"title,omitempty"`
	Details         *string `json:"details,omitempty"`
	ParentID        *string `json:"parentId,omitempty"`
	Order           *int    `json:"order,omitempty"`
	Status          *string `json:"status,omitempty"`
	HasFeedback     *bool   `json:"hasFeedback,omitempty"`
	UserRating      *int    `json:"userRating,omitempty"`
	UserFeedback    *string `json:"userFeedback,omitempty"`
	PersonalComment *string `json:"personalComment,omitempty"`
}

// Request types

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateBlueprintRequest struct {
	Title          string  `json:"title"`
	Institution    string  `json:"institution"`
	TargetAudience string  `json:"targetAudience"`
	RootSteps      []*Step `json:"rootSteps"`
}

type UpdateBlueprintRequest struct {
	Title          *string `json:"title,omitempty"`
	Institution    *string `json:"institution,omitempty"`
	TargetAudience *string `json:"targetAudience,omitempty"`
	RootSteps      []*Step `json:"rootSteps,omitempty"`
}

type UpdateProgressRequest struct {
	BlueprintID string `json:"blueprintId"`
	StepID      string `json:"stepId"`
	ProgressPatch
}

type CreateProgressRequest struct {
	BlueprintID string  `json:"blueprintId"`
	StepID      string  `json:"stepId"`
	Title       string  `json:"title"`
	ParentID    *string `json:"parentId,omitempty"`
	Order       *int    `json:"order,omitempty"`
	Status      *string `json:"status,omitempty"`
	Details     *string `json:"details,omitempty"`
	HasFeedback *bool   `json:"hasFeedback,omitempty"`
}

type TransitionRequest struct {
	BlueprintID string `json:"blueprintId"`
	Status      string `json:"status"`
}

// Response types

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type BlueprintSummary struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Institution    string `json:"institution"`
	TargetAudience string `json:"targetAudience"`
	HasStarted     bool   `json:"hasStarted"`
}

// BlueprintView is a blueprint with the viewer's own steps substituted for
// the template once they have started it.
type BlueprintView struct {
	Blueprint
	HasStarted bool `json:"hasStarted"`
	IsNew      bool `json:"isNew"`
}

type ProgressTreeResponse struct {
	HasStarted bool    `json:"hasStarted"`
	Steps      []*Step `json:"steps"`
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percent    int     `json:"percent"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
