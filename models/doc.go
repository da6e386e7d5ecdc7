// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - User: account with email, hashed password, and role
  - Step: one node of a step tree (template or per-user view)
  - Blueprint: admin-authored template with a root step forest
  - ProgressRecord: one flat per-user step row with a parent pointer
  - ProgressPatch: partial record update; nil fields are preserved

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest / LoginRequest: email, password
  - CreateBlueprintRequest / UpdateBlueprintRequest
  - UpdateProgressRequest: blueprintId, stepId + patch fields
  - CreateProgressRequest: explicit new step for a user's tree
  - TransitionRequest: guarded status change

# Response Types

  - AuthResponse: token, user
  - BlueprintSummary: listing row with hasStarted
  - BlueprintView: blueprint with the viewer's steps once started
  - ProgressTreeResponse: hasStarted, steps, completion counters
  - ErrorResponse: error, message

# Constants

Step statuses:

	StatusToDo       = "To_Do"
	StatusInProgress = "In_Progress"
	StatusCompleted  = "Completed"
	StatusComment    = "Comment"

Comment marks a step as informational: it is excluded from the
children-complete gate and from completion percentages.

Roles:

	RoleUser  = "user"
	RoleAdmin = "admin"
*/
package models
