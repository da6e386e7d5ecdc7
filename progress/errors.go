// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package progress

import "errors"

var (
	// ErrNotFound is returned when a progress record does not exist in the
	// requested scope.
	ErrNotFound = errors.New("progress record not found")

	// ErrInvalidTransition is returned when a guarded status change is
	// rejected; the record is left unchanged.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConflict is reported by stores when an insert collides with the
	// (user, blueprint, step) uniqueness constraint. The engine treats it
	// as a lost benign race, not a failure.
	ErrConflict = errors.New("progress record already exists")
)
