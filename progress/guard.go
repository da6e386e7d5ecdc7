// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package progress

import (
	"fmt"

	"github.com/hanacho/journey-map/models"
)

// CanTransition validates a status change against the step's direct
// children. Allowed moves:
//
//	To_Do       -> In_Progress   unconditional
//	In_Progress -> Completed     only when every non-Comment child is Completed
//	Completed   -> To_Do         unconditional (reopen)
//
// Comment is never reachable through this cycle; it is set only by a raw
// patch. On rejection the returned error wraps ErrInvalidTransition and the
// step's status is expected to stay unchanged.
func CanTransition(current, next string, children []models.ProgressRecord) error {
	switch {
	case current == models.StatusToDo && next == models.StatusInProgress:
		return nil
	case current == models.StatusInProgress && next == models.StatusCompleted:
		for _, child := range children {
			if child.Status == models.StatusComment {
				continue
			}
			if child.Status != models.StatusCompleted {
				return fmt.Errorf("%w: child step %q is %s", ErrInvalidTransition, child.StepID, child.Status)
			}
		}
		return nil
	case current == models.StatusCompleted && next == models.StatusToDo:
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
}

// Completion counts completed and total trackable steps. Comment rows are
// informational and skipped on both sides.
func Completion(records []models.ProgressRecord) (completed, total int) {
	for _, rec := range records {
		if rec.Status == models.StatusComment {
			continue
		}
		total++
		if rec.Status == models.StatusCompleted {
			completed++
		}
	}
	return completed, total
}

// Percent returns the completion percentage rounded to the nearest integer,
// or 0 when there is nothing trackable.
func Percent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return (completed*100 + total/2) / total
}
