// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package progress

import (
	"sort"

	"github.com/hanacho/journey-map/models"
)

// TemplateToRecords flattens a template step forest into draft progress
// records for one user. Walks depth-first in declared order; Order restarts
// at 0 within every sibling group. Record IDs and timestamps are left zero
// for the caller to fill before persisting. Pure and deterministic.
func TemplateToRecords(roots []*models.Step, userID, blueprintID string) []models.ProgressRecord {
	var records []models.ProgressRecord
	flattenSteps(roots, nil, userID, blueprintID, &records)
	return records
}

func flattenSteps(steps []*models.Step, parentID *string, userID, blueprintID string, out *[]models.ProgressRecord) {
	for i, step := range steps {
		if step == nil {
			continue
		}
		status := step.Status
		if status == "" {
			status = models.StatusToDo
		}
		*out = append(*out, models.ProgressRecord{
			UserID:      userID,
			BlueprintID: blueprintID,
			StepID:      step.ID,
			ParentID:    parentID,
			Order:       i,
			Status:      status,
			Title:       step.Title,
			Details:     step.Details,
			HasFeedback: step.HasFeedback,
		})
		if len(step.Children) > 0 {
			pid := step.ID
			flattenSteps(step.Children, &pid, userID, blueprintID, out)
		}
	}
}

// RecordsToTree reassembles a flat record set into an ordered forest.
// Siblings are ordered by Order ascending, ties broken by StepID. A record
// whose ParentID is nil, missing from the set, or pointing at itself
// becomes a root; such step IDs (nil parents aside) are reported in
// orphans. Cyclic rows are broken apart and surface as roots too, so the
// output always contains every record exactly once.
func RecordsToTree(records []models.ProgressRecord) (roots []*models.Step, orphans []string) {
	if len(records) == 0 {
		return nil, nil
	}

	sorted := make([]models.ProgressRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].StepID < sorted[j].StepID
	})

	// First pass: materialize every record as a node.
	nodes := make(map[string]*models.Step, len(sorted))
	for _, rec := range sorted {
		nodes[rec.StepID] = &models.Step{
			ID:              rec.StepID,
			Title:           rec.Title,
			Status:          rec.Status,
			Details:         rec.Details,
			HasFeedback:     rec.HasFeedback,
			UserRating:      rec.UserRating,
			UserFeedback:    rec.UserFeedback,
			PersonalComment: rec.PersonalComment,
			Children:        []*models.Step{},
		}
	}

	// Second pass: link each node under its parent or into the root list.
	parentOf := make(map[string]*models.Step, len(sorted))
	for _, rec := range sorted {
		node := nodes[rec.StepID]
		switch {
		case rec.ParentID == nil:
			roots = append(roots, node)
		case *rec.ParentID == rec.StepID, nodes[*rec.ParentID] == nil:
			roots = append(roots, node)
			orphans = append(orphans, rec.StepID)
		default:
			parent := nodes[*rec.ParentID]
			parent.Children = append(parent.Children, node)
			parentOf[rec.StepID] = parent
		}
	}

	// Nodes caught in a parent cycle are reachable from no root. Promote
	// one node per cycle (first in sort order) until everything surfaces.
	reached := make(map[string]bool, len(nodes))
	for _, r := range roots {
		markReached(r, reached)
	}
	for len(reached) < len(nodes) {
		for _, rec := range sorted {
			if reached[rec.StepID] {
				continue
			}
			node := nodes[rec.StepID]
			if parent := parentOf[rec.StepID]; parent != nil {
				parent.Children = removeChild(parent.Children, node)
			}
			roots = append(roots, node)
			orphans = append(orphans, rec.StepID)
			markReached(node, reached)
			break
		}
	}

	return roots, orphans
}

func markReached(node *models.Step, reached map[string]bool) {
	if reached[node.ID] {
		return
	}
	reached[node.ID] = true
	for _, child := range node.Children {
		markReached(child, reached)
	}
}

func removeChild(children []*models.Step, node *models.Step) []*models.Step {
	for i, c := range children {
		if c == node {
			return append(children[:i], children[i+1:]...)
		}
	}
	return children
}
