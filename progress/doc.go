// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package progress is the progress-tree reconciliation engine.

Many users advance independently through the same admin-authored blueprint.
Each user's state lives as flat records with parent pointers; this package
owns the conversions between that flat form and the nested trees the API
serves, plus every invariant on top of them.

# Tree Codec

TemplateToRecords flattens a template forest into draft records, depth-first
in declared order, with sibling order counters restarting per group.
RecordsToTree rebuilds the forest with a two-pass map-then-link algorithm:
siblings sort by order (step ID breaks ties), orphaned records degrade to
roots instead of being dropped, and cyclic rows are broken apart rather
than looping. Both functions are pure.

# Engine

Engine orchestrates against a RecordStore:

  - Initialize: idempotent template seeding; an existing record count or a
    lost race against the uniqueness constraint both mean "already started"
  - Summary: tree assembly with hasStarted and completion counters
  - Upsert: field-presence merge of a patch, creating the record if absent
  - Transition: guarded status change
  - DeleteSubtree: cascading delete bounded by a visited set
  - HasStarted / StartedBlueprintIDs: derived lookups

# Status Guard

CanTransition enforces the per-step cycle:

	To_Do -> In_Progress -> Completed -> To_Do

A step may only complete once every non-Comment direct child is Completed.
Comment steps are informational: unreachable through the guarded cycle and
excluded from Completion's counters. The guard applies only to Transition; a
raw Upsert patch can still set any status.

No operation here retries, locks, or spans more than one store round trip
per step level; concurrent last-write-wins edits are accepted behavior.
*/
package progress
