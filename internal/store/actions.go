package store

import "cadence-cli/internal/model"

// Action is the closed, tagged mutation protocol consumed by Apply.
// Anything not in this set does not mutate engine state.
type Action interface{ isAction() }

type CreateTemplate struct {
	Template model.Template
}

type DeleteTemplateByID struct {
	ID string
}

// AddChildToTemplate links ChildID under ParentID. StartOffsetMs is
// required for timed parents. An empty RelationshipID is generated.
type AddChildToTemplate struct {
	ParentID       string
	ChildID        string
	StartOffsetMs  *int64
	RelationshipID string
}

// RemoveInstanceByID detaches every link touching the template — all
// parents drop it as a child and all children drop it as a parent —
// without deleting the template itself.
type RemoveInstanceByID struct {
	ID string
}

// RemoveInstanceByRelationshipID removes the single edge carrying the
// relationship id from both of its endpoints.
type RemoveInstanceByRelationshipID struct {
	RelationshipID string
}

type AddCalendarEntry struct {
	Entry model.BaseCalendarEntry
}

type UpdateCalendarEntry struct {
	Entry model.BaseCalendarEntry
}

type RemoveCalendarEntry struct {
	EntryID string
}

// UpdateTemplates replaces existing templates wholesale, matched by id.
type UpdateTemplates struct {
	Templates []model.Template
}

// SetFocusedTemplate and SetDialogOpen are pass-through UI merges; the
// reducer stores them without validation.
type SetFocusedTemplate struct {
	ID string
}

type SetDialogOpen struct {
	Open bool
}

// Batch folds its actions through Apply sequentially. One failing step
// aborts the whole batch; on success the caller receives a deep copy,
// never a state aliasing the input.
type Batch struct {
	Actions []Action
}

func (CreateTemplate) isAction()                 {}
func (DeleteTemplateByID) isAction()             {}
func (AddChildToTemplate) isAction()             {}
func (RemoveInstanceByID) isAction()             {}
func (RemoveInstanceByRelationshipID) isAction() {}
func (AddCalendarEntry) isAction()               {}
func (UpdateCalendarEntry) isAction()            {}
func (RemoveCalendarEntry) isAction()            {}
func (UpdateTemplates) isAction()                {}
func (SetFocusedTemplate) isAction()             {}
func (SetDialogOpen) isAction()                  {}
func (Batch) isAction()                          {}
