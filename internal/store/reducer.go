package store

import (
	"strings"

	"cadence-cli/internal/model"
	"cadence-cli/internal/relate"
)

// Apply is the single mutation point of the engine: a pure function
// from (state, action) to a new state. Inputs are never mutated; every
// branch is copy-on-write. Malformed actions fail with a typed error
// and the caller keeps its original state.
func Apply(s State, a Action) (State, error) {
	switch act := a.(type) {
	case CreateTemplate:
		return applyCreateTemplate(s, act)
	case DeleteTemplateByID:
		return applyDeleteTemplate(s, act)
	case AddChildToTemplate:
		return applyAddChild(s, act)
	case RemoveInstanceByID:
		return applyRemoveInstanceByID(s, act)
	case RemoveInstanceByRelationshipID:
		return applyRemoveInstanceByRelID(s, act)
	case AddCalendarEntry:
		return applyAddCalendarEntry(s, act)
	case UpdateCalendarEntry:
		return applyUpdateCalendarEntry(s, act)
	case RemoveCalendarEntry:
		return applyRemoveCalendarEntry(s, act)
	case UpdateTemplates:
		return applyUpdateTemplates(s, act)
	case SetFocusedTemplate:
		cp := s
		cp.FocusedTemplateID = act.ID
		return cp, nil
	case SetDialogOpen:
		cp := s
		cp.DialogOpen = act.Open
		return cp, nil
	case Batch:
		return applyBatch(s, act)
	default:
		return s, NotFoundError{Kind: "action", ID: "unknown"}
	}
}

func applyBatch(s State, b Batch) (State, error) {
	cur := s
	for _, a := range b.Actions {
		next, err := Apply(cur, a)
		if err != nil {
			// The whole batch aborts; the caller's state is untouched.
			return s, err
		}
		cur = next
	}
	// Batches are the atomic unit for persistence triggers; the deep
	// copy guarantees no aliasing between pre- and post-batch state.
	return cur.Clone(), nil
}

func applyCreateTemplate(s State, act CreateTemplate) (State, error) {
	id := strings.TrimSpace(act.Template.ID)
	if id == "" {
		return s, model.InvalidTemplateDataError{Field: "id", Reason: "empty"}
	}
	if s.Templates.Has(id) {
		return s, DuplicateIDError{Kind: "template", ID: id}
	}
	cp := s
	cp.Templates = s.Templates.Insert(act.Template.Clone())
	return cp, nil
}

func applyDeleteTemplate(s State, act DeleteTemplateByID) (State, error) {
	if !s.Templates.Has(act.ID) {
		return s, NotFoundError{Kind: "template", ID: act.ID}
	}
	cp := s
	cp.Templates = detachEverywhere(s.Templates, act.ID).RemoveByID(act.ID)
	if cp.FocusedTemplateID == act.ID {
		cp.FocusedTemplateID = ""
	}
	return cp, nil
}

// detachEverywhere strips every link that points at id, on both sides,
// from every other template in the collection. Duplicate links are
// removed one first-match at a time until none remain.
func detachEverywhere(ts model.Collection, id string) model.Collection {
	out := ts
	for _, t := range ts {
		if t.ID == id {
			continue
		}
		changed := t
		for relate.HasChildWithID(changed, id) {
			changed = relate.RemoveChildByID(changed, id)
		}
		for relate.HasParentWithID(changed, id) {
			changed = relate.RemoveParentByID(changed, id)
		}
		if len(changed.Parents) != len(t.Parents) ||
			len(changed.TimedChildren) != len(t.TimedChildren) ||
			len(changed.SequenceChildren) != len(t.SequenceChildren) {
			out = out.Replace(changed)
		}
	}
	return out
}

func applyAddChild(s State, act AddChildToTemplate) (State, error) {
	parent, ok := s.Templates.GetByID(act.ParentID)
	if !ok {
		return s, NotFoundError{Kind: "template", ID: act.ParentID}
	}
	child, ok := s.Templates.GetByID(act.ChildID)
	if !ok {
		return s, NotFoundError{Kind: "template", ID: act.ChildID}
	}
	// Relationship ids identify edges globally; a caller-supplied id
	// that already names another edge would corrupt the graph.
	if relID := strings.TrimSpace(act.RelationshipID); relID != "" && relationshipIDInUse(s.Templates, relID) {
		return s, DuplicateIDError{Kind: "relationship", ID: relID}
	}

	p2, c2, _, err := relate.AddChild(parent, child, relate.AddChildOptions{
		RelationshipID: act.RelationshipID,
		StartOffsetMs:  act.StartOffsetMs,
	})
	if err != nil {
		return s, err
	}

	cp := s
	cp.Templates = s.Templates.Replace(p2)
	if act.ParentID != act.ChildID {
		cp.Templates = cp.Templates.Replace(c2)
	}
	return cp, nil
}

// relationshipIDInUse reports whether any template holds a link
// carrying relID on either side.
func relationshipIDInUse(ts model.Collection, relID string) bool {
	for _, t := range ts {
		if relate.HasChildWithRelationshipID(t, relID) || relate.HasParentWithRelationshipID(t, relID) {
			return true
		}
	}
	return false
}

func applyRemoveInstanceByID(s State, act RemoveInstanceByID) (State, error) {
	tpl, ok := s.Templates.GetByID(act.ID)
	if !ok {
		return s, NotFoundError{Kind: "template", ID: act.ID}
	}

	next := detachEverywhere(s.Templates, act.ID)

	// Strip the template's own link fields too: it keeps existing but
	// no longer participates in the graph.
	cleaned := tpl.Clone()
	cleaned.Parents = nil
	cleaned.TimedChildren = nil
	cleaned.SequenceChildren = nil

	cp := s
	cp.Templates = next.Replace(cleaned)
	return cp, nil
}

func applyRemoveInstanceByRelID(s State, act RemoveInstanceByRelationshipID) (State, error) {
	relID := strings.TrimSpace(act.RelationshipID)
	found := false
	next := s.Templates
	for _, t := range s.Templates {
		// The predicates decide which side of the link each template
		// holds; the removals themselves are idempotent no-ops when a
		// side is already gone.
		if relate.HasChildWithRelationshipID(t, relID) {
			next = next.Replace(relate.RemoveChildByRelationshipID(mustGet(next, t.ID), relID))
			found = true
		}
		if relate.HasParentWithRelationshipID(t, relID) {
			next = next.Replace(relate.RemoveParentByRelationshipID(mustGet(next, t.ID), relID))
			found = true
		}
	}
	if !found {
		return s, NotFoundError{Kind: "relationship", ID: relID}
	}
	cp := s
	cp.Templates = next
	return cp, nil
}

// mustGet re-reads a template from the working collection so that two
// edits to the same template within one action compose instead of the
// second overwriting the first.
func mustGet(ts model.Collection, id string) model.Template {
	t, _ := ts.GetByID(id)
	return t
}

func applyAddCalendarEntry(s State, act AddCalendarEntry) (State, error) {
	id := strings.TrimSpace(act.Entry.ID)
	if id == "" {
		return s, InvalidEntryError{Reason: "empty id"}
	}
	if !s.Templates.Has(act.Entry.TemplateID) {
		return s, NotFoundError{Kind: "template", ID: act.Entry.TemplateID}
	}
	if _, exists := s.Calendar[id]; exists {
		return s, DuplicateIDError{Kind: "calendar entry", ID: id}
	}
	cp := s
	cp.Calendar = s.calendarCopy()
	cp.Calendar[id] = act.Entry
	return cp, nil
}

func applyUpdateCalendarEntry(s State, act UpdateCalendarEntry) (State, error) {
	id := strings.TrimSpace(act.Entry.ID)
	if _, exists := s.Calendar[id]; !exists {
		return s, NotFoundError{Kind: "calendar entry", ID: id}
	}
	if !s.Templates.Has(act.Entry.TemplateID) {
		return s, NotFoundError{Kind: "template", ID: act.Entry.TemplateID}
	}
	cp := s
	cp.Calendar = s.calendarCopy()
	cp.Calendar[id] = act.Entry
	return cp, nil
}

func applyRemoveCalendarEntry(s State, act RemoveCalendarEntry) (State, error) {
	id := strings.TrimSpace(act.EntryID)
	if _, exists := s.Calendar[id]; !exists {
		return s, NotFoundError{Kind: "calendar entry", ID: id}
	}
	cp := s
	cp.Calendar = s.calendarCopy()
	delete(cp.Calendar, id)
	return cp, nil
}

func applyUpdateTemplates(s State, act UpdateTemplates) (State, error) {
	next := s.Templates
	for _, t := range act.Templates {
		if !next.Has(t.ID) {
			return s, NotFoundError{Kind: "template", ID: t.ID}
		}
		next = next.Replace(t.Clone())
	}
	cp := s
	cp.Templates = next
	return cp, nil
}
