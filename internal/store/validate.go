package store

import (
	"fmt"

	"cadence-cli/internal/model"
	"cadence-cli/internal/relate"
)

// Issue is one recoverable inconsistency found during validation.
// Issues are data, never thrown: the caller decides whether to adopt
// the repaired state.
type Issue struct {
	Code           string `json:"code"`
	Message        string `json:"message"`
	TemplateID     string `json:"templateId,omitempty"`
	RelationshipID string `json:"relationshipId,omitempty"`
	EntryID        string `json:"entryId,omitempty"`
}

// Report is the validation collaborator's verdict. When Valid is
// false, Repaired holds an alternate initial state with every issue
// addressed.
type Report struct {
	Valid    bool
	Repaired *State
	Issues   []Issue
}

type Validator interface {
	Validate(st State) Report
}

// RepairValidator is the reference validation collaborator. Repairs:
//   - child links to missing templates are dropped
//   - one-sided child links gain their missing parent mirror
//   - one-sided parent links are dropped (the child side alone cannot
//     reconstruct a timed offset)
//   - a relationship id reused across distinct edges keeps its first
//     occurrence only
//   - calendar entries referencing missing templates are dropped
type RepairValidator struct{}

var _ Validator = RepairValidator{}

func (RepairValidator) Validate(st State) Report {
	var issues []Issue
	next := st.Clone()

	type edge struct{ parentID, childID string }
	relOwner := map[string]edge{}

	// Pass 1: child links. Each link must point at a live child that
	// carries the mirror relationship. Re-read through the working
	// collection so a mirror added to an earlier-repaired template is
	// never clobbered by a stale iteration value.
	for _, t := range next.Templates {
		changed, _ := next.Templates.GetByID(t.ID)
		for _, relID := range childRelationshipIDs(changed) {
			childID, _ := childIDForRelationship(changed, relID)

			if owner, seen := relOwner[relID]; seen {
				if owner.parentID != changed.ID || owner.childID != childID {
					issues = append(issues, Issue{
						Code:           "relationship-id-reused",
						Message:        fmt.Sprintf("relationship %s reused by %s -> %s", relID, changed.ID, childID),
						TemplateID:     changed.ID,
						RelationshipID: relID,
					})
					changed = relate.RemoveChildByRelationshipID(changed, relID)
					continue
				}
			} else {
				relOwner[relID] = edge{parentID: changed.ID, childID: childID}
			}

			child, ok := next.Templates.GetByID(childID)
			if !ok {
				issues = append(issues, Issue{
					Code:           "dangling-child-link",
					Message:        fmt.Sprintf("template %s links missing child %s", changed.ID, childID),
					TemplateID:     changed.ID,
					RelationshipID: relID,
				})
				changed = relate.RemoveChildByRelationshipID(changed, relID)
				continue
			}
			if !relate.HasParentWithRelationshipID(child, relID) {
				issues = append(issues, Issue{
					Code:           "one-sided-child-link",
					Message:        fmt.Sprintf("child %s missing parent mirror for %s", child.ID, relID),
					TemplateID:     child.ID,
					RelationshipID: relID,
				})
				mirror := model.Relationship{ParentID: changed.ID, RelationshipID: relID}
				if child.ID == changed.ID {
					changed.Parents = append(changed.Parents, mirror)
				} else {
					repaired := child.Clone()
					repaired.Parents = append(repaired.Parents, mirror)
					next.Templates = next.Templates.Replace(repaired)
				}
			}
		}
		next.Templates = next.Templates.Replace(changed)
	}

	// Pass 2: parent links without a matching child side.
	for _, t := range next.Templates {
		changed := t
		for _, p := range t.Parents {
			parent, ok := next.Templates.GetByID(p.ParentID)
			if ok && relate.HasChildWithRelationshipID(parent, p.RelationshipID) {
				continue
			}
			issues = append(issues, Issue{
				Code:           "one-sided-parent-link",
				Message:        fmt.Sprintf("template %s holds parent link %s with no child side", t.ID, p.RelationshipID),
				TemplateID:     t.ID,
				RelationshipID: p.RelationshipID,
			})
			changed = relate.RemoveParentByRelationshipID(changed, p.RelationshipID)
		}
		next.Templates = next.Templates.Replace(changed)
	}

	// Pass 3: calendar entries pointing nowhere.
	for id, e := range st.Calendar {
		if next.Templates.Has(e.TemplateID) {
			continue
		}
		issues = append(issues, Issue{
			Code:       "dangling-calendar-entry",
			Message:    fmt.Sprintf("calendar entry %s schedules missing template %s", id, e.TemplateID),
			EntryID:    id,
			TemplateID: e.TemplateID,
		})
		delete(next.Calendar, id)
	}

	if len(issues) == 0 {
		return Report{Valid: true}
	}
	return Report{Valid: false, Repaired: &next, Issues: issues}
}

func childRelationshipIDs(t model.Template) []string {
	switch model.ChildKind(t) {
	case model.KindTimed:
		out := make([]string, 0, len(t.TimedChildren))
		for _, c := range t.TimedChildren {
			out = append(out, c.RelationshipID)
		}
		return out
	case model.KindSequential:
		out := make([]string, 0, len(t.SequenceChildren))
		for _, c := range t.SequenceChildren {
			out = append(out, c.RelationshipID)
		}
		return out
	default:
		return nil
	}
}

func childIDForRelationship(t model.Template, relID string) (string, bool) {
	switch model.ChildKind(t) {
	case model.KindTimed:
		for _, c := range t.TimedChildren {
			if c.RelationshipID == relID {
				return c.ChildID, true
			}
		}
	case model.KindSequential:
		for _, c := range t.SequenceChildren {
			if c.RelationshipID == relID {
				return c.ChildID, true
			}
		}
	}
	return "", false
}
