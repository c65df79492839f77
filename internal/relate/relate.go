// Package relate edits parent/child links between templates.
//
// Every operation is pure: inputs are never mutated and updated copies
// are returned. The package edits one template value at a time; the
// store reducer is responsible for writing both sides of a link back
// into the collection within a single state transition.
package relate

import (
	"strings"

	"github.com/google/uuid"

	"cadence-cli/internal/model"
)

// AddChildOptions carries the optional pieces of an AddChild call.
// StartOffsetMs is required when the parent is a timed composite and
// ignored otherwise. An empty RelationshipID is replaced with a
// generated one.
type AddChildOptions struct {
	RelationshipID string
	StartOffsetMs  *int64
}

// AddChild links child under parent and returns the updated parent,
// the updated child, and the relationship that now joins them.
//
// Timed parents place the child at opts.StartOffsetMs; sequential
// parents append it after the last entry. Leaf parents are rejected.
// Self-links (parent.ID == child.ID) are legal at this layer: both
// returned values are the same template carrying both halves of the
// link. The resolver's cycle guard owns the consequences.
func AddChild(parent, child model.Template, opts AddChildOptions) (model.Template, model.Template, model.Relationship, error) {
	relID := strings.TrimSpace(opts.RelationshipID)
	if relID == "" {
		relID = uuid.NewString()
	}
	rel := model.Relationship{ParentID: parent.ID, RelationshipID: relID}

	p := parent.Clone()
	switch model.ChildKind(p) {
	case model.KindTimed:
		if opts.StartOffsetMs == nil {
			return parent, child, model.Relationship{}, IncompatibleParentKindError{
				ParentID: parent.ID,
				Kind:     string(model.KindTimed),
				Reason:   "timed child requires a start offset",
			}
		}
		p.TimedChildren = append(p.TimedChildren, model.TimedChild{
			ChildID:        child.ID,
			RelationshipID: relID,
			StartOffsetMs:  *opts.StartOffsetMs,
		})
	case model.KindSequential:
		p.SequenceChildren = append(p.SequenceChildren, model.SequenceChild{
			ChildID:        child.ID,
			RelationshipID: relID,
		})
	default:
		return parent, child, model.Relationship{}, IncompatibleParentKindError{
			ParentID: parent.ID,
			Kind:     string(model.ChildKind(parent)),
			Reason:   "leaf templates cannot take children",
		}
	}

	if parent.ID == child.ID {
		p.Parents = append(p.Parents, rel)
		return p, p, rel, nil
	}

	c := child.Clone()
	c.Parents = append(c.Parents, rel)
	return p, c, rel, nil
}

// RemoveChildByID removes the first child link pointing at childID.
// Absent links are a no-op returning the original value: removal paths
// are routinely used for idempotent cleanup and must never fail on
// "not found".
func RemoveChildByID(t model.Template, childID string) model.Template {
	switch model.ChildKind(t) {
	case model.KindTimed:
		for i, c := range t.TimedChildren {
			if c.ChildID == childID {
				return removeTimedChildAt(t, i)
			}
		}
	case model.KindSequential:
		for i, c := range t.SequenceChildren {
			if c.ChildID == childID {
				return removeSequenceChildAt(t, i)
			}
		}
	}
	return t
}

// RemoveChildByRelationshipID removes the child link carrying relID.
// No-op when absent.
func RemoveChildByRelationshipID(t model.Template, relID string) model.Template {
	switch model.ChildKind(t) {
	case model.KindTimed:
		for i, c := range t.TimedChildren {
			if c.RelationshipID == relID {
				return removeTimedChildAt(t, i)
			}
		}
	case model.KindSequential:
		for i, c := range t.SequenceChildren {
			if c.RelationshipID == relID {
				return removeSequenceChildAt(t, i)
			}
		}
	}
	return t
}

// RemoveParentByID removes the first parent link pointing at parentID.
// No-op when absent.
func RemoveParentByID(t model.Template, parentID string) model.Template {
	for i, p := range t.Parents {
		if p.ParentID == parentID {
			return removeParentAt(t, i)
		}
	}
	return t
}

// RemoveParentByRelationshipID removes the parent link carrying relID.
// No-op when absent.
func RemoveParentByRelationshipID(t model.Template, relID string) model.Template {
	for i, p := range t.Parents {
		if p.RelationshipID == relID {
			return removeParentAt(t, i)
		}
	}
	return t
}

func HasChildWithID(t model.Template, childID string) bool {
	switch model.ChildKind(t) {
	case model.KindTimed:
		for _, c := range t.TimedChildren {
			if c.ChildID == childID {
				return true
			}
		}
	case model.KindSequential:
		for _, c := range t.SequenceChildren {
			if c.ChildID == childID {
				return true
			}
		}
	}
	return false
}

func HasChildWithRelationshipID(t model.Template, relID string) bool {
	switch model.ChildKind(t) {
	case model.KindTimed:
		for _, c := range t.TimedChildren {
			if c.RelationshipID == relID {
				return true
			}
		}
	case model.KindSequential:
		for _, c := range t.SequenceChildren {
			if c.RelationshipID == relID {
				return true
			}
		}
	}
	return false
}

func HasParentWithID(t model.Template, parentID string) bool {
	for _, p := range t.Parents {
		if p.ParentID == parentID {
			return true
		}
	}
	return false
}

func HasParentWithRelationshipID(t model.Template, relID string) bool {
	for _, p := range t.Parents {
		if p.RelationshipID == relID {
			return true
		}
	}
	return false
}

func removeTimedChildAt(t model.Template, i int) model.Template {
	cp := t.Clone()
	cp.TimedChildren = append(cp.TimedChildren[:i], cp.TimedChildren[i+1:]...)
	if len(cp.TimedChildren) == 0 {
		cp.TimedChildren = nil
	}
	return cp
}

func removeSequenceChildAt(t model.Template, i int) model.Template {
	cp := t.Clone()
	cp.SequenceChildren = append(cp.SequenceChildren[:i], cp.SequenceChildren[i+1:]...)
	if len(cp.SequenceChildren) == 0 {
		cp.SequenceChildren = nil
	}
	return cp
}

func removeParentAt(t model.Template, i int) model.Template {
	cp := t.Clone()
	cp.Parents = append(cp.Parents[:i], cp.Parents[i+1:]...)
	if len(cp.Parents) == 0 {
		cp.Parents = nil
	}
	return cp
}
