package model

// Kind tags a template's child capability. Every consumer switches on
// ChildKind rather than inspecting the child slices directly.
type Kind string

const (
	// KindLeaf templates carry no children.
	KindLeaf Kind = "leaf"
	// KindTimed templates schedule children at millisecond offsets
	// relative to their own activation time.
	KindTimed Kind = "timed"
	// KindSequential templates order children by list position; there is
	// no clock involved in their activation.
	KindSequential Kind = "sequential"
)

// Relationship is the parent-side half of an edge. The relationship id,
// not the (parent, child) id pair, identifies the edge: one parent may
// hold the same child template twice under distinct relationship ids.
type Relationship struct {
	ParentID       string `json:"parentId"`
	RelationshipID string `json:"relationshipId"`
}

type TimedChild struct {
	ChildID        string `json:"childId"`
	RelationshipID string `json:"relationshipId"`
	StartOffsetMs  int64  `json:"startOffsetMs"`
}

type SequenceChild struct {
	ChildID        string `json:"childId"`
	RelationshipID string `json:"relationshipId"`
	Complete       bool   `json:"complete"`
}

// Template is a reusable task definition. Exactly one of the child
// slices is meaningful, selected by Kind; the factory enforces that a
// record never populates the wrong one.
type Template struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	DurationMs int64             `json:"durationMs"`
	Kind       Kind              `json:"kind"`
	Parents    []Relationship    `json:"parents,omitempty"`
	Variables  map[string]string `json:"variables,omitempty"`

	TimedChildren    []TimedChild    `json:"timedChildren,omitempty"`
	SequenceChildren []SequenceChild `json:"sequenceChildren,omitempty"`
}

// BaseCalendarEntry schedules one root template at an absolute time
// (epoch milliseconds).
type BaseCalendarEntry struct {
	ID          string `json:"id"`
	TemplateID  string `json:"templateId"`
	StartTimeMs int64  `json:"startTimeMs"`
}

// ChildKind is the capability query for a template. Unknown or empty
// tags degrade to leaf so that consumers never descend into a template
// they do not understand.
func ChildKind(t Template) Kind {
	switch t.Kind {
	case KindTimed, KindSequential:
		return t.Kind
	default:
		return KindLeaf
	}
}

// Clone returns a deep copy. Relationship edits and the reducer rely on
// this to keep every state transition copy-on-write.
func (t Template) Clone() Template {
	cp := t
	if t.Parents != nil {
		cp.Parents = append([]Relationship(nil), t.Parents...)
	}
	if t.TimedChildren != nil {
		cp.TimedChildren = append([]TimedChild(nil), t.TimedChildren...)
	}
	if t.SequenceChildren != nil {
		cp.SequenceChildren = append([]SequenceChild(nil), t.SequenceChildren...)
	}
	if t.Variables != nil {
		cp.Variables = make(map[string]string, len(t.Variables))
		for k, v := range t.Variables {
			cp.Variables[k] = v
		}
	}
	return cp
}
