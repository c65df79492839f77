package model

import "strings"

// TemplateRecord is the wire shape the persistence collaborator hands
// us. It mirrors Template field-for-field; the factory owns validation
// so that a malformed record can never become a live Template.
type TemplateRecord struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	DurationMs int64             `json:"durationMs"`
	Kind       string            `json:"kind"`
	Parents    []Relationship    `json:"parents,omitempty"`
	Variables  map[string]string `json:"variables,omitempty"`

	TimedChildren    []TimedChild    `json:"timedChildren,omitempty"`
	SequenceChildren []SequenceChild `json:"sequenceChildren,omitempty"`
}

// FromRecord constructs a Template from a plain record.
//
// Rejections (InvalidTemplateDataError):
// - empty id
// - unknown kind tag
// - negative duration
// - child entries on the wrong variant (timed children on a sequential
//   template, sequence children on a timed one, any children on a leaf)
// - child or parent entries with empty ids
func FromRecord(rec TemplateRecord) (Template, error) {
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		return Template{}, InvalidTemplateDataError{Field: "id", Reason: "empty"}
	}
	if rec.DurationMs < 0 {
		return Template{}, InvalidTemplateDataError{Field: "durationMs", Reason: "negative"}
	}

	kind, err := parseKind(rec.Kind)
	if err != nil {
		return Template{}, err
	}
	switch kind {
	case KindLeaf:
		if len(rec.TimedChildren) > 0 || len(rec.SequenceChildren) > 0 {
			return Template{}, InvalidTemplateDataError{Field: "children", Reason: "leaf template cannot carry children"}
		}
	case KindTimed:
		if len(rec.SequenceChildren) > 0 {
			return Template{}, InvalidTemplateDataError{Field: "sequenceChildren", Reason: "timed template carries sequence children"}
		}
		for _, c := range rec.TimedChildren {
			if strings.TrimSpace(c.ChildID) == "" || strings.TrimSpace(c.RelationshipID) == "" {
				return Template{}, InvalidTemplateDataError{Field: "timedChildren", Reason: "child entry with empty id"}
			}
		}
	case KindSequential:
		if len(rec.TimedChildren) > 0 {
			return Template{}, InvalidTemplateDataError{Field: "timedChildren", Reason: "sequential template carries timed children"}
		}
		for _, c := range rec.SequenceChildren {
			if strings.TrimSpace(c.ChildID) == "" || strings.TrimSpace(c.RelationshipID) == "" {
				return Template{}, InvalidTemplateDataError{Field: "sequenceChildren", Reason: "child entry with empty id"}
			}
		}
	}
	for _, p := range rec.Parents {
		if strings.TrimSpace(p.ParentID) == "" || strings.TrimSpace(p.RelationshipID) == "" {
			return Template{}, InvalidTemplateDataError{Field: "parents", Reason: "parent entry with empty id"}
		}
	}

	t := Template{
		ID:               id,
		Name:             rec.Name,
		DurationMs:       rec.DurationMs,
		Kind:             kind,
		Parents:          rec.Parents,
		Variables:        rec.Variables,
		TimedChildren:    rec.TimedChildren,
		SequenceChildren: rec.SequenceChildren,
	}
	// Detach from the record's backing arrays.
	return t.Clone(), nil
}

// ToRecord is the exact inverse of FromRecord.
func (t Template) ToRecord() TemplateRecord {
	cp := t.Clone()
	return TemplateRecord{
		ID:               cp.ID,
		Name:             cp.Name,
		DurationMs:       cp.DurationMs,
		Kind:             string(ChildKind(cp)),
		Parents:          cp.Parents,
		Variables:        cp.Variables,
		TimedChildren:    cp.TimedChildren,
		SequenceChildren: cp.SequenceChildren,
	}
}

func parseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "leaf", "":
		return KindLeaf, nil
	case "timed":
		return KindTimed, nil
	case "sequential", "sequence":
		return KindSequential, nil
	default:
		return "", InvalidTemplateDataError{Field: "kind", Reason: "unknown kind " + strings.TrimSpace(s)}
	}
}
