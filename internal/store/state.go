package store

import (
	"cadence-cli/internal/model"
)

// State is one immutable snapshot of the engine: the sorted template
// collection, the base calendar keyed by entry id, and the
// pass-through UI fields the reducer merges verbatim.
//
// State values are cheap to copy; reducer branches share unchanged
// slices/maps and replace only what they touch. Clone produces a fully
// detached deep copy — the batch boundary relies on it.
type State struct {
	Templates model.Collection
	Calendar  map[string]model.BaseCalendarEntry

	FocusedTemplateID string
	DialogOpen        bool
}

func NewState() State {
	return State{
		Templates: model.Collection{},
		Calendar:  map[string]model.BaseCalendarEntry{},
	}
}

// Clone deep-copies the state. No slice or map is shared with the
// receiver afterwards.
func (s State) Clone() State {
	cp := s
	cp.Templates = s.Templates.Clone()
	cp.Calendar = make(map[string]model.BaseCalendarEntry, len(s.Calendar))
	for k, v := range s.Calendar {
		cp.Calendar[k] = v
	}
	return cp
}

// calendarCopy returns a shallow copy of the calendar map for a single
// copy-on-write edit.
func (s State) calendarCopy() map[string]model.BaseCalendarEntry {
	out := make(map[string]model.BaseCalendarEntry, len(s.Calendar)+1)
	for k, v := range s.Calendar {
		out[k] = v
	}
	return out
}

// Snapshot is the wire-level exchange with the persistence
// collaborator: flat template records plus the calendar map. The
// engine never depends on how a collaborator encodes it.
type Snapshot struct {
	Templates []model.TemplateRecord             `json:"templates"`
	Calendar  map[string]model.BaseCalendarEntry `json:"calendar"`
}

// FromSnapshot materializes a State through the template factory. A
// malformed record fails construction; repair is the validation
// collaborator's job, not this one's.
func FromSnapshot(snap Snapshot) (State, error) {
	ts := make([]model.Template, 0, len(snap.Templates))
	for _, rec := range snap.Templates {
		tpl, err := model.FromRecord(rec)
		if err != nil {
			return State{}, err
		}
		ts = append(ts, tpl)
	}
	st := NewState()
	st.Templates = model.NewCollection(ts)
	for k, v := range snap.Calendar {
		st.Calendar[k] = v
	}
	return st, nil
}

// Snapshot converts the state back to its wire shape.
func (s State) Snapshot() Snapshot {
	recs := make([]model.TemplateRecord, 0, len(s.Templates))
	for _, t := range s.Templates {
		recs = append(recs, t.ToRecord())
	}
	out := Snapshot{
		Templates: recs,
		Calendar:  make(map[string]model.BaseCalendarEntry, len(s.Calendar)),
	}
	for k, v := range s.Calendar {
		out.Calendar[k] = v
	}
	return out
}
