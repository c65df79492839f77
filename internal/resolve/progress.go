package resolve

import (
	"cadence-cli/internal/model"
)

// Progress reports completion of t as a percentage in [0, 100]:
// 0 before activation, 100 at or after activation+duration, linear in
// between. Non-positive durations report 0.
func Progress(t model.Template, nowMs, activationMs int64) float64 {
	if t.DurationMs <= 0 {
		return 0
	}
	elapsed := nowMs - activationMs
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= t.DurationMs {
		return 100
	}
	return float64(elapsed) / float64(t.DurationMs) * 100
}

// CumulativeStart computes the absolute activation time (epoch ms) of
// targetID within chain at the instant nowMs: the root's calendar
// start plus every timed ancestor's start offset along the edges down
// to the target.
//
// Sequential edges contribute no offset. When the root is scheduled
// more than once, the entry with the smallest id wins, matching root
// selection order. Duplicate child links (same child id, different
// offsets) resolve to the link whose window contains nowMs, matching
// the edge Chain descended through; when no window contains nowMs the
// first matching array entry decides.
//
// The second return is false when the chain is empty, the target is
// not a chain member, the root has no calendar entry, or an edge is
// not present in the parent's child list.
func CumulativeStart(chain []model.Template, targetID string, calendar map[string]model.BaseCalendarEntry, nowMs int64) (int64, bool) {
	if len(chain) == 0 {
		return 0, false
	}

	abs, ok := rootStart(chain[0].ID, calendar)
	if !ok {
		return 0, false
	}

	for i := 0; i < len(chain); i++ {
		if chain[i].ID == targetID {
			return abs, true
		}
		if i+1 >= len(chain) {
			break
		}
		offset, ok := edgeOffset(chain[i], chain[i+1], nowMs-abs)
		if !ok {
			return 0, false
		}
		abs += offset
	}
	return 0, false
}

func rootStart(templateID string, calendar map[string]model.BaseCalendarEntry) (int64, bool) {
	for _, id := range sortedEntryIDs(calendar) {
		if calendar[id].TemplateID == templateID {
			return calendar[id].StartTimeMs, true
		}
	}
	return 0, false
}

// edgeOffset picks the edge from parent to child. localNow is relative
// to the parent's activation; among duplicate timed links to the same
// child it selects the first whose window contains localNow, the same
// scan activeChild performs, falling back to the first match.
func edgeOffset(parent, child model.Template, localNow int64) (int64, bool) {
	switch model.ChildKind(parent) {
	case model.KindTimed:
		var first int64
		found := false
		for _, c := range parent.TimedChildren {
			if c.ChildID != child.ID {
				continue
			}
			if localNow >= c.StartOffsetMs && localNow < c.StartOffsetMs+child.DurationMs {
				return c.StartOffsetMs, true
			}
			if !found {
				first = c.StartOffsetMs
				found = true
			}
		}
		return first, found
	case model.KindSequential:
		for _, c := range parent.SequenceChildren {
			if c.ChildID == child.ID {
				return 0, true
			}
		}
	}
	return 0, false
}
