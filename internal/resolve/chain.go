// Package resolve computes, for a given instant, the chain of nested
// templates that is active on the base calendar.
package resolve

import (
	"sort"
	"time"

	"golang.org/x/time/rate"

	"cadence-cli/internal/logx"
	"cadence-cli/internal/model"
)

// MaxDepth caps descent below the root. A chain therefore never
// exceeds MaxDepth+1 templates.
const MaxDepth = 50

// softLatencyBudget is a performance signal, not a failure condition:
// resolution past it logs a rate-limited warning and still returns.
const softLatencyBudget = 10 * time.Millisecond

type Resolver struct {
	log      logx.Logger
	warnRate *rate.Limiter
}

// New returns a resolver logging through log. Pass logx.Nop() to keep
// resolution silent.
func New(log logx.Logger) *Resolver {
	return &Resolver{
		log:      log,
		warnRate: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Chain resolves the active root-to-leaf chain at nowMs.
//
// Root selection scans calendar entries in ascending entry-id order and
// picks the first whose window [start, start+duration) contains nowMs.
// No active entry means an empty chain; there is deliberately no
// fallback to unscheduled templates.
//
// Descent rules:
//   - timed composites scan children in stored array order and pick the
//     first whose absolute window contains now; array position, not
//     start offset, breaks ties between overlapping children
//   - sequential composites activate their first child unconditionally,
//     ignoring the completion flag
//   - leaves terminate the chain
//
// Safety aborts (cycle, depth) log a warning and return the partial
// chain built so far; they never fail.
func (r *Resolver) Chain(templates model.Collection, calendar map[string]model.BaseCalendarEntry, nowMs int64) []model.Template {
	started := time.Now()
	defer func() {
		if elapsed := time.Since(started); elapsed > softLatencyBudget && r.warnRate.Allow() {
			r.log.Warn("chain resolution over latency budget",
				logx.Duration("elapsed", elapsed),
				logx.Duration("budget", softLatencyBudget))
		}
	}()

	root, localNow, ok := r.activeRoot(templates, calendar, nowMs)
	if !ok {
		return nil
	}

	chain := []model.Template{root}
	visited := map[string]bool{root.ID: true}
	cur := root

	for {
		child, childNow, ok := activeChild(templates, cur, localNow)
		if !ok {
			return chain
		}
		if visited[child.ID] {
			if r.warnRate.Allow() {
				r.log.Warn("cycle detected during chain resolution",
					logx.String("template", child.ID),
					logx.Int("depth", len(chain)))
			}
			return chain
		}
		if len(chain) > MaxDepth {
			if r.warnRate.Allow() {
				r.log.Warn("chain resolution depth exceeded",
					logx.String("template", child.ID),
					logx.Int("maxDepth", MaxDepth))
			}
			return chain
		}
		chain = append(chain, child)
		visited[child.ID] = true
		cur = child
		localNow = childNow
	}
}

// activeRoot returns the first active scheduled template and the
// current time translated to the root's own activation frame.
func (r *Resolver) activeRoot(templates model.Collection, calendar map[string]model.BaseCalendarEntry, nowMs int64) (model.Template, int64, bool) {
	for _, id := range sortedEntryIDs(calendar) {
		entry := calendar[id]
		tpl, ok := templates.GetByID(entry.TemplateID)
		if !ok {
			// Dangling calendar references are the validation
			// collaborator's problem; resolution just skips them.
			continue
		}
		if nowMs >= entry.StartTimeMs && nowMs < entry.StartTimeMs+tpl.DurationMs {
			return tpl, nowMs - entry.StartTimeMs, true
		}
	}
	return model.Template{}, 0, false
}

// activeChild picks the next chain member below cur. localNow is
// relative to cur's activation; the returned time is relative to the
// chosen child's activation.
func activeChild(templates model.Collection, cur model.Template, localNow int64) (model.Template, int64, bool) {
	switch model.ChildKind(cur) {
	case model.KindTimed:
		for _, c := range cur.TimedChildren {
			child, ok := templates.GetByID(c.ChildID)
			if !ok {
				continue
			}
			if localNow >= c.StartOffsetMs && localNow < c.StartOffsetMs+child.DurationMs {
				return child, localNow - c.StartOffsetMs, true
			}
		}
	case model.KindSequential:
		// First entry wins regardless of its completion flag; the
		// flag is scheduling data, not resolution input. See DESIGN.md
		// before changing this.
		for _, c := range cur.SequenceChildren {
			child, ok := templates.GetByID(c.ChildID)
			if !ok {
				continue
			}
			return child, localNow, true
		}
	}
	return model.Template{}, 0, false
}

func sortedEntryIDs(calendar map[string]model.BaseCalendarEntry) []string {
	ids := make([]string, 0, len(calendar))
	for id := range calendar {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
