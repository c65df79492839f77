package resolve

import (
	"testing"

	"cadence-cli/internal/model"
)

func TestProgress_LinearPoints(t *testing.T) {
	tpl := model.Template{ID: "tpl-a", Kind: model.KindLeaf, DurationMs: 1000}

	cases := []struct {
		now  int64
		want float64
	}{
		{-100, 0},
		{0, 0},
		{500, 50},
		{1000, 100},
		{1500, 100},
	}
	for _, tc := range cases {
		if got := Progress(tpl, tc.now, 0); got != tc.want {
			t.Fatalf("Progress(now=%d) = %v; want %v", tc.now, got, tc.want)
		}
	}
}

func TestProgress_ZeroDurationGuard(t *testing.T) {
	for _, dur := range []int64{0, -5} {
		tpl := model.Template{ID: "tpl-a", Kind: model.KindLeaf, DurationMs: dur}
		if got := Progress(tpl, 9999, 0); got != 0 {
			t.Fatalf("Progress with duration %d = %v; want 0", dur, got)
		}
	}
}

func TestProgress_MonotonicAndClamped(t *testing.T) {
	tpl := model.Template{ID: "tpl-a", Kind: model.KindLeaf, DurationMs: 7321}
	prev := -1.0
	for now := int64(-2000); now <= 12000; now += 37 {
		got := Progress(tpl, now, 1000)
		if got < 0 || got > 100 {
			t.Fatalf("Progress(now=%d) = %v out of [0,100]", now, got)
		}
		if got < prev {
			t.Fatalf("Progress not monotonic at now=%d: %v < %v", now, got, prev)
		}
		prev = got
	}
}

func TestCumulativeStart_WalksTimedOffsets(t *testing.T) {
	outer := model.Template{
		ID: "tpl-outer", Kind: model.KindTimed, DurationMs: 4000,
		TimedChildren: []model.TimedChild{
			{ChildID: "tpl-mid", RelationshipID: "rel-1", StartOffsetMs: 1000},
		},
	}
	mid := model.Template{
		ID: "tpl-mid", Kind: model.KindTimed, DurationMs: 2000,
		TimedChildren: []model.TimedChild{
			{ChildID: "tpl-leaf", RelationshipID: "rel-2", StartOffsetMs: 500},
		},
	}
	leaf := model.Template{ID: "tpl-leaf", Kind: model.KindLeaf, DurationMs: 1000}
	chain := []model.Template{outer, mid, leaf}
	cal := calendarOf(model.BaseCalendarEntry{ID: "cal-1", TemplateID: "tpl-outer", StartTimeMs: 100})

	cases := []struct {
		target string
		want   int64
	}{
		{"tpl-outer", 100},
		{"tpl-mid", 1100},
		{"tpl-leaf", 1600},
	}
	for _, tc := range cases {
		got, ok := CumulativeStart(chain, tc.target, cal, 1700)
		if !ok || got != tc.want {
			t.Fatalf("CumulativeStart(%q) = %d, %v; want %d", tc.target, got, ok, tc.want)
		}
	}
}

func TestCumulativeStart_DuplicateChildLinksFollowActiveWindow(t *testing.T) {
	// The same leaf is linked twice under one timed parent; the offset
	// must come from whichever link is active at the queried instant.
	root := model.Template{
		ID: "tpl-root", Kind: model.KindTimed, DurationMs: 10000,
		TimedChildren: []model.TimedChild{
			{ChildID: "tpl-leaf", RelationshipID: "rel-early", StartOffsetMs: 0},
			{ChildID: "tpl-leaf", RelationshipID: "rel-late", StartOffsetMs: 5000},
		},
	}
	leaf := model.Template{ID: "tpl-leaf", Kind: model.KindLeaf, DurationMs: 1000}
	chain := []model.Template{root, leaf}
	cal := calendarOf(model.BaseCalendarEntry{ID: "cal-1", TemplateID: "tpl-root", StartTimeMs: 0})

	if got, ok := CumulativeStart(chain, "tpl-leaf", cal, 500); !ok || got != 0 {
		t.Fatalf("early window: got %d, %v; want 0", got, ok)
	}
	if got, ok := CumulativeStart(chain, "tpl-leaf", cal, 5500); !ok || got != 5000 {
		t.Fatalf("late window: got %d, %v; want 5000", got, ok)
	}
	// Between the windows neither is active; the first link decides.
	if got, ok := CumulativeStart(chain, "tpl-leaf", cal, 3000); !ok || got != 0 {
		t.Fatalf("gap fallback: got %d, %v; want 0", got, ok)
	}
}

func TestCumulativeStart_SequentialEdgesAddNothing(t *testing.T) {
	root := model.Template{
		ID: "tpl-root", Kind: model.KindSequential, DurationMs: 9000,
		SequenceChildren: []model.SequenceChild{{ChildID: "tpl-step", RelationshipID: "rel-1"}},
	}
	step := model.Template{ID: "tpl-step", Kind: model.KindLeaf, DurationMs: 3000}
	cal := calendarOf(model.BaseCalendarEntry{ID: "cal-1", TemplateID: "tpl-root", StartTimeMs: 250})

	got, ok := CumulativeStart([]model.Template{root, step}, "tpl-step", cal, 300)
	if !ok || got != 250 {
		t.Fatalf("CumulativeStart = %d, %v; want 250", got, ok)
	}
}

func TestCumulativeStart_MissingPieces(t *testing.T) {
	root := model.Template{ID: "tpl-root", Kind: model.KindLeaf, DurationMs: 1000}
	cal := calendarOf(model.BaseCalendarEntry{ID: "cal-1", TemplateID: "tpl-root", StartTimeMs: 0})

	if _, ok := CumulativeStart(nil, "tpl-root", cal, 0); ok {
		t.Fatalf("empty chain must not resolve")
	}
	if _, ok := CumulativeStart([]model.Template{root}, "tpl-other", cal, 0); ok {
		t.Fatalf("target outside chain must not resolve")
	}
	if _, ok := CumulativeStart([]model.Template{root}, "tpl-root", nil, 0); ok {
		t.Fatalf("unscheduled root must not resolve")
	}
}
