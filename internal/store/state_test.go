package store

import (
	"testing"

	"cadence-cli/internal/model"
)

func TestSnapshotRoundTrip(t *testing.T) {
	st := stateWith(t,
		model.Template{ID: "tpl-p", Kind: model.KindTimed, DurationMs: 1000},
		model.Template{ID: "tpl-c", DurationMs: 200, Variables: map[string]string{"room": "studio"}},
	)
	st = linked(t, st, "tpl-p", "tpl-c", "rel-1", ms(100))
	st, _ = Apply(st, AddCalendarEntry{Entry: model.BaseCalendarEntry{ID: "cal-1", TemplateID: "tpl-p", StartTimeMs: 500}})

	back, err := FromSnapshot(st.Snapshot())
	if err != nil {
		t.Fatalf("from snapshot: %v", err)
	}
	if len(back.Templates) != 2 {
		t.Fatalf("template count: %d", len(back.Templates))
	}
	p, _ := back.Templates.GetByID("tpl-p")
	if len(p.TimedChildren) != 1 || p.TimedChildren[0].StartOffsetMs != 100 {
		t.Fatalf("timed link lost: %+v", p.TimedChildren)
	}
	c, _ := back.Templates.GetByID("tpl-c")
	if len(c.Parents) != 1 || c.Variables["room"] != "studio" {
		t.Fatalf("child lost fields: %+v", c)
	}
	if back.Calendar["cal-1"].StartTimeMs != 500 {
		t.Fatalf("calendar lost: %+v", back.Calendar)
	}
}

func TestFromSnapshotRejectsMalformed(t *testing.T) {
	_, err := FromSnapshot(Snapshot{Templates: []model.TemplateRecord{
		{ID: "tpl-bad", Kind: "nonsense"},
	}})
	if err == nil {
		t.Fatalf("expected factory rejection")
	}
}

func TestStateClone(t *testing.T) {
	st := stateWith(t, model.Template{
		ID:   "tpl-a",
		Kind: model.KindSequential,
		SequenceChildren: []model.SequenceChild{
			{ChildID: "tpl-a", RelationshipID: "rel-1"},
		},
	})
	st, _ = Apply(st, AddCalendarEntry{Entry: model.BaseCalendarEntry{ID: "cal-1", TemplateID: "tpl-a"}})

	cp := st.Clone()
	tpl, _ := cp.Templates.GetByID("tpl-a")
	tpl.SequenceChildren[0].Complete = true
	cp.Calendar["cal-2"] = model.BaseCalendarEntry{ID: "cal-2", TemplateID: "tpl-a"}

	orig, _ := st.Templates.GetByID("tpl-a")
	if orig.SequenceChildren[0].Complete {
		t.Fatalf("clone shares child slice")
	}
	if _, exists := st.Calendar["cal-2"]; exists {
		t.Fatalf("clone shares calendar map")
	}
}
