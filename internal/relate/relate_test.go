package relate

import (
	"errors"
	"testing"

	"cadence-cli/internal/model"
)

func int64p(v int64) *int64 { return &v }

func TestAddChild_TimedRequiresOffset(t *testing.T) {
	parent := model.Template{ID: "tpl-p", Kind: model.KindTimed, DurationMs: 2000}
	child := model.Template{ID: "tpl-c", Kind: model.KindLeaf, DurationMs: 1000}

	_, _, _, err := AddChild(parent, child, AddChildOptions{})
	var incompat IncompatibleParentKindError
	if !errors.As(err, &incompat) {
		t.Fatalf("expected IncompatibleParentKindError; got %v", err)
	}

	p2, c2, rel, err := AddChild(parent, child, AddChildOptions{StartOffsetMs: int64p(500)})
	if err != nil {
		t.Fatalf("AddChild error: %v", err)
	}
	if rel.ParentID != "tpl-p" || rel.RelationshipID == "" {
		t.Fatalf("unexpected relationship: %+v", rel)
	}
	if len(p2.TimedChildren) != 1 || p2.TimedChildren[0].StartOffsetMs != 500 {
		t.Fatalf("parent side not linked: %+v", p2.TimedChildren)
	}
	if len(c2.Parents) != 1 || c2.Parents[0].RelationshipID != rel.RelationshipID {
		t.Fatalf("child side not linked: %+v", c2.Parents)
	}
	// Inputs untouched.
	if len(parent.TimedChildren) != 0 || len(child.Parents) != 0 {
		t.Fatalf("AddChild mutated its inputs")
	}
}

func TestAddChild_RejectsLeafParent(t *testing.T) {
	parent := model.Template{ID: "tpl-p", Kind: model.KindLeaf}
	child := model.Template{ID: "tpl-c", Kind: model.KindLeaf}
	_, _, _, err := AddChild(parent, child, AddChildOptions{})
	var incompat IncompatibleParentKindError
	if !errors.As(err, &incompat) {
		t.Fatalf("expected IncompatibleParentKindError; got %v", err)
	}
}

func TestAddChild_SequentialAppendsAtEnd(t *testing.T) {
	parent := model.Template{
		ID:   "tpl-p",
		Kind: model.KindSequential,
		SequenceChildren: []model.SequenceChild{
			{ChildID: "tpl-a", RelationshipID: "rel-1"},
		},
	}
	child := model.Template{ID: "tpl-b", Kind: model.KindLeaf}

	p2, _, rel, err := AddChild(parent, child, AddChildOptions{})
	if err != nil {
		t.Fatalf("AddChild error: %v", err)
	}
	if len(p2.SequenceChildren) != 2 || p2.SequenceChildren[1].ChildID != "tpl-b" {
		t.Fatalf("expected appended child; got %+v", p2.SequenceChildren)
	}
	if p2.SequenceChildren[1].RelationshipID != rel.RelationshipID {
		t.Fatalf("relationship id mismatch")
	}
}

func TestAddChild_DuplicateChildIDsUnderOneParent(t *testing.T) {
	parent := model.Template{ID: "tpl-p", Kind: model.KindTimed, DurationMs: 5000}
	child := model.Template{ID: "tpl-c", Kind: model.KindLeaf, DurationMs: 1000}

	p2, c2, relA, err := AddChild(parent, child, AddChildOptions{StartOffsetMs: int64p(0)})
	if err != nil {
		t.Fatalf("first AddChild error: %v", err)
	}
	p3, c3, relB, err := AddChild(p2, c2, AddChildOptions{StartOffsetMs: int64p(2000)})
	if err != nil {
		t.Fatalf("second AddChild error: %v", err)
	}
	if relA.RelationshipID == relB.RelationshipID {
		t.Fatalf("relationship ids must be distinct")
	}
	if len(p3.TimedChildren) != 2 || len(c3.Parents) != 2 {
		t.Fatalf("expected two parallel links; got %d children, %d parents", len(p3.TimedChildren), len(c3.Parents))
	}
}

func TestAddChild_ExplicitRelationshipID(t *testing.T) {
	parent := model.Template{ID: "tpl-p", Kind: model.KindSequential}
	child := model.Template{ID: "tpl-c", Kind: model.KindLeaf}
	_, _, rel, err := AddChild(parent, child, AddChildOptions{RelationshipID: "rel-given"})
	if err != nil {
		t.Fatalf("AddChild error: %v", err)
	}
	if rel.RelationshipID != "rel-given" {
		t.Fatalf("expected rel-given; got %q", rel.RelationshipID)
	}
}

func TestAddChild_SelfLinkCarriesBothSides(t *testing.T) {
	tpl := model.Template{ID: "tpl-a", Kind: model.KindTimed, DurationMs: 1000}
	p2, c2, rel, err := AddChild(tpl, tpl, AddChildOptions{StartOffsetMs: int64p(0)})
	if err != nil {
		t.Fatalf("AddChild error: %v", err)
	}
	if !HasChildWithRelationshipID(p2, rel.RelationshipID) || !HasParentWithRelationshipID(p2, rel.RelationshipID) {
		t.Fatalf("self link must carry both sides on one value")
	}
	if !HasChildWithRelationshipID(c2, rel.RelationshipID) {
		t.Fatalf("both returned values must be the linked template")
	}
}

func TestRemove_SymmetricAndIdempotent(t *testing.T) {
	parent := model.Template{ID: "tpl-p", Kind: model.KindTimed, DurationMs: 2000}
	child := model.Template{ID: "tpl-c", Kind: model.KindLeaf, DurationMs: 500}
	p2, c2, rel, err := AddChild(parent, child, AddChildOptions{StartOffsetMs: int64p(100)})
	if err != nil {
		t.Fatalf("AddChild error: %v", err)
	}

	p3 := RemoveChildByRelationshipID(p2, rel.RelationshipID)
	c3 := RemoveParentByRelationshipID(c2, rel.RelationshipID)
	if HasChildWithRelationshipID(p3, rel.RelationshipID) || HasParentWithRelationshipID(c3, rel.RelationshipID) {
		t.Fatalf("dangling link after symmetric removal")
	}

	// Removing again is a no-op, never an error.
	if got := RemoveChildByRelationshipID(p3, rel.RelationshipID); len(got.TimedChildren) != 0 {
		t.Fatalf("second removal changed the value")
	}
	if got := RemoveParentByID(c3, "tpl-p"); len(got.Parents) != 0 {
		t.Fatalf("parent removal on clean child changed the value")
	}
	// Inputs of the removals untouched.
	if !HasChildWithRelationshipID(p2, rel.RelationshipID) {
		t.Fatalf("RemoveChildByRelationshipID mutated its input")
	}
}

func TestRemoveChildByID_FirstMatchOnly(t *testing.T) {
	parent := model.Template{
		ID:   "tpl-p",
		Kind: model.KindSequential,
		SequenceChildren: []model.SequenceChild{
			{ChildID: "tpl-c", RelationshipID: "rel-1"},
			{ChildID: "tpl-c", RelationshipID: "rel-2"},
		},
	}
	got := RemoveChildByID(parent, "tpl-c")
	if len(got.SequenceChildren) != 1 || got.SequenceChildren[0].RelationshipID != "rel-2" {
		t.Fatalf("expected only the first link removed; got %+v", got.SequenceChildren)
	}
}

func TestPredicates(t *testing.T) {
	tpl := model.Template{
		ID:   "tpl-p",
		Kind: model.KindTimed,
		TimedChildren: []model.TimedChild{
			{ChildID: "tpl-c", RelationshipID: "rel-1", StartOffsetMs: 0},
		},
		Parents: []model.Relationship{
			{ParentID: "tpl-g", RelationshipID: "rel-0"},
		},
	}
	if !HasChildWithID(tpl, "tpl-c") || HasChildWithID(tpl, "tpl-x") {
		t.Fatalf("HasChildWithID wrong")
	}
	if !HasChildWithRelationshipID(tpl, "rel-1") || HasChildWithRelationshipID(tpl, "rel-9") {
		t.Fatalf("HasChildWithRelationshipID wrong")
	}
	if !HasParentWithID(tpl, "tpl-g") || HasParentWithID(tpl, "tpl-x") {
		t.Fatalf("HasParentWithID wrong")
	}
	if !HasParentWithRelationshipID(tpl, "rel-0") || HasParentWithRelationshipID(tpl, "rel-1") {
		t.Fatalf("HasParentWithRelationshipID wrong")
	}
}
