package session

import (
	"context"
	"testing"
)

func TestClearFlowKeepsAdminAndSelections(t *testing.T) {
	s := Session{
		IsAdmin: true,
		Flow:    FlowEdit,
		Edit:    &EditState{Category: "car", Index: 1, Step: EditStepPrice, NewName: "x"},
	}
	s.Bump("car", 0)

	if got := s.ClearFlow(); got != FlowEdit {
		t.Fatalf("ClearFlow returned %q, want %q", got, FlowEdit)
	}
	if s.Flow != FlowNone || s.Add != nil || s.Edit != nil || s.Delete != nil {
		t.Errorf("flow state not fully cleared: %+v", s)
	}
	if !s.IsAdmin {
		t.Error("admin flag lost on flow clear")
	}
	if s.Quantity("car", 0) != 1 {
		t.Error("selections lost on flow clear")
	}
}

func TestBumpAccumulatesAcrossCategories(t *testing.T) {
	var s Session
	s.Bump("car", 2)
	s.Bump("car", 2)
	if got := s.Bump("car", 2); got != 3 {
		t.Fatalf("third bump = %d, want 3", got)
	}
	s.Bump("moto", 0)
	if s.Quantity("car", 2) != 3 || s.Quantity("moto", 0) != 1 {
		t.Errorf("quantities wrong: %v", s.Selections)
	}
	if s.Quantity("additional", 0) != 0 {
		t.Error("untouched position should be zero")
	}

	s.ClearSelections()
	if s.Quantity("car", 2) != 0 {
		t.Error("clear did not empty selections")
	}
}

func TestBadgerStoreRoundTrip(t *testing.T) {
	store, err := OpenBadger(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	// Unknown user gets a fresh zero session, not an error.
	got, err := store.Get(ctx, 42)
	if err != nil {
		t.Fatalf("get unknown: %v", err)
	}
	if got.InFlow() || got.IsAdmin {
		t.Fatalf("unknown user session not zero: %+v", got)
	}

	want := Session{
		IsAdmin: true,
		Flow:    FlowAdd,
		Add:     &AddState{Category: "moto", Name: "Покраска бака"},
	}
	want.Bump("car", 1)
	want.Bump("car", 1)

	if err := store.Set(ctx, 42, want); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err = store.Get(ctx, 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsAdmin || got.Flow != FlowAdd {
		t.Errorf("flags lost: %+v", got)
	}
	if got.Add == nil || got.Add.Name != "Покраска бака" {
		t.Errorf("add state lost: %+v", got.Add)
	}
	if got.Quantity("car", 1) != 2 {
		t.Errorf("selections lost: %v", got.Selections)
	}

	// Sessions are isolated per user.
	other, err := store.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get other: %v", err)
	}
	if other.IsAdmin || other.Quantity("car", 1) != 0 {
		t.Errorf("session leaked between users: %+v", other)
	}

	if err := store.Delete(ctx, 42); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = store.Get(ctx, 42)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got.IsAdmin || got.InFlow() {
		t.Errorf("delete did not reset session: %+v", got)
	}
	// Double delete stays silent.
	if err := store.Delete(ctx, 42); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
