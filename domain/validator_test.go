package domain

import (
	"errors"
	"testing"
)

func TestCheckPlacementRejectsThirdOccupant(t *testing.T) {
	existing := []Session{
		session("s1", "C1", 1, 1, "Groupe 1"),
		session("s2", "C1", 1, 1, "Groupe 2"),
	}
	candidate := session("", "C1", 1, 1, "Groupe 3")
	if err := CheckPlacement(existing, candidate); !errors.Is(err, ErrCellFull) {
		t.Fatalf("expected ErrCellFull, got %v", err)
	}

	other := session("", "C2", 1, 1, "")
	if err := CheckPlacement(existing, other); err != nil {
		t.Fatalf("another class must be free, got %v", err)
	}

	nextSemester := session("", "C1", 1, 1, "")
	nextSemester.Semester = 2
	if err := CheckPlacement(existing, nextSemester); err != nil {
		t.Fatalf("another semester must be free, got %v", err)
	}
}

func TestCheckPlacementIgnoresSelf(t *testing.T) {
	existing := []Session{
		session("s1", "C1", 1, 1, "Groupe 1"),
		session("s2", "C1", 1, 1, "Groupe 2"),
	}
	edited := existing[1]
	edited.Group = "Groupe B"
	if err := CheckPlacement(existing, edited); err != nil {
		t.Fatalf("editing in place must pass, got %v", err)
	}
}

func TestMoveValidatesBeforeDrop(t *testing.T) {
	sessions := []Session{
		session("s1", "C1", 1, 1, "Groupe 1"),
		session("s2", "C1", 1, 1, "Groupe 2"),
		session("s3", "C1", 2, 2, ""),
	}
	move := NewMove(sessions)

	if _, err := move.DropAt(Class{ID: "C1"}, MustCoordinate(3, 3)); !errors.Is(err, ErrNothingPicked) {
		t.Fatalf("expected ErrNothingPicked, got %v", err)
	}
	if err := move.PickUp("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := move.PickUp("s3"); err != nil {
		t.Fatalf("pick up failed: %v", err)
	}
	if _, err := move.DropAt(Class{ID: "C1", Name: "C1"}, MustCoordinate(1, 1)); !errors.Is(err, ErrCellFull) {
		t.Fatalf("expected ErrCellFull, got %v", err)
	}
	if move.Picked() == nil {
		t.Fatalf("failed drop must keep the session picked")
	}

	move.Cancel()
	if move.Picked() != nil {
		t.Fatalf("cancel must clear the picked session")
	}
	if _, err := move.DropAt(Class{ID: "C2", Name: "C2"}, MustCoordinate(1, 1)); !errors.Is(err, ErrNothingPicked) {
		t.Fatalf("expected ErrNothingPicked after cancel, got %v", err)
	}
	if err := move.PickUp("s3"); err != nil {
		t.Fatalf("pick up after cancel failed: %v", err)
	}

	moved, err := move.DropAt(Class{ID: "C2", Name: "C2"}, MustCoordinate(1, 1))
	if err != nil {
		t.Fatalf("drop failed: %v", err)
	}
	if moved.ClassID() != "C2" || moved.DayOfWeek != 1 || moved.TimeSlot != 1 {
		t.Fatalf("unexpected moved session %+v", moved)
	}
	if sessions[2].DayOfWeek != 2 {
		t.Fatalf("original selection must stay unchanged")
	}
	if move.Picked() != nil {
		t.Fatalf("successful drop must clear the picked session")
	}
}

func TestValidateScheduleFindsConflicts(t *testing.T) {
	a := session("s1", "C1", 1, 1, "")
	b := session("s2", "C2", 1, 1, "")
	b.Teacher = a.Teacher
	c := session("s3", "C3", 1, 1, "")
	c.Room = a.Room
	d1 := session("d1", "C4", 2, 2, "")
	d2 := session("d2", "C4", 2, 2, "")
	d3 := session("d3", "C4", 2, 2, "")

	violations := NewValidator([]Session{a, b, c, d1, d2, d3}).ValidateSchedule()

	counts := make(map[ViolationType]int)
	for _, v := range violations {
		counts[v.Type]++
	}
	if counts[CellOverflow] != 1 || counts[TeacherConflict] != 1 || counts[RoomConflict] != 1 {
		t.Fatalf("unexpected violations %v", counts)
	}
}

func TestSessionInputValidate(t *testing.T) {
	in := session("s1", "C1", 1, 1, "").Input()
	if err := in.Validate(); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
	in.Room = ""
	if err := in.Validate(); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	in = session("s1", "C1", 7, 1, "").Input()
	if err := in.Validate(); !IsValidation(err) {
		t.Fatalf("expected validation error for day 7, got %v", err)
	}
}
