package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/Vaflel/planning/domain"
	"github.com/Vaflel/planning/infrastructure"
)

func TestCreateRejectsThirdSessionInCell(t *testing.T) {
	repo := &fakeSessions{items: []domain.Session{
		testSession("s1", "C1", "T1", "R1", 1, 1),
		testSession("s2", "C1", "T2", "R2", 1, 1),
	}}
	svc := NewSessionService(repo, &fakeRefs{}, nil)

	if _, err := svc.Create(context.Background(), testInput("C1", 1, 1)); !errors.Is(err, domain.ErrCellFull) {
		t.Fatalf("expected ErrCellFull, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("create request must not be sent, got %d", len(repo.created))
	}

	if _, err := svc.Create(context.Background(), testInput("C1", 1, 2)); err != nil {
		t.Fatalf("free cell must accept, got %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 create, got %d", len(repo.created))
	}
}

func TestCreateValidatesInput(t *testing.T) {
	repo := &fakeSessions{}
	svc := NewSessionService(repo, &fakeRefs{}, nil)

	in := testInput("C1", 1, 1)
	in.Course = ""
	if _, err := svc.Create(context.Background(), in); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	in = testInput("C1", 7, 1)
	if _, err := svc.Create(context.Background(), in); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for day 7, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("invalid input must not reach the backend")
	}
}

func TestUpdateInPlaceIgnoresItself(t *testing.T) {
	repo := &fakeSessions{items: []domain.Session{
		testSession("s1", "C1", "T1", "R1", 1, 1),
		testSession("s2", "C1", "T2", "R2", 1, 1),
	}}
	svc := NewSessionService(repo, &fakeRefs{}, nil)

	in := repo.items[1].Input()
	in.Group = "Groupe 2"
	if _, err := svc.Update(context.Background(), "s2", in); err != nil {
		t.Fatalf("editing in place must pass, got %v", err)
	}
	if got := repo.updated["s2"].Group; got != "Groupe 2" {
		t.Fatalf("expected group to be sent, got %q", got)
	}
}

func TestMoveValidatesBeforeUpdate(t *testing.T) {
	repo := &fakeSessions{items: []domain.Session{
		testSession("s1", "C1", "T1", "R1", 1, 1),
		testSession("s2", "C1", "T2", "R2", 1, 1),
		testSession("s3", "C1", "T3", "R3", 2, 2),
	}}
	svc := NewSessionService(repo, &fakeRefs{}, nil)
	ctx := context.Background()

	_, err := svc.Move(ctx, MoveRequest{SessionID: "s3", DayOfWeek: 1, TimeSlot: 1, Semester: 1})
	if !errors.Is(err, domain.ErrCellFull) {
		t.Fatalf("expected ErrCellFull, got %v", err)
	}
	if len(repo.updated) != 0 {
		t.Fatalf("update must not be sent for a full cell")
	}

	moved, err := svc.Move(ctx, MoveRequest{SessionID: "s3", DayOfWeek: 4, TimeSlot: 5, Semester: 1})
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if moved.DayOfWeek != 4 || moved.TimeSlot != 5 || moved.ClassID() != "C1" {
		t.Fatalf("unexpected moved session: %+v", moved)
	}
	if in := repo.updated["s3"]; in.Teacher != "T3" || in.DayOfWeek != 4 {
		t.Fatalf("unexpected update body: %+v", in)
	}

	if _, err := svc.Move(ctx, MoveRequest{SessionID: "missing", DayOfWeek: 1, TimeSlot: 1, Semester: 1}); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.Move(ctx, MoveRequest{SessionID: "s3", DayOfWeek: 0, TimeSlot: 1, Semester: 1}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestImportResolvesNamesAndReportsBadRows(t *testing.T) {
	refs := &fakeRefs{
		classes:  []domain.Class{{ID: "C1", Name: "TI1"}},
		teachers: []domain.Teacher{{ID: "T1", FirstName: "Ali", LastName: "Ben Salah"}},
		rooms:    []domain.Room{{ID: "R1", Name: "A1"}},
		courses:  []domain.Course{{ID: "K1", Name: "Algorithmique", Code: "ALGO"}},
	}
	row := func(line int, teacher string) infrastructure.ImportRow {
		return infrastructure.ImportRow{
			Line: line, Class: "ti1", Teacher: teacher, Room: "A1", Course: "ALGO",
			Type: "Cours", Day: "Lundi", Slot: "8h30-10h00",
		}
	}
	rows := []infrastructure.ImportRow{
		row(2, "Ali Ben Salah"),
		row(3, "Ben  Salah Ali"),
		row(4, "Ali Ben Salah"),
		row(5, "Inconnu"),
	}
	rows = append(rows, infrastructure.ImportRow{
		Line: 6, Class: "TI1", Teacher: "Ali Ben Salah", Room: "A1", Course: "Algorithmique",
		Type: "TP", Day: "3", Slot: "2", Semester: "S2",
	})

	repo := &fakeSessions{}
	svc := NewSessionService(repo, refs, fakeImporter{rows: rows})

	report, err := svc.Import(context.Background(), nil, 1)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if report.Created != 3 {
		t.Fatalf("expected 3 created, got %d (%+v)", report.Created, report.Errors)
	}
	if len(report.Errors) != 2 || report.Errors[0].Line != 4 || report.Errors[1].Line != 5 {
		t.Fatalf("unexpected errors: %+v", report.Errors)
	}

	first := repo.created[0]
	if first.Class != "C1" || first.Teacher != "T1" || first.Room != "R1" || first.Course != "K1" {
		t.Fatalf("names not resolved: %+v", first)
	}
	if first.DayOfWeek != 1 || first.TimeSlot != 1 || first.Semester != 1 || first.Type != domain.Lecture {
		t.Fatalf("unexpected placement: %+v", first)
	}
	last := repo.created[2]
	if last.DayOfWeek != 3 || last.TimeSlot != 2 || last.Semester != 2 || last.Type != domain.Practical {
		t.Fatalf("unexpected numeric placement: %+v", last)
	}
}
