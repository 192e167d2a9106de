package usecases

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Vaflel/planning/domain"
)

func timetableFixture() (*fakeRefs, *fakeSessions) {
	refs := &fakeRefs{
		departments: []domain.Department{{ID: "D1", Name: "Informatique", Head: "M. Trabelsi"}},
		years:       []domain.AcademicYear{{ID: "Y1", Name: "2024-2025"}},
		classes: []domain.Class{
			{ID: "TI2", Name: "TI2", Department: domain.Ref{ID: "D1"}},
			{ID: "TI1", Name: "TI1", Department: domain.Ref{ID: "D1"}},
			{ID: "GM1", Name: "GM1", Department: domain.Ref{ID: "D2"}},
		},
		teachers: []domain.Teacher{
			{ID: "T1", FirstName: "Ali", LastName: "Ben Salah", Departments: []domain.Ref{{ID: "D1"}}},
			{ID: "T2", FirstName: "Sami", LastName: "Gharbi", Departments: []domain.Ref{{ID: "D2"}}},
		},
		university: domain.University{Name: "ISET de Sfax"},
	}
	sessions := &fakeSessions{items: []domain.Session{
		testSession("s1", "TI1", "T1", "R1", 1, 1),
		testSession("s2", "TI1", "T1", "R1", 1, 1),
		testSession("s3", "TI1", "T1", "R1", 1, 1),
		testSession("s4", "TI2", "T1", "R1", 2, 3),
	}}
	return refs, sessions
}

func TestGenerateKeepsTargetOrder(t *testing.T) {
	refs, sessions := timetableFixture()
	svc := NewTimetableService(refs, sessions, fakeTemplates{}, TimetableOptions{})

	result, err := svc.Generate(context.Background(), TimetableRequest{
		Target:   domain.TargetClass,
		TargetID: AllTargets,
		Filter:   domain.Filter{Department: "D1", AcademicYear: "Y1", Semester: 1},
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if len(result.Pages) != 2 || result.Pages[0].TargetID != "TI2" || result.Pages[1].TargetID != "TI1" {
		t.Fatalf("unexpected page order: %+v", result.Pages)
	}
	if result.FileName != "Emplois_du_temps_classes_Informatique_2024-2025_S1.pdf" {
		t.Fatalf("unexpected file name: %s", result.FileName)
	}
	if !bytes.HasPrefix(result.PDF, []byte("%PDF")) {
		t.Fatalf("expected PDF output")
	}
	if len(result.Overflow) != 1 || result.Overflow[0].Session.ID != "s3" {
		t.Fatalf("expected third session to overflow, got %+v", result.Overflow)
	}
}

func TestGenerateSingleTarget(t *testing.T) {
	refs, sessions := timetableFixture()
	svc := NewTimetableService(refs, sessions, fakeTemplates{text: "ISET de GAFSA\n{{CLASS_NAME}}"}, TimetableOptions{})

	result, err := svc.Generate(context.Background(), TimetableRequest{
		Target:   domain.TargetTeacher,
		TargetID: "T1",
		Filter:   domain.Filter{Department: "D1", AcademicYear: "Y1", Semester: 1},
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(result.Pages) != 1 || result.Pages[0].Name != "Ali Ben Salah" {
		t.Fatalf("unexpected pages: %+v", result.Pages)
	}
	if result.FileName != "Enseignant_Ali_Ben_Salah_Informatique_2024-2025_S1.pdf" {
		t.Fatalf("unexpected file name: %s", result.FileName)
	}
}

func TestGenerateErrors(t *testing.T) {
	refs, sessions := timetableFixture()
	svc := NewTimetableService(refs, sessions, fakeTemplates{}, TimetableOptions{})
	ctx := context.Background()

	_, err := svc.Generate(ctx, TimetableRequest{Target: domain.TargetClass})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error without semester, got %v", err)
	}

	_, err = svc.Generate(ctx, TimetableRequest{
		Target:   domain.TargetClass,
		TargetID: "missing",
		Filter:   domain.Filter{Semester: 1},
	})
	if !errors.Is(err, ErrNoTargets) {
		t.Fatalf("expected ErrNoTargets, got %v", err)
	}

	_, err = svc.Generate(ctx, TimetableRequest{
		Target: domain.TargetClass,
		Filter: domain.Filter{Department: "D9", Semester: 1},
	})
	if !errors.Is(err, ErrNoTargets) {
		t.Fatalf("expected ErrNoTargets for empty department, got %v", err)
	}
}

func TestViewTeacherGrid(t *testing.T) {
	refs, sessions := timetableFixture()
	svc := NewTimetableService(refs, sessions, fakeTemplates{}, TimetableOptions{})

	gv, err := svc.View(context.Background(), TimetableRequest{
		Target: domain.TargetTeacher,
		Filter: domain.Filter{Department: "D1", Semester: 1},
	})
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if len(gv.Targets) != 1 || gv.Selected.ID != "T1" {
		t.Fatalf("expected only the department teacher, got %+v", gv.Targets)
	}
	if got := len(gv.Grid.At(domain.MustCoordinate(1, 1))); got != 2 {
		t.Fatalf("expected 2 sessions in the cell, got %d", got)
	}
	if len(gv.Overflow) != 1 {
		t.Fatalf("expected 1 overflow, got %d", len(gv.Overflow))
	}
	if gv.Stats == "" {
		t.Fatalf("expected teacher load summary")
	}
}
