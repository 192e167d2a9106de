package pdfdoc

import (
	"bytes"
	"testing"

	"github.com/Vaflel/planning/domain"
)

func classSession(id, classID string, day, slot int) domain.Session {
	return domain.Session{
		ID:        id,
		Course:    &domain.Course{ID: "c" + id, Code: "PRG" + id},
		Teacher:   &domain.Teacher{ID: "t" + id, FirstName: "Salma", LastName: "Héni"},
		Class:     &domain.Class{ID: classID, Name: classID},
		Room:      &domain.Room{ID: "r" + id, Name: "Labo " + id},
		Type:      domain.Practical,
		DayOfWeek: day,
		TimeSlot:  slot,
		Semester:  1,
	}
}

func testMeta() Meta {
	return Meta{
		Target:         domain.TargetClass,
		DepartmentName: "Technologies de l'Informatique",
		DepartmentHead: "Mme Directrice",
		AcademicYear:   "2024-2025",
		Semester:       1,
		University:     domain.University{Name: "ISET de Sfax", DirectorName: "M. Directeur"},
	}
}

func TestTimetableKeepsPageOrder(t *testing.T) {
	view := domain.Aggregate([]domain.Session{
		classSession("1", "TI2", 1, 1),
		classSession("2", "TI1", 2, 2),
		classSession("3", "TI3", 3, 3),
	}, domain.TargetClass, domain.Filter{Semester: 1})

	doc := NewTimetable(testMeta())
	for _, id := range view.Targets() {
		if err := doc.AddPage(Page{TargetID: id, EntityName: id, Grid: view.Grid(id)}); err != nil {
			t.Fatalf("add page %s: %v", id, err)
		}
	}

	pages := doc.Pages()
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	for i, want := range []string{"TI2", "TI1", "TI3"} {
		if pages[i].TargetID != want {
			t.Fatalf("page %d: expected %s, got %s", i, want, pages[i].TargetID)
		}
	}

	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("output failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestTimetablePageWithMissingReferences(t *testing.T) {
	s := classSession("1", "TI1", 4, 6)
	s.Room = nil
	s.Teacher = nil
	s.Course = nil
	view := domain.Aggregate([]domain.Session{s}, domain.TargetClass, domain.Filter{})

	meta := testMeta()
	meta.HeaderTemplate = "EMPLOI DU TEMPS\nClasse: {{CLASS_NAME}}\nISET DE GAFSA"
	doc := NewTimetable(meta)
	if err := doc.AddPage(Page{TargetID: "TI1", EntityName: "TI1", Grid: view.Grid("TI1"), Stats: "Total : 0h"}); err != nil {
		t.Fatalf("page with missing references must build, got %v", err)
	}
	if _, err := doc.Bytes(); err != nil {
		t.Fatalf("output failed: %v", err)
	}
}

func TestEmptyTimetableHasNoOutput(t *testing.T) {
	if _, err := NewTimetable(testMeta()).Bytes(); err == nil {
		t.Fatalf("expected error for a document without pages")
	}
}

func TestFileNames(t *testing.T) {
	got := FileName(domain.TargetTeacher, "Salma Héni", "Génie Civil", "2024/2025", 2)
	if got != "Enseignant_Salma_Heni_Genie_Civil_2024_2025_S2.pdf" {
		t.Fatalf("unexpected file name %q", got)
	}
	got = FileName(domain.TargetClass, "Génie Électrique 1", "Électrique", "2024-2025", 1)
	if got != "Classe_Genie_Electrique_1_Electrique_2024-2025_S1.pdf" {
		t.Fatalf("unexpected file name %q", got)
	}
	got = FileName(domain.TargetTeacher, "Éric Ñuñez", "Génie Civil", "2024-2025", 2)
	if got != "Enseignant_Eric_Nunez_Genie_Civil_2024-2025_S2.pdf" {
		t.Fatalf("unexpected file name %q", got)
	}
	got = FileName(domain.TargetClass, "قسم الإعلامية", "", "", 1)
	if got != "Classe_Sans_nom_Dept_Annee_S1.pdf" {
		t.Fatalf("empty parts must get placeholders, got %q", got)
	}
	got = BundleFileName(domain.TargetRoom, "TI", "2024-2025", 1)
	if got != "Emplois_du_temps_salles_TI_2024-2025_S1.pdf" {
		t.Fatalf("unexpected bundle name %q", got)
	}
}

func TestReports(t *testing.T) {
	teachers := []domain.Teacher{
		{ID: "t1", FirstName: "Salma", LastName: "Héni", Grade: domain.Ref{ID: "g1", Name: "MA"}},
		{ID: "t2", FirstName: "Omar", LastName: "Kefi"},
	}
	sessions := []domain.Session{classSession("1", "TI1", 1, 1)}
	sessions[0].Teacher = &teachers[0]
	bilan := domain.BuildBilan(teachers, sessions)

	meta := ReportMeta{Title: "Bilan des charges", AcademicYear: "2024-2025", Semester: 1}
	data, err := BilanReport(meta, bilan)
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("bilan report failed: %v", err)
	}

	data, err = TeacherListing(meta, teachers)
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("teacher listing failed: %v", err)
	}
}
