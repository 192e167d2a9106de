package infrastructure

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xuri/excelize/v2"

	"github.com/Vaflel/planning/domain"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestTokenStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.db")
	store, err := OpenTokenStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	token := signed(t, time.Now().Add(time.Hour))
	if err := store.Save(token, []byte(`{"email":"a@b.tn"}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	store.Close()

	reopened, err := OpenTokenStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if reopened.Token() != token {
		t.Fatalf("token not persisted")
	}
	if !bytes.Contains(reopened.User(), []byte("a@b.tn")) {
		t.Fatalf("user not persisted")
	}

	if err := reopened.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if reopened.Token() != "" {
		t.Fatalf("token must be cleared")
	}
}

func TestTokenStoreDropsExpired(t *testing.T) {
	store, err := OpenTokenStore(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if err := store.Save(signed(t, time.Now().Add(-time.Minute)), nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if store.Token() != "" {
		t.Fatalf("expired token must not be returned")
	}

	if err := store.Save("opaque-token", nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if store.Token() != "opaque-token" {
		t.Fatalf("token without exp must be kept")
	}
}

func TestTemplateRepository(t *testing.T) {
	dir := t.TempDir()
	repo := NewTemplateRepository(dir, DefaultTemplateFiles)

	text, err := repo.Load(domain.TargetRoom)
	if err != nil || text != "" {
		t.Fatalf("missing template must be empty, got %q, %v", text, err)
	}

	html := `<html><body><p>ISET DE GAFSA</p><div><h2>EMPLOI DU TEMPS</h2><p>Classe: {{CLASS_NAME}}<br>Semestre: {{SEMESTER}}</p></div></body></html>`
	if err := os.WriteFile(filepath.Join(dir, DefaultTemplateFiles.Class), []byte(html), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	text, err = repo.Load(domain.TargetClass)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := "ISET DE GAFSA\nEMPLOI DU TEMPS\nClasse: {{CLASS_NAME}}\nSemestre: {{SEMESTER}}"
	if text != want {
		t.Fatalf("unexpected flattened template:\n%s", text)
	}

	plain := []byte("EMPLOI DU TEMPS\r\nEnseignant: {{TEACHER_NAME}}")
	if err := os.WriteFile(filepath.Join(dir, DefaultTemplateFiles.Teacher), plain, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	text, _ = repo.Load(domain.TargetTeacher)
	if text != "EMPLOI DU TEMPS\nEnseignant: {{TEACHER_NAME}}" {
		t.Fatalf("unexpected plain template %q", text)
	}
}

func TestRowsFromTable(t *testing.T) {
	table := [][]string{
		{"Emploi du temps importé"},
		nil,
		{"Classe", "Enseignant", "Salle", "Matière", "Type", "Jour", "Horaire", "Semestre", "Groupe"},
		{"TI1-A", "Ali Ben", "B12", "ALG1", "TD", "Lundi", "8h30-10h00", "1", "Groupe 1"},
		{"", "", "", "", "", "", "", "", ""},
		{"TI1-A", "Ali Ben", "B12", "ALG1", "Cours", "Mardi", "2"},
	}
	rows, err := rowsFromTable(table)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	first := rows[0]
	if first.Line != 4 || first.Course != "ALG1" || first.Slot != "8h30-10h00" || first.Group != "Groupe 1" {
		t.Fatalf("unexpected first row %+v", first)
	}
	if rows[1].Semester != "" || rows[1].Slot != "2" {
		t.Fatalf("short row must leave missing cells empty, got %+v", rows[1])
	}

	if _, err := rowsFromTable([][]string{{"a", "b"}}); !errors.Is(err, ErrNoHeader) {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}

func TestExportBilanXLSX(t *testing.T) {
	teacher := domain.Teacher{ID: "t1", FirstName: "Salma", LastName: "Héni", Grade: domain.Ref{ID: "65f0c2a1"}}
	bilan := domain.BuildBilan([]domain.Teacher{teacher}, []domain.Session{
		{ID: "s1", Teacher: &teacher, Type: domain.Lecture, DayOfWeek: 1, TimeSlot: 1, Semester: 1},
	})

	data, err := ExportBilanXLSX(BilanTitle{Title: "Bilan", AcademicYear: "2024-2025", Semester: 1}, bilan)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	name, _ := f.GetCellValue(bilanSheet, "B5")
	if name != "Salma Héni" {
		t.Fatalf("unexpected teacher cell %q", name)
	}
	if grade, _ := f.GetCellValue(bilanSheet, "C5"); grade != "" {
		t.Fatalf("bare grade id must not be printed, got %q", grade)
	}
	total, _ := f.GetCellValue(bilanSheet, "B6")
	if !strings.EqualFold(total, "TOTAL") {
		t.Fatalf("expected totals row, got %q", total)
	}
	hours, _ := f.GetCellValue(bilanSheet, "D5")
	if hours != "1.5" {
		t.Fatalf("unexpected total hours %q", hours)
	}
}
