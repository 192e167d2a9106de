package header

import (
	"strings"
	"testing"
)

const classTemplate = `RÉPUBLIQUE TUNISIENNE
INSTITUT SUPÉRIEUR DES ÉTUDES TECHNOLOGIQUES DE GAFSA

EMPLOI DU TEMPS
Classe: {{CLASS_NAME}}   Département: {{DEPARTMENT_NAME}}
Semestre: {{SEMESTER}}   A.U.: {{ACADEMIC_YEAR}}
[TABLE_PLACEHOLDER]
Signature: {{UNKNOWN_FIELD}}
Code ISO: FQ-PED-06 (DTI)/REV00`

func TestSubstituteKnownAndUnknown(t *testing.T) {
	e := NewEngine()
	out := e.Substitute("{{CLASS_NAME}}|{{TEACHER_GRADE}}|{{NOT_A_FIELD}}", Values{ClassName: "TI1-A"})
	if out != "TI1-A||{{NOT_A_FIELD}}" {
		t.Fatalf("unexpected substitution %q", out)
	}
}

func TestSubstituteLocation(t *testing.T) {
	e := NewEngine()
	out := e.Substitute("INSTITUT SUPÉRIEUR DES ÉTUDES TECHNOLOGIQUES DE GAFSA", Values{UniversityName: "ISET DE SFAX"})
	if !strings.HasSuffix(out, "DE SFAX") {
		t.Fatalf("expected location replaced, got %q", out)
	}

	out = e.Substitute("ISET DE GAFSA", Values{})
	if out != "ISET DE GAFSA" {
		t.Fatalf("expected fallback location, got %q", out)
	}
}

func TestSubstituteIsIdempotent(t *testing.T) {
	e := NewEngine()
	values := Values{ClassName: "TI1-A", UniversityName: "ISET de Sfax", Semester: "1"}
	once := e.Substitute(classTemplate, values)
	twice := e.Substitute(once, values)
	if once != twice {
		t.Fatalf("second pass changed the text:\n%s\n---\n%s", once, twice)
	}
}

func TestClassifyRoles(t *testing.T) {
	e := NewEngine()
	lines := e.Classify(e.Substitute(classTemplate, Values{ClassName: "TI1-A"}))

	for _, l := range lines {
		if strings.Contains(l.Text, "TABLE_PLACEHOLDER") || strings.Contains(l.Text, "Code ISO") {
			t.Fatalf("service line leaked into header: %q", l.Text)
		}
	}

	roles := map[string]Role{}
	for _, l := range lines {
		roles[l.Text] = l.Role
	}
	if roles["EMPLOI DU TEMPS"] != RoleTitle {
		t.Fatalf("expected title role")
	}
	if roles["RÉPUBLIQUE TUNISIENNE"] != RoleBody {
		t.Fatalf("expected body role before title")
	}
	found := false
	for _, l := range lines {
		if strings.HasPrefix(l.Text, "Classe: TI1-A") {
			found = true
			if l.Role != RoleSubtitle {
				t.Fatalf("expected subtitle role, got %s", l.Role)
			}
		}
	}
	if !found {
		t.Fatalf("class line missing: %+v", lines)
	}
}

func TestClassifyColonBeforeTitleIsBody(t *testing.T) {
	lines := NewEngine().Classify("Réf: 12\nEMPLOI DU TEMPS\nA\nB\nC\nD\nLoin: x")
	if lines[0].Role != RoleBody {
		t.Fatalf("colon line before title must be body")
	}
	if last := lines[len(lines)-1]; last.Role != RoleBody {
		t.Fatalf("colon line far after title must be body, got %s", last.Role)
	}
}

func TestRenderFallsBackToDefault(t *testing.T) {
	h := NewEngine().Render("", Context{EntityLabel: "Salle", EntityName: "B12", Semester: 2})
	if len(h.Lines) == 0 {
		t.Fatalf("expected default header lines")
	}
	var title, info bool
	for _, l := range h.Lines {
		if l.Role == RoleTitle {
			title = true
		}
		if l.Role == RoleSubtitle && strings.Contains(l.Text, "Salle: B12") {
			info = true
		}
	}
	if !title || !info {
		t.Fatalf("default header incomplete: %+v", h.Lines)
	}
}

func TestContextValues(t *testing.T) {
	v := Context{EntityName: "Salle 4", RoomCapacity: 30, Semester: 1}.Values()
	if v[RoomName] != "Salle 4" || v[RoomCapacity] != "30" || v[Semester] != "1" {
		t.Fatalf("unexpected values %v", v)
	}
	if v[TeacherGrade] != "" {
		t.Fatalf("expected empty grade")
	}
}
