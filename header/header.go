// Package header подставляет значения в текстовые шаблоны шапки листа расписания
// и размечает строки шапки по ролям (заголовок, подзаголовок, текст).
package header

import (
	"regexp"
	"strconv"
	"strings"
)

// Имена плейсхолдеров, которые понимает шаблон
const (
	ClassName       = "CLASS_NAME"
	DepartmentName  = "DEPARTMENT_NAME"
	TeacherName     = "TEACHER_NAME"
	TeacherGrade    = "TEACHER_GRADE"
	RoomName        = "ROOM_NAME"
	RoomCapacity    = "ROOM_CAPACITY"
	Semester        = "SEMESTER"
	AcademicYear    = "ACADEMIC_YEAR"
	DepartmentHead  = "DEPARTMENT_HEAD"
	StudiesDirector = "STUDIES_DIRECTOR"
	ISETDirector    = "ISET_DIRECTOR"
	UniversityName  = "UNIVERSITY_NAME"
)

var known = map[string]bool{
	ClassName: true, DepartmentName: true, TeacherName: true, TeacherGrade: true,
	RoomName: true, RoomCapacity: true, Semester: true, AcademicYear: true,
	DepartmentHead: true, StudiesDirector: true, ISETDirector: true, UniversityName: true,
}

var placeholderRe = regexp.MustCompile(`\{\{([A-Z0-9_]+)\}\}`)

const (
	// DefaultLocationToken город в исходных шаблонах, заменяется городом института
	DefaultLocationToken = "GAFSA"
	// DefaultTitleMarker строка, по которой узнаётся заголовок
	DefaultTitleMarker = "EMPLOI DU TEMPS"

	subtitleWindow = 4
)

// строки, которые в шапку не выводятся: место таблицы и код ISO рисуются отдельно
var skippedMarkers = []string{"[TABLE_PLACEHOLDER]", "Code ISO"}

// Values значения плейсхолдеров
type Values map[string]string

// Role роль строки шапки, определяет кегль и начертание
type Role int

const (
	RoleBody Role = iota
	RoleTitle
	RoleSubtitle
)

func (r Role) String() string {
	switch r {
	case RoleTitle:
		return "title"
	case RoleSubtitle:
		return "subtitle"
	}
	return "body"
}

// Line строка шапки с ролью
type Line struct {
	Text string
	Role Role
}

// Header готовая шапка листа
type Header struct {
	Lines []Line
}

// Engine настройки подстановки
type Engine struct {
	LocationToken string
	TitleMarkers  []string
}

// NewEngine движок с настройками по умолчанию
func NewEngine() *Engine {
	return &Engine{
		LocationToken: DefaultLocationToken,
		TitleMarkers:  []string{DefaultTitleMarker},
	}
}

// Substitute заменяет известные плейсхолдеры значениями (отсутствующие пустой строкой),
// неизвестные оставляет как есть. "DE GAFSA" заменяется на "DE <ГОРОД>", где город:
// последнее слово названия института.
func (e *Engine) Substitute(tmpl string, values Values) string {
	out := placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := m[2 : len(m)-2]
		if !known[name] {
			return m
		}
		return values[name]
	})

	token := e.LocationToken
	if token == "" {
		token = DefaultLocationToken
	}
	location := Location(values[UniversityName], token)
	return strings.ReplaceAll(out, "DE "+token, "DE "+strings.ToUpper(location))
}

// Location последнее слово названия института или fallback
func Location(universityName, fallback string) string {
	fields := strings.Fields(universityName)
	if len(fields) == 0 {
		return fallback
	}
	return fields[len(fields)-1]
}

// Classify режет текст на строки, отбрасывает пустые и служебные и размечает роли
func (e *Engine) Classify(text string) []Line {
	markers := e.TitleMarkers
	if len(markers) == 0 {
		markers = []string{DefaultTitleMarker}
	}

	var lines []Line
	sinceTitle := -1
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || containsAny(line, skippedMarkers) {
			continue
		}

		role := RoleBody
		switch {
		case containsAny(line, markers):
			role = RoleTitle
			sinceTitle = 0
		case sinceTitle >= 0 && sinceTitle < subtitleWindow && strings.Contains(line, ":"):
			role = RoleSubtitle
		}
		if role != RoleTitle && sinceTitle >= 0 {
			sinceTitle++
		}
		lines = append(lines, Line{Text: line, Role: role})
	}
	return lines
}

// Render собирает шапку: шаблон, если он есть, иначе шапка по умолчанию
func (e *Engine) Render(tmpl string, ctx Context) Header {
	if strings.TrimSpace(tmpl) == "" {
		return e.Default(ctx)
	}
	return Header{Lines: e.Classify(e.Substitute(tmpl, ctx.Values()))}
}

// Default шапка без шаблона
func (e *Engine) Default(ctx Context) Header {
	university := strings.ToUpper(ctx.UniversityName)
	if university == "" {
		university = "INSTITUT SUPÉRIEUR DES ÉTUDES TECHNOLOGIQUES DE " + DefaultLocationToken
	}
	info := []string{}
	if ctx.EntityName != "" {
		info = append(info, ctx.EntityLabel+": "+ctx.EntityName)
	}
	if ctx.DepartmentName != "" {
		info = append(info, "Département: "+ctx.DepartmentName)
	}
	if ctx.Semester > 0 {
		info = append(info, "Semestre: "+strconv.Itoa(ctx.Semester))
	}
	if ctx.AcademicYear != "" {
		info = append(info, "A.U.: "+ctx.AcademicYear)
	}

	lines := []Line{
		{Text: "RÉPUBLIQUE TUNISIENNE", Role: RoleBody},
		{Text: "Ministère de l'Enseignement Supérieur et de la Recherche Scientifique", Role: RoleBody},
		{Text: university, Role: RoleBody},
		{Text: DefaultTitleMarker, Role: RoleTitle},
	}
	if len(info) > 0 {
		lines = append(lines, Line{Text: strings.Join(info, "    "), Role: RoleSubtitle})
	}
	return Header{Lines: lines}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
