package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/go-pdf/fpdf"

	"github.com/Vaflel/planning/domain"
	"github.com/Vaflel/planning/grid"
	"github.com/Vaflel/planning/header"
)

// DefaultISOCode код формы в правом нижнем углу
const DefaultISOCode = "Code ISO: FQ-PED-06 (DTI)/REV00"

const (
	headerTop    = 10.0
	headerStep   = 3.0
	statsY       = 37.0
	footerWidth  = 75.0
	footerHeight = 20.0
)

var footerX = [3]float64{15, 105, 195}

// Meta общие данные документа расписаний
type Meta struct {
	Target         domain.Target
	DepartmentName string
	DepartmentHead string
	AcademicYear   string
	Semester       int
	University     domain.University
	ISOCode        string
	// LocationToken город, который в шаблонах заменяется городом института
	LocationToken string
	// HeaderTemplate текст шаблона шапки, пустой = шапка по умолчанию
	HeaderTemplate string
}

// Page один лист: одна цель
type Page struct {
	TargetID     string
	EntityName   string
	TeacherGrade string
	RoomCapacity int
	Grid         *domain.Grid
	// Stats строка нагрузки, только для расписания преподавателя
	Stats string
}

// PageRef порядок листов в документе
type PageRef struct {
	TargetID string
	Name     string
}

// Timetable документ расписаний, листы добавляются строго по одному
type Timetable struct {
	pdf    *fpdf.Fpdf
	surf   *surface
	meta   Meta
	engine *header.Engine
	pages  []PageRef
}

// NewTimetable создаёт документ A4 альбомной ориентации
func NewTimetable(meta Meta) *Timetable {
	if meta.ISOCode == "" {
		meta.ISOCode = DefaultISOCode
	}
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("planning", true)
	pdf.SetTitle(fmt.Sprintf("Emplois du temps %s %s S%d", meta.DepartmentName, meta.AcademicYear, meta.Semester), true)

	engine := header.NewEngine()
	if meta.LocationToken != "" {
		engine.LocationToken = meta.LocationToken
	}

	return &Timetable{
		pdf:    pdf,
		surf:   newSurface(pdf),
		meta:   meta,
		engine: engine,
	}
}

// AddPage рисует лист: шапка, строка нагрузки, сетка, подписи
func (t *Timetable) AddPage(p Page) error {
	plan, err := grid.Build(p.Grid, t.meta.Target, grid.DefaultLayout)
	if err != nil {
		return fmt.Errorf("лист %s: %w", p.EntityName, err)
	}

	t.pdf.AddPage()
	t.drawHeader(t.engine.Render(t.meta.HeaderTemplate, t.context(p)))
	if p.Stats != "" {
		t.surf.SetFont(false, 9)
		t.surf.Text(grid.DefaultLayout.Margin, statsY, p.Stats)
	}
	grid.Draw(t.surf, plan)
	t.drawFooter()

	if t.pdf.Err() {
		return fmt.Errorf("лист %s: %w", p.EntityName, t.pdf.Error())
	}
	t.pages = append(t.pages, PageRef{TargetID: p.TargetID, Name: p.EntityName})
	return nil
}

// Pages листы в порядке добавления
func (t *Timetable) Pages() []PageRef {
	return append([]PageRef(nil), t.pages...)
}

// Output пишет документ
func (t *Timetable) Output(w io.Writer) error {
	if len(t.pages) == 0 {
		return errors.New("в документе нет листов")
	}
	return t.pdf.Output(w)
}

// Bytes документ целиком в памяти
func (t *Timetable) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (t *Timetable) context(p Page) header.Context {
	return header.Context{
		EntityLabel:         t.meta.Target.Label(),
		EntityName:          p.EntityName,
		TeacherGrade:        p.TeacherGrade,
		RoomCapacity:        p.RoomCapacity,
		DepartmentName:      t.meta.DepartmentName,
		DepartmentHead:      t.meta.DepartmentHead,
		AcademicYear:        t.meta.AcademicYear,
		Semester:            t.meta.Semester,
		UniversityName:      t.meta.University.Name,
		DirectorName:        t.meta.University.DirectorName,
		StudiesDirectorName: t.meta.University.StudiesDirectorName,
	}
}

func (t *Timetable) drawHeader(h header.Header) {
	for i, line := range h.Lines {
		y := headerTop + headerStep*float64(i)
		switch line.Role {
		case header.RoleTitle:
			y += 3
			t.surf.SetFont(true, 12)
		case header.RoleSubtitle:
			if i > 0 {
				y += 6
			}
			t.surf.SetFont(false, 10)
		default:
			t.surf.SetFont(true, 7)
		}
		if y >= grid.DefaultLayout.StartY {
			log.Printf("Шапка не помещается, строка пропущена: %s", line.Text)
			continue
		}
		t.surf.centered(y, line.Text)
	}
}

func (t *Timetable) drawFooter() {
	_, h := t.pdf.GetPageSize()
	y := h - 25

	titles := [3]string{"Directeur de Département", "Directeur des Études", "Directeur de l'ISET"}
	names := [3]string{t.meta.DepartmentHead, t.meta.University.StudiesDirectorName, t.meta.University.DirectorName}

	t.surf.SetLineWidth(0.2)
	for i, x := range footerX {
		t.surf.Rect(x, y, footerWidth, footerHeight, "D")
		t.surf.SetFont(true, 8)
		t.surf.Text(x+3, y+6, titles[i])
		if names[i] != "" {
			t.surf.SetFont(false, 7)
			t.surf.Text(x+3, y+15, names[i])
		}
	}

	t.surf.SetFont(false, 6)
	t.surf.Text(200, h-5, t.meta.ISOCode)
}
