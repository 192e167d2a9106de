package pdfdoc

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/Vaflel/planning/domain"
)

// BilanNote пояснение к пересчёту лекций
const BilanNote = "Une séance de cours de 1,5h = 1h cours + 0,5h TD"

// ReportMeta шапка отчёта
type ReportMeta struct {
	Title          string
	DepartmentName string
	AcademicYear   string
	Semester       int
	University     domain.University
}

type column struct {
	title string
	width float64
	align string
}

// report таблица на A4 книжной ориентации с повтором заголовка на каждой странице
type report struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string
	cols []column
}

const (
	reportMargin = 15.0
	rowHeight    = 7.0
	pageLimit    = 280.0
)

func newReport(meta ReportMeta, cols []column) *report {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(reportMargin, reportMargin, reportMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("planning", true)
	pdf.SetTitle(meta.Title, true)

	r := &report{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), cols: cols}
	pdf.AddPage()

	w, _ := pdf.GetPageSize()
	lines := []string{strings.ToUpper(meta.University.Name), meta.Title}
	info := []string{}
	if meta.DepartmentName != "" {
		info = append(info, "Département: "+meta.DepartmentName)
	}
	if meta.AcademicYear != "" {
		info = append(info, "A.U.: "+meta.AcademicYear)
	}
	if meta.Semester > 0 {
		info = append(info, "Semestre: "+strconv.Itoa(meta.Semester))
	}
	lines = append(lines, strings.Join(info, "    "))

	y := 15.0
	for i, line := range lines {
		if line == "" {
			continue
		}
		size := 9.0
		if i == 1 {
			size = 13
		}
		pdf.SetFont(fontFamily, "B", size)
		text := r.tr(line)
		pdf.Text((w-pdf.GetStringWidth(text))/2, y, text)
		y += 7
	}
	pdf.SetXY(reportMargin, y+3)
	r.headerRow()
	return r
}

func (r *report) headerRow() {
	r.pdf.SetFont(fontFamily, "B", 8)
	r.pdf.SetFillColor(230, 230, 230)
	for _, c := range r.cols {
		r.pdf.CellFormat(c.width, rowHeight, r.tr(c.title), "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *report) row(values []string, bold bool) {
	if r.pdf.GetY()+rowHeight > pageLimit {
		r.pdf.AddPage()
		r.headerRow()
	}
	style := ""
	if bold {
		style = "B"
	}
	r.pdf.SetFont(fontFamily, style, 8)
	for i, c := range r.cols {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		r.pdf.CellFormat(c.width, rowHeight, r.tr(v), "1", 0, c.align, bold, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *report) note(text string) {
	r.pdf.Ln(4)
	r.pdf.SetFont(fontFamily, "I", 8)
	r.pdf.CellFormat(0, 5, r.tr(text), "", 1, "L", false, 0, "")
}

func (r *report) bytes() ([]byte, error) {
	if r.pdf.Err() {
		return nil, r.pdf.Error()
	}
	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("ошибка формирования PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// BilanReport отчёт о нагрузке преподавателей
func BilanReport(meta ReportMeta, bilan domain.Bilan) ([]byte, error) {
	r := newReport(meta, []column{
		{"N°", 10, "C"},
		{"Enseignant", 55, "L"},
		{"Grade", 25, "C"},
		{"Total H", 18, "C"},
		{"H Cours", 18, "C"},
		{"H TD", 18, "C"},
		{"H TP", 18, "C"},
		{"Séances", 18, "C"},
	})

	for i, row := range bilan.Rows {
		r.row(loadCells(strconv.Itoa(i+1), row.Teacher.FullName(), gradeName(row.Teacher), row.Load), false)
	}
	r.row(loadCells("", "TOTAL", "", bilan.Totals), true)
	r.note(BilanNote)
	return r.bytes()
}

// TeacherListing список преподавателей отделения
func TeacherListing(meta ReportMeta, teachers []domain.Teacher) ([]byte, error) {
	r := newReport(meta, []column{
		{"N°", 10, "C"},
		{"Nom Complet", 50, "L"},
		{"Grade", 25, "C"},
		{"Spécialisation", 45, "L"},
		{"Email", 50, "L"},
	})
	for i, t := range teachers {
		r.row([]string{strconv.Itoa(i + 1), t.FullName(), gradeName(t), t.Specialization, t.Email}, false)
	}
	r.note(fmt.Sprintf("Total: %d enseignant(s)", len(teachers)))
	return r.bytes()
}

func loadCells(n, name, grade string, l domain.TeacherLoad) []string {
	return []string{
		n, name, grade,
		domain.FormatHours(l.TotalHours),
		domain.FormatHours(l.LectureEquivalentHours),
		domain.FormatHours(l.TutorialHours),
		domain.FormatHours(l.PracticalHours),
		strconv.Itoa(l.SessionCount),
	}
}

// gradeName название грейда; у незаполненной ссылки только идентификатор, он не выводится
func gradeName(t domain.Teacher) string {
	return t.Grade.Name
}
