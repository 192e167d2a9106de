// Package web локальный HTTP-интерфейс: экраны планирования, выгрузки документов и JSON API
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Vaflel/planning/domain"
	"github.com/Vaflel/planning/grid"
	"github.com/Vaflel/planning/infrastructure"
	"github.com/Vaflel/planning/usecases"
)

//go:embed templates/*.html
var templates embed.FS

// Slot строка сетки: одна пара по всем дням недели
type Slot struct {
	Number int
	Label  string
	Days   []Day
}

// Day ячейка сетки
type Day struct {
	Day      int
	Slot     int
	Sessions []SessionCell
	// CanAdd в ячейке есть место для ещё одной подгруппы
	CanAdd bool
}

// SessionCell занятие в ячейке: подписи зависят от вида расписания
type SessionCell struct {
	ID        string
	Course    string
	Type      string
	Group     string
	Primary   string
	Secondary string
}

// GridPage данные экрана планирования
type GridPage struct {
	View     usecases.GridView
	Type     string
	Days     []string
	Slots    []Slot
	Overflow []string
	Options  infrastructure.Snapshot
	// PDFQuery параметры ссылки на PDF выбранной цели
	PDFQuery    template.URL
	PDFAllQuery template.URL
	Error       string
}

// DashboardPage данные главной страницы
type DashboardPage struct {
	User      domain.User
	Dashboard usecases.Dashboard
}

// prepareGridData раскладывает сетку цели по строкам и дням для шаблона
func prepareGridData(gv usecases.GridView) GridPage {
	data := GridPage{
		View: gv,
		Type: gv.Target.String(),
		Days: domain.DayLabels[:],
	}

	fields := grid.FieldsFor(gv.Target)
	// добавлять занятие можно только в сетку выбранной группы
	addable := gv.Target == domain.TargetClass && gv.Selected.ID != ""
	slots := make([]Slot, domain.SlotsPerDay)
	for i := range slots {
		slots[i] = Slot{
			Number: i + 1,
			Label:  domain.TimeSlotLabels[i],
			Days:   make([]Day, domain.DaysPerWeek),
		}
	}

	for _, c := range domain.Coordinates() {
		day := Day{Day: c.Day(), Slot: c.Slot()}
		var sessions []domain.Session
		if gv.Grid != nil {
			sessions = gv.Grid.At(c)
		}
		for _, s := range sessions {
			day.Sessions = append(day.Sessions, SessionCell{
				ID:        s.ID,
				Course:    s.CourseCode(),
				Type:      s.Type.Label(),
				Group:     s.GroupTag(),
				Primary:   fields.Primary(s),
				Secondary: fields.Secondary(s),
			})
		}
		day.CanAdd = addable && len(sessions) < domain.MaxSessionsPerCell
		slots[c.SlotIndex()].Days[c.DayIndex()] = day
	}
	data.Slots = slots

	for _, o := range gv.Overflow {
		data.Overflow = append(data.Overflow, o.String())
	}

	q := timetableQuery(gv.Target, gv.Selected.ID, gv.Filter)
	data.PDFQuery = template.URL(q.Encode())
	q.Set("target", usecases.AllTargets)
	data.PDFAllQuery = template.URL(q.Encode())
	return data
}

func timetableQuery(target domain.Target, targetID string, f domain.Filter) url.Values {
	q := url.Values{}
	q.Set("type", target.String())
	if targetID != "" {
		q.Set("target", targetID)
	}
	if f.Department != "" {
		q.Set("department", f.Department)
	}
	if f.AcademicYear != "" {
		q.Set("academicYear", f.AcademicYear)
	}
	q.Set("semester", strconv.Itoa(f.Semester))
	return q
}

// render выполняет шаблон из встроенных файлов
func render(w http.ResponseWriter, name string, data any) error {
	tmpl, err := template.ParseFS(templates, "templates/"+name)
	if err != nil {
		return fmt.Errorf("ошибка загрузки шаблона: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("ошибка рендеринга шаблона: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = buf.WriteTo(w)
	return err
}
