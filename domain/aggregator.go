package domain

import (
	"fmt"
	"log"
)

// MaxSessionsPerCell две параллельные подгруппы в одной ячейке
const MaxSessionsPerCell = 2

// Target по чему строится расписание: группа, преподаватель или аудитория
type Target int

const (
	TargetClass Target = iota
	TargetTeacher
	TargetRoom
)

// ParseTarget принимает "classes"/"teachers"/"rooms" (и единственное число)
func ParseTarget(s string) (Target, error) {
	switch s {
	case "classes", "class", "":
		return TargetClass, nil
	case "teachers", "teacher":
		return TargetTeacher, nil
	case "rooms", "room":
		return TargetRoom, nil
	}
	return 0, fmt.Errorf("неизвестный тип расписания %q", s)
}

func (t Target) String() string {
	switch t {
	case TargetTeacher:
		return "teachers"
	case TargetRoom:
		return "rooms"
	}
	return "classes"
}

// Label подпись сущности в шапке ("Classe", "Enseignant", "Salle")
func (t Target) Label() string {
	switch t {
	case TargetTeacher:
		return "Enseignant"
	case TargetRoom:
		return "Salle"
	}
	return "Classe"
}

// IDOf идентификатор сущности-цели у занятия, "" если ссылка пустая
func (t Target) IDOf(s Session) string {
	switch t {
	case TargetTeacher:
		return s.TeacherID()
	case TargetRoom:
		return s.RoomID()
	}
	return s.ClassID()
}

// Filter фильтры экрана, передаются явно вместо общего состояния.
// Пустые поля и нулевой семестр означают "любой".
type Filter struct {
	Department   string
	AcademicYear string
	Semester     int
}

// Matches проверяет занятие по фильтру. Отделение и год берутся из группы.
func (f Filter) Matches(s Session) bool {
	if f.Semester != 0 && s.Semester != f.Semester {
		return false
	}
	if f.Department != "" && (s.Class == nil || s.Class.Department.ID != f.Department) {
		return false
	}
	if f.AcademicYear != "" && (s.Class == nil || s.Class.AcademicYear.ID != f.AcademicYear) {
		return false
	}
	return true
}

// Overflow занятие сверх лимита ячейки: ошибка целостности данных
type Overflow struct {
	TargetID   string
	Coordinate Coordinate
	Session    Session
}

func (o Overflow) String() string {
	day, slot := LabelOf(o.Coordinate)
	return fmt.Sprintf("%s %s %s: лишнее занятие %s", o.TargetID, day, slot, o.Session.ID)
}

// Grid сетка одной цели: [пара][день] -> занятия
type Grid [SlotsPerDay][DaysPerWeek][]Session

// At занятия в ячейке
func (g *Grid) At(c Coordinate) []Session {
	if !c.IsValid() {
		return nil
	}
	return g[c.SlotIndex()][c.DayIndex()]
}

// Count число занятий в сетке
func (g *Grid) Count() int {
	n := 0
	for _, row := range g {
		for _, cell := range row {
			n += len(cell)
		}
	}
	return n
}

// ScheduleView проекция "цель -> ячейка -> занятия", пересобирается на каждый запрос
type ScheduleView struct {
	Target   Target
	Overflow []Overflow
	grids    map[string]*Grid
	order    []string
}

// Aggregate раскладывает плоский список занятий по целям и ячейкам.
// Порядок входа сохраняется, в ячейке не больше MaxSessionsPerCell занятий,
// остальные попадают в Overflow. Занятия без цели или с неверной ячейкой
// пропускаются с записью в лог.
func Aggregate(sessions []Session, target Target, filter Filter) ScheduleView {
	view := ScheduleView{
		Target: target,
		grids:  make(map[string]*Grid),
	}

	for _, s := range sessions {
		if !filter.Matches(s) {
			continue
		}

		id := target.IDOf(s)
		if id == "" {
			log.Printf("Занятие %s пропущено: нет ссылки на %s", s.ID, target.Label())
			continue
		}

		c, err := s.Coordinate()
		if err != nil {
			log.Printf("Занятие %s пропущено: %v", s.ID, err)
			continue
		}

		grid, ok := view.grids[id]
		if !ok {
			grid = &Grid{}
			view.grids[id] = grid
			view.order = append(view.order, id)
		}

		cell := grid[c.SlotIndex()][c.DayIndex()]
		if len(cell) >= MaxSessionsPerCell {
			o := Overflow{TargetID: id, Coordinate: c, Session: s}
			log.Printf("Нарушение целостности: %s", o)
			view.Overflow = append(view.Overflow, o)
			continue
		}
		grid[c.SlotIndex()][c.DayIndex()] = append(cell, s)
	}

	return view
}

// Targets идентификаторы целей в порядке первого появления
func (v ScheduleView) Targets() []string {
	return append([]string(nil), v.order...)
}

// Grid сетка цели; для цели без занятий возвращается пустая сетка
func (v ScheduleView) Grid(targetID string) *Grid {
	if g, ok := v.grids[targetID]; ok {
		return g
	}
	return &Grid{}
}

// Cell занятия цели в ячейке
func (v ScheduleView) Cell(targetID string, c Coordinate) []Session {
	return v.Grid(targetID).At(c)
}

// HasOverflow были ли ячейки с лишними занятиями
func (v ScheduleView) HasOverflow() bool {
	return len(v.Overflow) > 0
}

// OverflowFor лишние занятия одной цели
func (v ScheduleView) OverflowFor(targetID string) []Overflow {
	var out []Overflow
	for _, o := range v.Overflow {
		if o.TargetID == targetID {
			out = append(out, o)
		}
	}
	return out
}
