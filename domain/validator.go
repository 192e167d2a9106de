package domain

import (
	"errors"
	"fmt"
	"log"
	"sort"
)

// ErrCellFull в ячейке группы уже две подгруппы
var ErrCellFull = errors.New("в ячейке уже максимальное число занятий")

// ViolationType вид нарушения целостности расписания
type ViolationType string

const (
	CellOverflow    ViolationType = "Переполнение ячейки"
	TeacherConflict ViolationType = "Преподаватель занят"
	RoomConflict    ViolationType = "Аудитория занята"
)

// Violation нарушение: несколько занятий, которые не могут стоять вместе
type Violation struct {
	Type       ViolationType
	Semester   int
	Coordinate Coordinate
	SubjectID  string // группа, преподаватель или аудитория
	Sessions   []Session
}

func (v Violation) String() string {
	day, slot := LabelOf(v.Coordinate)
	return fmt.Sprintf("%s: %s %s S%d (%d занятий)", v.Type, day, slot, v.Semester, len(v.Sessions))
}

// CheckPlacement проверяет, можно ли поставить занятие candidate рядом с existing.
// Само занятие (тот же ID) не считается, чтобы редактирование на месте проходило.
func CheckPlacement(existing []Session, candidate Session) error {
	c, err := candidate.Coordinate()
	if err != nil {
		return &ValidationError{Field: "dayOfWeek/timeSlot", Message: err.Error()}
	}

	occupants := 0
	for _, s := range existing {
		if candidate.ID != "" && s.ID == candidate.ID {
			continue
		}
		if s.ClassID() != candidate.ClassID() || s.Semester != candidate.Semester {
			continue
		}
		if sc, err := s.Coordinate(); err == nil && sc == c {
			occupants++
		}
	}

	if occupants >= MaxSessionsPerCell {
		day, slot := LabelOf(c)
		return fmt.Errorf("%w: %s %s %s", ErrCellFull, candidate.ClassName(), day, slot)
	}
	return nil
}

// Validator проверяет целостность уже сохранённого расписания
type Validator struct {
	sessions []Session
}

// NewValidator создаёт новый Validator
func NewValidator(sessions []Session) *Validator {
	return &Validator{
		sessions: sessions,
	}
}

// ValidateSchedule ищет переполненные ячейки групп и накладки преподавателей и аудиторий
func (v *Validator) ValidateSchedule() []Violation {
	violations := []Violation{}

	for _, cell := range v.groupBy(TargetClass) {
		if len(cell.sessions) > MaxSessionsPerCell {
			violations = append(violations, cell.violation(CellOverflow))
		}
	}
	for _, cell := range v.groupBy(TargetTeacher) {
		if spansClasses(cell.sessions) {
			violations = append(violations, cell.violation(TeacherConflict))
		}
	}
	for _, cell := range v.groupBy(TargetRoom) {
		if spansClasses(cell.sessions) {
			violations = append(violations, cell.violation(RoomConflict))
		}
	}

	log.Printf("Найдено нарушений: %d", len(violations))
	return violations
}

type cellKey struct {
	subject  string
	semester int
	coord    Coordinate
}

type cellGroup struct {
	key      cellKey
	sessions []Session
}

func (g cellGroup) violation(t ViolationType) Violation {
	return Violation{
		Type:       t,
		Semester:   g.key.semester,
		Coordinate: g.key.coord,
		SubjectID:  g.key.subject,
		Sessions:   g.sessions,
	}
}

// groupBy группирует занятия по (цель, семестр, ячейка) в порядке первого появления
func (v *Validator) groupBy(target Target) []cellGroup {
	index := make(map[cellKey]int)
	var groups []cellGroup

	for _, s := range v.sessions {
		subject := target.IDOf(s)
		if subject == "" {
			continue
		}
		c, err := s.Coordinate()
		if err != nil {
			continue
		}
		key := cellKey{subject: subject, semester: s.Semester, coord: c}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, cellGroup{key: key})
		}
		groups[i].sessions = append(groups[i].sessions, s)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].key, groups[j].key
		if a.semester != b.semester {
			return a.semester < b.semester
		}
		if a.coord.Day() != b.coord.Day() {
			return a.coord.Day() < b.coord.Day()
		}
		return a.coord.Slot() < b.coord.Slot()
	})
	return groups
}

// spansClasses преподаватель или аудитория в одной ячейке у разных групп.
// Две подгруппы одной группы у одного преподавателя накладкой не считаются.
func spansClasses(sessions []Session) bool {
	if len(sessions) < 2 {
		return false
	}
	first := sessions[0].ClassID()
	for _, s := range sessions[1:] {
		if s.ClassID() != first {
			return true
		}
	}
	return false
}
