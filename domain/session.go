package domain

import (
	"errors"
	"fmt"
	"strings"
)

// SessionType вид занятия
type SessionType string

const (
	Lecture   SessionType = "LECTURE"
	Tutorial  SessionType = "TUTORIAL"
	Practical SessionType = "PRACTICAL"
)

// Valid проверяет, что вид занятия известен
func (t SessionType) Valid() bool {
	switch t {
	case Lecture, Tutorial, Practical:
		return true
	}
	return false
}

// Label короткое название вида занятия для экранов и отчётов
func (t SessionType) Label() string {
	switch t {
	case Lecture:
		return "Cours"
	case Tutorial:
		return "TD"
	case Practical:
		return "TP"
	}
	return string(t)
}

// ParseSessionType принимает как LECTURE/TUTORIAL/PRACTICAL, так и Cours/TD/TP
func ParseSessionType(s string) (SessionType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LECTURE", "COURS", "C":
		return Lecture, nil
	case "TUTORIAL", "TD":
		return Tutorial, nil
	case "PRACTICAL", "TP":
		return Practical, nil
	}
	return "", fmt.Errorf("неизвестный вид занятия %q", s)
}

// Session занятие в расписании. Ссылки могут прийти пустыми (null).
type Session struct {
	ID        string      `json:"_id"`
	Course    *Course     `json:"course"`
	Teacher   *Teacher    `json:"teacher"`
	Class     *Class      `json:"class"`
	Room      *Room       `json:"room"`
	Type      SessionType `json:"type"`
	DayOfWeek int         `json:"dayOfWeek"`
	TimeSlot  int         `json:"timeSlot"`
	Semester  int         `json:"semester"`
	Group     string      `json:"group,omitempty"`
}

// Coordinate ячейка сетки занятия
func (s Session) Coordinate() (Coordinate, error) {
	return NewCoordinate(s.DayOfWeek, s.TimeSlot)
}

// CourseCode код дисциплины или пустая строка
func (s Session) CourseCode() string {
	if s.Course == nil {
		return ""
	}
	return s.Course.Code
}

// TeacherName имя преподавателя или пустая строка
func (s Session) TeacherName() string {
	if s.Teacher == nil {
		return ""
	}
	return s.Teacher.FullName()
}

// RoomName название аудитории или пустая строка
func (s Session) RoomName() string {
	if s.Room == nil {
		return ""
	}
	return s.Room.Name
}

// ClassName название группы или пустая строка
func (s Session) ClassName() string {
	if s.Class == nil {
		return ""
	}
	return s.Class.Name
}

// ClassID идентификатор группы или пустая строка
func (s Session) ClassID() string {
	if s.Class == nil {
		return ""
	}
	return s.Class.ID
}

// TeacherID идентификатор преподавателя или пустая строка
func (s Session) TeacherID() string {
	if s.Teacher == nil {
		return ""
	}
	return s.Teacher.ID
}

// RoomID идентификатор аудитории или пустая строка
func (s Session) RoomID() string {
	if s.Room == nil {
		return ""
	}
	return s.Room.ID
}

// GroupTag сокращает "Groupe 1" до "G1"
func (s Session) GroupTag() string {
	return strings.ReplaceAll(strings.TrimSpace(s.Group), "Groupe ", "G")
}

// Input формирует тело запроса на создание/изменение
func (s Session) Input() SessionInput {
	in := SessionInput{
		Class:     s.ClassID(),
		Teacher:   s.TeacherID(),
		Room:      s.RoomID(),
		Type:      s.Type,
		DayOfWeek: s.DayOfWeek,
		TimeSlot:  s.TimeSlot,
		Semester:  s.Semester,
		Group:     s.Group,
	}
	if s.Course != nil {
		in.Course = s.Course.ID
	}
	return in
}

// SessionInput тело POST/PUT /api/sessions: только идентификаторы
type SessionInput struct {
	Course    string      `json:"course"`
	Teacher   string      `json:"teacher"`
	Class     string      `json:"class"`
	Room      string      `json:"room"`
	Type      SessionType `json:"type"`
	DayOfWeek int         `json:"dayOfWeek"`
	TimeSlot  int         `json:"timeSlot"`
	Semester  int         `json:"semester"`
	Group     string      `json:"group"`
}

// ValidationError ошибка заполнения формы, привязанная к полю
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation сообщает, является ли err ошибкой заполнения формы
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate проверяет обязательные поля до отправки на сервер
func (in SessionInput) Validate() error {
	required := []struct {
		field, value string
	}{
		{"course", in.Course},
		{"teacher", in.Teacher},
		{"class", in.Class},
		{"room", in.Room},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: "обязательное поле"}
		}
	}
	if !in.Type.Valid() {
		return &ValidationError{Field: "type", Message: fmt.Sprintf("неизвестный вид занятия %q", in.Type)}
	}
	if _, err := NewCoordinate(in.DayOfWeek, in.TimeSlot); err != nil {
		return &ValidationError{Field: "dayOfWeek/timeSlot", Message: err.Error()}
	}
	if in.Semester < 1 {
		return &ValidationError{Field: "semester", Message: "семестр должен быть >= 1"}
	}
	return nil
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
