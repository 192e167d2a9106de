package usecases

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/Vaflel/planning/domain"
	"github.com/Vaflel/planning/infrastructure"
)

// SessionService изменение занятий. Лимит ячейки проверяется до запроса к бэкенду.
type SessionService struct {
	sessions SessionRepository
	refs     ReferenceRepository
	importer SessionImporter
}

// NewSessionService создаёт сервис занятий
func NewSessionService(sessions SessionRepository, refs ReferenceRepository, importer SessionImporter) *SessionService {
	return &SessionService{sessions: sessions, refs: refs, importer: importer}
}

// candidate занятие из формы: только идентификаторы и ячейка, для проверки лимита
func candidate(id string, in domain.SessionInput) domain.Session {
	return domain.Session{
		ID:        id,
		Class:     &domain.Class{ID: in.Class},
		Teacher:   &domain.Teacher{ID: in.Teacher},
		Room:      &domain.Room{ID: in.Room},
		Course:    &domain.Course{ID: in.Course},
		Type:      in.Type,
		DayOfWeek: in.DayOfWeek,
		TimeSlot:  in.TimeSlot,
		Semester:  in.Semester,
		Group:     in.Group,
	}
}

func (s *SessionService) checkPlacement(ctx context.Context, id string, in domain.SessionInput) error {
	existing, err := s.sessions.List(ctx, infrastructure.SessionQuery{Class: in.Class, Semester: in.Semester})
	if err != nil {
		return err
	}
	return domain.CheckPlacement(existing, candidate(id, in))
}

// Create проверяет форму и лимит ячейки и создаёт занятие
func (s *SessionService) Create(ctx context.Context, in domain.SessionInput) (domain.Session, error) {
	if err := in.Validate(); err != nil {
		return domain.Session{}, err
	}
	if err := s.checkPlacement(ctx, "", in); err != nil {
		return domain.Session{}, err
	}
	return s.sessions.Create(ctx, in)
}

// Update проверяет форму и лимит ячейки без учёта самого занятия и сохраняет изменения
func (s *SessionService) Update(ctx context.Context, id string, in domain.SessionInput) (domain.Session, error) {
	if err := in.Validate(); err != nil {
		return domain.Session{}, err
	}
	if err := s.checkPlacement(ctx, id, in); err != nil {
		return domain.Session{}, err
	}
	return s.sessions.Update(ctx, id, in)
}

// Delete удаляет занятие
func (s *SessionService) Delete(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

// MoveRequest перенос занятия в ячейку. Пустой Class = та же группа.
type MoveRequest struct {
	SessionID string `json:"-"`
	Class     string `json:"class"`
	DayOfWeek int    `json:"dayOfWeek"`
	TimeSlot  int    `json:"timeSlot"`
	Semester  int    `json:"semester"`
}

// Move переносит занятие: берёт его из выборки семестра, проверяет целевую ячейку
// и только после этого отправляет изменение
func (s *SessionService) Move(ctx context.Context, req MoveRequest) (domain.Session, error) {
	c, err := domain.NewCoordinate(req.DayOfWeek, req.TimeSlot)
	if err != nil {
		return domain.Session{}, &domain.ValidationError{Field: "dayOfWeek/timeSlot", Message: err.Error()}
	}

	existing, err := s.sessions.List(ctx, infrastructure.SessionQuery{Semester: req.Semester})
	if err != nil {
		return domain.Session{}, err
	}

	move := domain.NewMove(existing)
	if err := move.PickUp(req.SessionID); err != nil {
		return domain.Session{}, err
	}

	class := domain.Class{ID: req.Class}
	if picked := move.Picked(); req.Class == "" && picked.Class != nil {
		class = *picked.Class
	}
	if class.ID == "" {
		return domain.Session{}, &domain.ValidationError{Field: "class", Message: "обязательное поле"}
	}

	moved, err := move.DropAt(class, c)
	if err != nil {
		return domain.Session{}, err
	}
	return s.sessions.Update(ctx, moved.ID, moved.Input())
}

// ImportError строка выгрузки, которая не была импортирована
type ImportError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportReport итог импорта
type ImportReport struct {
	Created int           `json:"created"`
	Errors  []ImportError `json:"errors,omitempty"`
}

// Import читает XLS и создаёт занятия построчно. Ошибочные строки пропускаются
// и попадают в отчёт; строки, превышающие лимит ячейки, тоже.
func (s *SessionService) Import(ctx context.Context, r io.ReadSeeker, defaultSemester int) (ImportReport, error) {
	rows, err := s.importer.Parse(r)
	if err != nil {
		return ImportReport{}, err
	}

	idx, err := s.nameIndex(ctx)
	if err != nil {
		return ImportReport{}, err
	}

	var report ImportReport
	placed := make(map[string][]domain.Session)
	for _, row := range rows {
		in, err := idx.resolve(row, defaultSemester)
		if err == nil {
			err = in.Validate()
		}
		if err == nil {
			key := in.Class + "/" + strconv.Itoa(in.Semester)
			existing, ok := placed[key]
			if !ok {
				existing, err = s.sessions.List(ctx, infrastructure.SessionQuery{Class: in.Class, Semester: in.Semester})
			}
			if err == nil {
				err = domain.CheckPlacement(existing, candidate("", in))
			}
			if err == nil {
				var created domain.Session
				created, err = s.sessions.Create(ctx, in)
				if err == nil {
					placed[key] = append(existing, candidate(created.ID, in))
					report.Created++
				}
			}
		}
		if err != nil {
			report.Errors = append(report.Errors, ImportError{Line: row.Line, Message: err.Error()})
		}
	}

	log.Printf("Импорт занятий: создано %d, ошибок %d", report.Created, len(report.Errors))
	return report, nil
}

// nameIndex поиск идентификаторов по названиям из выгрузки
type nameIndex struct {
	classes  map[string]string
	teachers map[string]string
	rooms    map[string]string
	courses  map[string]string
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func (s *SessionService) nameIndex(ctx context.Context) (nameIndex, error) {
	idx := nameIndex{
		classes:  make(map[string]string),
		teachers: make(map[string]string),
		rooms:    make(map[string]string),
		courses:  make(map[string]string),
	}

	classes, err := s.refs.Classes(ctx, "", "")
	if err != nil {
		return idx, err
	}
	for _, c := range classes {
		idx.classes[normalizeName(c.Name)] = c.ID
	}

	teachers, err := s.refs.Teachers(ctx)
	if err != nil {
		return idx, err
	}
	for _, t := range teachers {
		idx.teachers[normalizeName(t.FullName())] = t.ID
		idx.teachers[normalizeName(t.LastName+" "+t.FirstName)] = t.ID
		if t.Email != "" {
			idx.teachers[normalizeName(t.Email)] = t.ID
		}
	}

	rooms, err := s.refs.Rooms(ctx)
	if err != nil {
		return idx, err
	}
	for _, r := range rooms {
		idx.rooms[normalizeName(r.Name)] = r.ID
	}

	courses, err := s.refs.Courses(ctx)
	if err != nil {
		return idx, err
	}
	for _, c := range courses {
		idx.courses[normalizeName(c.Name)] = c.ID
		idx.courses[normalizeName(c.Code)] = c.ID
	}
	return idx, nil
}

func lookup(m map[string]string, field, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	id, ok := m[normalizeName(value)]
	if !ok {
		return "", &domain.ValidationError{Field: field, Message: fmt.Sprintf("%q не найден", value)}
	}
	return id, nil
}

// resolve переводит строку выгрузки в тело запроса
func (idx nameIndex) resolve(row infrastructure.ImportRow, defaultSemester int) (domain.SessionInput, error) {
	var in domain.SessionInput
	var err error

	if in.Class, err = lookup(idx.classes, "class", row.Class); err != nil {
		return in, err
	}
	if in.Teacher, err = lookup(idx.teachers, "teacher", row.Teacher); err != nil {
		return in, err
	}
	if in.Room, err = lookup(idx.rooms, "room", row.Room); err != nil {
		return in, err
	}
	if in.Course, err = lookup(idx.courses, "course", row.Course); err != nil {
		return in, err
	}

	if in.Type, err = domain.ParseSessionType(row.Type); err != nil {
		return in, &domain.ValidationError{Field: "type", Message: err.Error()}
	}

	day, ok := domain.DayByLabel(row.Day)
	if !ok {
		day, _ = strconv.Atoi(row.Day)
	}
	slot, ok := domain.SlotByLabel(row.Slot)
	if !ok {
		slot, _ = strconv.Atoi(row.Slot)
	}
	in.DayOfWeek, in.TimeSlot = day, slot

	in.Semester = defaultSemester
	if row.Semester != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(row.Semester), "S"))
		if err != nil {
			return in, &domain.ValidationError{Field: "semester", Message: fmt.Sprintf("неверный семестр %q", row.Semester)}
		}
		in.Semester = n
	}
	in.Group = row.Group
	return in, nil
}
