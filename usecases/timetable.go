package usecases

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Vaflel/planning/domain"
	"github.com/Vaflel/planning/infrastructure"
	"github.com/Vaflel/planning/pdfdoc"
)

// ErrNoTargets не найдено ни одной группы/преподавателя/аудитории для расписания
var ErrNoTargets = errors.New("нет данных для формирования расписания")

// AllTargets значение TargetID для документа со всеми целями
const AllTargets = "all"

// TimetableRequest параметры расписания: вид, цель (пусто или "all" = все) и фильтры
type TimetableRequest struct {
	Target   domain.Target
	TargetID string
	Filter   domain.Filter
}

func (r TimetableRequest) single() bool {
	return r.TargetID != "" && r.TargetID != AllTargets
}

// TargetOption цель в списке выбора
type TargetOption struct {
	ID   string
	Name string
	// Grade и Capacity нужны шапке преподавателя и аудитории
	Grade    string
	Capacity int
}

// TimetableResult готовый PDF
type TimetableResult struct {
	FileName string
	PDF      []byte
	Pages    []pdfdoc.PageRef
	Overflow []domain.Overflow
}

// TimetableOptions оформление документов
type TimetableOptions struct {
	ISOCode       string
	LocationToken string
}

// TimetableService формирует расписания: сетка на экране и PDF
type TimetableService struct {
	refs      ReferenceRepository
	sessions  SessionRepository
	templates TemplateRepository
	opts      TimetableOptions
}

// NewTimetableService создаёт сервис расписаний
func NewTimetableService(refs ReferenceRepository, sessions SessionRepository, templates TemplateRepository, opts TimetableOptions) *TimetableService {
	return &TimetableService{
		refs:      refs,
		sessions:  sessions,
		templates: templates,
		opts:      opts,
	}
}

func validateFilter(f domain.Filter) error {
	if f.Semester < 1 {
		return &domain.ValidationError{Field: "semester", Message: "выберите семестр"}
	}
	return nil
}

// Targets цели вида в порядке ответа бэкенда. Преподаватели отбираются по отделению,
// аудитории общие для всех отделений.
func (s *TimetableService) Targets(ctx context.Context, target domain.Target, f domain.Filter) ([]TargetOption, error) {
	var out []TargetOption
	switch target {
	case domain.TargetTeacher:
		teachers, err := s.refs.Teachers(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range teachers {
			if f.Department != "" && !t.InDepartment(f.Department) {
				continue
			}
			out = append(out, TargetOption{ID: t.ID, Name: t.FullName(), Grade: t.Grade.Name})
		}
	case domain.TargetRoom:
		rooms, err := s.refs.Rooms(ctx)
		if err != nil {
			return nil, err
		}
		for _, r := range rooms {
			out = append(out, TargetOption{ID: r.ID, Name: r.Name, Capacity: r.Capacity})
		}
	default:
		classes, err := s.refs.Classes(ctx, f.Department, f.AcademicYear)
		if err != nil {
			return nil, err
		}
		for _, c := range classes {
			out = append(out, TargetOption{ID: c.ID, Name: c.Name})
		}
	}
	return out, nil
}

func (s *TimetableService) selectTargets(ctx context.Context, req TimetableRequest) ([]TargetOption, error) {
	targets, err := s.Targets(ctx, req.Target, req.Filter)
	if err != nil {
		return nil, fmt.Errorf("не удалось загрузить список целей: %w", err)
	}
	if req.single() {
		for _, t := range targets {
			if t.ID == req.TargetID {
				return []TargetOption{t}, nil
			}
		}
		return nil, fmt.Errorf("%w: %s %s не найден", ErrNoTargets, req.Target.Label(), req.TargetID)
	}
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}
	return targets, nil
}

// loadSessions занятия семестра. Отбор по отделению делается списком целей, а не
// занятиями: нагрузка преподавателя считается по всем его группам.
func (s *TimetableService) loadSessions(ctx context.Context, req TimetableRequest) ([]domain.Session, domain.Filter, error) {
	q := infrastructure.SessionQuery{Semester: req.Filter.Semester, AcademicYear: req.Filter.AcademicYear}
	if req.single() {
		switch req.Target {
		case domain.TargetTeacher:
			q.Teacher = req.TargetID
		case domain.TargetRoom:
			q.Room = req.TargetID
		default:
			q.Class = req.TargetID
		}
	}
	sessions, err := s.sessions.List(ctx, q)
	if err != nil {
		return nil, domain.Filter{}, err
	}
	// учебный год уже отобран бэкендом, у вложенной группы он может прийти пустой ссылкой
	return sessions, domain.Filter{Semester: req.Filter.Semester}, nil
}

type documentNames struct {
	department     string
	departmentHead string
	academicYear   string
}

// lookupNames названия отделения и учебного года для шапок и имён файлов
func lookupNames(ctx context.Context, refs ReferenceRepository, f domain.Filter) documentNames {
	var n documentNames
	if f.Department != "" {
		departments, err := refs.Departments(ctx)
		if err != nil {
			log.Printf("Ошибка загрузки отделений: %v", err)
		}
		for _, d := range departments {
			if d.ID == f.Department {
				n.department, n.departmentHead = d.Name, d.Head
			}
		}
	}
	if f.AcademicYear != "" {
		years, err := refs.AcademicYears(ctx)
		if err != nil {
			log.Printf("Ошибка загрузки учебных годов: %v", err)
		}
		for _, y := range years {
			if y.ID == f.AcademicYear {
				n.academicYear = y.Name
			}
		}
	}
	return n
}

// Generate формирует PDF: по листу на цель, строго по порядку целей.
// Лишние занятия в переполненных ячейках не рисуются и возвращаются в Overflow.
func (s *TimetableService) Generate(ctx context.Context, req TimetableRequest) (TimetableResult, error) {
	if err := validateFilter(req.Filter); err != nil {
		return TimetableResult{}, err
	}

	targets, err := s.selectTargets(ctx, req)
	if err != nil {
		return TimetableResult{}, err
	}

	sessions, filter, err := s.loadSessions(ctx, req)
	if err != nil {
		return TimetableResult{}, err
	}

	university, err := s.refs.University(ctx)
	if err != nil {
		log.Printf("Ошибка загрузки данных института: %v", err)
	}

	tmpl, err := s.templates.Load(req.Target)
	if err != nil {
		log.Printf("Шаблон не загружен, используется шапка по умолчанию: %v", err)
		tmpl = ""
	}

	names := lookupNames(ctx, s.refs, req.Filter)
	doc := pdfdoc.NewTimetable(pdfdoc.Meta{
		Target:         req.Target,
		DepartmentName: names.department,
		DepartmentHead: names.departmentHead,
		AcademicYear:   names.academicYear,
		Semester:       req.Filter.Semester,
		University:     university,
		ISOCode:        s.opts.ISOCode,
		LocationToken:  s.opts.LocationToken,
		HeaderTemplate: tmpl,
	})

	view := domain.Aggregate(sessions, req.Target, filter)
	counted := semesterSessions(sessions, filter)
	var overflow []domain.Overflow
	for _, t := range targets {
		page := pdfdoc.Page{
			TargetID:     t.ID,
			EntityName:   t.Name,
			TeacherGrade: t.Grade,
			RoomCapacity: t.Capacity,
			Grid:         view.Grid(t.ID),
		}
		if req.Target == domain.TargetTeacher {
			page.Stats = domain.CalculateLoad(t.ID, counted).Summary()
		}
		if err := doc.AddPage(page); err != nil {
			return TimetableResult{}, err
		}
		overflow = append(overflow, view.OverflowFor(t.ID)...)
	}

	data, err := doc.Bytes()
	if err != nil {
		return TimetableResult{}, fmt.Errorf("ошибка формирования PDF: %w", err)
	}

	fileName := pdfdoc.BundleFileName(req.Target, names.department, names.academicYear, req.Filter.Semester)
	if req.single() {
		fileName = pdfdoc.FileName(req.Target, targets[0].Name, names.department, names.academicYear, req.Filter.Semester)
	}

	log.Printf("Сформировано расписание %s: листов %d", fileName, len(targets))
	return TimetableResult{
		FileName: fileName,
		PDF:      data,
		Pages:    doc.Pages(),
		Overflow: overflow,
	}, nil
}

func semesterSessions(sessions []domain.Session, f domain.Filter) []domain.Session {
	out := make([]domain.Session, 0, len(sessions))
	for _, s := range sessions {
		if f.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}

// GridView данные экрана планирования
type GridView struct {
	Target   domain.Target
	Filter   domain.Filter
	Targets  []TargetOption
	Selected TargetOption
	Grid     *domain.Grid
	Overflow []domain.Overflow
	Stats    string
}

// View сетка одной цели для экрана. Без выбранной цели берётся первая.
func (s *TimetableService) View(ctx context.Context, req TimetableRequest) (GridView, error) {
	if err := validateFilter(req.Filter); err != nil {
		return GridView{}, err
	}

	targets, err := s.Targets(ctx, req.Target, req.Filter)
	if err != nil {
		return GridView{}, err
	}
	gv := GridView{Target: req.Target, Filter: req.Filter, Targets: targets, Grid: &domain.Grid{}}
	if len(targets) == 0 {
		return gv, nil
	}

	gv.Selected = targets[0]
	for _, t := range targets {
		if t.ID == req.TargetID {
			gv.Selected = t
		}
	}

	req.TargetID = gv.Selected.ID
	sessions, filter, err := s.loadSessions(ctx, req)
	if err != nil {
		return GridView{}, err
	}

	view := domain.Aggregate(sessions, req.Target, filter)
	gv.Grid = view.Grid(gv.Selected.ID)
	gv.Overflow = view.OverflowFor(gv.Selected.ID)
	if req.Target == domain.TargetTeacher {
		gv.Stats = domain.CalculateLoad(gv.Selected.ID, semesterSessions(sessions, filter)).Summary()
	}
	return gv, nil
}
