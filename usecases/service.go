package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/Vaflel/planning/domain"
	"github.com/Vaflel/planning/infrastructure"
)

// IntegrityService проверка уже сохранённого расписания
type IntegrityService struct {
	sessions SessionRepository
}

// ValidatingResult содержит результаты проверки расписания
type ValidatingResult struct {
	Violations []domain.Violation
	Sessions   []domain.Session
}

// NewIntegrityService создает новый экземпляр сервиса
func NewIntegrityService(sessions SessionRepository) *IntegrityService {
	return &IntegrityService{
		sessions: sessions,
	}
}

// ProcessSchedule загружает занятия (semester 0 = все семестры) и ищет нарушения
func (s *IntegrityService) ProcessSchedule(ctx context.Context, f domain.Filter) (ValidatingResult, error) {
	sessions, err := s.sessions.List(ctx, infrastructure.SessionQuery{
		Semester:     f.Semester,
		AcademicYear: f.AcademicYear,
	})
	if err != nil {
		return ValidatingResult{}, fmt.Errorf("не удалось загрузить занятия: %w", err)
	}

	validator := domain.NewValidator(sessions)
	violations := validator.ValidateSchedule()

	return ValidatingResult{
		Violations: violations,
		Sessions:   sessions,
	}, nil
}

// ReferenceSnapshotter все справочники разом, для форм и главной страницы
type ReferenceSnapshotter interface {
	Snapshot(ctx context.Context, department, academicYear string) infrastructure.Snapshot
}

// Dashboard счётчики главной страницы
type Dashboard struct {
	Sessions int
	Teachers int
	Classes  int
	Rooms    int
	Options  infrastructure.Snapshot
}

// DashboardService главная страница
type DashboardService struct {
	refs     ReferenceSnapshotter
	sessions SessionRepository
}

// NewDashboardService создаёт сервис главной страницы
func NewDashboardService(refs ReferenceSnapshotter, sessions SessionRepository) *DashboardService {
	return &DashboardService{refs: refs, sessions: sessions}
}

// Options справочники для выпадающих списков
func (s *DashboardService) Options(ctx context.Context, f domain.Filter) infrastructure.Snapshot {
	return s.refs.Snapshot(ctx, f.Department, f.AcademicYear)
}

// Load считает занятия, преподавателей, группы и аудитории. Ошибка источника даёт 0.
func (s *DashboardService) Load(ctx context.Context) Dashboard {
	var (
		d  Dashboard
		wg sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		sessions, err := s.sessions.List(ctx, infrastructure.SessionQuery{})
		if err != nil {
			log.Printf("Ошибка загрузки занятий: %v", err)
			return
		}
		d.Sessions = len(sessions)
	}()

	d.Options = s.refs.Snapshot(ctx, "", "")
	wg.Wait()

	d.Teachers = len(d.Options.Teachers)
	d.Classes = len(d.Options.Classes)
	d.Rooms = len(d.Options.Rooms)
	return d
}

// ResourceService CRUD справочников. После записи кэш справочника сбрасывается.
type ResourceService struct {
	repo ResourceRepository
	refs ReferenceRepository
}

// NewResourceService создаёт сервис справочников
func NewResourceService(repo ResourceRepository, refs ReferenceRepository) *ResourceService {
	return &ResourceService{repo: repo, refs: refs}
}

func checkResource(resource string) error {
	if !infrastructure.IsReferenceResource(resource) {
		return &domain.ValidationError{Field: "resource", Message: fmt.Sprintf("неизвестный справочник %q", resource)}
	}
	return nil
}

func (s *ResourceService) List(ctx context.Context, resource string) (json.RawMessage, error) {
	if err := checkResource(resource); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, resource)
}

func (s *ResourceService) Get(ctx context.Context, resource, id string) (json.RawMessage, error) {
	if err := checkResource(resource); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, resource, id)
}

func (s *ResourceService) Create(ctx context.Context, resource string, body json.RawMessage) (json.RawMessage, error) {
	if err := checkResource(resource); err != nil {
		return nil, err
	}
	out, err := s.repo.Create(ctx, resource, body)
	if err == nil {
		s.refs.Invalidate(resource)
	}
	return out, err
}

func (s *ResourceService) Update(ctx context.Context, resource, id string, body json.RawMessage) (json.RawMessage, error) {
	if err := checkResource(resource); err != nil {
		return nil, err
	}
	out, err := s.repo.Update(ctx, resource, id, body)
	if err == nil {
		s.refs.Invalidate(resource)
	}
	return out, err
}

func (s *ResourceService) Delete(ctx context.Context, resource, id string) error {
	if err := checkResource(resource); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, resource, id)
	if err == nil {
		s.refs.Invalidate(resource)
	}
	return err
}
