package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Vaflel/planning/domain"
)

// Справочники бэкенда
const (
	ResourceDepartments   = "departments"
	ResourceTeachers      = "teachers"
	ResourceRooms         = "rooms"
	ResourceClasses       = "classes"
	ResourceCourses       = "courses"
	ResourceTracks        = "tracks"
	ResourceAcademicYears = "academic-years"
	ResourceGrades        = "grades"
	ResourceUniversity    = "university"
	ResourceUsers         = "users"
)

// ReferenceResources справочники, которые можно читать и править через сервис
var ReferenceResources = []string{
	ResourceDepartments, ResourceTeachers, ResourceRooms, ResourceClasses,
	ResourceCourses, ResourceTracks, ResourceAcademicYears, ResourceGrades,
	ResourceUniversity, ResourceUsers,
}

// IsReferenceResource известен ли справочник
func IsReferenceResource(name string) bool {
	for _, r := range ReferenceResources {
		if r == name {
			return true
		}
	}
	return false
}

// Snapshot все справочники, нужные для экранов и документов
type Snapshot struct {
	Departments   []domain.Department
	Teachers      []domain.Teacher
	Rooms         []domain.Room
	Classes       []domain.Class
	AcademicYears []domain.AcademicYear
	Grades        []domain.Grade
	University    domain.University
}

// ReferenceRepository читает справочники через API и держит их в кэше.
// Кэш хранит сырой JSON по пути запроса, запись живёт ttl.
type ReferenceRepository struct {
	api   *APIClient
	cache *ttlCache[json.RawMessage]
}

// NewReferenceRepository создаёт репозиторий справочников с кэшем
func NewReferenceRepository(api *APIClient, ttl time.Duration) *ReferenceRepository {
	return &ReferenceRepository{
		api:   api,
		cache: newTTLCache[json.RawMessage](ttl),
	}
}

func (r *ReferenceRepository) load(ctx context.Context, resource string, query url.Values, out any) error {
	key := resource
	if len(query) > 0 {
		key += "?" + query.Encode()
	}

	raw, ok := r.cache.Get(key)
	if !ok {
		var fresh json.RawMessage
		if err := r.api.Get(ctx, "/api/"+resource, query, &fresh); err != nil {
			return fmt.Errorf("не удалось загрузить %s: %w", resource, err)
		}
		r.cache.Set(key, fresh)
		raw = fresh
	}

	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("не удалось разобрать %s: %w", resource, err)
	}
	return nil
}

// Invalidate сбрасывает кэш справочника (вместе с вариантами запроса), пустое имя сбрасывает всё
func (r *ReferenceRepository) Invalidate(resource string) {
	if resource == "" {
		r.cache.Delete("")
		return
	}
	r.cache.DeleteMatching(func(key string) bool {
		return key == resource || strings.HasPrefix(key, resource+"?")
	})
}

func (r *ReferenceRepository) Departments(ctx context.Context) ([]domain.Department, error) {
	var out []domain.Department
	return out, r.load(ctx, ResourceDepartments, nil, &out)
}

func (r *ReferenceRepository) Teachers(ctx context.Context) ([]domain.Teacher, error) {
	var out []domain.Teacher
	return out, r.load(ctx, ResourceTeachers, nil, &out)
}

func (r *ReferenceRepository) Rooms(ctx context.Context) ([]domain.Room, error) {
	var out []domain.Room
	return out, r.load(ctx, ResourceRooms, nil, &out)
}

// Classes группы, фильтр по отделению и учебному году (пустые значения не передаются)
func (r *ReferenceRepository) Classes(ctx context.Context, department, academicYear string) ([]domain.Class, error) {
	query := url.Values{}
	if department != "" {
		query.Set("department", department)
	}
	if academicYear != "" {
		query.Set("academicYear", academicYear)
	}
	var out []domain.Class
	return out, r.load(ctx, ResourceClasses, query, &out)
}

func (r *ReferenceRepository) Courses(ctx context.Context) ([]domain.Course, error) {
	var out []domain.Course
	return out, r.load(ctx, ResourceCourses, nil, &out)
}

func (r *ReferenceRepository) AcademicYears(ctx context.Context) ([]domain.AcademicYear, error) {
	var out []domain.AcademicYear
	return out, r.load(ctx, ResourceAcademicYears, nil, &out)
}

func (r *ReferenceRepository) Grades(ctx context.Context) ([]domain.Grade, error) {
	var out []domain.Grade
	return out, r.load(ctx, ResourceGrades, nil, &out)
}

// University данные института. Отсутствие записи (404) не ошибка.
func (r *ReferenceRepository) University(ctx context.Context) (domain.University, error) {
	var out domain.University
	err := r.load(ctx, ResourceUniversity, nil, &out)
	if IsStatus(err, 404) {
		return domain.University{}, nil
	}
	return out, err
}

// Snapshot загружает справочники параллельно. Ошибка отдельного справочника
// пишется в лог, справочник остаётся пустым.
func (r *ReferenceRepository) Snapshot(ctx context.Context, department, academicYear string) Snapshot {
	var (
		snap Snapshot
		wg   sync.WaitGroup
	)

	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				log.Printf("Ошибка загрузки справочника %s: %v", name, err)
			}
		}()
	}

	run(ResourceDepartments, func() (err error) { snap.Departments, err = r.Departments(ctx); return })
	run(ResourceTeachers, func() (err error) { snap.Teachers, err = r.Teachers(ctx); return })
	run(ResourceRooms, func() (err error) { snap.Rooms, err = r.Rooms(ctx); return })
	run(ResourceClasses, func() (err error) { snap.Classes, err = r.Classes(ctx, department, academicYear); return })
	run(ResourceAcademicYears, func() (err error) { snap.AcademicYears, err = r.AcademicYears(ctx); return })
	run(ResourceGrades, func() (err error) { snap.Grades, err = r.Grades(ctx); return })
	run(ResourceUniversity, func() (err error) { snap.University, err = r.University(ctx); return })

	wg.Wait()
	return snap
}
