package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Vaflel/planning/domain"
)

// SessionQuery параметры выборки занятий, пустые поля не передаются
type SessionQuery struct {
	Class        string
	Teacher      string
	Room         string
	Semester     int
	AcademicYear string
}

// Values параметры запроса
func (q SessionQuery) Values() url.Values {
	v := url.Values{}
	if q.Class != "" {
		v.Set("class", q.Class)
	}
	if q.Teacher != "" {
		v.Set("teacher", q.Teacher)
	}
	if q.Room != "" {
		v.Set("room", q.Room)
	}
	if q.Semester > 0 {
		v.Set("semester", strconv.Itoa(q.Semester))
	}
	if q.AcademicYear != "" {
		v.Set("academicYear", q.AcademicYear)
	}
	return v
}

// SessionRepository занятия через API. Занятия не кэшируются: каждая выборка
// читает актуальное состояние.
type SessionRepository struct {
	api *APIClient
}

// NewSessionRepository создаёт репозиторий занятий
func NewSessionRepository(api *APIClient) *SessionRepository {
	return &SessionRepository{api: api}
}

// List занятия по фильтру в порядке ответа бэкенда
func (r *SessionRepository) List(ctx context.Context, q SessionQuery) ([]domain.Session, error) {
	var sessions []domain.Session
	if err := r.api.Get(ctx, "/api/sessions", q.Values(), &sessions); err != nil {
		return nil, fmt.Errorf("не удалось загрузить занятия: %w", err)
	}
	return sessions, nil
}

// Create создаёт занятие
func (r *SessionRepository) Create(ctx context.Context, in domain.SessionInput) (domain.Session, error) {
	var created domain.Session
	if err := r.api.Do(ctx, http.MethodPost, "/api/sessions", in, &created); err != nil {
		return domain.Session{}, fmt.Errorf("не удалось создать занятие: %w", err)
	}
	return created, nil
}

// Update изменяет занятие
func (r *SessionRepository) Update(ctx context.Context, id string, in domain.SessionInput) (domain.Session, error) {
	var updated domain.Session
	if err := r.api.Do(ctx, http.MethodPut, "/api/sessions/"+url.PathEscape(id), in, &updated); err != nil {
		return domain.Session{}, fmt.Errorf("не удалось изменить занятие %s: %w", id, err)
	}
	return updated, nil
}

// Delete удаляет занятие
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.api.Do(ctx, http.MethodDelete, "/api/sessions/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("не удалось удалить занятие %s: %w", id, err)
	}
	return nil
}

// ResourceRepository CRUD справочников без разбора тела: сервис лишь передаёт JSON дальше
type ResourceRepository struct {
	api *APIClient
}

// NewResourceRepository создаёт репозиторий справочников
func NewResourceRepository(api *APIClient) *ResourceRepository {
	return &ResourceRepository{api: api}
}

func resourcePath(resource, id string) string {
	path := "/api/" + resource
	if id != "" {
		path += "/" + url.PathEscape(id)
	}
	return path
}

// List все записи справочника
func (r *ResourceRepository) List(ctx context.Context, resource string) (json.RawMessage, error) {
	var out json.RawMessage
	err := r.api.Get(ctx, resourcePath(resource, ""), nil, &out)
	return out, err
}

// Get одна запись
func (r *ResourceRepository) Get(ctx context.Context, resource, id string) (json.RawMessage, error) {
	var out json.RawMessage
	err := r.api.Get(ctx, resourcePath(resource, id), nil, &out)
	return out, err
}

// Create новая запись
func (r *ResourceRepository) Create(ctx context.Context, resource string, body json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	err := r.api.Do(ctx, http.MethodPost, resourcePath(resource, ""), body, &out)
	return out, err
}

// Update изменение записи. Для university id пустой: запись одна.
func (r *ResourceRepository) Update(ctx context.Context, resource, id string, body json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	err := r.api.Do(ctx, http.MethodPut, resourcePath(resource, id), body, &out)
	return out, err
}

// Delete удаление записи
func (r *ResourceRepository) Delete(ctx context.Context, resource, id string) error {
	return r.api.Do(ctx, http.MethodDelete, resourcePath(resource, id), nil, nil)
}
