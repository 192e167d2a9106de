package usecases

import (
	"context"
	"encoding/json"
	"io"

	"github.com/Vaflel/planning/domain"
	"github.com/Vaflel/planning/infrastructure"
)

// ReferenceRepository справочники бэкенда
type ReferenceRepository interface {
	Departments(ctx context.Context) ([]domain.Department, error)
	Teachers(ctx context.Context) ([]domain.Teacher, error)
	Rooms(ctx context.Context) ([]domain.Room, error)
	Classes(ctx context.Context, department, academicYear string) ([]domain.Class, error)
	Courses(ctx context.Context) ([]domain.Course, error)
	AcademicYears(ctx context.Context) ([]domain.AcademicYear, error)
	Grades(ctx context.Context) ([]domain.Grade, error)
	University(ctx context.Context) (domain.University, error)
	Invalidate(resource string)
}

// SessionRepository занятия
type SessionRepository interface {
	List(ctx context.Context, q infrastructure.SessionQuery) ([]domain.Session, error)
	Create(ctx context.Context, in domain.SessionInput) (domain.Session, error)
	Update(ctx context.Context, id string, in domain.SessionInput) (domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// ResourceRepository CRUD справочников без разбора тела
type ResourceRepository interface {
	List(ctx context.Context, resource string) (json.RawMessage, error)
	Get(ctx context.Context, resource, id string) (json.RawMessage, error)
	Create(ctx context.Context, resource string, body json.RawMessage) (json.RawMessage, error)
	Update(ctx context.Context, resource, id string, body json.RawMessage) (json.RawMessage, error)
	Delete(ctx context.Context, resource, id string) error
}

// TemplateRepository шаблоны шапки
type TemplateRepository interface {
	Load(target domain.Target) (string, error)
}

// TokenStore токен сессии пользователя
type TokenStore interface {
	Token() string
	User() []byte
	Save(token string, user []byte) error
	Clear() error
}

// BackendClient прямые вызовы API (авторизация)
type BackendClient interface {
	Do(ctx context.Context, method, path string, in, out any) error
}

// SessionImporter разбор файла выгрузки
type SessionImporter interface {
	Parse(r io.ReadSeeker) ([]infrastructure.ImportRow, error)
}
