package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Ref ссылка на связанную сущность. Бэкенд отдаёт её либо заполненным
// объектом {"_id": ..., "name": ...}, либо просто строкой с идентификатором.
type Ref struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON принимает обе формы ссылки
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
	type plain Ref
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("не удалось разобрать ссылку: %w", err)
	}
	*r = Ref(p)
	return nil
}

// Department отделение (département)
type Department struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Head        string `json:"head,omitempty"`
}

// Grade учёное звание преподавателя
type Grade struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

// Teacher преподаватель
type Teacher struct {
	ID             string `json:"_id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email,omitempty"`
	Grade          Ref    `json:"grade"`
	Specialization string `json:"specialization,omitempty"`
	Departments    []Ref  `json:"departments,omitempty"`
}

// FullName возвращает "Имя Фамилия" без лишних пробелов
func (t Teacher) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// InDepartment проверяет, закреплён ли преподаватель за отделением
func (t Teacher) InDepartment(departmentID string) bool {
	for _, d := range t.Departments {
		if d.ID == departmentID {
			return true
		}
	}
	return false
}

// Room аудитория
type Room struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Capacity    int    `json:"capacity,omitempty"`
	Type        string `json:"type,omitempty"`
	Building    string `json:"building,omitempty"`
	IsAvailable bool   `json:"isAvailable"`
}

// Track направление подготовки (parcours)
type Track struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Code       string `json:"code,omitempty"`
	Department Ref    `json:"department"`
}

// AcademicYear учебный год
type AcademicYear struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	IsActive  bool   `json:"isActive"`
}

// Class учебная группа (classe)
type Class struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Level        int    `json:"level,omitempty"`
	Track        Ref    `json:"track"`
	Department   Ref    `json:"department"`
	AcademicYear Ref    `json:"academicYear"`
	Students     int    `json:"students,omitempty"`
}

// CourseHours часы по видам занятий из учебного плана
type CourseHours struct {
	Lectures   float64 `json:"lectures"`
	Tutorials  float64 `json:"tutorials"`
	Practicals float64 `json:"practicals"`
}

// Course дисциплина
type Course struct {
	ID         string      `json:"_id"`
	Name       string      `json:"name"`
	Code       string      `json:"code"`
	Semester   int         `json:"semester,omitempty"`
	Hours      CourseHours `json:"hours"`
	Department Ref         `json:"department"`
	Track      Ref         `json:"track"`
}

// University сведения об институте для шапки и подписей
type University struct {
	ID                  string `json:"_id,omitempty"`
	Name                string `json:"name"`
	Address             string `json:"address,omitempty"`
	DirectorName        string `json:"directorName,omitempty"`
	StudiesDirectorName string `json:"studiesDirectorName,omitempty"`
}

// User учётная запись администратора
type User struct {
	ID         string `json:"_id,omitempty"`
	Email      string `json:"email"`
	Role       string `json:"role,omitempty"`
	Department Ref    `json:"department"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	IsActive   bool   `json:"isActive"`
}
