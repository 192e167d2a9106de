package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Vaflel/planning/domain"
	"github.com/Vaflel/planning/infrastructure"
)

type fakeRefs struct {
	departments []domain.Department
	teachers    []domain.Teacher
	rooms       []domain.Room
	classes     []domain.Class
	courses     []domain.Course
	years       []domain.AcademicYear
	grades      []domain.Grade
	university  domain.University
	invalidated []string
}

func (f *fakeRefs) Departments(context.Context) ([]domain.Department, error) {
	return f.departments, nil
}
func (f *fakeRefs) Teachers(context.Context) ([]domain.Teacher, error) { return f.teachers, nil }
func (f *fakeRefs) Rooms(context.Context) ([]domain.Room, error)       { return f.rooms, nil }
func (f *fakeRefs) Courses(context.Context) ([]domain.Course, error)   { return f.courses, nil }
func (f *fakeRefs) Grades(context.Context) ([]domain.Grade, error)     { return f.grades, nil }
func (f *fakeRefs) AcademicYears(context.Context) ([]domain.AcademicYear, error) {
	return f.years, nil
}
func (f *fakeRefs) University(context.Context) (domain.University, error) { return f.university, nil }
func (f *fakeRefs) Invalidate(resource string)                            { f.invalidated = append(f.invalidated, resource) }

func (f *fakeRefs) Classes(_ context.Context, department, _ string) ([]domain.Class, error) {
	var out []domain.Class
	for _, c := range f.classes {
		if department == "" || c.Department.ID == department {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRefs) Snapshot(ctx context.Context, department, academicYear string) infrastructure.Snapshot {
	classes, _ := f.Classes(ctx, department, academicYear)
	return infrastructure.Snapshot{
		Departments:   f.departments,
		Teachers:      f.teachers,
		Rooms:         f.rooms,
		Classes:       classes,
		AcademicYears: f.years,
		Grades:        f.grades,
		University:    f.university,
	}
}

type fakeSessions struct {
	items   []domain.Session
	created []domain.SessionInput
	updated map[string]domain.SessionInput
	deleted []string
	nextID  int
	listErr error
}

func (f *fakeSessions) List(_ context.Context, q infrastructure.SessionQuery) ([]domain.Session, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Session
	for _, s := range f.items {
		switch {
		case q.Class != "" && s.ClassID() != q.Class:
		case q.Teacher != "" && s.TeacherID() != q.Teacher:
		case q.Room != "" && s.RoomID() != q.Room:
		case q.Semester != 0 && s.Semester != q.Semester:
		default:
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessions) Create(_ context.Context, in domain.SessionInput) (domain.Session, error) {
	f.nextID++
	s := candidate(fmt.Sprintf("new-%d", f.nextID), in)
	f.items = append(f.items, s)
	f.created = append(f.created, in)
	return s, nil
}

func (f *fakeSessions) Update(_ context.Context, id string, in domain.SessionInput) (domain.Session, error) {
	if f.updated == nil {
		f.updated = make(map[string]domain.SessionInput)
	}
	f.updated[id] = in
	s := candidate(id, in)
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i] = s
		}
	}
	return s, nil
}

func (f *fakeSessions) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTemplates struct{ text string }

func (f fakeTemplates) Load(domain.Target) (string, error) { return f.text, nil }

type fakeTokens struct {
	token string
	user  []byte
}

func (f *fakeTokens) Token() string { return f.token }
func (f *fakeTokens) User() []byte  { return f.user }
func (f *fakeTokens) Save(token string, user []byte) error {
	f.token, f.user = token, user
	return nil
}
func (f *fakeTokens) Clear() error {
	f.token, f.user = "", nil
	return nil
}

type apiCall struct {
	method string
	path   string
	body   []byte
}

type fakeAPI struct {
	responses map[string]string
	calls     []apiCall
}

func (f *fakeAPI) Do(_ context.Context, method, path string, in, out any) error {
	body, _ := json.Marshal(in)
	f.calls = append(f.calls, apiCall{method: method, path: path, body: body})
	resp, ok := f.responses[method+" "+path]
	if !ok {
		return &infrastructure.APIError{Status: 404, Message: "not found", Method: method, Path: path}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(resp), out)
}

type fakeImporter struct{ rows []infrastructure.ImportRow }

func (f fakeImporter) Parse(io.ReadSeeker) ([]infrastructure.ImportRow, error) { return f.rows, nil }

type fakeResources struct {
	created []string
}

func (f *fakeResources) List(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}
func (f *fakeResources) Get(context.Context, string, string) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}
func (f *fakeResources) Create(_ context.Context, resource string, body json.RawMessage) (json.RawMessage, error) {
	f.created = append(f.created, resource)
	return body, nil
}
func (f *fakeResources) Update(_ context.Context, _, _ string, body json.RawMessage) (json.RawMessage, error) {
	return body, nil
}
func (f *fakeResources) Delete(context.Context, string, string) error { return nil }

func testSession(id, class, teacher, room string, day, slot int) domain.Session {
	return domain.Session{
		ID:        id,
		Class:     &domain.Class{ID: class, Name: class},
		Teacher:   &domain.Teacher{ID: teacher, FirstName: teacher},
		Room:      &domain.Room{ID: room, Name: room},
		Course:    &domain.Course{ID: "c-" + id, Code: "M" + id},
		Type:      domain.Lecture,
		DayOfWeek: day,
		TimeSlot:  slot,
		Semester:  1,
	}
}

func testInput(class string, day, slot int) domain.SessionInput {
	return domain.SessionInput{
		Course:    "course",
		Teacher:   "T1",
		Class:     class,
		Room:      "R1",
		Type:      domain.Lecture,
		DayOfWeek: day,
		TimeSlot:  slot,
		Semester:  1,
	}
}
