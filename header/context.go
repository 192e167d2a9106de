package header

import "strconv"

// Context значения для шапки одного листа: собирается перед отрисовкой и выбрасывается
type Context struct {
	EntityLabel         string // Classe, Enseignant, Salle
	EntityName          string
	TeacherGrade        string
	RoomCapacity        int
	DepartmentName      string
	DepartmentHead      string
	AcademicYear        string
	Semester            int
	UniversityName      string
	DirectorName        string
	StudiesDirectorName string
}

// Values переводит контекст в значения плейсхолдеров.
// Имя сущности подставляется во все три плейсхолдера имени, как делали шаблоны .dot.
func (c Context) Values() Values {
	capacity := ""
	if c.RoomCapacity > 0 {
		capacity = strconv.Itoa(c.RoomCapacity)
	}
	semester := ""
	if c.Semester > 0 {
		semester = strconv.Itoa(c.Semester)
	}
	return Values{
		ClassName:       c.EntityName,
		TeacherName:     c.EntityName,
		RoomName:        c.EntityName,
		TeacherGrade:    c.TeacherGrade,
		RoomCapacity:    capacity,
		DepartmentName:  c.DepartmentName,
		DepartmentHead:  c.DepartmentHead,
		AcademicYear:    c.AcademicYear,
		Semester:        semester,
		StudiesDirector: c.StudiesDirectorName,
		ISETDirector:    c.DirectorName,
		UniversityName:  c.UniversityName,
	}
}
