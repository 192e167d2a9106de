package usecases

import (
	"context"
	"fmt"
	"log"

	"github.com/Vaflel/planning/domain"
	"github.com/Vaflel/planning/infrastructure"
	"github.com/Vaflel/planning/pdfdoc"
)

// ReportRequest параметры отчётов. Grade используется только списком преподавателей.
type ReportRequest struct {
	Filter domain.Filter
	Grade  string
}

// Report готовый файл отчёта
type Report struct {
	FileName string
	Data     []byte
}

// ReportService сводная нагрузка и список преподавателей
type ReportService struct {
	refs     ReferenceRepository
	sessions SessionRepository
}

// NewReportService создаёт сервис отчётов
func NewReportService(refs ReferenceRepository, sessions SessionRepository) *ReportService {
	return &ReportService{refs: refs, sessions: sessions}
}

func (s *ReportService) teachersWithSessions(ctx context.Context, req ReportRequest) ([]domain.Teacher, []domain.Session, error) {
	if err := validateFilter(req.Filter); err != nil {
		return nil, nil, err
	}

	teachers, err := s.refs.Teachers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("не удалось загрузить преподавателей: %w", err)
	}
	sessions, err := s.sessions.List(ctx, infrastructure.SessionQuery{
		Semester:     req.Filter.Semester,
		AcademicYear: req.Filter.AcademicYear,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("не удалось загрузить занятия: %w", err)
	}

	grades := s.gradeNames(ctx)

	var selected []domain.Teacher
	for _, t := range teachers {
		if t.Grade.Name == "" {
			t.Grade.Name = grades[t.Grade.ID]
		}
		if req.Filter.Department != "" && !t.InDepartment(req.Filter.Department) {
			continue
		}
		if req.Grade != "" && t.Grade.ID != req.Grade {
			continue
		}
		selected = append(selected, t)
	}
	return selected, semesterSessions(sessions, domain.Filter{Semester: req.Filter.Semester}), nil
}

// gradeNames названия грейдов по идентификатору, для преподавателей с незаполненной ссылкой
func (s *ReportService) gradeNames(ctx context.Context) map[string]string {
	names := make(map[string]string)
	grades, err := s.refs.Grades(ctx)
	if err != nil {
		log.Printf("Ошибка загрузки грейдов: %v", err)
		return names
	}
	for _, g := range grades {
		names[g.ID] = g.Name
	}
	return names
}

func (s *ReportService) meta(ctx context.Context, title string, f domain.Filter) pdfdoc.ReportMeta {
	university, err := s.refs.University(ctx)
	if err != nil {
		log.Printf("Ошибка загрузки данных института: %v", err)
	}
	names := lookupNames(ctx, s.refs, f)
	return pdfdoc.ReportMeta{
		Title:          title,
		DepartmentName: names.department,
		AcademicYear:   names.academicYear,
		Semester:       f.Semester,
		University:     university,
	}
}

// Bilan нагрузка преподавателей за семестр
func (s *ReportService) Bilan(ctx context.Context, req ReportRequest) (domain.Bilan, error) {
	teachers, sessions, err := s.teachersWithSessions(ctx, req)
	if err != nil {
		return domain.Bilan{}, err
	}
	return domain.BuildBilan(teachers, sessions), nil
}

// BilanPDF отчёт о нагрузке в PDF
func (s *ReportService) BilanPDF(ctx context.Context, req ReportRequest) (Report, error) {
	bilan, err := s.Bilan(ctx, req)
	if err != nil {
		return Report{}, err
	}
	meta := s.meta(ctx, "Bilan de charge des enseignants", req.Filter)
	data, err := pdfdoc.BilanReport(meta, bilan)
	if err != nil {
		return Report{}, fmt.Errorf("ошибка формирования PDF: %w", err)
	}
	log.Printf("Сформирован отчёт по нагрузке: преподавателей %d", len(bilan.Rows))
	return Report{FileName: pdfdoc.ReportFileName("Bilan", meta.AcademicYear, req.Filter.Semester, "pdf"), Data: data}, nil
}

// BilanXLSX отчёт о нагрузке в XLSX
func (s *ReportService) BilanXLSX(ctx context.Context, req ReportRequest) (Report, error) {
	bilan, err := s.Bilan(ctx, req)
	if err != nil {
		return Report{}, err
	}
	meta := s.meta(ctx, "Bilan de charge des enseignants", req.Filter)
	data, err := infrastructure.ExportBilanXLSX(infrastructure.BilanTitle{
		Title:        meta.Title,
		AcademicYear: meta.AcademicYear,
		Semester:     meta.Semester,
		Note:         pdfdoc.BilanNote,
	}, bilan)
	if err != nil {
		return Report{}, fmt.Errorf("ошибка формирования XLSX: %w", err)
	}
	return Report{FileName: pdfdoc.ReportFileName("Bilan", meta.AcademicYear, req.Filter.Semester, "xlsx"), Data: data}, nil
}

// TeacherListingPDF преподаватели отделения, у которых есть занятия в семестре
func (s *ReportService) TeacherListingPDF(ctx context.Context, req ReportRequest) (Report, error) {
	teachers, sessions, err := s.teachersWithSessions(ctx, req)
	if err != nil {
		return Report{}, err
	}

	active := make(map[string]bool)
	for _, ses := range sessions {
		active[ses.TeacherID()] = true
	}
	var listed []domain.Teacher
	for _, t := range teachers {
		if active[t.ID] {
			listed = append(listed, t)
		}
	}

	meta := s.meta(ctx, "Liste des enseignants", req.Filter)
	data, err := pdfdoc.TeacherListing(meta, listed)
	if err != nil {
		return Report{}, fmt.Errorf("ошибка формирования PDF: %w", err)
	}
	return Report{FileName: pdfdoc.ReportFileName("Enseignants_"+meta.DepartmentName, meta.AcademicYear, req.Filter.Semester, "pdf"), Data: data}, nil
}
