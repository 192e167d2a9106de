package web

import (
	"log"
	"net/http"

	"github.com/Vaflel/planning/domain"
	"github.com/Vaflel/planning/usecases"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	user, _ := s.svc.Auth.CurrentUser()
	data := DashboardPage{
		User:      user,
		Dashboard: s.svc.Dashboard.Load(r.Context()),
	}
	if err := render(w, "index.html", data); err != nil {
		log.Printf("%v", err)
		http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if err := render(w, "login.html", nil); err != nil {
		log.Printf("%v", err)
		http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
	}
}

// handleGrid экран планирования. Без семестра открывается первый.
// Ошибки загрузки показываются на странице, сетка остаётся пустой.
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	req, err := parseTimetableRequest(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	if req.Filter.Semester == 0 {
		req.Filter.Semester = 1
	}

	gv, err := s.svc.Timetables.View(r.Context(), req)
	if err != nil {
		log.Printf("Ошибка загрузки сетки: %v", err)
		gv = usecases.GridView{Target: req.Target, Filter: req.Filter, Grid: &domain.Grid{}}
	}

	data := prepareGridData(gv)
	data.Options = s.svc.Dashboard.Options(r.Context(), req.Filter)
	if err != nil {
		data.Error = err.Error()
	}

	overflowHeader(w, gv.Overflow)
	if err := render(w, "grid.html", data); err != nil {
		log.Printf("%v", err)
		http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
	}
}

func (s *Server) handleTimetablePDF(w http.ResponseWriter, r *http.Request) {
	req, err := parseTimetableRequest(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	result, err := s.svc.Timetables.Generate(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	overflowHeader(w, result.Overflow)
	writeFile(w, result.FileName, "application/pdf", result.PDF)
}

func reportRequest(r *http.Request) (usecases.ReportRequest, error) {
	f, err := parseFilter(r)
	if err != nil {
		return usecases.ReportRequest{}, err
	}
	return usecases.ReportRequest{Filter: f, Grade: r.URL.Query().Get("grade")}, nil
}

func (s *Server) handleBilanPDF(w http.ResponseWriter, r *http.Request) {
	req, err := reportRequest(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	report, err := s.svc.Reports.BilanPDF(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeFile(w, report.FileName, "application/pdf", report.Data)
}

func (s *Server) handleBilanXLSX(w http.ResponseWriter, r *http.Request) {
	req, err := reportRequest(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	report, err := s.svc.Reports.BilanXLSX(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeFile(w, report.FileName, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report.Data)
}

func (s *Server) handleTeacherListing(w http.ResponseWriter, r *http.Request) {
	req, err := reportRequest(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	report, err := s.svc.Reports.TeacherListingPDF(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeFile(w, report.FileName, "application/pdf", report.Data)
}
