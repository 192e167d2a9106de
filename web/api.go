package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Vaflel/planning/domain"
	"github.com/Vaflel/planning/infrastructure"
	"github.com/Vaflel/planning/usecases"
)

const maxImportSize = 10 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return &domain.ValidationError{Field: "body", Message: fmt.Sprintf("неверный формат запроса: %v", err)}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// errorStatus код ответа и код ошибки для клиента
func errorStatus(err error) (int, string) {
	var apiErr *infrastructure.APIError
	switch {
	case domain.IsValidation(err), errors.Is(err, domain.ErrNothingPicked), errors.Is(err, domain.ErrOutOfRange):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, domain.ErrCellFull):
		return http.StatusConflict, "cell_full"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, usecases.ErrNoTargets):
		return http.StatusNotFound, "no_targets"
	case errors.Is(err, infrastructure.ErrNoHeader):
		return http.StatusUnprocessableEntity, "import_error"
	case errors.Is(err, ErrBusy):
		return http.StatusTooManyRequests, "busy"
	case errors.As(err, &apiErr):
		switch apiErr.Status {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
			http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity:
			return apiErr.Status, "backend_error"
		}
		return http.StatusBadGateway, "backend_error"
	}
	return http.StatusInternalServerError, "server_error"
}

func writeErr(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	if status >= 500 {
		log.Printf("Ошибка обработки запроса: %v", err)
	}
	writeError(w, status, code, err.Error())
}

// parseFilter читает department, academicYear и semester из строки запроса
func parseFilter(r *http.Request) (domain.Filter, error) {
	q := r.URL.Query()
	f := domain.Filter{
		Department:   q.Get("department"),
		AcademicYear: q.Get("academicYear"),
	}
	if v := q.Get("semester"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, &domain.ValidationError{Field: "semester", Message: fmt.Sprintf("неверный семестр %q", v)}
		}
		f.Semester = n
	}
	return f, nil
}

func parseTimetableRequest(r *http.Request) (usecases.TimetableRequest, error) {
	target, err := domain.ParseTarget(r.URL.Query().Get("type"))
	if err != nil {
		return usecases.TimetableRequest{}, &domain.ValidationError{Field: "type", Message: err.Error()}
	}
	f, err := parseFilter(r)
	if err != nil {
		return usecases.TimetableRequest{}, err
	}
	return usecases.TimetableRequest{
		Target:   target,
		TargetID: r.URL.Query().Get("target"),
		Filter:   f,
	}, nil
}

func overflowHeader(w http.ResponseWriter, overflow []domain.Overflow) {
	if len(overflow) > 0 {
		w.Header().Set("X-Integrity-Warnings", strconv.Itoa(len(overflow)))
	}
}

func writeFile(w http.ResponseWriter, name, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Авторизация

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var c usecases.Credentials
	if err := decodeJSON(r, &c); err != nil {
		writeErr(w, err)
		return
	}
	user, err := s.svc.Auth.Login(r.Context(), c)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Auth.Logout(); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var p usecases.PasswordChange
	if err := decodeJSON(r, &p); err != nil {
		writeErr(w, err)
		return
	}
	if err := s.svc.Auth.ChangePassword(r.Context(), p); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "пароль изменён"})
}

// Занятия

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var in domain.SessionInput
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	created, err := s.svc.Sessions.Create(r.Context(), in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var in domain.SessionInput
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	updated, err := s.svc.Sessions.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveSession(w http.ResponseWriter, r *http.Request) {
	var req usecases.MoveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	req.SessionID = chi.URLParam(r, "id")
	moved, err := s.svc.Sessions.Move(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moved)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "ожидается файл в поле file")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "ожидается файл в поле file")
		return
	}
	defer file.Close()

	semester := 1
	if v := r.FormValue("semester"); v != "" {
		if semester, err = strconv.Atoi(v); err != nil {
			writeErr(w, &domain.ValidationError{Field: "semester", Message: fmt.Sprintf("неверный семестр %q", v)})
			return
		}
	}

	log.Printf("Импорт файла %s (%d байт)", header.Filename, header.Size)
	report, err := s.svc.Sessions.Import(r.Context(), file, semester)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Проверка

type violationResponse struct {
	Type      string   `json:"type"`
	Semester  int      `json:"semester"`
	Day       string   `json:"day"`
	Slot      string   `json:"slot"`
	SubjectID string   `json:"subjectId"`
	Sessions  []string `json:"sessions"`
	Message   string   `json:"message"`
}

func (s *Server) handleIntegrity(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	result, err := s.svc.Integrity.ProcessSchedule(r.Context(), f)
	if err != nil {
		writeErr(w, err)
		return
	}

	resp := make([]violationResponse, 0, len(result.Violations))
	for _, v := range result.Violations {
		day, slot := domain.LabelOf(v.Coordinate)
		ids := make([]string, 0, len(v.Sessions))
		for _, ses := range v.Sessions {
			ids = append(ids, ses.ID)
		}
		resp = append(resp, violationResponse{
			Type:      string(v.Type),
			Semester:  v.Semester,
			Day:       day,
			Slot:      slot,
			SubjectID: v.SubjectID,
			Sessions:  ids,
			Message:   v.String(),
		})
	}
	if len(resp) > 0 {
		w.Header().Set("X-Integrity-Warnings", strconv.Itoa(len(resp)))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions":   len(result.Sessions),
		"violations": resp,
	})
}

// Справочники

func readRawBody(r *http.Request) (json.RawMessage, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &domain.ValidationError{Field: "body", Message: "ожидается JSON"}
	}
	return json.RawMessage(body), nil
}

func writeRaw(w http.ResponseWriter, status int, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if len(strings.TrimSpace(string(raw))) == 0 {
		raw = json.RawMessage("null")
	}
	_, _ = w.Write(raw)
}

func (s *Server) handleListResource(w http.ResponseWriter, r *http.Request) {
	raw, err := s.svc.Resources.List(r.Context(), chi.URLParam(r, "resource"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

func (s *Server) handleGetResource(w http.ResponseWriter, r *http.Request) {
	raw, err := s.svc.Resources.Get(r.Context(), chi.URLParam(r, "resource"), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

func (s *Server) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	body, err := readRawBody(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	raw, err := s.svc.Resources.Create(r.Context(), chi.URLParam(r, "resource"), body)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeRaw(w, http.StatusCreated, raw)
}

func (s *Server) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	body, err := readRawBody(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	raw, err := s.svc.Resources.Update(r.Context(), chi.URLParam(r, "resource"), chi.URLParam(r, "id"), body)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

func (s *Server) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Resources.Delete(r.Context(), chi.URLParam(r, "resource"), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
