package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/Vaflel/planning/domain"
	"github.com/Vaflel/planning/infrastructure"
	"github.com/Vaflel/planning/usecases"
)

// ErrBusy операция этого вида уже выполняется
var ErrBusy = errors.New("операция уже выполняется")

// Операции, которые нельзя запускать параллельно
const (
	opPDF    = "pdf"
	opBilan  = "bilan"
	opImport = "import"
)

// Timetables экраны и документы расписаний
type Timetables interface {
	View(ctx context.Context, req usecases.TimetableRequest) (usecases.GridView, error)
	Generate(ctx context.Context, req usecases.TimetableRequest) (usecases.TimetableResult, error)
}

// Sessions изменение занятий
type Sessions interface {
	Create(ctx context.Context, in domain.SessionInput) (domain.Session, error)
	Update(ctx context.Context, id string, in domain.SessionInput) (domain.Session, error)
	Delete(ctx context.Context, id string) error
	Move(ctx context.Context, req usecases.MoveRequest) (domain.Session, error)
	Import(ctx context.Context, r io.ReadSeeker, defaultSemester int) (usecases.ImportReport, error)
}

// Reports отчёты
type Reports interface {
	BilanPDF(ctx context.Context, req usecases.ReportRequest) (usecases.Report, error)
	BilanXLSX(ctx context.Context, req usecases.ReportRequest) (usecases.Report, error)
	TeacherListingPDF(ctx context.Context, req usecases.ReportRequest) (usecases.Report, error)
}

// Integrity проверка расписания
type Integrity interface {
	ProcessSchedule(ctx context.Context, f domain.Filter) (usecases.ValidatingResult, error)
}

// Dashboards главная страница и списки выбора
type Dashboards interface {
	Load(ctx context.Context) usecases.Dashboard
	Options(ctx context.Context, f domain.Filter) infrastructure.Snapshot
}

// Resources CRUD справочников
type Resources interface {
	List(ctx context.Context, resource string) (json.RawMessage, error)
	Get(ctx context.Context, resource, id string) (json.RawMessage, error)
	Create(ctx context.Context, resource string, body json.RawMessage) (json.RawMessage, error)
	Update(ctx context.Context, resource, id string, body json.RawMessage) (json.RawMessage, error)
	Delete(ctx context.Context, resource, id string) error
}

// Auth сессия пользователя
type Auth interface {
	Login(ctx context.Context, c usecases.Credentials) (domain.User, error)
	Logout() error
	ChangePassword(ctx context.Context, p usecases.PasswordChange) error
	CurrentUser() (domain.User, bool)
}

// Services зависимости сервера
type Services struct {
	Timetables Timetables
	Sessions   Sessions
	Reports    Reports
	Integrity  Integrity
	Dashboard  Dashboards
	Resources  Resources
	Auth       Auth
}

type Server struct {
	svc      Services
	mu       sync.Mutex
	inFlight map[string]bool
	server   *http.Server
}

func NewServer(svc Services) *Server {
	return &Server{
		svc:      svc,
		inFlight: make(map[string]bool),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/login", s.handleLoginPage)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/shutdown", s.handleShutdown)

	r.Group(func(r chi.Router) {
		r.Use(s.requireLogin)

		r.Get("/", s.handleIndex)
		r.Post("/auth/logout", s.handleLogout)
		r.Post("/auth/password", s.handleChangePassword)

		r.Get("/planning/grid", s.handleGrid)
		r.With(s.exclusive(opPDF)).Get("/planning/pdf", s.handleTimetablePDF)
		r.With(s.exclusive(opBilan)).Get("/bilan/pdf", s.handleBilanPDF)
		r.With(s.exclusive(opBilan)).Get("/bilan/xlsx", s.handleBilanXLSX)
		r.With(s.exclusive(opPDF)).Get("/teachers/pdf", s.handleTeacherListing)

		r.Post("/sessions", s.handleCreateSession)
		r.With(s.exclusive(opImport)).Post("/sessions/import", s.handleImport)
		r.Put("/sessions/{id}", s.handleUpdateSession)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
		r.Post("/sessions/{id}/move", s.handleMoveSession)

		r.Get("/integrity", s.handleIntegrity)

		r.Get("/resources/{resource}", s.handleListResource)
		r.Post("/resources/{resource}", s.handleCreateResource)
		r.Get("/resources/{resource}/{id}", s.handleGetResource)
		r.Put("/resources/{resource}/{id}", s.handleUpdateResource)
		r.Delete("/resources/{resource}/{id}", s.handleDeleteResource)
	})

	return r
}

func (s *Server) Start(addr string) error {
	s.server = &http.Server{Addr: addr, Handler: s.Router()}
	log.Printf("🚀 Сервер запущен на http://localhost%s", addr)
	return s.server.ListenAndServe()
}

// acquire отмечает операцию как выполняющуюся; false, если она уже идёт
func (s *Server) acquire(op string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[op] {
		return false
	}
	s.inFlight[op] = true
	return true
}

func (s *Server) release(op string) {
	s.mu.Lock()
	s.inFlight[op] = false
	s.mu.Unlock()
}

// exclusive отвечает 429, пока операция того же вида не закончилась
func (s *Server) exclusive(op string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !s.acquire(op) {
				writeErr(w, ErrBusy)
				return
			}
			defer s.release(op)
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.svc.Auth.CurrentUser(); !ok {
			if r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html") {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			writeError(w, http.StatusUnauthorized, "unauthorized", "требуется вход")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{true, "Сервер завершает работу"})

	go func() {
		log.Println("Завершение работы сервера...")
		if s.server != nil {
			if err := s.server.Shutdown(context.Background()); err != nil {
				log.Printf("Ошибка при завершении работы: %v", err)
			}
		}
		os.Exit(0)
	}()
}
