package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jscott-dev/meetmebot/pkg/model"
	"github.com/jscott-dev/meetmebot/pkg/usecase/portfolio"
	"github.com/jscott-dev/meetmebot/pkg/utils/logging"
)

// ChatUseCase handles a single guest message and always returns a reply
type ChatUseCase interface {
	HandleMessage(ctx context.Context, message string) string
}

// PortfolioUseCase manages projects and guest visits
type PortfolioUseCase interface {
	CreateProject(ctx context.Context, input portfolio.CreateProjectInput) (*model.Project, error)
	UpdateProject(ctx context.Context, id model.ProjectID, input portfolio.UpdateProjectInput) (*model.Project, error)
	ListProjects(ctx context.Context, activeOnly bool, skill string) ([]*model.Project, error)
	RecordVisit(ctx context.Context, email string) (*model.GuestVisit, error)
	ListVisits(ctx context.Context, offset, limit int) ([]*model.GuestVisit, error)
}

type Server struct {
	router      *chi.Mux
	chatUC      ChatUseCase
	portfolioUC PortfolioUseCase
}

func New(chatUC ChatUseCase, portfolioUC PortfolioUseCase) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:      r,
		chatUC:      chatUC,
		portfolioUC: portfolioUC,
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.handleListProjects)
			r.Post("/", s.handleCreateProject)
			r.Put("/{projectID}", s.handleUpdateProject)
		})

		r.Route("/visits", func(r chi.Router) {
			r.Get("/", s.handleListVisits)
			r.Post("/", s.handleRecordVisit)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
