package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sgsw/ideenboard/internal/authflow"
	"github.com/sgsw/ideenboard/internal/dataverse"
	"github.com/sgsw/ideenboard/internal/employees"
	"github.com/sgsw/ideenboard/internal/ideas"
	"github.com/sgsw/ideenboard/internal/meetings"
)

type server struct {
	cfg       Config
	router    *chi.Mux
	logger    zerolog.Logger
	auth      *authflow.Manager
	dataverse *dataverse.Client
	ideas     *ideas.Service
	meetings  *meetings.Service
	employees *employees.Service
	validate  *validator.Validate
}

func newServer(cfg Config, logger zerolog.Logger, auth *authflow.Manager, dv *dataverse.Client, ideaSvc *ideas.Service, meetingSvc *meetings.Service, employeeSvc *employees.Service) *server {
	srv := &server{
		cfg:       cfg,
		router:    chi.NewRouter(),
		logger:    logger,
		auth:      auth,
		dataverse: dv,
		ideas:     ideaSvc,
		meetings:  meetingSvc,
		employees: employeeSvc,
		validate:  validator.New(),
	}

	srv.router.Use(middleware.RequestID)
	srv.router.Use(middleware.RealIP)
	srv.router.Use(srv.requestLogger)
	srv.router.Use(metricsMiddleware)
	srv.router.Use(middleware.Recoverer)
	srv.router.Use(middleware.Timeout(60 * time.Second))

	srv.routes()

	return srv
}

func (s *server) routes() {
	s.router.Get("/health", s.handleHealth())
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/", s.handleAuthStatus())
			r.Delete("/", s.handleLogout())
			r.Get("/login", s.handleLogin())
			r.Post("/poll", s.handlePoll())
		})

		// Everything below talks to Dataverse and needs a configured
		// environment URL.
		r.Group(func(r chi.Router) {
			r.Use(s.requireDataverse)

			r.Get("/whoami", s.handleWhoAmI())

			r.Route("/ideas", func(r chi.Router) {
				r.Get("/", s.handleListIdeas())
				r.Post("/", s.handleCreateIdea())
				r.Get("/setup", s.handleIdeasSetup())
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetIdea())
					r.Patch("/", s.handleUpdateIdea())
					r.Delete("/", s.handleDeleteIdea())
					r.Post("/review", s.handleIdeaReview())
					r.Post("/status", s.handleIdeaStatus())
				})
			})

			r.Route("/meetings", func(r chi.Router) {
				r.Get("/", s.handleListMeetings())
				r.Post("/", s.handleCreateMeeting())
				r.Patch("/assign", s.handleAssignMeeting())
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetMeeting())
					r.Patch("/", s.handleUpdateMeeting())
					r.Delete("/", s.handleDeleteMeeting())
				})
			})

			r.Get("/employees", s.handleListEmployees())
		})
	})
}

// requireDataverse rejects requests early when no environment URL is
// configured, instead of failing deep inside a Dataverse call.
func (s *server) requireDataverse(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.DataverseBaseURL == "" {
			writeError(w, http.StatusInternalServerError, "DATAVERSE_BASE_URL is not configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
