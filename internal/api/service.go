// Package api exposes the collate HTTP surface: survey lifecycle,
// response intake, processing triggers, grouped-result access and
// editing, plus the operational endpoints and the SSE event stream.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/thebtf/collate/internal/api/sse"
	"github.com/thebtf/collate/internal/config"
	"github.com/thebtf/collate/internal/db/gorm"
	"github.com/thebtf/collate/internal/editing"
	"github.com/thebtf/collate/internal/profiles"
	"github.com/thebtf/collate/internal/queue"
)

// shutdownGrace bounds how long Run waits for in-flight requests after
// ctx is cancelled.
const shutdownGrace = 10 * time.Second

// Config wires a Service. All stores, the queue, the editor and the
// broadcaster are required.
type Config struct {
	Version     string
	Settings    *config.Config
	Store       *gorm.Store
	Surveys     *gorm.SurveyStore
	Responses   *gorm.ResponseStore
	Results     *gorm.ResultStore
	Profiles    *profiles.Registry
	Queue       queue.Queue
	Editor      *editing.Editor
	Broadcaster *sse.Broadcaster
}

// Service is the collate HTTP service.
type Service struct {
	version     string
	config      *config.Config
	store       *gorm.Store
	surveys     *gorm.SurveyStore
	responses   *gorm.ResponseStore
	results     *gorm.ResultStore
	profiles    *profiles.Registry
	queue       queue.Queue
	editor      *editing.Editor
	broadcaster *sse.Broadcaster
	router      chi.Router
	ready       atomic.Bool
	startTime   time.Time
}

// New creates a Service with its routes set up. The service reports
// not-ready until MarkReady is called.
func New(cfg Config) *Service {
	s := &Service{
		version:     cfg.Version,
		config:      cfg.Settings,
		store:       cfg.Store,
		surveys:     cfg.Surveys,
		responses:   cfg.Responses,
		results:     cfg.Results,
		profiles:    cfg.Profiles,
		queue:       cfg.Queue,
		editor:      cfg.Editor,
		broadcaster: cfg.Broadcaster,
		router:      chi.NewRouter(),
		startTime:   time.Now(),
	}
	s.setupRoutes()
	return s
}

// Router returns the HTTP handler, mainly for tests.
func (s *Service) Router() http.Handler {
	return s.router
}

// MarkReady flips the readiness gate once initialization is complete.
func (s *Service) MarkReady() {
	s.ready.Store(true)
}

// setupRoutes registers middleware and all routes.
func (s *Service) setupRoutes() {
	r := s.router

	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/ready", s.handleReady)
	r.Get("/api/version", s.handleVersion)
	r.Get("/api/events", s.broadcaster.HandleSSE)

	r.Group(func(r chi.Router) {
		r.Use(s.requireReady)

		r.Route("/api/surveys", func(r chi.Router) {
			r.Post("/", s.handleCreateSurvey)
			r.Get("/", s.handleListSurveys)

			r.Route("/{surveyID}", func(r chi.Router) {
				r.Get("/", s.handleGetSurvey)
				r.Patch("/", s.handleUpdateSurvey)
				r.Delete("/", s.handleDeleteSurvey)

				r.Post("/responses", s.handleSubmitResponse)
				r.Get("/responses", s.handleListResponses)

				r.Post("/process", s.handleProcessSurvey)

				r.Get("/results", s.handleGetResult)
				r.Put("/results/groups/rename", s.handleRenameGroup)
				r.Put("/results/groups/move", s.handleMoveAnswer)
				r.Get("/results/answers", s.handleFindAnswers)
			})
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}

// Run serves HTTP until ctx is cancelled, then drains connections.
func (s *Service) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.config.APIPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("version", s.version).Msg("API server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api server shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// logRequests emits one structured log line per request.
func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// The SSE stream stays open for the lifetime of a client; a log
		// line per poll-cycle would be noise.
		if r.URL.Path == "/api/events" {
			return
		}

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("durationMs", time.Since(start)).
			Msg("Request")
	})
}

// requireReady rejects requests until the service finished wiring its
// store and queue.
func (s *Service) requireReady(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.ready.Load() {
			writeError(w, http.StatusServiceUnavailable, "service is starting up")
			return
		}
		next.ServeHTTP(w, r)
	})
}
