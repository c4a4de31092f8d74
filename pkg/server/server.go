// Package server exposes the resume session flow over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/nikogura/resume-builder/pkg/preview"
	"github.com/nikogura/resume-builder/pkg/session"
	"github.com/pkg/errors"
)

const (
	maxBodySize     = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Server serves the session API.
type Server struct {
	ctrl     *session.Controller
	preview  *preview.Renderer
	validate *validator.Validate
	logger   *slog.Logger
	router   *chi.Mux
}

// New creates a Server backed by ctrl. A nil logger uses slog.Default().
func New(ctrl *session.Controller, logger *slog.Logger) (s *Server) {
	if logger == nil {
		logger = slog.Default()
	}

	s = &Server{
		ctrl:     ctrl,
		preview:  preview.New(),
		validate: validator.New(),
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() (r *chi.Mux) {
	r = chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/questions", s.handleQuestions)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)

			r.Post("/answer", s.handleAnswer)
			r.Post("/back", s.handleBack)
			r.Put("/answers", s.handleSetAnswers)
			r.Post("/generate", s.handleGenerate)
			r.Post("/information", s.handleInformation)
			r.Post("/revise", s.handleRevise)
			r.Post("/restore", s.handleRestore)
			r.Post("/reset", s.handleReset)

			r.Get("/markdown", s.handleMarkdown)
			r.Get("/preview", s.handlePreview)
			r.Get("/pdf", s.handlePDF)
		})
	})

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) (err error) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("server listening", "addr", addr)

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
			return err
		}
		err = errors.Wrapf(err, "failed to serve on %s", addr)
		return err

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Info("server shutting down")
		err = srv.Shutdown(shutdownCtx)
		if err != nil {
			err = errors.Wrap(err, "shutdown failed")
			return err
		}
		return err
	}
}

func (s *Server) logRequests(next http.Handler) (wrapped http.Handler) {
	wrapped = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
	return wrapped
}
