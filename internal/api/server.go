// Package api exposes the generation pipeline over HTTP.
//
// The API is intentionally small: POST a JSON config to /api/v1/generate
// and receive the finished PDF back. Rendering happens fully in memory;
// nothing is written to the server's filesystem.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/rgallet/mandagen/pkg/mandala"
	"github.com/rgallet/mandagen/pkg/pdf"
	"github.com/rgallet/mandagen/pkg/pipeline"
)

// Server handles HTTP generation requests.
type Server struct {
	logger *log.Logger
}

// NewServer creates a server. A nil logger falls back to log.Default().
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{logger: logger}
}

// Router builds the HTTP route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/v1/generate", s.handleGenerate)
	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // large documents take a while
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	s.logger.Info("listening", "addr", addr)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	cfg := mandala.DefaultConfig()
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode config: %w", err))
		return
	}
	if f, err := mandala.ParsePageFormat(string(cfg.PageFormat)); err == nil {
		cfg.PageFormat = f
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	runID := uuid.NewString()
	s.logger.Info("generation request",
		"run_id", runID,
		"designs", cfg.Designs,
		"pages", cfg.TotalPages(),
		"dpi", cfg.DPI)

	start := time.Now()
	pages, err := pipeline.Dispatch(r.Context(), cfg, nil)
	if err != nil {
		var re *mandala.RenderError
		if errors.As(err, &re) {
			writeError(w, http.StatusInternalServerError, err)
		} else {
			writeError(w, http.StatusInternalServerError, fmt.Errorf("render: %w", err))
		}
		return
	}

	var buf bytes.Buffer
	if err := pdf.Write(pages, cfg, &buf); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("assemble: %w", err))
		return
	}

	s.logger.Info("generation complete",
		"run_id", runID,
		"bytes", buf.Len(),
		"duration", time.Since(start).Round(time.Millisecond))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="mandalas.pdf"`)
	w.Header().Set("X-Run-Id", runID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// logRequests emits one structured log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
