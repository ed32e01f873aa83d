// Package server exposes the extraction pipeline over HTTP.
//
//	POST /v1/extract   body: netlist text   ->  constraint JSON array
//	GET  /healthz                           ->  {"status":"ok"}
//
// The extract response carries the content-derived netlist UUID in
// X-Netlist-ID and "hit" or "miss" in X-Cache. Query parameters direction
// (V or H) and refresh (true) override the server defaults per request.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/analogtopo/pkg/constraint"
	"github.com/matzehuels/analogtopo/pkg/errors"
	"github.com/matzehuels/analogtopo/pkg/pipeline"
)

// Response headers.
const (
	HeaderNetlistID = "X-Netlist-ID"
	HeaderCache     = "X-Cache"
)

// DefaultMaxBodyBytes caps the netlist upload size.
const DefaultMaxBodyBytes = 1 << 20

const shutdownTimeout = 10 * time.Second

// Config configures a Server.
type Config struct {
	Addr         string
	MaxBodyBytes int64
	// Extract holds the default extraction options for every request.
	Extract pipeline.Options
	// Metrics, if set, is served on GET /metrics.
	Metrics http.Handler
}

// Server serves extraction requests.
type Server struct {
	runner *pipeline.Runner
	cfg    Config
	logger *log.Logger
	router chi.Router
}

// New creates a server around runner. A nil logger uses log.Default().
func New(runner *pipeline.Runner, cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{runner: runner, cfg: cfg, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	if s.cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.cfg.Metrics)
	}
	r.Route("/v1", func(r chi.Router) {
		r.With(s.limitBody).Post("/extract", s.handleExtract)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	src, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput,
				"netlist exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return
		}
		writeError(w, http.StatusBadRequest, errors.ErrCodeIO, "read request body")
		return
	}
	if len(src) == 0 {
		writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "empty netlist")
		return
	}

	opts, err := s.requestOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.runner.Extract(r.Context(), "request "+middleware.GetReqID(r.Context()), src, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(HeaderNetlistID, res.NetlistID.String())
	w.Header().Set(HeaderCache, cacheStatus(res.CacheHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.JSON)
}

func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.Extract
	q := r.URL.Query()
	if d := q.Get("direction"); d != "" {
		opts.Direction = constraint.Direction(d)
	}
	if v := q.Get("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "refresh must be a boolean, got %q", v)
		}
		opts.Refresh = refresh
	}
	opts.Logger = s.logger
	return opts, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := strings.TrimPrefix(err.Error(), string(code)+": ")
	if status == http.StatusInternalServerError {
		s.logger.Error("extract failed", "request_id", middleware.GetReqID(r.Context()), "err", err)
		msg = "extraction failed"
	}
	writeError(w, status, code, msg)
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidNetlist, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

type errorBody struct {
	Error   errors.Code `json:"error"`
	Message string      `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code errors.Code, msg string) {
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
