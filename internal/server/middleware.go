package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/analogtopo/pkg/errors"
	"github.com/matzehuels/analogtopo/pkg/observability"
)

// limitBody rejects uploads larger than the configured limit. Requests that
// declare their length are refused before the body is read; chunked bodies
// are cut off by http.MaxBytesReader.
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > s.cfg.MaxBodyBytes {
			writeError(w, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput, "netlist too large")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
		next.ServeHTTP(w, r)
	})
}

// unmatchedRoute labels requests that hit no route.
const unmatchedRoute = "unmatched"

// routePattern returns the chi route that served r.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}

// observe logs every request and reports it to the server hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		returned := false
		// Runs on panic too; Recoverer further out writes the 500.
		defer func() {
			status := ww.Status()
			switch {
			case !returned:
				status = http.StatusInternalServerError
			case status == 0:
				status = http.StatusOK
			}
			duration := time.Since(start)
			hooks.OnResponse(r.Context(), r.Method, routePattern(r), status, duration)
			s.logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"request_id", middleware.GetReqID(r.Context()),
				"duration", duration)
		}()

		next.ServeHTTP(ww, r)
		returned = true
	})
}
