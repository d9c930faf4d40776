// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/grantwire/gavel/pkg/logger"
	"github.com/grantwire/gavel/pkg/metrics"
)

// CORS headers carried on every response path, success or error, per the
// external contract.
const (
	corsAllowOrigin  = "*"
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Content-Type"
)

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", corsAllowOrigin)
	w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
	w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
}

// wrap applies the shared request plumbing to a handler: CORS headers and the
// OPTIONS short-circuit, a request id, a panic safety net, and metrics.
func (s *Server) wrap(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		setCORSHeaders(w)
		if r.Method == http.MethodOptions {
			// Preflight: headers only, no body semantics.
			w.WriteHeader(http.StatusOK)
			metrics.RecordHTTPRequest(endpoint, r.Method, strconv.Itoa(http.StatusOK))
			return
		}

		requestID := uuid.NewString()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		defer func() {
			if rec := recover(); rec != nil {
				if s.log != nil {
					s.log.Error(r.Context(), "panic during request dispatch",
						logger.String("request_id", requestID),
						logger.String("path", r.URL.Path),
						logger.Any("panic", rec))
				}
				if !wrapped.wroteHeader {
					writeError(wrapped, http.StatusInternalServerError, msgInternalError)
				}
			}

			durationMs := float64(time.Since(start).Microseconds()) / 1000.0
			status := strconv.Itoa(wrapped.statusCode)
			metrics.RecordHTTPRequest(endpoint, r.Method, status)
			metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, durationMs)

			if s.log != nil {
				s.log.Debug(r.Context(), "request served",
					logger.String("request_id", requestID),
					logger.String("method", r.Method),
					logger.String("path", r.URL.Path),
					logger.String("status", status),
					logger.Float64("duration_ms", durationMs))
			}
		}()

		next.ServeHTTP(wrapped, r)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
