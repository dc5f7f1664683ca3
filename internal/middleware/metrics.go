package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/spicyid/spicyid/internal/metrics"
)

// responseWriter captures the status code and body size.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Metrics records Prometheus request metrics.
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			metrics.ActiveConnections.Inc()
			defer metrics.ActiveConnections.Dec()

			next.ServeHTTP(rw, r)

			metrics.RecordRequest(r.Method, normalizePath(r.URL.Path), rw.statusCode, time.Since(start))
		})
	}
}

// normalizePath collapses identifier path segments to keep label
// cardinality bounded.
func normalizePath(path string) string {
	switch path {
	case "/health", "/ready", "/metrics", "/api/v1/records", "/api/v1/ids/config":
		return path
	}

	for _, prefix := range []string{
		"/api/v1/records/",
		"/api/v1/ids/encode/",
		"/api/v1/ids/decode/",
		"/api/v1/ids/validate/",
	} {
		if rest, ok := strings.CutPrefix(path, prefix); ok && rest != "" && !strings.Contains(rest, "/") {
			if prefix == "/api/v1/ids/encode/" {
				return prefix + "{n}"
			}
			return prefix + "{id}"
		}
	}
	return "/other"
}
