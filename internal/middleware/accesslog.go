package middleware

import (
	"net/http"
	"time"

	"github.com/spicyid/spicyid/pkg/logger"
)

// AccessLog logs one line per request. 5xx responses log at error level,
// 4xx at warn and the rest at info.
func AccessLog(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			keyvals := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"bytes", rw.written,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", GetRequestID(r.Context()),
				"client_ip", GetClientIP(r.Context()),
			}

			switch {
			case rw.statusCode >= http.StatusInternalServerError:
				log.Error("request completed", keyvals...)
			case rw.statusCode >= http.StatusBadRequest:
				log.Warn("request completed", keyvals...)
			default:
				log.Info("request completed", keyvals...)
			}
		})
	}
}
