package middleware

import (
	"context"
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Header names.
const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"
)

const requestIDMaxLength = 128

var validRequestID = regexp.MustCompile(`^[a-zA-Z0-9\-_]+$`)

// RequestID tags each request with an ID, reusing a well-formed incoming
// X-Request-ID and generating a UUID v4 otherwise.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderXRequestID)
			if !isValidRequestID(id) {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderXRequestID, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), RequestIDKey, id)))
		})
	}
}

func isValidRequestID(id string) bool {
	return id != "" && len(id) <= requestIDMaxLength && validRequestID.MatchString(id)
}

// ClientIP stores the caller's address in the request context. Forwarding
// headers are honoured only when trustProxy is set and, if trustedProxies is
// non-empty, the direct peer is one of them.
func ClientIP(trustProxy bool, trustedProxies []string) Middleware {
	trusted := make(map[string]struct{}, len(trustedProxies))
	for _, ip := range trustedProxies {
		trusted[ip] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, trustProxy, trusted)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ClientIPKey, ip)))
		})
	}
}

func clientIP(r *http.Request, trustProxy bool, trusted map[string]struct{}) string {
	remote := hostOnly(r.RemoteAddr)
	if !trustProxy {
		return remote
	}
	if len(trusted) > 0 {
		if _, ok := trusted[remote]; !ok {
			return remote
		}
	}

	if xff := r.Header.Get(HeaderXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get(HeaderXRealIP)); xri != "" {
		return xri
	}
	return remote
}

func hostOnly(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
