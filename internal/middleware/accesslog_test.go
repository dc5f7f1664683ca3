package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicyid/spicyid/pkg/logger"
)

func TestAccessLog(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		expectedLevel string
	}{
		{name: "success", status: http.StatusOK, expectedLevel: "info"},
		{name: "client error", status: http.StatusBadRequest, expectedLevel: "warn"},
		{name: "server error", status: http.StatusInternalServerError, expectedLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.New(&buf, "debug")

			handler := New(RequestID(), ClientIP(false, nil), AccessLog(log)).Then(
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte("body"))
				}),
			)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/records/rec_1", nil)
			req.RemoteAddr = "192.0.2.10:5000"
			req.Header.Set(HeaderXRequestID, "trace-1")
			handler.ServeHTTP(httptest.NewRecorder(), req)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

			assert.Equal(t, tt.expectedLevel, entry["level"])
			assert.Equal(t, "request completed", entry["message"])
			assert.Equal(t, "GET", entry["method"])
			assert.Equal(t, "/api/v1/records/rec_1", entry["path"])
			assert.EqualValues(t, tt.status, entry["status"])
			assert.EqualValues(t, 4, entry["bytes"])
			assert.Equal(t, "trace-1", entry["request_id"])
			assert.Equal(t, "192.0.2.10", entry["client_ip"])
		})
	}
}
