package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveWithRequestID runs RequestID with a JSON logger in the request context
// and returns the request_id the handler logged.
func serveWithRequestID(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	req = req.WithContext(logger.WithContext(req.Context()))

	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside handler")
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	requestID, _ := line["request_id"].(string)
	return w, requestID
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	w, logged := serveWithRequestID(t, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, logged, 36)
	assert.Equal(t, logged, w.Header().Get(RequestIDHeader))
}

func TestRequestID_ReusesIncoming(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")

	w, logged := serveWithRequestID(t, req)

	assert.Equal(t, "abc-123", logged)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestLogging_WritesAccessLine(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside handler")
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/categories", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inner, access map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &inner))
	require.NoError(t, json.Unmarshal(lines[1], &access))

	assert.Equal(t, "req-1", inner["request_id"])
	assert.Equal(t, "request completed", access["message"])
	assert.Equal(t, "req-1", access["request_id"])
	assert.Equal(t, float64(http.StatusCreated), access["status"])
	assert.Equal(t, "/api/categories", access["path"])
}
