package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/aussiebroadwan/kyc/pkg/idx"
	"github.com/aussiebroadwan/kyc/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := slogx.New(slogx.Config{Service: "kyc", Version: "test", Env: "test", Level: "debug", Format: "json", Output: &buf})

	log.Debug("hello", "k", "v")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "hello", line["msg"])
	require.Equal(t, "kyc", line["service"])
	require.Equal(t, "v", line["k"])
}

func TestNewTextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slogx.New(slogx.Config{Service: "kyc", Level: "warn", Format: "text", Output: &buf})

	log.Info("quiet")
	require.Empty(t, buf.String())

	log.Warn("loud")
	require.Contains(t, buf.String(), "loud")
}

func TestTextToRegularFileHasNoColor(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()

	log := slogx.New(slogx.Config{Level: "info", Format: "text", Output: f})
	log.Error("plain", "k", "v")

	raw, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	require.Contains(t, string(raw), "plain")
	require.NotContains(t, string(raw), "\x1b[")
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slogx.New(slogx.Config{Format: "json", Output: &buf})

	id := idx.New()
	ctx := slogx.WithRequestID(slogx.WithContext(context.Background(), base), id)
	ctx = slogx.With(ctx, "role", "admin")
	slogx.FromContext(ctx).Info("scoped")

	require.Contains(t, buf.String(), `"req_id":"`+id.String()+`"`)
	require.Contains(t, buf.String(), `"role":"admin"`)
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	require.Equal(t, slog.Default(), slogx.FromContext(context.Background()))
}

func serveLogged(t *testing.T, reqID string, status int) (*httptest.ResponseRecorder, []map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	base := slogx.New(slogx.Config{Format: "json", Output: &buf})

	h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("hello"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	if reqID != "" {
		req.Header.Set(slogx.RequestIDHeader, reqID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var lines []map[string]any
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var line map[string]any
		require.NoError(t, dec.Decode(&line))
		lines = append(lines, line)
	}
	require.NotEmpty(t, lines)
	return rec, lines
}

func TestHTTPMiddlewareKeepsWellFormedRequestID(t *testing.T) {
	id := idx.New().String()
	rec, lines := serveLogged(t, id, http.StatusTeapot)

	access := lines[len(lines)-1]
	require.Equal(t, id, access["req_id"])
	require.Equal(t, id, rec.Header().Get(slogx.RequestIDHeader))
	require.EqualValues(t, http.StatusTeapot, access["status"])
	require.EqualValues(t, 5, access["bytes"])
	require.Equal(t, "INFO", access["level"])
	require.NotContains(t, access, "client_req_id")
}

func TestHTTPMiddlewareReplacesForeignRequestID(t *testing.T) {
	rec, lines := serveLogged(t, "abc", http.StatusBadGateway)

	access := lines[len(lines)-1]
	require.Equal(t, "abc", access["client_req_id"])
	require.NotEqual(t, "abc", access["req_id"])
	_, err := idx.Parse(rec.Header().Get(slogx.RequestIDHeader))
	require.NoError(t, err)
	require.Equal(t, "ERROR", access["level"])
}
