package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/kyc/pkg/idx"
)

// RequestIDHeader carries the request id between the client and the API.
const RequestIDHeader = "X-Request-ID"

// HTTPMiddleware writes one access line per request and scopes a logger to
// the request context. A well-formed incoming request id is reused and
// echoed back; anything else is replaced and logged as client_req_id.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			}

			raw := r.Header.Get(RequestIDHeader)
			id, err := idx.Parse(raw)
			if err != nil || id.IsZero() {
				id = idx.New()
				if raw != "" {
					attrs = append(attrs, "client_req_id", raw)
				}
			}
			w.Header().Set(RequestIDHeader, id.String())

			ctx := WithRequestID(WithContext(r.Context(), base.With(attrs...)), id)
			next.ServeHTTP(rec, r.WithContext(ctx))

			level := slog.LevelInfo
			if rec.status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			FromContext(ctx).Log(ctx, level, "http_request",
				"status", rec.status,
				"bytes", rec.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
				"user_agent", r.UserAgent(),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter

	status int
	bytes  int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}
