package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder wraps http.ResponseWriter to capture the status code and
// body size written by the handler chain.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func recordStatus(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

// LoggingMiddleware emits one structured access log line per request once the
// handler chain has finished. The correlation ID set by RequestIDMiddleware is
// attached when present.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := recordStatus(w)

		next.ServeHTTP(rec, r)

		slog.Info("http_request",
			"request_id", GetRequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"client_ip", getClientIP(r),
			"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
		)
	})
}
