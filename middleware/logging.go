package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// LoggingConfig configures the request logging transport middleware.
type LoggingConfig struct {
	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for completed requests (default: slog.LevelInfo)
	LogLevel slog.Level

	// Skip bypasses logging for specific requests
	Skip func(r *http.Request) bool

	// SlowRequestThreshold logs requests slower than this at Warn level;
	// zero disables the check
	SlowRequestThreshold time.Duration
}

// statusWriter records the status code and body size of a response.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Logging returns a transport middleware that logs every completed
// request with method, path, status, size and duration. It wraps the
// router as an http.Handler so the final status code is observable.
func Logging(cfg LoggingConfig) func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			sw := &statusWriter{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(sw, r)
			elapsed := time.Since(start)

			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", sw.bytes,
				"duration", elapsed,
			}
			// The chain-level RequestID middleware publishes the ID on the
			// response headers, which this wrapper shares.
			if id := sw.Header().Get("X-Request-ID"); id != "" {
				attrs = append(attrs, "request_id", id)
			}

			level := cfg.LogLevel
			if cfg.SlowRequestThreshold > 0 && elapsed > cfg.SlowRequestThreshold {
				level = slog.LevelWarn
				attrs = append(attrs, "slow", true)
			}

			cfg.Logger.Log(r.Context(), level, "request completed", attrs...)
		})
	}
}
