package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/sidemount/core/handler"
)

// requestIDContextKey keys the request ID stored on the request context.
type requestIDContextKey struct{}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip bypasses the middleware for specific requests
	Skip func(ctx handler.Context) bool
	// Generator creates new request IDs (default: UUID v4)
	Generator func() string
	// HeaderName is the request ID header (default: "X-Request-ID")
	HeaderName string
	// UseExisting reuses an incoming request ID header when present
	UseExisting bool
}

// RequestID returns a chain handler that assigns a UUID to each request
// and exposes it via the context and the response headers.
func RequestID[C handler.Context]() handler.HandlerFunc[C] {
	return RequestIDWithConfig[C](RequestIDConfig{})
}

// RequestIDWithConfig returns a request ID chain handler with custom
// configuration. It always passes control to the next handler.
func RequestIDWithConfig[C handler.Context](cfg RequestIDConfig) handler.HandlerFunc[C] {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	if cfg.Generator == nil {
		cfg.Generator = func() string {
			return uuid.New().String()
		}
	}

	return func(ctx C) handler.Response {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return nil
		}

		var requestID string
		if cfg.UseExisting {
			requestID = ctx.Request().Header.Get(cfg.HeaderName)
		}
		if requestID == "" {
			requestID = cfg.Generator()
		}

		ctx.SetValue(requestIDContextKey{}, requestID)
		ctx.ResponseWriter().Header().Set(cfg.HeaderName, requestID)
		return nil
	}
}

// RequestIDFromContext returns the request ID assigned by the middleware.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	return id, ok
}
