package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sidemount/core/handler"
	"github.com/dmitrymomot/sidemount/core/response"
	"github.com/dmitrymomot/sidemount/core/router"
	"github.com/dmitrymomot/sidemount/middleware"
)

func TestRequestIDAssignsUUID(t *testing.T) {
	t.Parallel()

	var seen string

	r := router.New[*router.Context]()
	r.Mount(middleware.RequestID[*router.Context]())
	r.At("/").Get(func(ctx *router.Context) handler.Response {
		seen, _ = middleware.RequestIDFromContext(ctx)
		return response.String("ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	id := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, seen, "handler must see the same ID as the client")
}

func TestRequestIDIgnoresIncomingByDefault(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Mount(middleware.RequestID[*router.Context]())
	r.At("/").Get(func(ctx *router.Context) handler.Response {
		return response.String("ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "spoofed")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEqual(t, "spoofed", w.Header().Get("X-Request-ID"))
}

func TestRequestIDUseExisting(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Mount(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
		UseExisting: true,
	}))
	r.At("/").Get(func(ctx *router.Context) handler.Response {
		return response.String("ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "upstream-7", w.Header().Get("X-Request-ID"))
}

func TestRequestIDCustomGeneratorAndHeader(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Mount(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
		HeaderName: "X-Trace-ID",
		Generator:  func() string { return "fixed" },
	}))
	r.At("/").Get(func(ctx *router.Context) handler.Response {
		return response.String("ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "fixed", w.Header().Get("X-Trace-ID"))
	assert.Empty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDSkip(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Mount(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
		Skip: func(ctx handler.Context) bool {
			return ctx.Request().URL.Path == "/health"
		},
	}))
	r.At("/health").Get(func(ctx *router.Context) handler.Response {
		return response.String("ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Empty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDFromContextMissing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := middleware.RequestIDFromContext(req.Context())
	assert.False(t, ok)
}
