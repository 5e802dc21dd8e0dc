package router_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sidemount/core/handler"
	"github.com/dmitrymomot/sidemount/core/router"
)

// panicErr runs fn, requires it to panic with an error, and returns it.
func panicErr(t *testing.T, fn func()) (err error) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		e, ok := r.(error)
		require.True(t, ok, "panic value is not an error: %v", r)
		err = e
	}()
	fn()
	return nil
}

func TestRegistrationPanics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func(r router.Router[*router.Context])
		want error
	}{
		{
			name: "duplicate method on same pattern",
			fn: func(r router.Router[*router.Context]) {
				r.At("/a").Get(echo("1"))
				r.At("/a").Get(echo("2"))
			},
			want: router.ErrDuplicateRoute,
		},
		{
			name: "any after method",
			fn: func(r router.Router[*router.Context]) {
				r.At("/a").Get(echo("1"))
				r.At("/a").Any(echo("2"))
			},
			want: router.ErrDuplicateRoute,
		},
		{
			name: "method after any",
			fn: func(r router.Router[*router.Context]) {
				r.At("/a").Any(echo("1"))
				r.At("/a").Post(echo("2"))
			},
			want: router.ErrDuplicateRoute,
		},
		{
			name: "param name conflict",
			fn: func(r router.Router[*router.Context]) {
				r.At("/users/{id}").Get(echo("1"))
				r.At("/users/{uid}/posts").Get(echo("2"))
			},
			want: router.ErrParamNameConflict,
		},
		{
			name: "wildcard name conflict",
			fn: func(r router.Router[*router.Context]) {
				r.At("/files/*path").Get(echo("1"))
				r.At("/files/*rest").Post(echo("2"))
			},
			want: router.ErrParamNameConflict,
		},
		{
			name: "duplicate param in one pattern",
			fn: func(r router.Router[*router.Context]) {
				r.At("/a/{x}/b/{x}").Get(echo("1"))
			},
			want: router.ErrDuplicateParam,
		},
		{
			name: "wildcard not terminal",
			fn: func(r router.Router[*router.Context]) {
				r.At("/a/*/b").Get(echo("1"))
			},
			want: router.ErrWildcardPosition,
		},
		{
			name: "unclosed param brace",
			fn: func(r router.Router[*router.Context]) {
				r.At("/a/{id").Get(echo("1"))
			},
			want: router.ErrParamDelimiter,
		},
		{
			name: "empty param name",
			fn: func(r router.Router[*router.Context]) {
				r.At("/a/{}").Get(echo("1"))
			},
			want: router.ErrParamDelimiter,
		},
		{
			name: "literal adjacent to param",
			fn: func(r router.Router[*router.Context]) {
				r.At("/users/{id}px").Get(echo("1"))
			},
			want: router.ErrParamDelimiter,
		},
		{
			name: "adjacent params in one segment",
			fn: func(r router.Router[*router.Context]) {
				r.At("/a/{x}{y}").Get(echo("1"))
			},
			want: router.ErrParamDelimiter,
		},
		{
			name: "pattern without leading slash",
			fn: func(r router.Router[*router.Context]) {
				r.At("users").Get(echo("1"))
			},
			want: router.ErrInvalidPattern,
		},
		{
			name: "empty pattern",
			fn: func(r router.Router[*router.Context]) {
				r.At("").Get(echo("1"))
			},
			want: router.ErrInvalidPattern,
		},
		{
			name: "invalid method name",
			fn: func(r router.Router[*router.Context]) {
				r.At("/a").Method("YEET", echo("1"))
			},
			want: router.ErrInvalidMethod,
		},
		{
			name: "no handlers",
			fn: func(r router.Router[*router.Context]) {
				r.At("/a").Get()
			},
			want: router.ErrMissingHandlers,
		},
		{
			name: "nil handler",
			fn: func(r router.Router[*router.Context]) {
				r.At("/a").Get(echo("1"), nil)
			},
			want: router.ErrNilHandler,
		},
		{
			name: "nil mounted handler",
			fn: func(r router.Router[*router.Context]) {
				r.Mount(nil)
			},
			want: router.ErrNilHandler,
		},
		{
			name: "nil sub-router",
			fn: func(r router.Router[*router.Context]) {
				r.Route("/sub", nil)
			},
			want: router.ErrNilRouter,
		},
		{
			name: "graft prefix without leading slash",
			fn: func(r router.Router[*router.Context]) {
				r.Route("sub", router.New[*router.Context]())
			},
			want: router.ErrInvalidPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := router.New[*router.Context]()
			err := panicErr(t, func() { tt.fn(r) })
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConflictLeavesExistingRouteIntact(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.At("/users/{id}").Get(echo("user"))

	err := panicErr(t, func() {
		r.At("/users/{uid}").Post(echo("other"))
	})
	assert.ErrorIs(t, err, router.ErrParamNameConflict)

	// The failed registration must not disturb the original route.
	res := r.Find("/users/42", http.MethodGet)
	require.True(t, res.IsFound())
	assert.Equal(t, "42", res.Params().Get("id"))
	assert.True(t, r.Find("/users/42", http.MethodPost).IsMethodNotAllowed())
}

func TestDuplicateRouteReportsPattern(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.At("/orders/{id}").Delete(echo("1"))

	err := panicErr(t, func() {
		r.At("/orders/{id}").Delete(echo("2"))
	})
	require.ErrorIs(t, err, router.ErrDuplicateRoute)
	assert.Contains(t, err.Error(), "/orders/{id}")
	assert.Contains(t, err.Error(), http.MethodDelete)
}

func TestPanicErrorExposesValueAndStack(t *testing.T) {
	t.Parallel()

	var caught error
	r := router.New(
		router.WithErrorHandler[*router.Context](func(ctx *router.Context, err error) {
			caught = err
			ctx.ResponseWriter().WriteHeader(http.StatusInternalServerError)
		}),
	)
	r.At("/boom").Get(func(ctx *router.Context) handler.Response {
		panic("kaboom")
	})

	w := get(t, r, "/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var pe router.PanicError
	require.ErrorAs(t, caught, &pe)
	assert.Equal(t, "kaboom", pe.Value())
	assert.NotEmpty(t, pe.Stack())
}
