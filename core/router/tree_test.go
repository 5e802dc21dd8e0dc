package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sidemount/core/handler"
	"github.com/dmitrymomot/sidemount/core/router"
)

// echo returns a handler that writes body, for observing which route won.
func echo(body string) handler.HandlerFunc[*router.Context] {
	return func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusOK)
			_, err := w.Write([]byte(body))
			return err
		}
	}
}

// echoParams writes a rendered view of the captured params.
func echoParams(keys ...string) handler.HandlerFunc[*router.Context] {
	return func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			parts := make([]string, 0, len(keys))
			for _, k := range keys {
				parts = append(parts, k+"="+ctx.Param(k))
			}
			_, err := w.Write([]byte(strings.Join(parts, ",")))
			return err
		}
	}
}

func get(t *testing.T, r router.Router[*router.Context], path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTreeStaticRoutes(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()

	routes := []string{
		"/",
		"/users",
		"/users/profile",
		"/admin",
		"/admin/users",
		"/api/v1/posts",
		"/api/v2/posts",
	}
	for _, route := range routes {
		r.At(route).Get(echo(route))
	}

	for _, route := range routes {
		t.Run("route_"+route, func(t *testing.T) {
			w := get(t, r, route)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, route, w.Body.String())
		})
	}
}

func TestTreeEdgeSplitting(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()

	// Registration order forces splits in both directions: a diverging
	// suffix and a pattern that is a strict prefix of an existing edge.
	r.At("/foo/bar").Get(echo("bar"))
	r.At("/foo/baz").Get(echo("baz"))
	r.At("/foo").Get(echo("foo"))
	r.At("/foo/barrier").Get(echo("barrier"))

	tests := []struct {
		path string
		want string
	}{
		{"/foo", "foo"},
		{"/foo/bar", "bar"},
		{"/foo/baz", "baz"},
		{"/foo/barrier", "barrier"},
	}
	for _, tt := range tests {
		w := get(t, r, tt.path)
		assert.Equal(t, http.StatusOK, w.Code, tt.path)
		assert.Equal(t, tt.want, w.Body.String(), tt.path)
	}

	// Splitting must not invent routes.
	assert.Equal(t, http.StatusNotFound, get(t, r, "/fo").Code)
	assert.Equal(t, http.StatusNotFound, get(t, r, "/foo/ba").Code)
	assert.Equal(t, http.StatusNotFound, get(t, r, "/foo/barr").Code)
}

func TestTreeParameterRoutes(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.At("/users/{id}").Get(echoParams("id"))
	r.At("/users/{id}/posts/{postID}").Get(echoParams("id", "postID"))
	r.At("/products/{category}/{id}").Get(echoParams("category", "id"))

	tests := []struct {
		path string
		want string
	}{
		{"/users/42", "id=42"},
		{"/users/abc", "id=abc"},
		{"/users/42/posts/7", "id=42,postID=7"},
		{"/products/books/go-101", "category=books,id=go-101"},
	}
	for _, tt := range tests {
		name := strings.ReplaceAll(tt.path, "/", "_")
		t.Run(name, func(t *testing.T) {
			w := get(t, r, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestTreeParamDoesNotCrossDelimiter(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.At("/users/{id}").Get(echoParams("id"))

	assert.Equal(t, http.StatusNotFound, get(t, r, "/users/42/extra").Code)
	// An empty segment is not a capture.
	assert.Equal(t, http.StatusNotFound, get(t, r, "/users/").Code)
}

func TestTreeWildcardRoutes(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.At("/static/*path").Get(echoParams("path"))
	r.At("/blob/*").Get(echoParams("*"))

	tests := []struct {
		path string
		want string
	}{
		{"/static/css/site.css", "path=css/site.css"},
		{"/static/a", "path=a"},
		{"/static/", "path="},
		{"/blob/x/y/z", "*=x/y/z"},
	}
	for _, tt := range tests {
		w := get(t, r, tt.path)
		assert.Equal(t, http.StatusOK, w.Code, tt.path)
		assert.Equal(t, tt.want, w.Body.String(), tt.path)
	}

	assert.Equal(t, http.StatusNotFound, get(t, r, "/staticfile").Code)
}

func TestTreePrecedenceStaticOverParam(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.At("/users/new").Get(echo("static"))
	r.At("/users/{id}").Get(echo("param"))

	assert.Equal(t, "static", get(t, r, "/users/new").Body.String())
	assert.Equal(t, "param", get(t, r, "/users/42").Body.String())
}

func TestTreePrecedenceParamOverWildcard(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.At("/files/{name}").Get(echo("param"))
	r.At("/files/*rest").Get(echo("wildcard"))

	assert.Equal(t, "param", get(t, r, "/files/report.txt").Body.String())
	assert.Equal(t, "wildcard", get(t, r, "/files/a/b").Body.String())
}

func TestTreeBacktracksFailedStaticBranch(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()

	// "newbie" walks into the static "new" edge and dead-ends deeper in
	// the tree; the walk must back out and retry the param branch.
	r.At("/users/new/form").Get(echo("static"))
	r.At("/users/{id}/posts").Get(echoParams("id"))

	assert.Equal(t, "static", get(t, r, "/users/new/form").Body.String())
	assert.Equal(t, "id=newbie", get(t, r, "/users/newbie/posts").Body.String())
	assert.Equal(t, "id=new", get(t, r, "/users/new/posts").Body.String())
}

func TestTreeBacktracksToWildcard(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.At("/docs/intro").Get(echo("static"))
	r.At("/docs/*page").Get(echoParams("page"))

	assert.Equal(t, "static", get(t, r, "/docs/intro").Body.String())
	assert.Equal(t, "page=intro/setup", get(t, r, "/docs/intro/setup").Body.String())
	assert.Equal(t, "page=other", get(t, r, "/docs/other").Body.String())
}

func TestTreeRootWildcard(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.At("/").Get(echo("root"))
	r.At("/*").Get(echo("fallback"))

	assert.Equal(t, "root", get(t, r, "/").Body.String())
	assert.Equal(t, "fallback", get(t, r, "/anything/else").Body.String())
}
