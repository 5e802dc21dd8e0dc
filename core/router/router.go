package router

import (
	"net/http"

	"github.com/dmitrymomot/sidemount/core/handler"
)

// Router is the registration surface and the single serving-time entry
// point. It is built in a single-goroutine startup phase via At, Mount and
// Route; once the first request is served the route table is treated as
// frozen and Find runs lock-free across any number of goroutines.
type Router[C handler.Context] interface {
	http.Handler

	// At returns a builder bound to the given path pattern, exposing one
	// setter per HTTP method plus Any.
	At(path string) Route[C]

	// Mount appends middleware handlers composed into every chain
	// registered after this call. Mounting is not retroactive.
	Mount(handlers ...handler.HandlerFunc[C])

	// Route grafts every route of sub under prefix, with this router's
	// currently mounted middleware outermost. The graft is a snapshot:
	// mutating sub afterwards does not affect this router.
	Route(prefix string, sub Router[C])

	// Find maps (path, method) to a RouteResult. It never mutates shared
	// state and is safe for concurrent use during the serving phase.
	Find(path, method string) RouteResult[C]

	// Routes returns the registered route table for introspection.
	Routes() []RouteInfo
}

// Route is the per-path builder returned by At. Method setters may be
// chained; each call composes the router's mounted middleware with the
// supplied handlers into one flat chain. Registering for Any and for an
// individual method on the same path is a conflict.
type Route[C handler.Context] interface {
	Method(method string, handlers ...handler.HandlerFunc[C]) Route[C]
	Any(handlers ...handler.HandlerFunc[C]) Route[C]
	Get(handlers ...handler.HandlerFunc[C]) Route[C]
	Post(handlers ...handler.HandlerFunc[C]) Route[C]
	Put(handlers ...handler.HandlerFunc[C]) Route[C]
	Delete(handlers ...handler.HandlerFunc[C]) Route[C]
	Patch(handlers ...handler.HandlerFunc[C]) Route[C]
	Head(handlers ...handler.HandlerFunc[C]) Route[C]
	Options(handlers ...handler.HandlerFunc[C]) Route[C]
}

// RouteInfo describes one registered route. Routes registered for all
// methods via Any report the method as "*".
type RouteInfo struct {
	Method  string
	Pattern string
}

// New creates an empty router. The generic parameter selects the context
// type handlers receive; use *Context for the default implementation or
// provide a factory via WithContextFactory for custom types.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux[C](opts...)
}
