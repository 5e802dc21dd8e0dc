package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/dmitrymomot/sidemount/core/handler"
)

// mux is the private implementation of the Router interface.
type mux[C handler.Context] struct {
	tree         *node[C]
	middleware   []handler.HandlerFunc[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		tree:         &node[C]{},
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}

	for _, opt := range opts {
		opt(m)
	}

	// Without a factory only the default *Context type can be built;
	// custom context types must supply their own.
	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request, params map[string]string) C {
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(NewContext(w, r, params)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return m
}

// At returns a builder bound to path.
func (m *mux[C]) At(path string) Route[C] {
	if len(path) == 0 || path[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, path))
	}
	return &routeBuilder[C]{mux: m, pattern: path}
}

// Mount appends middleware handlers to the router. They are composed into
// chains registered after this call only; order of Mount calls is the
// execution order.
func (m *mux[C]) Mount(handlers ...handler.HandlerFunc[C]) {
	for _, h := range handlers {
		if h == nil {
			panic(ErrNilHandler)
		}
	}
	m.middleware = append(m.middleware, handlers...)
}

// Route grafts every route registered in sub under prefix. Each sub route
// is re-inserted with the prefix prepended and its chain recomposed as
// [this router's middleware] ++ [sub's chain], so the parent middleware
// runs outermost and the graft is independent of later changes to sub.
func (m *mux[C]) Route(prefix string, sub Router[C]) {
	if sub == nil {
		panic(fmt.Errorf("%w on '%s'", ErrNilRouter, prefix))
	}
	if len(prefix) == 0 || prefix[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, prefix))
	}

	sm, ok := sub.(*mux[C])
	if !ok {
		panic(fmt.Errorf("%w on '%s'", ErrForeignRouter, prefix))
	}

	sm.tree.walkRoutes(func(method methodTyp, ep *endpoint[C]) {
		m.insertChain(method, joinPattern(prefix, ep.pattern), handler.Compose(m.middleware, ep.chain))
	})
}

// Find delegates to the lookup engine and wraps the walk outcome in a
// RouteResult. Verbs outside the built-in method set still match Any
// registrations; on other existing paths they report the allowed set.
func (m *mux[C]) Find(path, method string) RouteResult[C] {
	if path == "" {
		path = "/"
	}
	mt := methodMap[strings.ToUpper(method)] // zero for unknown methods

	rn, params := m.tree.findRoute(mt, path)
	if rn == nil {
		return RouteResult[C]{kind: resultNotFound}
	}

	ep := rn.endpoints[mt]
	if ep == nil {
		// An Any registration matches every verb, including ones outside
		// the built-in set that map to no method bit.
		ep = rn.endpoints[mALL]
	}
	if ep == nil {
		return RouteResult[C]{kind: resultMethodNotAllowed, allowed: rn.allowedMethods()}
	}

	return RouteResult[C]{
		kind:   resultMatched,
		chain:  ep.chain,
		params: Params{keys: params.keys, values: params.values},
	}
}

// Routes returns all registered routes.
func (m *mux[C]) Routes() []RouteInfo {
	var rts []RouteInfo
	m.tree.walkRoutes(func(method methodTyp, ep *endpoint[C]) {
		name := "*"
		if method != mALL {
			name = reverseMethodMap[method]
		}
		rts = append(rts, RouteInfo{Method: name, Pattern: ep.pattern})
	})
	return rts
}

// insert validates inputs, composes the mounted middleware with the
// supplied handlers and registers the flat chain.
func (m *mux[C]) insert(method methodTyp, pattern string, handlers []handler.HandlerFunc[C]) {
	if len(handlers) == 0 {
		panic(fmt.Errorf("%w: '%s'", ErrMissingHandlers, pattern))
	}
	for _, h := range handlers {
		if h == nil {
			panic(fmt.Errorf("%w: '%s'", ErrNilHandler, pattern))
		}
	}
	m.insertChain(method, pattern, handler.Compose(m.middleware, handlers))
}

func (m *mux[C]) insertChain(method methodTyp, pattern string, chain handler.Chain[C]) {
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
	}

	// Validate the whole pattern before touching the tree so a conflict
	// never leaves a partially committed edit behind.
	patParamKeys(pattern)

	m.tree.insertRoute(method, pattern, chain)
}

// joinPattern prepends prefix to pattern, collapsing the duplicate
// delimiter at the seam.
func joinPattern(prefix, pattern string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if pattern == "/" {
		if prefix == "" {
			return "/"
		}
		return prefix
	}
	return prefix + pattern
}

// routeBuilder is the Route implementation returned by At.
type routeBuilder[C handler.Context] struct {
	mux     *mux[C]
	pattern string
}

// Method registers handlers for a single named HTTP method.
func (b *routeBuilder[C]) Method(method string, handlers ...handler.HandlerFunc[C]) Route[C] {
	mt, ok := methodMap[strings.ToUpper(method)]
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrInvalidMethod, method))
	}
	b.mux.insert(mt, b.pattern, handlers)
	return b
}

// Any registers handlers as a catch-all for every HTTP method.
func (b *routeBuilder[C]) Any(handlers ...handler.HandlerFunc[C]) Route[C] {
	b.mux.insert(mALL, b.pattern, handlers)
	return b
}

func (b *routeBuilder[C]) Get(handlers ...handler.HandlerFunc[C]) Route[C] {
	b.mux.insert(mGET, b.pattern, handlers)
	return b
}

func (b *routeBuilder[C]) Post(handlers ...handler.HandlerFunc[C]) Route[C] {
	b.mux.insert(mPOST, b.pattern, handlers)
	return b
}

func (b *routeBuilder[C]) Put(handlers ...handler.HandlerFunc[C]) Route[C] {
	b.mux.insert(mPUT, b.pattern, handlers)
	return b
}

func (b *routeBuilder[C]) Delete(handlers ...handler.HandlerFunc[C]) Route[C] {
	b.mux.insert(mDELETE, b.pattern, handlers)
	return b
}

func (b *routeBuilder[C]) Patch(handlers ...handler.HandlerFunc[C]) Route[C] {
	b.mux.insert(mPATCH, b.pattern, handlers)
	return b
}

func (b *routeBuilder[C]) Head(handlers ...handler.HandlerFunc[C]) Route[C] {
	b.mux.insert(mHEAD, b.pattern, handlers)
	return b
}

func (b *routeBuilder[C]) Options(handlers ...handler.HandlerFunc[C]) Route[C] {
	b.mux.insert(mOPTIONS, b.pattern, handlers)
	return b
}

// ServeHTTP implements http.Handler. It is a thin transport adapter over
// Find: it builds the per-request context, recovers panics, synthesizes
// the Allow header on 405 and renders the chain's Response.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := newResponseWriter(w)

	// Use RawPath if available to preserve URL encoding
	path := r.URL.Path
	if r.URL.RawPath != "" {
		path = r.URL.RawPath
	}
	if path == "" {
		path = "/"
	}

	res := m.Find(path, r.Method)

	var paramsMap map[string]string
	if res.IsFound() {
		paramsMap = res.params.Map()
	}
	ctx := m.newContext(ww, r, paramsMap)

	// Recover from panics to prevent server crashes
	defer func() {
		if p := recover(); p != nil {
			panicErr := &panicError{
				value: p,
				stack: debug.Stack(),
			}

			if ww.Written() {
				// Too late for an error response, just log the panic
				m.logger.Error("panic after response written",
					"value", panicErr.value,
					"stack", string(panicErr.stack),
					"path", r.URL.Path,
					"method", r.Method,
					"status", ww.Status(),
				)
			} else {
				m.errorHandler(ctx, panicErr)
			}
		}
	}()

	switch {
	case res.IsMethodNotAllowed():
		// Set Allow header per RFC 7231 before responding with 405
		if !ww.Written() {
			ww.Header().Set("Allow", strings.Join(res.Allowed(), ", "))
		}
		m.errorHandler(ctx, ErrMethodNotAllowed)
		return
	case res.IsNotFound():
		m.errorHandler(ctx, ErrNotFound)
		return
	}

	response := res.Chain().Run(ctx)
	if response == nil {
		m.errorHandler(ctx, ErrNilResponse)
		return
	}

	if err := response(ww, r); err != nil {
		m.errorHandler(ctx, err)
	}
}
