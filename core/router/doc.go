// Package router implements a radix-tree HTTP router with flat middleware
// chains, deterministic match precedence and a lock-free read path.
//
// # Registration and serving phases
//
// A router lives through two non-interleaved phases. During startup a
// single goroutine builds the route table with At, Mount and Route. Once
// the first request is served the table is treated as frozen: Find never
// mutates shared state, so lookups run concurrently without locking.
//
//	r := router.New[*router.Context]()
//	r.Mount(middleware.RequestID[*router.Context]())
//	r.At("/users/{id}").Get(showUser).Delete(deleteUser)
//	r.At("/static/*path").Get(serveFile)
//
//	srv := server.New(":8080")
//	srv.Run(ctx, r)
//
// # Pattern syntax
//
// Patterns are slash-delimited. A {name} segment binds a parameter
// consuming exactly one non-empty segment. A trailing * or *name binds a
// wildcard consuming the rest of the path, delimiters included; nothing
// may follow it. Captured values are available through Context.Param and
// through RouteResult.Params on direct Find calls.
//
// # Match precedence
//
// At every branch point static children are tried first, then the param
// child, then the wildcard child. Precedence is a search order, not a
// greedy commit: when a static branch dead-ends deeper in the tree the
// walk backtracks and retries the param and wildcard branches, so a
// static route and a parameterized sibling can coexist at the same depth.
//
// # Middleware
//
// Middleware are plain handlers mounted with Mount. At registration time
// the mounted handlers and the route's own handlers are flattened into
// one chain per (path, method); execution is strictly in order and any
// handler returning a non-nil Response short-circuits the rest. Mounting
// is not retroactive: routes registered before a Mount call keep their
// shorter chain.
//
// # Sub-routers
//
// Route grafts a fully built router under a prefix by re-inserting its
// routes, recomposing each chain as [parent middleware] ++ [sub chain].
// The graft is a snapshot; mutating the sub-router afterwards has no
// effect on the parent.
//
// # Errors and conflicts
//
// Route table mistakes are programmer errors and fail startup: duplicate
// (path, method) registrations, conflicting parameter names at one tree
// position, duplicate names within a pattern and non-terminal wildcards
// all panic with wrapped sentinel errors naming the offending pattern.
// Missing routes at request time are not errors: Find returns NotFound or
// MethodNotAllowed outcomes for the caller to render, and ServeHTTP maps
// them to 404 and 405 (with an Allow header) through the error handler.
package router
