// Package handler defines the handler capability shared by the router and
// middleware packages: a HandlerFunc processes a typed request context and
// either short-circuits with a terminal Response or passes control to the
// next handler in its Chain.
//
// Unlike wrapper-style middleware, a chain is a flat slice. Mounted
// middleware and route handlers composed together contribute plain elements
// to the same sequence, so dispatch cost is O(chain length) with no nesting:
//
//	auth := func(ctx *router.Context) handler.Response {
//		if ctx.Request().Header.Get("Authorization") == "" {
//			return response.Status(http.StatusUnauthorized)
//		}
//		return nil // pass to the next handler
//	}
//
//	r := router.New[*router.Context]()
//	r.Mount(auth)
//	r.At("/users/{id}").Get(showUser)
//
// The generic type parameter C lets applications substitute their own
// context implementation while keeping handlers fully type-safe.
package handler
