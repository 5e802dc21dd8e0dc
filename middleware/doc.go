// Package middleware ships two flavors of cross-cutting request handling.
//
// Chain middleware (RequestID, CORS, RateLimit) are plain handler.HandlerFunc
// values mounted on a router; they run in chain order after routing, can read
// path parameters, and short-circuit by returning a terminal Response:
//
//	r := router.New[*router.Context]()
//	r.Mount(middleware.RequestID[*router.Context]())
//	r.Mount(middleware.CORS[*router.Context]())
//
// Transport middleware (Logging, Metrics) need to observe the completed
// response (status code, bytes, duration), so they wrap the router as a
// standard http.Handler before it is handed to the server:
//
//	h := middleware.Logging(middleware.LoggingConfig{Logger: logger})(
//		middleware.Metrics()(r),
//	)
//	srv.Run(ctx, h)
package middleware
