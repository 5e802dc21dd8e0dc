package handler

import "net/http"

// Response renders the terminal HTTP response for a request.
// It sets headers and status code and writes the body; rendering
// errors are passed to the router's error handler.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc is a single invocable unit in a handler chain.
// Returning a non-nil Response is terminal: it short-circuits the rest
// of the chain and is rendered as the request's outcome. Returning nil
// passes control to the next handler. Middleware and endpoint handlers
// share this one type; an endpoint simply always returns a Response.
type HandlerFunc[C Context] func(ctx C) Response

// ErrorHandler handles errors raised while serving a request,
// including lookup outcomes the transport maps to 404/405.
type ErrorHandler[C Context] func(ctx C, err error)
