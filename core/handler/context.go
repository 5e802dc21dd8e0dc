package handler

import (
	"context"
	"net/http"
)

// Context is the request-scoped value handed to every handler in a chain.
// It carries the underlying request/response pair and the path parameters
// captured by the router. Custom context types implement this interface
// and are plugged in through the router's context factory option.
type Context interface {
	context.Context

	// Request returns the underlying HTTP request.
	Request() *http.Request

	// ResponseWriter returns the underlying response writer.
	ResponseWriter() http.ResponseWriter

	// Param returns the captured path parameter for key, or "" if absent.
	Param(key string) string

	// SetValue stores a request-scoped value visible to later handlers
	// in the chain via Value.
	SetValue(key, val any)
}
