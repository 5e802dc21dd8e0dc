package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/sidemount/core/handler"
)

var (
	// Lookup outcomes surfaced through the error handler by ServeHTTP.
	ErrNotFound         = errors.New("not found")
	ErrMethodNotAllowed = errors.New("method not allowed")

	// Serving errors
	ErrNoContextFactory = errors.New("no context factory provided")
	ErrNilResponse      = errors.New("nil response")

	// Registration errors
	ErrInvalidMethod   = errors.New("invalid http method")
	ErrInvalidPattern  = errors.New("invalid route path pattern")
	ErrNilHandler      = errors.New("nil handler")
	ErrNilRouter       = errors.New("nil router")
	ErrForeignRouter   = errors.New("router was not created by this package")
	ErrMissingHandlers = errors.New("no handlers provided")

	// Tree errors
	ErrMissingChild      = errors.New("missing child node")
	ErrWildcardPosition  = errors.New("wildcard must be the last pattern segment")
	ErrParamDelimiter    = errors.New("malformed parameter segment")
	ErrDuplicateParam    = errors.New("duplicate parameter name")
	ErrParamNameConflict = errors.New("conflicting parameter name")
	ErrDuplicateRoute    = errors.New("duplicate route registration")
)

// statusCode is an unexported interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// defaultErrorHandler renders lookup outcomes and handler failures as plain
// HTTP error responses when no custom handler is configured.
func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()

	// Prevent double-writing responses which causes HTTP protocol errors
	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrMethodNotAllowed):
		status = http.StatusMethodNotAllowed
	default:
		if sc, ok := err.(statusCode); ok {
			status = sc.StatusCode()
		}
	}

	http.Error(w, err.Error(), status)
}

// PanicError gives external error handlers access to the original panic
// value and the stack captured when the router recovered it.
type PanicError interface {
	error
	// Value returns the original panic value.
	Value() any
	// Stack returns the stack trace captured at the panic point.
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Value() any {
	return e.value
}

func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap allows errors.Is/As to work with wrapped panics.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
