package response

import (
	"net/http"

	"github.com/dmitrymomot/sidemount/core/handler"
)

// statusCode is implemented by errors that carry an HTTP status.
type statusCode interface {
	StatusCode() int
}

// Error renders err as a JSON error body. The status code comes from the
// error when it implements StatusCode() int, otherwise 500 is used.
func Error(err error) handler.Response {
	status := http.StatusInternalServerError
	if sc, ok := err.(statusCode); ok {
		status = sc.StatusCode()
	}
	return ErrorWithStatus(err, status)
}

// ErrorWithStatus renders err as a JSON error body with the given status.
func ErrorWithStatus(err error, status int) handler.Response {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	return JSONWithStatus(map[string]string{"error": msg}, status)
}
