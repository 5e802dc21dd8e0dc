package response

import (
	"net/http"

	"github.com/dmitrymomot/sidemount/core/handler"
)

// render writes a byte payload with the given content type and status.
func render(content []byte, contentType string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if len(content) > 0 {
			_, err := w.Write(content)
			return err
		}
		return nil
	}
}

// String creates a text/plain response with 200 OK status.
func String(content string) handler.Response {
	return render([]byte(content), "text/plain; charset=utf-8", http.StatusOK)
}

// StringWithStatus creates a text/plain response with a custom status code.
func StringWithStatus(content string, status int) handler.Response {
	return render([]byte(content), "text/plain; charset=utf-8", status)
}

// HTML creates a text/html response with 200 OK status.
func HTML(content string) handler.Response {
	return render([]byte(content), "text/html; charset=utf-8", http.StatusOK)
}

// Bytes creates a response with a custom content type and 200 OK status.
func Bytes(content []byte, contentType string) handler.Response {
	return render(content, contentType, http.StatusOK)
}

// Status creates an empty response with the given status code.
func Status(code int) handler.Response {
	return render(nil, "", code)
}

// NoContent creates a 204 No Content response.
func NoContent() handler.Response {
	return Status(http.StatusNoContent)
}

// Redirect creates a 303 See Other redirect to url.
func Redirect(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusSeeOther)
}

// RedirectWithStatus creates a redirect with a custom 3xx status code.
func RedirectWithStatus(url string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		http.Redirect(w, r, url, status)
		return nil
	}
}
