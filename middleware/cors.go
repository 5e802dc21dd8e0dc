package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/sidemount/core/handler"
	"github.com/dmitrymomot/sidemount/core/response"
)

// CORSConfig configures Cross-Origin Resource Sharing handling.
type CORSConfig struct {
	// Skip bypasses CORS handling for specific requests
	Skip func(ctx handler.Context) bool

	// AllowOrigins lists allowed origins; empty defaults to "*"
	AllowOrigins []string

	// AllowMethods lists allowed methods; empty defaults to
	// GET, HEAD, PUT, PATCH, POST, DELETE
	AllowMethods []string

	// AllowHeaders lists allowed request headers
	AllowHeaders []string

	// ExposeHeaders lists headers exposed to the client
	ExposeHeaders []string

	// AllowCredentials permits cookies and authorization headers.
	// Incompatible with wildcard origins.
	AllowCredentials bool

	// MaxAge caches preflight responses for this many seconds
	MaxAge int
}

// CORS returns a chain handler allowing all origins with common methods.
// Preflight OPTIONS requests short-circuit with 204; all other requests
// pass through after the CORS headers are set.
func CORS[C handler.Context]() handler.HandlerFunc[C] {
	return CORSWithConfig[C](CORSConfig{})
}

// CORSWithConfig returns a CORS chain handler with custom configuration.
func CORSWithConfig[C handler.Context](cfg CORSConfig) handler.HandlerFunc[C] {
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = []string{
			http.MethodGet, http.MethodHead, http.MethodPut,
			http.MethodPatch, http.MethodPost, http.MethodDelete,
		}
	}
	allowMethods := strings.Join(cfg.AllowMethods, ", ")
	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ", ")
	wildcard := slices.Contains(cfg.AllowOrigins, "*")

	return func(ctx C) handler.Response {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return nil
		}

		r := ctx.Request()
		origin := r.Header.Get("Origin")
		if origin == "" {
			return nil // not a cross-origin request
		}

		allowOrigin := ""
		switch {
		case wildcard && !cfg.AllowCredentials:
			allowOrigin = "*"
		case slices.Contains(cfg.AllowOrigins, origin):
			allowOrigin = origin
		case wildcard && cfg.AllowCredentials:
			// Credentials require echoing the concrete origin.
			allowOrigin = origin
		}
		if allowOrigin == "" {
			if r.Method == http.MethodOptions {
				return response.Status(http.StatusForbidden)
			}
			return nil
		}

		h := ctx.ResponseWriter().Header()
		h.Add("Vary", "Origin")
		h.Set("Access-Control-Allow-Origin", allowOrigin)
		if cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		if exposeHeaders != "" {
			h.Set("Access-Control-Expose-Headers", exposeHeaders)
		}

		if r.Method != http.MethodOptions {
			return nil
		}

		// Preflight: answer here, the endpoint never runs.
		h.Set("Access-Control-Allow-Methods", allowMethods)
		if allowHeaders != "" {
			h.Set("Access-Control-Allow-Headers", allowHeaders)
		} else if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
			h.Set("Access-Control-Allow-Headers", reqHeaders)
		}
		if cfg.MaxAge > 0 {
			h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}
		return response.Status(http.StatusNoContent)
	}
}
