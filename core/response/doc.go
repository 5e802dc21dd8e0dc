// Package response provides handler.Response constructors for the common
// payload shapes: plain text, HTML, JSON, redirects and error bodies.
// Handlers return these values to terminate a chain; middleware can use
// them to short-circuit (for example a 401 before the endpoint runs).
package response
