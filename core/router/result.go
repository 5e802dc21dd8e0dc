package router

import "github.com/dmitrymomot/sidemount/core/handler"

type resultKind uint8

const (
	resultNotFound resultKind = iota
	resultMethodNotAllowed
	resultMatched
)

// Params holds the path parameters captured during a lookup, preserving
// the order in which they appear in the matched pattern. The zero value
// is an empty parameter set.
type Params struct {
	keys   []string
	values []string
}

// Len returns the number of captured parameters.
func (p Params) Len() int { return len(p.keys) }

// Get returns the value captured for key, or "" when key is absent.
func (p Params) Get(key string) string {
	for i := range p.keys {
		if p.keys[i] == key {
			return p.values[i]
		}
	}
	return ""
}

// Keys returns the parameter names in pattern order.
func (p Params) Keys() []string { return p.keys }

// Map returns the parameters as a freshly allocated map.
func (p Params) Map() map[string]string {
	if len(p.keys) == 0 {
		return nil
	}
	m := make(map[string]string, len(p.keys))
	for i := range p.keys {
		if i < len(p.values) {
			m[p.keys[i]] = p.values[i]
		}
	}
	return m
}

// RouteResult is the outcome of a Find call: matched with a chain and
// captured params, not found, or method not allowed with the set of
// methods that are registered. Missing routes are routine data for the
// caller to render as 404/405, never errors.
type RouteResult[C handler.Context] struct {
	chain   handler.Chain[C]
	params  Params
	allowed []string
	kind    resultKind
}

// IsFound reports whether the lookup matched a registered route.
func (r RouteResult[C]) IsFound() bool { return r.kind == resultMatched }

// IsNotFound reports whether no pattern matched the path.
func (r RouteResult[C]) IsNotFound() bool { return r.kind == resultNotFound }

// IsMethodNotAllowed reports whether the path matched but the method has
// no handler registered.
func (r RouteResult[C]) IsMethodNotAllowed() bool { return r.kind == resultMethodNotAllowed }

// Chain returns the composed handler chain on a match, nil otherwise.
func (r RouteResult[C]) Chain() handler.Chain[C] { return r.chain }

// Params returns the parameters captured on a match.
func (r RouteResult[C]) Params() Params { return r.params }

// Allowed returns the methods registered at the matched node when the
// result is method-not-allowed, intended for an Allow response header.
func (r RouteResult[C]) Allowed() []string { return r.allowed }
