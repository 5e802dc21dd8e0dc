package handler

// Chain is an ordered handler sequence executed for a matched route.
// Chains are built once at registration time and never mutated afterwards,
// so they can be shared by reference across concurrent requests.
type Chain[C Context] []HandlerFunc[C]

// Compose flattens mounted middleware and route handlers into one chain.
// Both inputs are copied, so later changes to the router's middleware list
// never leak into chains that were already registered.
func Compose[C Context](mounted []HandlerFunc[C], handlers []HandlerFunc[C]) Chain[C] {
	c := make(Chain[C], 0, len(mounted)+len(handlers))
	c = append(c, mounted...)
	c = append(c, handlers...)
	return c
}

// Run executes the chain in order and returns the first non-nil Response.
// Handlers after the short-circuiting one are not invoked. A nil return
// means every handler passed without producing a response.
func (c Chain[C]) Run(ctx C) Response {
	for _, h := range c {
		if resp := h(ctx); resp != nil {
			return resp
		}
	}
	return nil
}
