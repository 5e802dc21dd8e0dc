package server

import "time"

// Defaults applied by New. Each one can be overridden with the matching
// functional option or through the Config environment variables.
const (
	// DefaultReadTimeout bounds reading the full request, header and body.
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout bounds writing the response.
	DefaultWriteTimeout = 15 * time.Second

	// DefaultIdleTimeout closes keep-alive connections left idle.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout is how long Stop waits for in-flight requests
	// before giving up.
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultMaxHeaderBytes caps request header size at 1 MB.
	DefaultMaxHeaderBytes = 1 << 20
)
