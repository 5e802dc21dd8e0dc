package server

import "errors"

var (
	// ErrMissingAddress is returned when no server address is provided.
	ErrMissingAddress = errors.New("server address is required")

	// ErrServerAlreadyRunning is returned by Start on a running server.
	ErrServerAlreadyRunning = errors.New("server is already running")

	// ErrServerNotRunning is returned by Stop on a stopped server.
	ErrServerNotRunning = errors.New("server is not running")
)
