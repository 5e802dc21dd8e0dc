// Package server is the thin transport shell around the router: a
// graceful net/http wrapper with environment-driven configuration.
//
//	cfg, err := server.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := srv.Run(ctx, r); err != nil {
//		log.Fatal(err)
//	}
//
// The server owns connection lifecycle concerns only; routing, parameter
// capture and handler execution live in core/router.
package server
