// Package server runs an http.Handler with graceful shutdown.
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, router))
//	return g.Wait()
//
// Run starts the server and, when ctx is cancelled, drains in-flight requests
// for up to the shutdown timeout. Binding ":0" picks a free port; Addr reports
// the bound address while running.
package server
