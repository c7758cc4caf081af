// Package server owns the listen/serve/shutdown lifecycle of the HTTP
// listener and, when configured, the gRPC health listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/shashiranjanraj/ordermgmt/pkg/grpc"
	"github.com/shashiranjanraj/ordermgmt/pkg/logger"
)

type Options struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string
	// GRPCPort starts the gRPC health server when non-empty.
	GRPCPort string
	// Health backs the gRPC health service.
	Health grpc.Checker
	// ShutdownTimeout bounds how long in-flight requests may drain.
	ShutdownTimeout time.Duration
	// OnListen is called with the bound HTTP address.
	OnListen func(addr string)
}

// Run serves handler until ctx is cancelled or the listener fails, then
// drains in-flight requests and stops the gRPC server.
func Run(ctx context.Context, handler http.Handler, opts Options) error {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 15 * time.Second
	}

	lis, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", opts.Addr, err)
	}

	var rpc *grpc.Server
	if opts.GRPCPort != "" {
		if rpc, err = grpc.Start(opts.GRPCPort, opts.Health); err != nil {
			lis.Close()
			return err
		}
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(lis) }()

	addr := lis.Addr().String()
	logger.Info("HTTP server listening", "addr", addr)
	if opts.OnListen != nil {
		opts.OnListen(addr)
	}

	select {
	case err := <-errCh:
		rpc.Stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	rpc.Stop()
	if err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
