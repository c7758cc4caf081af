// Package grpc runs the side-car gRPC listener. It serves the standard
// grpc.health.v1.Health service, reporting NOT_SERVING while the readiness
// check (normally a database ping) fails, plus server reflection.
//
//	srv, err := grpc.Start(config.GRPCPort(), func(ctx context.Context) error {
//	    return database.Ping(ctx, database.DB)
//	})
//	// ...run until signal...
//	srv.Stop()
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/shashiranjanraj/ordermgmt/pkg/logger"
	"github.com/shashiranjanraj/ordermgmt/pkg/metrics"
)

// ServiceName is the name reported by the health service besides "".
const ServiceName = "ordermgmt"

var (
	handledTotal = metrics.NewCounter("ordermgmt", "grpc_server_handled_total",
		"Total number of gRPC calls completed by method and code.",
		[]string{"grpc_method", "grpc_code"})

	handlingSeconds = metrics.NewHistogram("ordermgmt", "grpc_server_handling_seconds",
		"Histogram of gRPC response latency in seconds.",
		[]float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		[]string{"grpc_method"})
)

// Checker reports whether the process can serve traffic.
type Checker func(ctx context.Context) error

// ─── Interceptors ─────────────────────────────────────────────────────────────

func recoveryInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("grpc: panic recovered",
				"method", info.FullMethod,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}

// observeInterceptor logs each unary call and records its metrics.
func observeInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	dur := time.Since(start)

	code := status.Code(err)

	handledTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
	handlingSeconds.WithLabelValues(info.FullMethod).Observe(dur.Seconds())

	logger.WithCtx(ctx).Debug("grpc: request",
		"method", info.FullMethod,
		"duration_ms", dur.Milliseconds(),
		"code", code.String(),
	)
	return resp, err
}

// ─── Health service ───────────────────────────────────────────────────────────

// HealthServer implements grpc_health_v1.HealthServer on top of a Checker.
type HealthServer struct {
	grpc_health_v1.UnimplementedHealthServer
	check   Checker
	timeout time.Duration
}

// NewHealthServer wraps check. A nil check always reports SERVING.
func NewHealthServer(check Checker) *HealthServer {
	return &HealthServer{check: check, timeout: 2 * time.Second}
}

func (h *HealthServer) status(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	if h.check == nil {
		return grpc_health_v1.HealthCheckResponse_SERVING
	}
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := h.check(ctx); err != nil {
		logger.Warn("grpc: health check failed", "error", err)
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}

func known(service string) bool {
	return service == "" || service == ServiceName
}

func (h *HealthServer) Check(
	ctx context.Context,
	req *grpc_health_v1.HealthCheckRequest,
) (*grpc_health_v1.HealthCheckResponse, error) {
	if !known(req.GetService()) {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", req.GetService())
	}
	return &grpc_health_v1.HealthCheckResponse{Status: h.status(ctx)}, nil
}

// Watch sends the current status once; clients poll for changes.
func (h *HealthServer) Watch(
	req *grpc_health_v1.HealthCheckRequest,
	stream grpc_health_v1.Health_WatchServer,
) error {
	if !known(req.GetService()) {
		return stream.Send(&grpc_health_v1.HealthCheckResponse{
			Status: grpc_health_v1.HealthCheckResponse_SERVICE_UNKNOWN,
		})
	}
	return stream.Send(&grpc_health_v1.HealthCheckResponse{Status: h.status(stream.Context())})
}

// ─── Server ───────────────────────────────────────────────────────────────────

// Server is a running gRPC listener.
type Server struct {
	srv *grpc.Server
	lis net.Listener
}

// Start listens on port and serves in the background.
func Start(port string, check Checker) (*Server, error) {
	addr := ":" + port

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("grpc: listen on %s: %w", addr, err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(recoveryInterceptor, observeInterceptor),
		grpc.MaxRecvMsgSize(4*1024*1024),
		grpc.MaxSendMsgSize(4*1024*1024),
	)
	grpc_health_v1.RegisterHealthServer(srv, NewHealthServer(check))
	reflection.Register(srv)

	logger.Info("gRPC server starting", "addr", lis.Addr().String())

	go func() {
		if err := srv.Serve(lis); err != nil {
			logger.Error("grpc: serve error", "error", err)
		}
	}()

	return &Server{srv: srv, lis: lis}, nil
}

// Addr is the bound listener address.
func (s *Server) Addr() string { return s.lis.Addr().String() }

// Stop waits for in-flight RPCs, then closes the listener.
func (s *Server) Stop() {
	if s == nil || s.srv == nil {
		return
	}
	logger.Info("gRPC server shutting down")
	s.srv.GracefulStop()
}
