package grpc_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	rpc "github.com/shashiranjanraj/ordermgmt/pkg/grpc"
)

func TestHealthCheckFollowsChecker(t *testing.T) {
	var down error
	h := rpc.NewHealthServer(func(context.Context) error { return down })

	res, err := h.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, res.Status)

	down = errors.New("database: ping: connection refused")
	res, err = h.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: rpc.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, res.Status)
}

func TestHealthCheckUnknownService(t *testing.T) {
	h := rpc.NewHealthServer(nil)

	_, err := h.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: "billing"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestStartServesHealth(t *testing.T) {
	srv, err := rpc.Start("0", nil)
	require.NoError(t, err)
	t.Cleanup(srv.Stop)

	_, port, err := net.SplitHostPort(srv.Addr())
	require.NoError(t, err)

	conn, err := grpc.NewClient("127.0.0.1:"+port, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	res, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, res.Status)
}
