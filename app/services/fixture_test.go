package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/ordermgmt/app/repositories"
	"github.com/shashiranjanraj/ordermgmt/app/services"
	"github.com/shashiranjanraj/ordermgmt/pkg/auth"
	"github.com/shashiranjanraj/ordermgmt/pkg/testkit"
)

type fixture struct {
	ctx       context.Context
	auth      *services.AuthService
	policy    *services.AccessPolicy
	orders    *services.OrderService
	customers *services.CustomerService
	orderRepo *repositories.OrderRepository

	admin, alice, bob services.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testkit.NewDB(t)
	users := repositories.NewUserRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	f := &fixture{
		ctx:       context.Background(),
		auth:      services.NewAuthService(users),
		policy:    services.NewAccessPolicy(users),
		orders:    services.NewOrderService(orderRepo, users, services.MustParseTransitionTable(services.DefaultTransitions)),
		customers: services.NewCustomerService(repositories.NewCustomerRepository(db), time.Minute),
		orderRepo: orderRepo,
	}

	f.admin = f.principal(t, "root", "ADMIN")
	f.alice = f.principal(t, "alice", "USER")
	f.bob = f.principal(t, "bob", "")
	return f
}

func (f *fixture) principal(t *testing.T, username, role string) services.Principal {
	t.Helper()

	_, err := f.auth.Register(f.ctx, username, username+"-password", role)
	require.NoError(t, err)

	p, err := f.policy.Resolve(f.ctx, claimsFor(username, role))
	require.NoError(t, err)
	return p
}

func claimsFor(username, role string) *auth.Claims {
	return &auth.Claims{Role: role, RegisteredClaims: jwt.RegisteredClaims{Subject: username}}
}

func ptr[T any](v T) *T { return &v }
