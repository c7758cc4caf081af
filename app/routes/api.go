// Package routes wires repositories, services and controllers onto the
// router.
package routes

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/ordermgmt/app/controllers"
	"github.com/shashiranjanraj/ordermgmt/app/repositories"
	"github.com/shashiranjanraj/ordermgmt/app/schema"
	"github.com/shashiranjanraj/ordermgmt/app/services"
	"github.com/shashiranjanraj/ordermgmt/config"
	"github.com/shashiranjanraj/ordermgmt/pkg/ctx"
	"github.com/shashiranjanraj/ordermgmt/pkg/graphql"
	"github.com/shashiranjanraj/ordermgmt/pkg/middleware"
	"github.com/shashiranjanraj/ordermgmt/pkg/rbac"
	"github.com/shashiranjanraj/ordermgmt/pkg/router"
)

// RegisterAPI mounts every application route on r, backed by db.
func RegisterAPI(r *router.Router, db *gorm.DB) error {
	transitions, err := services.ParseTransitionTable(config.OrderTransitions())
	if err != nil {
		return fmt.Errorf("routes: ORDER_TRANSITIONS: %w", err)
	}

	users := repositories.NewUserRepository(db)
	policy := services.NewAccessPolicy(users)
	authService := services.NewAuthService(users)
	orderService := services.NewOrderService(repositories.NewOrderRepository(db), users, transitions)
	customerService := services.NewCustomerService(repositories.NewCustomerRepository(db), config.CacheTTL())

	gqlSchema, err := schema.New(schema.Deps{
		Policy:    policy,
		Orders:    orderService,
		Customers: customerService,
	})
	if err != nil {
		return fmt.Errorf("routes: graphql schema: %w", err)
	}

	authController := controllers.NewAuthController(authService, policy)
	userController := controllers.NewUserController(authService, policy)
	customerController := controllers.NewCustomerController(customerService, policy, r)
	orderController := controllers.NewOrderController(orderService, policy, r)

	public := r.Group("/auth")
	public.Post("/register", "auth.register", ctx.Wrap(authController.Register))
	public.Post("/login", "auth.login", ctx.Wrap(authController.Login))

	protected := r.Group("", middleware.Authenticate)
	protected.Get("/auth/me", "auth.me", ctx.Wrap(authController.Me))
	protected.Get("/users", "users.index", ctx.Wrap(userController.Index), rbac.Admin)

	customers := protected.Group("/customers", rbac.Admin)
	customers.Get("", "customers.index", ctx.Wrap(customerController.Index))
	customers.Post("", "customers.store", ctx.Wrap(customerController.Store))
	customers.Get("/{id}", "customers.show", ctx.Wrap(customerController.Show))
	customers.Put("/{id}", "customers.update", ctx.Wrap(customerController.Update))
	customers.Delete("/{id}", "customers.destroy", ctx.Wrap(customerController.Destroy))

	orders := protected.Group("/orders")
	orders.Get("", "orders.index", ctx.Wrap(orderController.Index))
	orders.Post("", "orders.store", ctx.Wrap(orderController.Store))
	orders.Get("/{id}", "orders.show", ctx.Wrap(orderController.Show))
	orders.Put("/{id}", "orders.update", ctx.Wrap(orderController.Update))
	orders.Delete("/{id}", "orders.destroy", ctx.Wrap(orderController.Destroy))

	gql := graphql.Handler(gqlSchema)
	protected.Post("/graphql", "graphql", gql)
	protected.Get("/graphql", "graphql.get", gql)

	return nil
}
