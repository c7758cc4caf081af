// Package schema exposes read-only GraphQL queries over orders and
// customers. Every resolver runs as the caller authenticated by the
// middleware chain, with the same access rules as the REST endpoints.
package schema

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/ordermgmt/app/resources"
	"github.com/shashiranjanraj/ordermgmt/app/services"
	"github.com/shashiranjanraj/ordermgmt/pkg/apperr"
	gql "github.com/shashiranjanraj/ordermgmt/pkg/graphql"
	"github.com/shashiranjanraj/ordermgmt/pkg/logger"
	"github.com/shashiranjanraj/ordermgmt/pkg/middleware"
	"github.com/shashiranjanraj/ordermgmt/pkg/orm"
	"github.com/shashiranjanraj/ordermgmt/pkg/resource"
)

// Deps are the services the resolvers call.
type Deps struct {
	Policy    *services.AccessPolicy
	Orders    *services.OrderService
	Customers *services.CustomerService
}

var pageInfoType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PageInfo",
	Fields: graphql.Fields{
		"page":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"size":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"total":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"total_pages": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"customer_id":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"order_date":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"total_amount": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"status":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"created_at":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var customerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Customer",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"name":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"created_at": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var principalType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Principal",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"username": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"role":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

func pageOf(name string, item *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name,
		Fields: graphql.Fields{
			"items":      &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(item)))},
			"pagination": &graphql.Field{Type: graphql.NewNonNull(pageInfoType)},
		},
	})
}

var pageArgs = graphql.FieldConfigArgument{
	"page": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
	"size": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: orm.DefaultPageSize},
}

var idArgs = graphql.FieldConfigArgument{
	"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
}

// New builds the schema.
func New(d Deps) (graphql.Schema, error) {
	r := &resolver{Deps: d}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me":        &graphql.Field{Type: principalType, Resolve: r.me},
			"orders":    &graphql.Field{Type: pageOf("OrderPage", orderType), Args: pageArgs, Resolve: r.orders},
			"order":     &graphql.Field{Type: orderType, Args: idArgs, Resolve: r.order},
			"customers": &graphql.Field{Type: pageOf("CustomerPage", customerType), Args: pageArgs, Resolve: r.customers},
			"customer":  &graphql.Field{Type: customerType, Args: idArgs, Resolve: r.customer},
		},
	})

	return gql.NewSchema(query)
}

type resolver struct {
	Deps
}

func (r *resolver) principal(p graphql.ResolveParams) (services.Principal, error) {
	claims, ok := middleware.ClaimsFromCtx(p.Context)
	if !ok {
		return services.Principal{}, apperr.Unauthorized("authentication required")
	}
	return r.Policy.Resolve(p.Context, claims)
}

// fail logs internal errors before their message is masked.
func fail(p graphql.ResolveParams, err error) error {
	if apperr.KindOf(err) == apperr.KindInternal {
		logger.WithCtx(p.Context).Error("graphql: resolver failed", "field", p.Info.FieldName, "error", err)
	}
	return gql.SafeError(err)
}

func page(items []resource.Map, pg orm.Pagination) resource.Map {
	return resource.Map{
		"items": items,
		"pagination": resource.Map{
			"page":        pg.Page,
			"size":        pg.Size,
			"total":       int(pg.Total),
			"total_pages": pg.TotalPages,
		},
	}
}

func intArg(p graphql.ResolveParams, name string, def int) int {
	if v, ok := p.Args[name].(int); ok {
		return v
	}
	return def
}

func (r *resolver) me(p graphql.ResolveParams) (interface{}, error) {
	who, err := r.principal(p)
	if err != nil {
		return nil, fail(p, err)
	}
	return resource.Map{"id": who.ID, "username": who.Username, "role": string(who.Role)}, nil
}

func (r *resolver) orders(p graphql.ResolveParams) (interface{}, error) {
	who, err := r.principal(p)
	if err != nil {
		return nil, fail(p, err)
	}
	items, pg, err := r.Orders.List(p.Context, who, intArg(p, "page", 1), intArg(p, "size", orm.DefaultPageSize))
	if err != nil {
		return nil, fail(p, err)
	}
	return page(resource.Collection(resources.Order, items), pg), nil
}

func (r *resolver) order(p graphql.ResolveParams) (interface{}, error) {
	who, err := r.principal(p)
	if err != nil {
		return nil, fail(p, err)
	}
	o, err := r.Orders.Get(p.Context, who, p.Args["id"].(string))
	if err != nil {
		return nil, fail(p, err)
	}
	return resources.Order(o), nil
}

func (r *resolver) customers(p graphql.ResolveParams) (interface{}, error) {
	who, err := r.principal(p)
	if err != nil {
		return nil, fail(p, err)
	}
	items, pg, err := r.Customers.List(p.Context, who, intArg(p, "page", 1), intArg(p, "size", orm.DefaultPageSize))
	if err != nil {
		return nil, fail(p, err)
	}
	return page(resource.Collection(resources.Customer, items), pg), nil
}

func (r *resolver) customer(p graphql.ResolveParams) (interface{}, error) {
	who, err := r.principal(p)
	if err != nil {
		return nil, fail(p, err)
	}
	c, err := r.Customers.Get(p.Context, who, p.Args["id"].(string))
	if err != nil {
		return nil, fail(p, err)
	}
	return resources.Customer(c), nil
}
