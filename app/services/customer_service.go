package services

import (
	"context"
	"strings"
	"time"

	"github.com/shashiranjanraj/ordermgmt/app/models"
	"github.com/shashiranjanraj/ordermgmt/pkg/bind"
	"github.com/shashiranjanraj/ordermgmt/pkg/cache"
	"github.com/shashiranjanraj/ordermgmt/pkg/logger"
	"github.com/shashiranjanraj/ordermgmt/pkg/orm"
)

// CustomerStore persists customers.
type CustomerStore interface {
	FindByID(ctx context.Context, id string) (models.Customer, error)
	FindByIDCached(ctx context.Context, key string, ttl time.Duration, id string) (models.Customer, error)
	Create(ctx context.Context, c *models.Customer) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	All(ctx context.Context, page, size int) ([]models.Customer, orm.Pagination, error)
}

type CreateCustomerInput struct {
	ID    string `json:"id"    validate:"nullable,max=36"`
	Name  string `json:"name"  validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
}

type UpdateCustomerInput struct {
	Name  *string `json:"name"  validate:"nullable,min=1,max=255"`
	Email *string `json:"email" validate:"nullable,email,max=255"`
}

type CustomerService struct {
	customers CustomerStore
	ttl       time.Duration
}

// NewCustomerService caches single-customer reads for ttl. A zero ttl
// disables caching.
func NewCustomerService(customers CustomerStore, ttl time.Duration) *CustomerService {
	return &CustomerService{customers: customers, ttl: ttl}
}

// Every method requires an admin principal, judged by the stored role
// that AccessPolicy.Resolve loaded.

func (s *CustomerService) List(ctx context.Context, principal Principal, page, size int) ([]models.Customer, orm.Pagination, error) {
	if err := RequireAdmin(principal); err != nil {
		return nil, orm.Pagination{}, err
	}
	return s.customers.All(ctx, page, size)
}

func (s *CustomerService) Get(ctx context.Context, principal Principal, id string) (models.Customer, error) {
	if err := RequireAdmin(principal); err != nil {
		return models.Customer{}, err
	}
	return s.customers.FindByIDCached(ctx, cacheKey(id), s.ttl, id)
}

// Create stores a customer in one INSERT. A taken id or email is Conflict.
func (s *CustomerService) Create(ctx context.Context, principal Principal, in CreateCustomerInput) (models.Customer, error) {
	if err := RequireAdmin(principal); err != nil {
		return models.Customer{}, err
	}
	if err := bind.Check(in); err != nil {
		return models.Customer{}, err
	}

	c := models.Customer{
		ID:    strings.TrimSpace(in.ID),
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
	}
	if err := s.customers.Create(ctx, &c); err != nil {
		return models.Customer{}, err
	}

	logger.WithCtx(ctx).Info("customer created", "customer_id", c.ID, "actor", principal.Username)
	return c, nil
}

func (s *CustomerService) Update(ctx context.Context, principal Principal, id string, in UpdateCustomerInput) (models.Customer, error) {
	if err := RequireAdmin(principal); err != nil {
		return models.Customer{}, err
	}
	if err := bind.Check(in); err != nil {
		return models.Customer{}, err
	}

	current, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return models.Customer{}, err
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		fields["email"] = strings.TrimSpace(*in.Email)
	}
	if len(fields) == 0 {
		return current, nil
	}

	if err := s.customers.Update(ctx, id, fields); err != nil {
		return models.Customer{}, err
	}
	s.forget(ctx, id)

	return s.customers.FindByID(ctx, id)
}

func (s *CustomerService) Delete(ctx context.Context, principal Principal, id string) error {
	if err := RequireAdmin(principal); err != nil {
		return err
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return err
	}
	s.forget(ctx, id)

	logger.WithCtx(ctx).Info("customer deleted", "customer_id", id, "actor", principal.Username)
	return nil
}

func (s *CustomerService) forget(ctx context.Context, id string) {
	if err := cache.Del(ctx, cacheKey(id)); err != nil {
		logger.WithCtx(ctx).Warn("cache invalidation failed", "customer_id", id, "error", err.Error())
	}
}

func cacheKey(id string) string { return cache.Key("customer", id) }
