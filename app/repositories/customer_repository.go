package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/ordermgmt/app/models"
	"github.com/shashiranjanraj/ordermgmt/pkg/apperr"
	"github.com/shashiranjanraj/ordermgmt/pkg/orm"
)

// CustomerRepository handles database operations for Customer.
type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// FindByID loads a customer by id.
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (models.Customer, error) {
	var c models.Customer
	err := orm.Use(ctx, r.db).Model(&models.Customer{}).Where("id = ?", id).First(&c)
	return c, translate(err, "customer")
}

// FindByIDCached is FindByID served through the read-through cache.
func (r *CustomerRepository) FindByIDCached(ctx context.Context, key string, ttl time.Duration, id string) (models.Customer, error) {
	var c models.Customer
	err := orm.Use(ctx, r.db).Model(&models.Customer{}).Where("id = ?", id).Cache(key, ttl, &c)
	return c, translate(err, "customer")
}

// Create inserts c in one statement. A duplicate id or email is Conflict.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	err := orm.Use(ctx, r.db).Create(c)
	if isConflict(err) {
		return apperr.Wrap(apperr.KindConflict, err, "customer id or email already exists")
	}
	return translate(err, "customer")
}

// Update writes fields onto the customer with id. Callers load the row first,
// so an unchanged row is not reported as missing.
func (r *CustomerRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	_, err := orm.Use(ctx, r.db).Model(&models.Customer{}).Where("id = ?", id).Updates(fields)
	if isConflict(err) {
		return apperr.Wrap(apperr.KindConflict, err, "email already in use")
	}
	return translate(err, "customer")
}

// Delete removes the customer with id.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	n, err := orm.Use(ctx, r.db).Where("id = ?", id).Delete(&models.Customer{})
	if err != nil {
		return translate(err, "customer")
	}
	if n == 0 {
		return apperr.NotFound("customer not found")
	}
	return nil
}

// All returns one page of customers, newest first.
func (r *CustomerRepository) All(ctx context.Context, page, size int) ([]models.Customer, orm.Pagination, error) {
	customers := []models.Customer{}
	p, err := orm.Use(ctx, r.db).Model(&models.Customer{}).
		Order("created_at desc").Order("id").
		Paginate(&customers, page, size)
	return customers, p, translate(err, "customer")
}
