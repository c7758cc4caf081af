package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/ordermgmt/app/models"
	"github.com/shashiranjanraj/ordermgmt/pkg/apperr"
	"github.com/shashiranjanraj/ordermgmt/pkg/orm"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindByID loads an order by id.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (models.Order, error) {
	var o models.Order
	err := orm.Use(ctx, r.db).Model(&models.Order{}).Where("id = ?", id).First(&o)
	return o, translate(err, "order")
}

// Create inserts o.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	err := orm.Use(ctx, r.db).Create(o)
	if isConflict(err) {
		return apperr.Wrap(apperr.KindConflict, err, "order already exists")
	}
	return translate(err, "order")
}

// Update writes fields onto the order with id. Callers load the row first,
// so an unchanged row is not reported as missing.
func (r *OrderRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	_, err := orm.Use(ctx, r.db).Model(&models.Order{}).Where("id = ?", id).Updates(fields)
	return translate(err, "order")
}

// Delete removes the order with id.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	n, err := orm.Use(ctx, r.db).Where("id = ?", id).Delete(&models.Order{})
	if err != nil {
		return translate(err, "order")
	}
	if n == 0 {
		return apperr.NotFound("order not found")
	}
	return nil
}

// Page returns one page of orders, newest first. An empty ownerID means
// every order.
func (r *OrderRepository) Page(ctx context.Context, ownerID string, page, size int) ([]models.Order, orm.Pagination, error) {
	orders := []models.Order{}
	q := orm.Use(ctx, r.db).Model(&models.Order{})
	if ownerID != "" {
		q = q.Where("customer_id = ?", ownerID)
	}
	p, err := q.Order("created_at desc").Order("id").Paginate(&orders, page, size)
	return orders, p, translate(err, "order")
}
