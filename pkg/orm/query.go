package orm

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/ordermgmt/pkg/metrics"
)

// Cacher is the read-through store used by Query.Cache. It is set at boot
// from pkg/cache so neither package imports the other.
type Cacher interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

var CacheStore Cacher

// Pagination is the metadata returned alongside a page of rows.
type Pagination struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePage clamps page to >= 1 and size to 1..MaxPageSize.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

type Query struct {
	db *gorm.DB
}

// Use starts a query against db scoped to ctx.
func Use(ctx context.Context, db *gorm.DB) *Query {
	return &Query{db: db.WithContext(ctx)}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Get(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.First(dest).Error
}

func (q *Query) Create(value interface{}) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.db.Create(value).Error
}

// Updates writes the non-zero fields of value (struct) or every key (map).
func (q *Query) Updates(value interface{}) (int64, error) {
	defer metrics.ObserveDBQuery("update", time.Now())
	res := q.db.Updates(value)
	return res.RowsAffected, res.Error
}

// Delete removes rows matching the current conditions and reports how many
// were affected.
func (q *Query) Delete(model interface{}) (int64, error) {
	defer metrics.ObserveDBQuery("delete", time.Now())
	res := q.db.Delete(model)
	return res.RowsAffected, res.Error
}

// Paginate counts the matching rows, then loads one page into dest.
func (q *Query) Paginate(dest interface{}, page, size int) (Pagination, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	page, size = NormalizePage(page, size)
	p := Pagination{Page: page, Size: size}

	// Count and Find each get their own copy of the statement.
	if err := q.db.Session(&gorm.Session{}).Count(&p.Total).Error; err != nil {
		return p, err
	}
	p.TotalPages = int(math.Ceil(float64(p.Total) / float64(size)))

	if err := q.db.Session(&gorm.Session{}).Offset((page - 1) * size).Limit(size).Find(dest).Error; err != nil {
		return p, err
	}
	return p, nil
}

// Cache loads the first matching row into dest, serving it from CacheStore
// under key when present.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	ctx := q.db.Statement.Context
	if CacheStore != nil && ttl > 0 && CacheStore.Get(ctx, key, dest) {
		return nil
	}

	if err := q.First(dest); err != nil {
		return err
	}

	if CacheStore != nil && ttl > 0 {
		_ = CacheStore.Set(ctx, key, dest, ttl)
	}
	return nil
}
