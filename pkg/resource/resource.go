// Package resource turns models into the JSON shapes the API returns.
//
// A transformer is a plain function from a model to a Map:
//
//	func Order(o models.Order) resource.Map {
//	    return resource.Map{"id": o.ID, "status": o.Status}
//	}
//
//	cx.Success(resource.One(Order, order))
//	cx.Paginated(resource.Collection(Order, orders), pagination)
package resource

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/goccy/go-json"

	"github.com/shashiranjanraj/ordermgmt/pkg/collection"
)

// Map is the output of a transformer.
type Map = map[string]interface{}

// Transformer converts one model into a Map.
type Transformer[T any] func(T) Map

// One transforms a single model.
func One[T any](t Transformer[T], v T) Map { return t(v) }

// Collection transforms every item. An empty input yields an empty list,
// never null.
func Collection[T any](t Transformer[T], items []T) []Map {
	return collection.Map(items, t)
}

// Date formats t as a calendar date.
func Date(t time.Time) string { return t.UTC().Format("2006-01-02") }

// Timestamp formats t as RFC 3339 in UTC.
func Timestamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// Money renders d as a JSON number with two decimals.
func Money(d decimal.Decimal) json.Number { return json.Number(d.StringFixed(2)) }
