package resource_test

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/ordermgmt/pkg/resource"
)

type line struct {
	SKU   string
	Price decimal.Decimal
	At    time.Time
}

func lineResource(l line) resource.Map {
	return resource.Map{
		"sku":   l.SKU,
		"price": resource.Money(l.Price),
		"day":   resource.Date(l.At),
	}
}

func TestCollectionShape(t *testing.T) {
	at := time.Date(2024, 3, 15, 23, 30, 0, 0, time.FixedZone("X", -2*3600))
	out := resource.Collection(lineResource, []line{{SKU: "a", Price: decimal.RequireFromString("19.9"), At: at}})

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"sku":"a","price":19.90,"day":"2024-03-16"}]`, string(raw))
}

func TestEmptyCollectionIsList(t *testing.T) {
	raw, err := json.Marshal(resource.Collection(lineResource, nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}
