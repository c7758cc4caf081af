// Package resources defines the JSON shape of every model the API returns.
package resources

import (
	"github.com/shashiranjanraj/ordermgmt/app/models"
	"github.com/shashiranjanraj/ordermgmt/pkg/resource"
)

func Order(o models.Order) resource.Map {
	return resource.Map{
		"id":           o.ID,
		"customer_id":  o.CustomerID,
		"order_date":   resource.Date(o.OrderDate),
		"total_amount": resource.Money(o.TotalAmount),
		"status":       o.Status,
		"created_at":   resource.Timestamp(o.CreatedAt),
	}
}

func Customer(c models.Customer) resource.Map {
	return resource.Map{
		"id":         c.ID,
		"name":       c.Name,
		"email":      c.Email,
		"created_at": resource.Timestamp(c.CreatedAt),
	}
}

// User never exposes the password hash.
func User(u models.User) resource.Map {
	return resource.Map{
		"id":         u.ID,
		"username":   u.Username,
		"role":       u.Role,
		"created_at": resource.Timestamp(u.CreatedAt),
	}
}

// Registered is the body returned by POST /auth/register.
func Registered(u models.User) resource.Map {
	return resource.Map{
		"id":       u.ID,
		"username": u.Username,
		"role":     u.Role,
	}
}
