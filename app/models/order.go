package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status is the lifecycle state of an Order.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Statuses lists every known status in lifecycle order.
var Statuses = []Status{StatusNew, StatusInProgress, StatusCompleted}

// ParseStatus accepts a status name case-insensitively.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, true
		}
	}
	return "", false
}

// DateLayout is the wire format of Order.OrderDate.
const DateLayout = "2006-01-02"

// Order is a purchase owned by the user named in CustomerID.
type Order struct {
	ID          string          `gorm:"type:char(36);primaryKey"          json:"id"`
	CustomerID  string          `gorm:"type:char(36);not null;index"      json:"customer_id"`
	OrderDate   time.Time       `gorm:"type:date;not null"                json:"order_date"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"       json:"total_amount"`
	Status      Status          `gorm:"size:20;not null;default:NEW"      json:"status"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index"              json:"created_at"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// DateOnly truncates t to midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
