package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is an entry in the admin-managed contact directory.
type Customer struct {
	ID        string    `gorm:"type:char(36);primaryKey"      json:"id"`
	Name      string    `gorm:"size:255;not null"             json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime"                json:"created_at"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
