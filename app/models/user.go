package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the access level of a User.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole accepts a role name case-insensitively. An empty name is USER.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case "", RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// User is an account that can authenticate and own orders.
type User struct {
	ID        string    `gorm:"type:char(36);primaryKey"          json:"id"`
	Username  string    `gorm:"size:100;uniqueIndex;not null"     json:"username"`
	Password  string    `gorm:"size:255;not null"                 json:"-"` // bcrypt hash, never serialised
	Role      Role      `gorm:"size:20;not null;default:USER"     json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime"                    json:"created_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
