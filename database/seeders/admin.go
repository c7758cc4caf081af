package seeders

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/ordermgmt/app/models"
	"github.com/shashiranjanraj/ordermgmt/app/repositories"
	"github.com/shashiranjanraj/ordermgmt/app/services"
	"github.com/shashiranjanraj/ordermgmt/config"
	"github.com/shashiranjanraj/ordermgmt/pkg/apperr"
	"github.com/shashiranjanraj/ordermgmt/pkg/logger"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates the ADMIN_USERNAME account with ADMIN_PASSWORD. It does
// nothing when either is unset or the account already exists.
func SeedAdmin(ctx context.Context, db *gorm.DB) error {
	username, password := config.AdminUsername(), config.AdminPassword()
	if username == "" || password == "" {
		logger.Info("seed: ADMIN_USERNAME/ADMIN_PASSWORD not set, skipping admin")
		return nil
	}

	_, err := services.NewAuthService(repositories.NewUserRepository(db)).
		Register(ctx, username, password, string(models.RoleAdmin))
	if apperr.KindOf(err) == apperr.KindConflict {
		logger.Info("seed: admin already exists", "username", username)
		return nil
	}
	return err
}
