package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/ordermgmt/app/models"
	"github.com/shashiranjanraj/ordermgmt/pkg/apperr"
	"github.com/shashiranjanraj/ordermgmt/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername looks up a user by their login name.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := orm.Use(ctx, r.db).Model(&models.User{}).Where("username = ?", username).First(&user)
	return user, translate(err, "user")
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := orm.Use(ctx, r.db).Model(&models.User{}).Where("id = ?", id).First(&user)
	return user, translate(err, "user")
}

// Create inserts user. A taken username is reported as Conflict.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := orm.Use(ctx, r.db).Create(user)
	if isConflict(err) {
		return apperr.Wrap(apperr.KindConflict, err, "username already taken")
	}
	return translate(err, "user")
}

// All returns one page of users, newest first.
func (r *UserRepository) All(ctx context.Context, page, size int) ([]models.User, orm.Pagination, error) {
	var users []models.User
	p, err := orm.Use(ctx, r.db).Model(&models.User{}).
		Order("created_at desc").Order("id").
		Paginate(&users, page, size)
	return users, p, translate(err, "user")
}
