package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shashiranjanraj/ordermgmt/app/models"
	"github.com/shashiranjanraj/ordermgmt/pkg/apperr"
	"github.com/shashiranjanraj/ordermgmt/pkg/auth"
	"github.com/shashiranjanraj/ordermgmt/pkg/logger"
	"github.com/shashiranjanraj/ordermgmt/pkg/metrics"
	"github.com/shashiranjanraj/ordermgmt/pkg/orm"
)

// UserStore persists users.
type UserStore interface {
	UserLookup
	FindByID(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	All(ctx context.Context, page, size int) ([]models.User, orm.Pagination, error)
}

const badCredentials = "invalid username or password"

// dummyHash is compared against when the username is unknown so both
// failure paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword("ordermgmt-unknown-user")
	return h
})

type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates an account. role may be empty (USER).
func (s *AuthService) Register(ctx context.Context, username, password, role string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, apperr.InvalidArgument("username and password are required")
	}

	r, ok := models.ParseRole(role)
	if !ok {
		return models.User{}, apperr.InvalidArgument("role must be ADMIN or USER")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{Username: username, Password: hash, Role: r}
	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, err
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return user, nil
}

// Login checks credentials and issues a token. Unknown users and wrong
// passwords fail identically.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperr.KindOf(err) != apperr.KindNotFound {
			return "", err
		}
		auth.CheckPassword(dummyHash(), password)
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return "", apperr.Unauthorized(badCredentials)
	}

	if !auth.CheckPassword(user.Password, password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		logger.WithCtx(ctx).Info("login failed", "username", user.Username)
		return "", apperr.Unauthorized(badCredentials)
	}

	token, err := auth.GenerateToken(user.Username, string(user.Role))
	if err != nil {
		return "", err
	}
	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return token, nil
}

// Validate parses a bearer token.
func (s *AuthService) Validate(token string) (*auth.Claims, error) {
	claims, err := auth.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return nil, apperr.Wrap(apperr.KindUnauthorized, err, "invalid or expired token")
		}
		return nil, err
	}
	return claims, nil
}

// Users lists accounts for administrators.
func (s *AuthService) Users(ctx context.Context, principal Principal, page, size int) ([]models.User, orm.Pagination, error) {
	if err := RequireAdmin(principal); err != nil {
		return nil, orm.Pagination{}, err
	}
	return s.users.All(ctx, page, size)
}
