package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/ordermgmt/config"
)

// ErrInvalidToken is returned for any token that fails parsing, signature,
// algorithm or expiry checks.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims holds the typed JWT payload. The subject is the username.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Username returns the token subject.
func (c *Claims) Username() string { return c.Subject }

func secret() []byte {
	return []byte(config.JWTSecret())
}

// GenerateToken creates a signed HS256 JWT for username valid for JWT_TTL.
func GenerateToken(username, role string) (string, error) {
	return IssueToken(username, role, config.JWTTTL())
}

// IssueToken creates a signed HS256 JWT that expires after ttl.
func IssueToken(username, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ValidateToken parses and validates a JWT string. Only HS256 tokens signed
// with the configured secret, carrying a subject and an unexpired exp, pass.
func ValidateToken(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret(), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
