// Package auth issues and validates the service's own HMAC-signed JWTs.
// Decision endpoints are open to any authenticated caller; registration
// administration requires the admin role.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when the token is malformed or its
	// signature does not verify
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the token has expired
	ErrTokenExpired = errors.New("token expired")
)

// Role names carried in the token's role claim.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// Claims represents the claims in a service-issued JWT
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Config holds configuration for TokenService
type Config struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// TokenService issues and validates HMAC-signed JWTs
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService creates a new TokenService
func NewTokenService(config Config) (*TokenService, error) {
	if config.Secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = time.Hour
	}
	return &TokenService{
		secret: []byte(config.Secret),
		issuer: config.Issuer,
		ttl:    config.TokenTTL,
	}, nil
}

// Issue creates a signed token for subject with the given role
func (s *TokenService) Issue(subject, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken validates a JWT and returns its claims
func (s *TokenService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims, nil
}

// IsAdmin reports whether the claims carry the admin role
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
