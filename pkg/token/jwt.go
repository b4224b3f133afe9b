package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// AdminClaims are the claims carried by an admin-console access token
type AdminClaims struct {
	Email     string `json:"email"`
	Staff     bool   `json:"staff"`
	Superuser bool   `json:"superuser"`
	jwt.RegisteredClaims
}

// JwtService issues and parses admin-console access tokens
type JwtService struct {
	secret []byte
	issuer string
	expiry time.Duration
}

// Option configures a JwtService
type Option func(*JwtService)

// WithExpiry overrides the default 15 minute token lifetime
func WithExpiry(d time.Duration) Option {
	return func(s *JwtService) {
		s.expiry = d
	}
}

// NewJwtService creates a new JWT service
func NewJwtService(secret, issuer string, opts ...Option) *JwtService {
	s := &JwtService{
		secret: []byte(secret),
		issuer: issuer,
		expiry: 15 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAccessToken signs an access token for a staff account
func (s *JwtService) CreateAccessToken(accountID uuid.UUID, email string, staff, superuser bool) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Email:     email,
		Staff:     staff,
		Superuser: superuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken validates a token string and returns its claims
func (s *JwtService) ParseToken(tokenStr string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AdminClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
