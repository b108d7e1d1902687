package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cloudrental-backend/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// SessionClaims carries the acting principal inside a session token.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateSessionToken(userID string, role domain.UserRole) (string, error)
	ValidateToken(tokenString string) (domain.Principal, error)
}

type tokenManager struct {
	secret []byte
	expiry time.Duration
}

func NewTokenManager(secret string, expiry time.Duration) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
		expiry: expiry,
	}
}

func (m *tokenManager) GenerateSessionToken(userID string, role domain.UserRole) (string, error) {
	claims := SessionClaims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "cloudrental",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (domain.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, ErrExpiredToken
		}
		return domain.Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return domain.Principal{}, ErrInvalidToken
	}
	return domain.Principal{
		UserID: claims.UserID,
		Role:   domain.UserRole(claims.Role),
	}, nil
}
