// internal/auth/jwt.go
package auth

import (
	"errors"
	"log/slog"
	"time"

	"expense-tracker/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenService struct {
	secretKey []byte
	expiresIn time.Duration
}

func NewTokenService(cfg config.Config) *TokenService {
	return &TokenService{
		secretKey: []byte(cfg.JWTSecret),
		expiresIn: cfg.JWTExpiresIn,
	}
}

// GenerateToken issues an HS256 bearer token carrying the user id.
func (s *TokenService) GenerateToken(userID uuid.UUID) (string, error) {
	expTime := time.Now().Add(s.expiresIn)
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     expTime.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(s.secretKey)
	if err == nil {
		slog.Debug("JWT generated", "user_id", userID, "expires_at", expTime.Format(time.RFC3339))
	}
	return tokenStr, err
}

// ParseToken validates a token and returns the user id it carries.
func (s *TokenService) ParseToken(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if idStr, ok := claims["user_id"].(string); ok {
			userID, err := uuid.Parse(idStr)
			if err != nil {
				return uuid.Nil, errors.New("invalid user_id claim")
			}
			return userID, nil
		}
	}
	return uuid.Nil, errors.New("invalid token claims")
}
