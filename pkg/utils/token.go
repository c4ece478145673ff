package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Defaults; overridable through ACCESS_TOKEN_MINUTES / REFRESH_TOKEN_HOURS.
const (
	DefaultAccessTokenMinutes = 15
	DefaultRefreshTokenHours  = 7 * 24
)

func AccessTokenMinutes() int {
	if v := os.Getenv("ACCESS_TOKEN_MINUTES"); v != "" {
		if iv, err := strconv.Atoi(v); err == nil && iv > 0 {
			return iv
		}
	}
	return DefaultAccessTokenMinutes
}

func RefreshTokenHours() int {
	if v := os.Getenv("REFRESH_TOKEN_HOURS"); v != "" {
		if iv, err := strconv.Atoi(v); err == nil && iv > 0 {
			return iv
		}
	}
	return DefaultRefreshTokenHours
}

// GenerateAccessToken mints a short-lived HS256 token carrying the user id.
// It returns the signed token and its lifetime in seconds.
func GenerateAccessToken(userID uuid.UUID, email string) (string, int, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", 0, errors.New("JWT secret not set")
	}

	minutes := AccessTokenMinutes()
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"email":   email,
		"exp":     time.Now().Add(time.Duration(minutes) * time.Minute).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", 0, err
	}
	return signed, minutes * 60, nil
}

// ParseAccessToken validates a signed access token and returns the user id
// it carries.
func ParseAccessToken(tokenString string) (uuid.UUID, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return uuid.Nil, errors.New("JWT secret not set")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) { return []byte(secret), nil })
	if err != nil || !token.Valid {
		return uuid.Nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid token claims")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, errors.New("invalid token payload")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid user id in token")
	}
	return userID, nil
}

// GenerateRandomToken returns n random bytes hex-encoded, used for opaque
// refresh tokens.
func GenerateRandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
