package utils

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AccessTokenCookie is the cookie the signin handler sets alongside the JSON
// response, for browser clients that do not manage the bearer header.
const AccessTokenCookie = "access_token"

// TokenFromRequest pulls the access token from the Authorization header or,
// failing that, the access_token cookie.
func TokenFromRequest(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), nil
	}
	if cookie := c.Cookies(AccessTokenCookie); cookie != "" {
		return cookie, nil
	}
	return "", errors.New("missing Authorization bearer token")
}

// ExtractUserID resolves the authenticated user id for a request.
func ExtractUserID(c *fiber.Ctx) (uuid.UUID, error) {
	tokenString, err := TokenFromRequest(c)
	if err != nil {
		return uuid.Nil, err
	}
	return ParseAccessToken(tokenString)
}
