package controllers

import (
	"errors"
	"time"

	"github.com/goaltracker/goaltracker-backend/app/models"
	"github.com/goaltracker/goaltracker-backend/app/queries"
	"github.com/goaltracker/goaltracker-backend/pkg/database"
	"github.com/goaltracker/goaltracker-backend/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

func UserSignUp(c *fiber.Ctx) error {
	signUp := &models.SignUp{}
	if err := c.BodyParser(signUp); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(signUp); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	if _, err := userQueries.GetUserByEmail(signUp.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered"})
	}
	if _, err := userQueries.GetUserByUsername(signUp.Username); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username already taken"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(signUp.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        signUp.Email,
		Username:     signUp.Username,
		PasswordHash: string(hashedPassword),
		FirstName:    signUp.FirstName,
		LastName:     signUp.LastName,
		Preferences:  models.DefaultPreferences(),
		Created:      time.Now(),
		Updated:      time.Now(),
	}
	if err := userQueries.CreateUser(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func UserSignIn(c *fiber.Ctx) error {
	signIn := &models.SignIn{}
	if err := c.BodyParser(signIn); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(signIn); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	user, err := userQueries.GetUserByEmail(signIn.Email)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(signIn.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	accessToken, expiresIn, err := utils.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	refreshStr, err := utils.GenerateRandomToken(32)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate refresh token"})
	}
	rt := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     refreshStr,
		ExpiresAt: time.Now().Add(time.Duration(utils.RefreshTokenHours()) * time.Hour),
		CreatedAt: time.Now(),
	}
	rtQueries := queries.RefreshTokenQueries{DB: database.DB}
	if err := rtQueries.CreateRefreshToken(rt); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store refresh token"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     utils.AccessTokenCookie,
		Value:    accessToken,
		MaxAge:   expiresIn,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":            "Sign in successful",
		"access_token":       accessToken,
		"expires_in":         expiresIn,
		"refresh_token":      refreshStr,
		"refresh_expires_at": rt.ExpiresAt,
		"user": fiber.Map{
			"id":       user.ID,
			"email":    user.Email,
			"username": user.Username,
		},
	})
}

func RefreshToken(c *fiber.Ctx) error {
	payload := struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}{}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rtQueries := queries.RefreshTokenQueries{DB: database.DB}
	rt, err := rtQueries.GetRefreshTokenByToken(payload.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid refresh token"})
	}
	if rt.Revoked || time.Now().After(rt.ExpiresAt) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Refresh token expired or revoked"})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	user, err := userQueries.GetUserByID(rt.UserID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	accessToken, expiresIn, err := utils.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate access token"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     utils.AccessTokenCookie,
		Value:    accessToken,
		MaxAge:   expiresIn,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"access_token": accessToken, "expires_in": expiresIn})
}

func UserLogout(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	body := struct {
		RefreshToken string `json:"refresh_token"`
	}{}
	_ = c.BodyParser(&body)

	rtQueries := queries.RefreshTokenQueries{DB: database.DB}
	if body.RefreshToken != "" {
		if err := rtQueries.RevokeRefreshTokenByToken(body.RefreshToken); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to revoke refresh token"})
		}
	} else if err := rtQueries.RevokeRefreshTokensByUser(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to revoke refresh tokens for user"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     utils.AccessTokenCookie,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logged out"})
}

func authErrorStatus(err error) int {
	if errors.Is(err, models.ErrUserNotFound) {
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}
