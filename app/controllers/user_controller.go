package controllers

import (
	"github.com/goaltracker/goaltracker-backend/app/models"
	"github.com/goaltracker/goaltracker-backend/app/queries"
	"github.com/goaltracker/goaltracker-backend/pkg/database"
	"github.com/goaltracker/goaltracker-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

func UserProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	user, err := userQueries.GetUserByID(userID)
	if err != nil {
		return c.Status(authErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	gq := queries.GoalQueries{DB: database.DB}
	goalCount, err := gq.CountGoalsByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count goals"})
	}

	return c.JSON(fiber.Map{"user": user, "goal_count": goalCount})
}

func UpdateUserProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	req := &models.UpdateUserRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	user, err := userQueries.GetUserByID(userID)
	if err != nil {
		return c.Status(authErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Username != nil && *req.Username != user.Username {
		if _, err := userQueries.GetUserByUsername(*req.Username); err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username already taken"})
		}
		user.Username = *req.Username
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Preferences != nil {
		user.Preferences = *req.Preferences
	}

	if err := userQueries.UpdateUser(&user); err != nil {
		return c.Status(authErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(user)
}

// DeleteUserProfile removes the account along with its goals and sessions.
func DeleteUserProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	gq := queries.GoalQueries{DB: database.DB}
	if err := gq.DeleteGoalsByUser(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete goals"})
	}

	rtQueries := queries.RefreshTokenQueries{DB: database.DB}
	if err := rtQueries.RevokeRefreshTokensByUser(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to revoke sessions"})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	if err := userQueries.DeleteUser(userID); err != nil {
		return c.Status(authErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Account deleted"})
}
