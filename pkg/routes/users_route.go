package routes

import (
	"github.com/goaltracker/goaltracker-backend/app/controllers"
	"github.com/goaltracker/goaltracker-backend/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func RegisterUserRoutes(app *fiber.App) {
	// Public routes
	app.Post("/signup", controllers.UserSignUp)
	app.Post("/signin", controllers.UserSignIn)
	app.Post("/refresh", controllers.RefreshToken)

	// Protected routes
	app.Post("/logout", middleware.JWTProtected(), controllers.UserLogout)

	user := app.Group("/user", middleware.JWTProtected())
	user.Get("/profile", controllers.UserProfile)
	user.Put("/profile", controllers.UpdateUserProfile)
	user.Delete("/profile", controllers.DeleteUserProfile)
}
