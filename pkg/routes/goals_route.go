package routes

import (
	"github.com/goaltracker/goaltracker-backend/app/controllers"
	"github.com/goaltracker/goaltracker-backend/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func RegisterGoalsRoutes(app *fiber.App) {
	goal := app.Group("/goals", middleware.JWTProtected())
	goal.Post("/", controllers.CreateGoal)
	goal.Get("/:id", controllers.GetGoalByID)
	goal.Put("/:id", controllers.UpdateGoal)
	goal.Delete("/:id", controllers.DeleteGoal)
	goal.Get("/:id/subgoals", controllers.GetSubgoals)

	// Goal actions
	goal.Post("/:id/progress", controllers.LogProgress)
	goal.Post("/:id/scale", controllers.ManualScale)
	goal.Patch("/:id/archive", controllers.ToggleArchive)

	// User-scoped listings
	users := app.Group("/users", middleware.JWTProtected())
	users.Get("/:userId/goals", controllers.GetUserGoals)
	users.Get("/:userId/goals/root", controllers.GetRootGoals)
	users.Get("/:userId/goals/tree", controllers.GetGoalTree)
}
