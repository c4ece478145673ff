package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/goaltracker/goaltracker-backend/app/models"
	"github.com/goaltracker/goaltracker-backend/app/queries"
	"github.com/goaltracker/goaltracker-backend/pkg/database"
	"github.com/goaltracker/goaltracker-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func goalErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrGoalNotFound),
		errors.Is(err, models.ErrParentNotFound),
		errors.Is(err, models.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrNotOwner), errors.Is(err, models.ErrParentOwnership):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrInvalidDirection), errors.Is(err, models.ErrInvalidRange):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// mutateGoal runs one read-modify-write cycle against a goal the caller must
// own. The write is conditional on the updated stamp read at load time; a
// concurrent writer triggers one reload-and-reapply before giving up.
func mutateGoal(gq *queries.GoalQueries, id, ownerID uuid.UUID, fn func(*models.Goal) error) (models.Goal, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		goal, err := gq.GetGoalByID(id)
		if err != nil {
			return models.Goal{}, err
		}
		if goal.UserID != ownerID {
			return models.Goal{}, models.ErrNotOwner
		}
		prev := goal.Updated
		if err := fn(&goal); err != nil {
			return models.Goal{}, err
		}
		if err := gq.UpdateGoal(&goal, prev); err != nil {
			if errors.Is(err, models.ErrConflict) {
				lastErr = err
				continue
			}
			return models.Goal{}, err
		}
		return goal, nil
	}
	return models.Goal{}, lastErr
}

// refreshGoals settles lazily elapsed periods/sub-periods on a read path and
// persists any transition. A conflict means a concurrent writer already
// settled the goal; the refreshed in-memory copy is still what we return.
func refreshGoals(gq *queries.GoalQueries, goals []models.Goal, now time.Time) {
	for i := range goals {
		prev := goals[i].Updated
		if goals[i].Refresh(now) {
			if err := gq.UpdateGoal(&goals[i], prev); err != nil && !errors.Is(err, models.ErrConflict) {
				log.Println("failed to persist refreshed goal:", err)
			}
		}
	}
}

func pathUserID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("userId"))
}

func CreateGoal(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	req := &models.CreateGoalRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	goal := models.NewGoal(userID, req, time.Now())
	if goal.MinTarget > goal.MaxTarget {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": models.ErrInvalidRange.Error()})
	}

	gq := queries.GoalQueries{DB: database.DB}
	if req.ParentID != "" {
		parentID, err := uuid.Parse(req.ParentID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid parent_id"})
		}
		parent, err := gq.GetGoalByID(parentID)
		if err != nil {
			if errors.Is(err, models.ErrGoalNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": models.ErrParentNotFound.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to look up parent goal"})
		}
		if parent.UserID != userID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": models.ErrParentOwnership.Error()})
		}
		goal.ParentID = &parentID
	}

	if err := gq.CreateGoal(goal); err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create goal"})
	}

	return c.Status(fiber.StatusCreated).JSON(goal)
}

func GetGoalByID(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid goal id"})
	}

	gq := queries.GoalQueries{DB: database.DB}
	goal, err := gq.GetGoalByID(goalID)
	if err != nil {
		return c.Status(goalErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if goal.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": models.ErrNotOwner.Error()})
	}

	goals := []models.Goal{goal}
	refreshGoals(&gq, goals, time.Now())
	return c.JSON(goals[0])
}

func GetSubgoals(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid goal id"})
	}

	gq := queries.GoalQueries{DB: database.DB}
	goal, err := gq.GetGoalByID(goalID)
	if err != nil {
		return c.Status(goalErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if goal.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": models.ErrNotOwner.Error()})
	}

	subgoals, err := gq.FindSubgoals(goalID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get subgoals"})
	}
	refreshGoals(&gq, subgoals, time.Now())
	if subgoals == nil {
		subgoals = []models.Goal{}
	}
	return c.JSON(subgoals)
}

func GetUserGoals(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	pathID, err := pathUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}
	if pathID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "cannot list another user's goals"})
	}

	filter := queries.GoalFilter{
		IncludeArchived: c.Query("include_archived") == "true",
		Timeframe:       c.Query("timeframe"),
		GoalDirection:   c.Query("goal_direction"),
	}

	gq := queries.GoalQueries{DB: database.DB}
	goals, err := gq.GetGoalsByUser(userID, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get goals"})
	}
	refreshGoals(&gq, goals, time.Now())
	if goals == nil {
		goals = []models.Goal{}
	}
	return c.JSON(goals)
}

func GetRootGoals(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	pathID, err := pathUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}
	if pathID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "cannot list another user's goals"})
	}

	gq := queries.GoalQueries{DB: database.DB}
	goals, err := gq.FindRootGoals(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get root goals"})
	}
	refreshGoals(&gq, goals, time.Now())
	if goals == nil {
		goals = []models.Goal{}
	}
	return c.JSON(goals)
}

func GetGoalTree(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	pathID, err := pathUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}
	if pathID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "cannot list another user's goals"})
	}

	gq := queries.GoalQueries{DB: database.DB}
	goals, err := gq.GetActiveGoalsByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get goal tree"})
	}
	refreshGoals(&gq, goals, time.Now())

	tree := models.AssembleForest(goals)
	if tree == nil {
		tree = []*models.Goal{}
	}
	return c.JSON(tree)
}

func UpdateGoal(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid goal id"})
	}

	req := &models.UpdateGoalRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	gq := queries.GoalQueries{DB: database.DB}
	goal, err := mutateGoal(&gq, goalID, userID, func(g *models.Goal) error {
		g.ApplyUpdate(req)
		if g.MinTarget > g.MaxTarget {
			return models.ErrInvalidRange
		}
		return nil
	})
	if err != nil {
		return c.Status(goalErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(goal)
}

func LogProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid goal id"})
	}

	req := &models.LogProgressRequest{}
	if err := c.BodyParser(req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	increment := 1.0
	if req.Increment != nil {
		increment = *req.Increment
	}

	gq := queries.GoalQueries{DB: database.DB}
	goal, err := mutateGoal(&gq, goalID, userID, func(g *models.Goal) error {
		g.LogProgress(increment, time.Now())
		return nil
	})
	if err != nil {
		return c.Status(goalErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(goal)
}

func ManualScale(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid goal id"})
	}

	req := &models.ManualScaleRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": models.ErrInvalidDirection.Error()})
	}

	gq := queries.GoalQueries{DB: database.DB}
	goal, err := mutateGoal(&gq, goalID, userID, func(g *models.Goal) error {
		return g.ManualScale(req.Direction, time.Now())
	})
	if err != nil {
		return c.Status(goalErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(goal)
}

func ToggleArchive(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid goal id"})
	}

	gq := queries.GoalQueries{DB: database.DB}
	goal, err := mutateGoal(&gq, goalID, userID, func(g *models.Goal) error {
		// No cascade: descendants keep their own flag.
		g.IsArchived = !g.IsArchived
		return nil
	})
	if err != nil {
		return c.Status(goalErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(goal)
}

func DeleteGoal(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid goal id"})
	}

	gq := queries.GoalQueries{DB: database.DB}
	goal, err := gq.GetGoalByID(goalID)
	if err != nil {
		return c.Status(goalErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if goal.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": models.ErrNotOwner.Error()})
	}

	deleted, err := gq.DeleteGoalAndSubgoals(goalID)
	if err != nil {
		return c.Status(goalErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Goal and subgoals deleted successfully", "deleted": deleted})
}
