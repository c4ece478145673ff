package main

import (
	"log"
	"time"

	"github.com/goaltracker/goaltracker-backend/app/models"
	"github.com/goaltracker/goaltracker-backend/app/queries"
	"github.com/goaltracker/goaltracker-backend/pkg/database"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the schema and a demo account with a small goal tree. Safe to run
// repeatedly: it skips seeding when the demo user already exists.
func main() {
	_ = godotenv.Load()

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	defer database.CloseDB()

	if err := database.SetupSchema(db); err != nil {
		log.Fatalf("Failed to set up schema: %v", err)
	}

	userQueries := queries.UserQueries{DB: db}
	if _, err := userQueries.GetUserByEmail("demo@goaltracker.com"); err == nil {
		log.Println("Sample data already exists, skipping")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        "demo@goaltracker.com",
		Username:     "demouser",
		PasswordHash: string(hash),
		FirstName:    "Demo",
		LastName:     "User",
		Preferences:  models.DefaultPreferences(),
		Created:      now,
		Updated:      now,
	}
	if err := userQueries.CreateUser(user); err != nil {
		log.Fatalf("Failed to create sample user: %v", err)
	}
	log.Printf("Sample user created: %s", user.Email)

	gq := queries.GoalQueries{DB: db}

	maxTen := 10.0
	root := models.NewGoal(user.ID, &models.CreateGoalRequest{
		Name:        "Weekly Workouts",
		Description: "Exercise 3 times per week to stay healthy",
		Unit:        "times",
		Target:      3,
		Timeframe:   "weekly",
		MaxTarget:   &maxTen,
	}, now)
	if err := gq.CreateGoal(root); err != nil {
		log.Fatalf("Failed to create root goal: %v", err)
	}

	scaleTen := 10.0
	sets := models.NewGoal(user.ID, &models.CreateGoalRequest{
		Name:         "Complete 3 Sets",
		Description:  "Do 3 sets per workout session",
		Unit:         "sets",
		Target:       3,
		Timeframe:    "daily",
		ScalePercent: &scaleTen,
	}, now)
	sets.ParentID = &root.ID
	if err := gq.CreateGoal(sets); err != nil {
		log.Fatalf("Failed to create subgoal: %v", err)
	}

	// A reset-frequency goal: succeed 5 daily sub-periods per monthly period.
	stepsTarget := 8000.0
	steps := models.NewGoal(user.ID, &models.CreateGoalRequest{
		Name:           "Active Days",
		Description:    "Hit the daily step count",
		Unit:           "steps",
		Target:         5,
		Timeframe:      "monthly",
		ResetFrequency: "daily",
		ResetTarget:    &stepsTarget,
	}, now)
	steps.ParentID = &root.ID
	if err := gq.CreateGoal(steps); err != nil {
		log.Fatalf("Failed to create reset goal: %v", err)
	}

	// A decrease-direction goal: lower is better.
	minZero := 0.0
	screen := models.NewGoal(user.ID, &models.CreateGoalRequest{
		Name:          "Screen Time",
		Description:   "Keep weekly screen time under control",
		Unit:          "hours",
		Target:        20,
		Timeframe:     "weekly",
		GoalDirection: "decrease",
		MinTarget:     &minZero,
	}, now)
	if err := gq.CreateGoal(screen); err != nil {
		log.Fatalf("Failed to create decrease goal: %v", err)
	}

	log.Println("Sample goals created")
}
