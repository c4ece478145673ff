package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goaltracker/goaltracker-backend/pkg/database"
	"github.com/goaltracker/goaltracker-backend/pkg/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	app := fiber.New()

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowCredentials: true,
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Goal Tracker API",
			"version": "1.0.0",
			"status":  "running",
		})
	})
	app.Get("/api/health", func(c *fiber.Ctx) error {
		dbStatus := "connected"
		if database.DB == nil || database.DB.Ping() != nil {
			dbStatus = "disconnected"
		}
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"database":  dbStatus,
		})
	})

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	if err := database.SetupSchema(db); err != nil {
		log.Fatalf("Failed to set up schema: %v", err)
	}

	routes.RegisterUserRoutes(app)
	routes.RegisterGoalsRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server")
		_ = app.Shutdown()
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}

	if err := database.CloseDB(); err != nil {
		log.Println(err)
	}
}

func allowedOrigins() string {
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		return origins
	}
	return "http://localhost:3000, http://localhost:3001, http://localhost:5173"
}
