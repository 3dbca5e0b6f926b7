package handlers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/devconnector/internal/cache"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/database"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler accepts a nil redis client when rate limiting runs on
// in-memory storage.
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(h.db); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	redisStatus := "disabled"
	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		redisStatus = "ok"
		if err := cache.Ping(ctx, h.redis); err != nil {
			redisStatus = "unhealthy: " + err.Error()
		}
	}

	status := "ok"
	if dbStatus != "ok" {
		status = "degraded"
	}

	return c.JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Redis:     redisStatus,
	})
}

// Greeting handles GET /greeting.
func (h *HealthHandler) Greeting(c *fiber.Ctx) error {
	return c.SendString("Welcome to our API")
}
