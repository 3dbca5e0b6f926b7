package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/devconnector/internal/config"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/dto"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// credentialLimit caps register and login attempts per IP per window.
const credentialLimit = 10

// Setup registers every route. storage backs the rate limiters and may be
// nil for in-memory limits.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	tokens *services.TokenService,
	storage fiber.Storage,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	healthHandler *handlers.HealthHandler,
) {
	app.Get("/greeting", healthHandler.Greeting)

	api := app.Group("/api")

	// General API rate limiter, per IP
	api.Use(newLimiter(cfg.RateLimitMax, cfg.RateLimitWindow, storage, "api:"))

	api.Get("/health", healthHandler.Check)

	authRequired := middleware.AuthRequired(tokens)
	credentials := newLimiter(credentialLimit, cfg.RateLimitWindow, storage, "credentials:")

	// Users & auth
	api.Post("/users", credentials, authHandler.Register)
	api.Post("/auth", credentials, authHandler.Login)
	api.Get("/auth", authRequired, authHandler.Me)

	// Profiles
	profile := api.Group("/profile")
	profile.Get("/", profileHandler.List)
	profile.Get("/me", authRequired, profileHandler.Me)
	profile.Get("/user/:user_id", profileHandler.ByUser)
	profile.Get("/github/:username", profileHandler.GitHubRepos)
	profile.Post("/", authRequired, profileHandler.Upsert)
	profile.Delete("/", authRequired, profileHandler.Delete)
	profile.Put("/experience", authRequired, profileHandler.AddExperience)
	profile.Delete("/experience/:exp_id", authRequired, profileHandler.RemoveExperience)
	profile.Put("/education", authRequired, profileHandler.AddEducation)
	profile.Delete("/education/:edu_id", authRequired, profileHandler.RemoveEducation)
}

func newLimiter(limit int, window time.Duration, storage fiber.Storage, prefix string) fiber.Handler {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:               limit,
		Expiration:        window,
		LimiterMiddleware: limiter.SlidingWindow{},
		Storage:           storage,
		KeyGenerator:      func(c *fiber.Ctx) string { return prefix + c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Msg: "Too many requests, please try again later"})
		},
	})
}
