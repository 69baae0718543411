package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/policy"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	tokenService *services.TokenService,
	authService *services.AuthService,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	eventHandler *handlers.EventHandler,
	categoryHandler *handlers.CategoryHandler,
	userHandler *handlers.UserHandler,
) {
	api := app.Group("/api")

	// General API rate limiter, per IP
	api.Use(limiter.New(limiter.Config{
		Max:               cfg.RateLimitPerMin,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	protected := middleware.JWTProtected(tokenService, authService)
	optional := middleware.OptionalAuth(tokenService, authService)
	signedIn := middleware.Require(policy.IsAuthenticated)
	superuser := middleware.SuperuserRequired()

	api.Get("/health", healthHandler.Check)

	// Credential endpoints get a stricter limit
	credentials := limiter.New(limiter.Config{
		Max:               authRateLimit(cfg),
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	users := api.Group("/users")
	users.Post("/signup", credentials, authHandler.SignUp)
	users.Post("/signin", credentials, authHandler.SignIn)
	users.Post("/token/refresh", credentials, authHandler.Refresh)
	users.Post("/logout", protected, authHandler.Logout)
	users.Get("/:id", userHandler.Get)
	users.Get("/:id/saved_events", userHandler.SavedEvents)

	// Events: anyone reads, the creator writes
	api.Get("/events", optional, eventHandler.List)
	api.Post("/events", protected, eventHandler.Create)
	api.Get("/events/:id", optional, eventHandler.Get)
	api.Put("/events/:id", protected, eventHandler.Update)
	api.Patch("/events/:id", protected, eventHandler.Update)
	api.Delete("/events/:id", protected, eventHandler.Delete)
	api.Post("/events/:id/attend", protected, signedIn, eventHandler.Attend)
	api.Post("/events/:id/toggle_save", protected, signedIn, eventHandler.ToggleSave)

	// Categories: public reads, superuser writes
	api.Get("/categories", categoryHandler.List)
	api.Get("/categories/:id", categoryHandler.Get)
	api.Post("/categories", protected, superuser, categoryHandler.Create)
	api.Put("/categories/:id", protected, superuser, categoryHandler.Update)
	api.Patch("/categories/:id", protected, superuser, categoryHandler.Update)
	api.Delete("/categories/:id", protected, superuser, categoryHandler.Delete)
}

func authRateLimit(cfg *config.Config) int {
	if n := cfg.RateLimitPerMin / 6; n > 10 {
		return n
	}
	return 10
}
