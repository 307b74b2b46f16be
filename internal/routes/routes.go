package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/kyotenhq/kyoten-backend/internal/auth"
	"github.com/kyotenhq/kyoten-backend/internal/config"
	"github.com/kyotenhq/kyoten-backend/internal/handlers"
	"github.com/kyotenhq/kyoten-backend/internal/middleware"
	"github.com/kyotenhq/kyoten-backend/internal/repository"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db repository.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	userHandler *handlers.UserHandler,
	roleHandler *handlers.RoleHandler,
	locationHandler *handlers.LocationHandler,
	assignmentHandler *handlers.UserLocationHandler,
	itemHandler *handlers.ItemHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	authGroup := api.Group("/auth")
	authGroup.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/password-reset/request", authHandler.RequestPasswordReset)
	authGroup.Post("/password-reset/confirm", authHandler.ConfirmPasswordReset)

	// Everything below requires a valid access token and an active account.
	protected := api.Group("", middleware.JWTProtected(cfg), middleware.LoadUser(db))

	protected.Get("/auth/me", authHandler.Me)

	// Users — listing and mutation are superuser-only; reading a single
	// user needs the users read permission.
	users := protected.Group("/users")
	users.Get("/", middleware.RequireSuperuser(), userHandler.List)
	users.Post("/", middleware.RequireSuperuser(), userHandler.Create)
	users.Get("/:id", middleware.RequirePermission(auth.PermReadUsers), userHandler.Get)
	users.Put("/:id", middleware.RequireSuperuser(), userHandler.Update)
	users.Delete("/:id", middleware.RequireSuperuser(), userHandler.Delete)

	// Roles
	roles := protected.Group("/roles")
	roles.Get("/", middleware.RequirePermission(auth.PermReadRoles), roleHandler.List)
	roles.Get("/permissions", middleware.RequirePermission(auth.PermReadRoles), roleHandler.Permissions)
	roles.Get("/:id", middleware.RequirePermission(auth.PermReadRoles), roleHandler.Get)
	roles.Post("/", middleware.RequirePermission(auth.PermWriteRoles), roleHandler.Create)
	roles.Put("/:id", middleware.RequirePermission(auth.PermWriteRoles), roleHandler.Update)
	roles.Delete("/:id", middleware.RequirePermission(auth.PermWriteRoles), roleHandler.Delete)

	// Locations
	locations := protected.Group("/locations")
	locations.Get("/", middleware.RequirePermission(auth.PermReadLocations), locationHandler.List)
	locations.Get("/code/:code", middleware.RequirePermission(auth.PermReadLocations), locationHandler.GetByCode)
	locations.Get("/:id", middleware.RequirePermission(auth.PermReadLocations), locationHandler.Get)
	locations.Post("/", middleware.RequirePermission(auth.PermWriteLocations), locationHandler.Create)
	locations.Put("/:id", middleware.RequirePermission(auth.PermWriteLocations), locationHandler.Update)
	locations.Delete("/:id", middleware.RequirePermission(auth.PermManageLocations), locationHandler.Delete)

	// Assignments share the location permissions: they describe who works
	// where, not account data.
	assignments := protected.Group("/user-locations")
	assignments.Post("/", middleware.RequirePermission(auth.PermWriteLocations), assignmentHandler.Create)
	assignments.Get("/availability/:user_id/:location_id", middleware.RequirePermission(auth.PermReadLocations), assignmentHandler.CheckAvailability)
	assignments.Get("/user/:user_id", middleware.RequirePermission(auth.PermReadLocations), assignmentHandler.ListByUser)
	assignments.Get("/location/:location_id", middleware.RequirePermission(auth.PermReadLocations), assignmentHandler.ListLocationUsers)
	assignments.Get("/:id", middleware.RequirePermission(auth.PermReadLocations), assignmentHandler.Get)
	assignments.Put("/:id", middleware.RequirePermission(auth.PermWriteLocations), assignmentHandler.Update)
	assignments.Delete("/:id", middleware.RequirePermission(auth.PermWriteLocations), assignmentHandler.Delete)

	// Items — ownership is enforced in the service, no extra permission.
	items := protected.Group("/items")
	items.Get("/", itemHandler.List)
	items.Post("/", itemHandler.Create)
	items.Get("/:id", itemHandler.Get)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)
}
