package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
)

func SetupAuthRoutes(app *fiber.App, d *common.Deps) {
	h := &handler{d}
	api := app.Group("/api/auth")

	// Public routes
	api.Post("/login", h.LoginAPI)
	api.Post("/refresh", h.RefreshAPI)

	// Protected routes
	api.Use(AuthMiddleware(d))
	api.Post("/logout", h.LogoutAPI)
	api.Get("/me", h.MeAPI)
	api.Post("/change-password", h.ChangePasswordAPI)
}

// AuthMiddleware validates the bearer token and sets the user context.
func AuthMiddleware(d *common.Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "No token found")
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		claims, err := ValidateJWT(d.Config.JWTSecret, tokenString, d.Clock)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		user := claims.User()
		c.Locals("user_id", user.ID)
		c.Locals("user_role", user.Role)
		c.Locals("user", user)

		return c.Next()
	}
}

// RoleMiddleware checks if user has required role
func RoleMiddleware(allowedRoles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if HasRole(c, allowedRoles...) {
			return c.Next()
		}
		return fiber.NewError(fiber.StatusForbidden, "Insufficient permissions")
	}
}

// CurrentUser returns the user set by AuthMiddleware.
func CurrentUser(c *fiber.Ctx) *models.User {
	return common.CurrentUser(c)
}

// HasRole reports whether the current user has one of roles.
func HasRole(c *fiber.Ctx, roles ...models.Role) bool {
	return common.HasRole(c, roles...)
}

// AdminOnly is RoleMiddleware(models.RoleAdmin).
func AdminOnly() fiber.Handler {
	return RoleMiddleware(models.RoleAdmin)
}
