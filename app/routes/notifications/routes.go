package notifications

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/routes/auth"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
)

func SetupNotificationsRoutes(app *fiber.App, d *common.Deps) {
	h := &handler{d}

	api := app.Group("/api/notifications")
	api.Use(auth.AuthMiddleware(d))
	api.Get("/", h.GetMyNotificationsAPI)
	api.Patch("/:id/read", h.MarkReadAPI)
	api.Post("/read-all", h.MarkAllReadAPI)
	api.Delete("/:id", h.DeleteNotificationAPI)

	// Admin only
	api.Use(auth.AdminOnly())
	api.Post("/", h.CreateNotificationAPI)
	api.Post("/broadcast", h.BroadcastAPI)
}
