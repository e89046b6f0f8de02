package parents

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/auth"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
)

func SetupParentsRoutes(app *fiber.App, d *common.Deps) {
	h := &handler{d}
	parents := &common.Resource[models.Parent, *models.Parent]{
		Repo:         d.Store.Parents,
		Filters:      []string{"phone", "email", "user_id"},
		Prepare:      h.prepare,
		BeforeDelete: h.unlinkChildren,
	}

	api := app.Group("/api/parents")
	api.Use(auth.AuthMiddleware(d))
	api.Get("/me", auth.RoleMiddleware(models.RoleParent), h.GetMyChildrenAPI)

	api.Use(common.StaffOnly)
	api.Get("/", parents.List)
	api.Get("/:id", parents.Get)
	api.Get("/:id/children", h.GetChildrenAPI)

	// Admin only
	api.Use(auth.AdminOnly())
	api.Post("/", parents.Create)
	api.Put("/:id", parents.Update)
	api.Delete("/:id", parents.Delete)
}
