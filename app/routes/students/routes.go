package students

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/auth"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
)

func SetupStudentsRoutes(app *fiber.App, d *common.Deps) {
	h := &handler{Deps: d}
	h.resource = &common.Resource[models.Student, *models.Student]{
		Repo:         d.Store.Students,
		Prepare:      h.prepare,
		BeforeDelete: h.beforeDelete,
		Changed:      h.changed,
	}

	api := app.Group("/api/students")
	api.Use(auth.AuthMiddleware(d), common.StaffOnly)
	api.Get("/", h.GetStudentsAPI)
	api.Get("/:id", h.resource.Get)

	// Admin only
	api.Use(auth.AdminOnly())
	api.Post("/", h.resource.Create)
	api.Post("/promote", h.PromoteStudentsAPI)
	api.Post("/import", h.ImportStudentsAPI)
	api.Put("/:id", h.resource.Update)
	api.Delete("/:id", h.resource.Delete)
}
