package classes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/auth"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
)

func SetupClassesRoutes(app *fiber.App, d *common.Deps) {
	h := &handler{d}
	classes := &common.Resource[models.Class, *models.Class]{
		Repo:         d.Store.Classes,
		Filters:      []string{"level", "status", "form_teacher_id"},
		Prepare:      h.prepare,
		BeforeDelete: h.beforeDelete,
	}

	api := app.Group("/api/classes")
	api.Use(auth.AuthMiddleware(d), common.StaffOnly)
	api.Get("/", classes.List)
	api.Get("/:id", h.GetClassDetailsAPI)
	api.Get("/:id/students", h.GetClassStudentsAPI)

	// Admin only
	api.Use(auth.AdminOnly())
	api.Post("/", classes.Create)
	api.Put("/:id", classes.Update)
	api.Delete("/:id", classes.Delete)
}
