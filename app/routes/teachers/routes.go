package teachers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/auth"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
)

func SetupTeachersRoutes(app *fiber.App, d *common.Deps) {
	h := &handler{Deps: d}
	teachers := &common.Resource[models.Teacher, *models.Teacher]{
		Repo:         d.Store.Teachers,
		Filters:      []string{"department_id", "status", "user_id"},
		Prepare:      h.prepare,
		BeforeDelete: h.beforeDelete,
	}

	api := app.Group("/api/teachers")
	api.Use(auth.AuthMiddleware(d), common.StaffOnly)
	api.Get("/", teachers.List)
	api.Get("/:id", teachers.Get)
	api.Get("/:id/assignments", h.GetTeacherAssignmentsAPI)

	// Admin only
	api.Use(auth.AdminOnly())
	api.Post("/", teachers.Create)
	api.Post("/import", h.ImportTeachersAPI)
	api.Put("/:id", teachers.Update)
	api.Delete("/:id", teachers.Delete)
}
