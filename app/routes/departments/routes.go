package departments

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/auth"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
)

func SetupDepartmentsRoutes(app *fiber.App, d *common.Deps) {
	h := &handler{d}
	departments := &common.Resource[models.Department, *models.Department]{
		Repo:         d.Store.Departments,
		Filters:      []string{"status", "code"},
		Prepare:      h.prepare,
		BeforeDelete: h.beforeDelete,
	}

	api := app.Group("/api/departments")
	api.Use(auth.AuthMiddleware(d), common.StaffOnly)
	api.Get("/", departments.List)
	api.Get("/:id", departments.Get)
	api.Get("/:id/teachers", h.GetDepartmentTeachersAPI)

	// Admin only
	api.Use(auth.AdminOnly())
	api.Post("/", departments.Create)
	api.Put("/:id", departments.Update)
	api.Delete("/:id", departments.Delete)
	api.Post("/:id/teachers", h.AddTeacherToDepartmentAPI)
	api.Delete("/:id/teachers/:teacherId", h.RemoveTeacherFromDepartmentAPI)
}
