package attendance

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/auth"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
)

func SetupAttendanceRoutes(app *fiber.App, d *common.Deps) {
	h := &handler{d}

	api := app.Group("/api/attendance")
	api.Use(auth.AuthMiddleware(d))
	api.Get("/students/:id/summary", h.GetStudentSummaryAPI)

	api.Use(common.StaffOnly)
	api.Get("/", h.GetAttendanceAPI)
	api.Get("/class/:classId/date/:date", h.GetClassRegisterAPI)

	api.Use(auth.RoleMiddleware(models.RoleAdmin, models.RoleTeacher))
	api.Post("/", h.MarkRegisterAPI)
}
