package reports

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/auth"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
)

func SetupReportsRoutes(app *fiber.App, d *common.Deps) {
	h := &handler{d}

	api := app.Group("/api/reports")
	api.Use(auth.AuthMiddleware(d), common.StaffOnly)
	api.Get("/dashboard", h.GetDashboardStatsAPI)
	api.Get("/classes/:id/broadsheet", auth.RoleMiddleware(models.RoleAdmin, models.RoleTeacher), h.GetBroadsheetAPI)
	api.Get("/fees", auth.RoleMiddleware(models.RoleAdmin, models.RoleAccountant), h.GetFeesReportAPI)
}
