package results

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/auth"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
)

// SetupResultsRoutes sets up all results-related routes
func SetupResultsRoutes(app *fiber.App, d *common.Deps) {
	h := &handler{d}

	api := app.Group("/api/results")
	api.Use(auth.AuthMiddleware(d))
	api.Get("/grading", h.GetGradingAPI)
	api.Get("/students/:id", h.GetReportCardAPI)

	api.Use(common.StaffOnly)
	api.Get("/", h.GetScoresAPI)
	api.Get("/:id", h.GetScoreAPI)

	// Score entry
	api.Use(auth.RoleMiddleware(models.RoleAdmin, models.RoleTeacher))
	api.Post("/", h.CreateScoreAPI)
	api.Post("/batch", h.BatchSaveScoresAPI)
	api.Post("/compile", h.CompileResultsAPI)
	api.Put("/:id", h.UpdateScoreAPI)
	api.Delete("/:id", h.DeleteScoreAPI)
}
