package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/smugflex-sys/Final-sub000/app/routes/attendance"
	"github.com/smugflex-sys/Final-sub000/app/routes/auth"
	"github.com/smugflex-sys/Final-sub000/app/routes/classes"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
	"github.com/smugflex-sys/Final-sub000/app/routes/departments"
	"github.com/smugflex-sys/Final-sub000/app/routes/fees"
	"github.com/smugflex-sys/Final-sub000/app/routes/notifications"
	"github.com/smugflex-sys/Final-sub000/app/routes/parents"
	"github.com/smugflex-sys/Final-sub000/app/routes/reports"
	"github.com/smugflex-sys/Final-sub000/app/routes/results"
	"github.com/smugflex-sys/Final-sub000/app/routes/students"
	"github.com/smugflex-sys/Final-sub000/app/routes/subjects"
	"github.com/smugflex-sys/Final-sub000/app/routes/teachers"
)

// New builds the HTTP application with every route group mounted.
func New(d *common.Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "school-dashboard",
		ErrorHandler: common.ErrorHandler(d.Log),
		BodyLimit:    8 * 1024 * 1024,
	})

	app.Use(recover.New())
	if d.Config.IsDev() {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.Config.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "time": d.Clock()})
	})

	auth.SetupAuthRoutes(app, d)
	students.SetupStudentsRoutes(app, d)
	teachers.SetupTeachersRoutes(app, d)
	classes.SetupClassesRoutes(app, d)
	parents.SetupParentsRoutes(app, d)
	subjects.SetupSubjectsRoutes(app, d)
	subjects.SetupAssignmentsRoutes(app, d)
	departments.SetupDepartmentsRoutes(app, d)
	results.SetupResultsRoutes(app, d)
	fees.SetupFeesRoutes(app, d)
	attendance.SetupAttendanceRoutes(app, d)
	notifications.SetupNotificationsRoutes(app, d)
	reports.SetupReportsRoutes(app, d)

	// Catch-all route for 404 errors (must be last)
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Route not found")
	})

	return app
}
