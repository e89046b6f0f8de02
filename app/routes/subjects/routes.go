package subjects

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/auth"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
)

func SetupSubjectsRoutes(app *fiber.App, d *common.Deps) {
	h := &handler{d}
	subjects := &common.Resource[models.Subject, *models.Subject]{
		Repo:         d.Store.Subjects,
		Filters:      []string{"department_id", "code"},
		Prepare:      h.prepareSubject,
		BeforeDelete: h.beforeDeleteSubject,
		Changed:      h.subjectChanged,
	}

	api := app.Group("/api/subjects")
	api.Use(auth.AuthMiddleware(d), common.StaffOnly)
	api.Get("/", subjects.List)
	api.Get("/:id", subjects.Get)

	// Admin only
	api.Use(auth.AdminOnly())
	api.Post("/", subjects.Create)
	api.Put("/:id", subjects.Update)
	api.Delete("/:id", subjects.Delete)
}

// SetupAssignmentsRoutes registers the subject assignment endpoints: which
// teacher teaches a subject in a class for a session.
func SetupAssignmentsRoutes(app *fiber.App, d *common.Deps) {
	h := &handler{d}
	assignments := &common.Resource[models.SubjectAssignment, *models.SubjectAssignment]{
		Repo:         d.Store.SubjectAssignments,
		Filters:      []string{"subject_id", "class_id", "teacher_id", "session"},
		Prepare:      h.prepareAssignment,
		BeforeDelete: h.beforeDeleteAssignment,
		Changed:      h.assignmentChanged,
	}

	api := app.Group("/api/assignments")
	api.Use(auth.AuthMiddleware(d), common.StaffOnly)
	api.Get("/", assignments.List)
	api.Get("/:id", assignments.Get)

	// Admin only
	api.Use(auth.AdminOnly())
	api.Post("/", assignments.Create)
	api.Put("/:id", assignments.Update)
	api.Delete("/:id", assignments.Delete)
}
