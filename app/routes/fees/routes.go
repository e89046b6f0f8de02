package fees

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/auth"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
)

// SetupFeesRoutes sets up the fee structure, scholarship, balance and payment routes
func SetupFeesRoutes(app *fiber.App, d *common.Deps) {
	h := &handler{Deps: d}
	bursary := auth.RoleMiddleware(models.RoleAdmin, models.RoleAccountant)

	structures := &common.Resource[models.FeeStructure, *models.FeeStructure]{
		Repo:    d.Store.FeeStructures,
		Filters: []string{"class_id", "term", "session"},
		Prepare: h.prepareStructure,
	}
	feesAPI := app.Group("/api/fees")
	feesAPI.Use(auth.AuthMiddleware(d))
	feesAPI.Get("/balance/:studentId", h.GetStudentBalanceAPI)
	feesAPI.Use(common.StaffOnly)
	feesAPI.Get("/balances", bursary, h.GetClassBalancesAPI)
	feesAPI.Get("/", structures.List)
	feesAPI.Get("/:id", structures.Get)
	feesAPI.Use(auth.AdminOnly())
	feesAPI.Post("/", structures.Create)
	feesAPI.Put("/:id", structures.Update)
	feesAPI.Delete("/:id", structures.Delete)

	scholarships := &common.Resource[models.Scholarship, *models.Scholarship]{
		Repo:    d.Store.Scholarships,
		Filters: []string{"student_id", "term", "session"},
		Prepare: h.prepareScholarship,
	}
	scholarshipsAPI := app.Group("/api/scholarships")
	scholarshipsAPI.Use(auth.AuthMiddleware(d), bursary)
	scholarshipsAPI.Get("/", scholarships.List)
	scholarshipsAPI.Get("/:id", scholarships.Get)
	scholarshipsAPI.Post("/", scholarships.Create)
	scholarshipsAPI.Put("/:id", scholarships.Update)
	scholarshipsAPI.Delete("/:id", scholarships.Delete)

	paymentsAPI := app.Group("/api/payments")
	paymentsAPI.Use(auth.AuthMiddleware(d), bursary)
	paymentsAPI.Get("/", h.GetPaymentsAPI)
	paymentsAPI.Get("/:id", h.GetPaymentAPI)
	paymentsAPI.Post("/", h.CreatePaymentAPI)
	paymentsAPI.Post("/:id/verify", h.VerifyPaymentAPI)
	paymentsAPI.Delete("/:id", h.DeletePaymentAPI)
}
