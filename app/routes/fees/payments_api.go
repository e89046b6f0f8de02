package fees

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
	"github.com/smugflex-sys/Final-sub000/app/services"
)

func newReference() string {
	return "PAY-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func (h *handler) GetPaymentsAPI(c *fiber.Ctx) error {
	where, err := common.Filters(c, "student_id", "status", "method", "term", "session")
	if err != nil {
		return err
	}
	limit, offset := common.Page(c)
	payments, err := h.Store.Payments.List(c.UserContext(), database.Query{Where: where, Limit: limit, Offset: offset})
	if err != nil {
		return err
	}
	total, err := h.Store.Payments.Count(c.UserContext(), where)
	if err != nil {
		return err
	}
	return common.List(c, payments, total)
}

func (h *handler) GetPaymentAPI(c *fiber.Ctx) error {
	id, err := common.ParamID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.Store.Payments.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return common.OK(c, p)
}

// CreatePaymentAPI records a payment. The amount must not exceed the current
// balance. Cash is verified on the spot and reduces the balance returned in
// the response; other methods stay pending until verified.
func (h *handler) CreatePaymentAPI(c *fiber.Ctx) error {
	var p models.Payment
	if err := common.ParseBody(c, &p); err != nil {
		return err
	}

	h.payments.Lock()
	defer h.payments.Unlock()

	ctx := c.UserContext()
	student, err := h.Store.Students.Get(ctx, p.StudentID)
	if err != nil {
		if database.IsNotFound(err) {
			return common.NewValidationError("student_id", "student_id does not reference an existing record")
		}
		return err
	}
	current, _, err := StudentBalance(ctx, h.Store, student, p.Term, p.Session)
	if err != nil {
		return err
	}
	if err := services.CheckPaymentAmount(p.Amount, current); err != nil {
		return err
	}

	user := common.CurrentUser(c)
	now := h.Clock()
	p.ID = 0
	p.RecordedBy = user.ID
	p.Reference = strings.TrimSpace(p.Reference)
	if p.Reference == "" {
		p.Reference = newReference()
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = now
	}
	p.Status = models.PaymentPending
	p.VerifiedBy, p.VerifiedAt = nil, nil
	if services.InitialPaymentStatus(p.Method) == models.PaymentVerified {
		if err := services.VerifyPayment(&p, user.ID, now); err != nil {
			return err
		}
	}

	if err := h.Store.Payments.Create(ctx, &p); err != nil {
		return err
	}
	balance, _, err := StudentBalance(ctx, h.Store, student, p.Term, p.Session)
	if err != nil {
		return err
	}

	h.Log.Info("payment recorded",
		zap.Int64("payment_id", p.ID),
		zap.Int64("student_id", p.StudentID),
		zap.Float64("amount", p.Amount),
		zap.String("method", string(p.Method)),
		zap.String("status", string(p.Status)))
	return common.Created(c, fiber.Map{"payment": p, "balance": balance})
}

// VerifyPaymentAPI confirms a pending payment so it counts towards the balance.
func (h *handler) VerifyPaymentAPI(c *fiber.Ctx) error {
	id, err := common.ParamID(c, "id")
	if err != nil {
		return err
	}

	h.payments.Lock()
	defer h.payments.Unlock()

	ctx := c.UserContext()
	p, err := h.Store.Payments.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := services.VerifyPayment(&p, common.CurrentUser(c).ID, h.Clock()); err != nil {
		return err
	}
	if err := h.Store.Payments.Update(ctx, &p); err != nil {
		return err
	}

	student, err := h.Store.Students.Get(ctx, p.StudentID)
	if err != nil {
		return err
	}
	balance, _, err := StudentBalance(ctx, h.Store, student, p.Term, p.Session)
	if err != nil {
		return err
	}

	h.Log.Info("payment verified", zap.Int64("payment_id", p.ID), zap.Int64("verified_by", *p.VerifiedBy))
	return common.OK(c, fiber.Map{"payment": p, "balance": balance})
}

// DeletePaymentAPI removes a pending payment. Verified payments are part of
// the ledger and cannot be deleted.
func (h *handler) DeletePaymentAPI(c *fiber.Ctx) error {
	id, err := common.ParamID(c, "id")
	if err != nil {
		return err
	}

	h.payments.Lock()
	defer h.payments.Unlock()

	ctx := c.UserContext()
	p, err := h.Store.Payments.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.IsVerified() {
		return common.Conflict("Verified payments cannot be deleted")
	}
	if err := h.Store.Payments.Delete(ctx, id); err != nil {
		return err
	}
	return common.Message(c, "Payment deleted successfully")
}
