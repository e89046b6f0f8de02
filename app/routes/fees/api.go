package fees

import (
	"context"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
	"github.com/smugflex-sys/Final-sub000/app/services"
)

type handler struct {
	*common.Deps
	// payments serialises balance checks with the writes that depend on them
	payments sync.Mutex
}

func (h *handler) prepareStructure(c *fiber.Ctx, fs *models.FeeStructure, isNew bool) error {
	fs.Name = strings.TrimSpace(fs.Name)
	return common.MustExist(c, h.Store.Classes, fs.ClassID, "class_id")
}

func (h *handler) prepareScholarship(c *fiber.Ctx, s *models.Scholarship, isNew bool) error {
	s.Name = strings.TrimSpace(s.Name)
	return common.MustExist(c, h.Store.Students, s.StudentID, "student_id")
}

// GetStudentBalanceAPI returns what a student owes for ?term=&session=,
// together with the payments counted.
func (h *handler) GetStudentBalanceAPI(c *fiber.Ctx) error {
	id, err := common.ParamID(c, "studentId")
	if err != nil {
		return err
	}
	term, session, err := common.TermQuery(c)
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	student, err := h.Store.Students.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := h.CanViewStudent(c, student); err != nil {
		return err
	}
	balance, payments, err := StudentBalance(ctx, h.Store, student, term, session)
	if err != nil {
		return err
	}
	return common.OK(c, fiber.Map{
		"student":  student,
		"term":     term,
		"session":  session,
		"balance":  balance,
		"payments": payments,
	})
}

// ClassBalance is one row of the class balance sheet.
type ClassBalance struct {
	StudentID   int64  `json:"student_id"`
	AdmissionNo string `json:"admission_no"`
	Name        string `json:"name"`
	services.Balance
}

// ClassBalances computes the balance of every active student of a class.
func ClassBalances(ctx context.Context, store *database.Store, classID int64, term models.Term, session string) ([]ClassBalance, services.Balance, error) {
	students, err := database.All(ctx, store.Students, database.Filter{"class_id": classID, "status": models.StatusActive})
	if err != nil {
		return nil, services.Balance{}, err
	}

	rows := make([]ClassBalance, 0, len(students))
	var totals services.Balance
	for _, s := range students {
		b, _, err := StudentBalance(ctx, store, s, term, session)
		if err != nil {
			return nil, services.Balance{}, err
		}
		rows = append(rows, ClassBalance{StudentID: s.ID, AdmissionNo: s.AdmissionNo, Name: s.FullName(), Balance: b})
		totals.Required += b.Required
		totals.Paid += b.Paid
		totals.Pending += b.Pending
		totals.Balance += b.Balance
		totals.Overpayment += b.Overpayment
	}
	return rows, totals, nil
}

// GetClassBalancesAPI lists the balances of a class: ?class_id=&term=&session=.
func (h *handler) GetClassBalancesAPI(c *fiber.Ctx) error {
	classID, err := common.QueryID(c, "class_id")
	if err != nil {
		return err
	}
	if classID == 0 {
		return common.NewValidationError("class_id", "class_id is a required field")
	}
	term, session, err := common.TermQuery(c)
	if err != nil {
		return err
	}
	if _, err := h.Store.Classes.Get(c.UserContext(), classID); err != nil {
		return err
	}

	rows, totals, err := ClassBalances(c.UserContext(), h.Store, classID, term, session)
	if err != nil {
		return err
	}
	return common.OK(c, fiber.Map{
		"class_id": classID,
		"term":     term,
		"session":  session,
		"students": rows,
		"totals":   fiber.Map{"required": totals.Required, "paid": totals.Paid, "pending": totals.Pending, "balance": totals.Balance, "overpayment": totals.Overpayment},
	})
}
