package teachers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
	"github.com/smugflex-sys/Final-sub000/app/services"
)

type handler struct {
	*common.Deps
}

func (h *handler) prepare(c *fiber.Ctx, t *models.Teacher, isNew bool) error {
	t.StaffNo = strings.TrimSpace(t.StaffNo)
	if t.StaffNo == "" && t.FirstName != "" && t.LastName != "" {
		n, err := h.Store.Teachers.Count(c.UserContext(), nil)
		if err != nil {
			return err
		}
		t.StaffNo = GenerateStaffNo(t.FirstName, t.LastName, n+1)
	}
	t.Email = strings.ToLower(strings.TrimSpace(t.Email))
	if t.Status == "" {
		t.Status = models.StatusActive
	}
	if err := common.MustExistOptional(c, h.Store.Departments, t.DepartmentID, "department_id"); err != nil {
		return err
	}
	return common.MustExistOptional(c, h.Store.Users, t.UserID, "user_id")
}

func (h *handler) beforeDelete(c *fiber.Ctx, id int64) error {
	if err := common.RefuseIfAny(c, h.Store.SubjectAssignments, database.Filter{"teacher_id": id},
		"Teacher still has subject assignments"); err != nil {
		return err
	}
	return common.RefuseIfAny(c, h.Store.Classes, database.Filter{"form_teacher_id": id},
		"Teacher is still a form teacher")
}

// GetTeacherAssignmentsAPI lists the subjects and classes a teacher is assigned to.
func (h *handler) GetTeacherAssignmentsAPI(c *fiber.Ctx) error {
	id, err := common.ParamID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.Store.Teachers.Get(c.UserContext(), id); err != nil {
		return err
	}
	assignments, err := database.All(c.UserContext(), h.Store.SubjectAssignments, database.Filter{"teacher_id": id})
	if err != nil {
		return err
	}
	return common.List(c, assignments, len(assignments))
}

type rowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportTeachersAPI creates teachers from an uploaded workbook. Columns:
// staff_no, first_name, last_name, email, phone, department (code) and qualification.
func (h *handler) ImportTeachersAPI(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := services.ReadSheet(f)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx := c.UserContext()
	departments, err := database.All(ctx, h.Store.Departments, nil)
	if err != nil {
		return err
	}
	deptByCode := make(map[string]int64, len(departments))
	for _, d := range departments {
		deptByCode[strings.ToUpper(d.Code)] = d.ID
	}

	var created []models.Teacher
	var failed []rowError
	for i, row := range rows {
		rowNo := i + 2
		t := models.Teacher{
			StaffNo:       row["staff_no"],
			FirstName:     row["first_name"],
			LastName:      row["last_name"],
			Email:         strings.ToLower(row["email"]),
			Phone:         row["phone"],
			Qualification: row["qualification"],
			Status:        models.StatusActive,
		}
		if code := row["department"]; code != "" {
			id, ok := deptByCode[strings.ToUpper(code)]
			if !ok {
				failed = append(failed, rowError{rowNo, "unknown department " + code})
				continue
			}
			t.DepartmentID = &id
		}
		if err := common.ValidateStruct(&t); err != nil {
			failed = append(failed, rowError{rowNo, common.Describe(err)})
			continue
		}
		if err := h.Store.Teachers.Create(ctx, &t); err != nil {
			if !errors.Is(err, database.ErrDuplicate) {
				return err
			}
			failed = append(failed, rowError{rowNo, "staff_no already exists"})
			continue
		}
		created = append(created, t)
	}

	h.Log.Info("teachers imported", zap.Int("created", len(created)), zap.Int("failed", len(failed)))
	return common.OK(c, fiber.Map{"imported": len(created), "teachers": created, "errors": failed})
}
