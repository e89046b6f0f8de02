package students

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
	"github.com/smugflex-sys/Final-sub000/app/routes/results"
	"github.com/smugflex-sys/Final-sub000/app/services"
)

type handler struct {
	*common.Deps
	resource *common.Resource[models.Student, *models.Student]
}

func (h *handler) prepare(c *fiber.Ctx, s *models.Student, isNew bool) error {
	s.AdmissionNo = strings.TrimSpace(s.AdmissionNo)
	if s.Status == "" {
		s.Status = models.StatusActive
	}
	if err := common.MustExistOptional(c, h.Store.Classes, s.ClassID, "class_id"); err != nil {
		return err
	}
	if err := common.MustExistOptional(c, h.Store.Parents, s.ParentID, "parent_id"); err != nil {
		return err
	}
	if !isNew {
		stored, err := h.Store.Students.Get(c.UserContext(), s.ID)
		if err != nil {
			return err
		}
		c.Locals("previous_class_id", stored.ClassID)
	}
	return nil
}

// changed drops the cached results of the classes the student belongs to,
// before and after the write.
func (h *handler) changed(c *fiber.Ctx, s *models.Student) {
	if s.ClassID != nil {
		results.InvalidateClass(c.UserContext(), h.Deps, *s.ClassID)
	}
	if prev, _ := c.Locals("previous_class_id").(*int64); prev != nil && (s.ClassID == nil || *prev != *s.ClassID) {
		results.InvalidateClass(c.UserContext(), h.Deps, *prev)
	}
}

func (h *handler) beforeDelete(c *fiber.Ctx, id int64) error {
	msg := "Student has recorded scores or payments"
	if err := common.RefuseIfAny(c, h.Store.Scores, database.Filter{"student_id": id}, msg); err != nil {
		return err
	}
	return common.RefuseIfAny(c, h.Store.Payments, database.Filter{"student_id": id}, msg)
}

// GetStudentsAPI lists students. class_id, parent_id, status and gender go to
// the store; search matches names and admission numbers.
func (h *handler) GetStudentsAPI(c *fiber.Ctx) error {
	where, err := common.Filters(c, "class_id", "parent_id", "status", "gender")
	if err != nil {
		return err
	}
	students, err := database.All(c.UserContext(), h.Store.Students, where)
	if err != nil {
		return err
	}

	// Apply search manually
	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		filtered := students[:0]
		for _, s := range students {
			if strings.Contains(strings.ToLower(s.FullName()), search) ||
				strings.Contains(strings.ToLower(s.AdmissionNo), search) {
				filtered = append(filtered, s)
			}
		}
		students = filtered
	}

	total := len(students)
	limit, offset := common.Page(c)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return common.List(c, students[offset:end], total)
}

// PromoteStudentsAPI moves the active students of a class into the next class,
// or marks them Graduated when graduate is set.
func (h *handler) PromoteStudentsAPI(c *fiber.Ctx) error {
	var req struct {
		FromClassID int64   `json:"from_class_id" validate:"required"`
		ToClassID   int64   `json:"to_class_id" validate:"required_without=Graduate,excluded_with=Graduate,nefield=FromClassID"`
		Graduate    bool    `json:"graduate"`
		StudentIDs  []int64 `json:"student_ids"`
	}
	if err := common.ParseBody(c, &req); err != nil {
		return err
	}
	if err := common.MustExist(c, h.Store.Classes, req.FromClassID, "from_class_id"); err != nil {
		return err
	}
	if !req.Graduate {
		if err := common.MustExist(c, h.Store.Classes, req.ToClassID, "to_class_id"); err != nil {
			return err
		}
	}

	ctx := c.UserContext()
	students, err := database.All(ctx, h.Store.Students, database.Filter{
		"class_id": req.FromClassID,
		"status":   models.StatusActive,
	})
	if err != nil {
		return err
	}

	only := make(map[int64]bool, len(req.StudentIDs))
	for _, id := range req.StudentIDs {
		only[id] = true
	}

	promoted := make([]int64, 0, len(students))
	for i := range students {
		s := &students[i]
		if len(only) > 0 && !only[s.ID] {
			continue
		}
		if req.Graduate {
			s.Status = models.StatusGraduated
			s.ClassID = nil
		} else {
			to := req.ToClassID
			s.ClassID = &to
		}
		if err := h.Store.Students.Update(ctx, s); err != nil {
			return err
		}
		promoted = append(promoted, s.ID)
	}

	h.Log.Info("students promoted",
		zap.Int64("from_class_id", req.FromClassID),
		zap.Int64("to_class_id", req.ToClassID),
		zap.Bool("graduate", req.Graduate),
		zap.Int("count", len(promoted)))

	return common.OK(c, fiber.Map{"promoted": promoted, "count": len(promoted)})
}

// rowError reports why a spreadsheet row was skipped. Row numbers match the sheet.
type rowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportStudentsAPI creates students from the first sheet of an uploaded
// workbook. Columns: admission_no, first_name, last_name, gender,
// date_of_birth, class (name) and parent_phone. Bad rows are reported and skipped.
func (h *handler) ImportStudentsAPI(c *fiber.Ctx) error {
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
	classes, err := database.All(ctx, h.Store.Classes, nil)
	if err != nil {
		return err
	}
	classByName := make(map[string]int64, len(classes))
	for _, cl := range classes {
		classByName[strings.ToLower(cl.Name)] = cl.ID
	}

	var created []models.Student
	var failed []rowError
	for i, row := range rows {
		rowNo := i + 2
		s := models.Student{
			AdmissionNo: row["admission_no"],
			FirstName:   row["first_name"],
			LastName:    row["last_name"],
			Gender:      models.Gender(common.Capitalize(row["gender"])),
			Status:      models.StatusActive,
		}
		if dob := row["date_of_birth"]; dob != "" {
			d, err := models.ParseDate(dob)
			if err != nil {
				failed = append(failed, rowError{rowNo, "date_of_birth must be YYYY-MM-DD"})
				continue
			}
			s.DateOfBirth = &d
		}
		if name := row["class"]; name != "" {
			id, ok := classByName[strings.ToLower(name)]
			if !ok {
				failed = append(failed, rowError{rowNo, "unknown class " + strconv.Quote(name)})
				continue
			}
			s.ClassID = &id
		}
		if phone := row["parent_phone"]; phone != "" {
			p, err := database.First(ctx, h.Store.Parents, database.Filter{"phone": phone})
			if err != nil && !database.IsNotFound(err) {
				return err
			}
			if err == nil {
				s.ParentID = &p.ID
			}
		}
		if err := common.ValidateStruct(&s); err != nil {
			failed = append(failed, rowError{rowNo, common.Describe(err)})
			continue
		}
		if err := h.Store.Students.Create(ctx, &s); err != nil {
			if !errors.Is(err, database.ErrDuplicate) {
				return err
			}
			failed = append(failed, rowError{rowNo, "admission_no already exists"})
			continue
		}
		created = append(created, s)
	}

	h.Log.Info("students imported", zap.Int("created", len(created)), zap.Int("failed", len(failed)))
	return common.OK(c, fiber.Map{"imported": len(created), "students": created, "errors": failed})
}
