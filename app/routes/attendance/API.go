package attendance

import (
	"math"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
)

type handler struct {
	*common.Deps
}

func (h *handler) GetAttendanceAPI(c *fiber.Ctx) error {
	where, err := common.Filters(c, "class_id", "student_id", "date", "term", "session", "status")
	if err != nil {
		return err
	}
	if raw, ok := where["date"]; ok {
		if _, err := models.ParseDate(raw.(string)); err != nil {
			return common.NewValidationError("date", "date must be YYYY-MM-DD")
		}
	}
	limit, offset := common.Page(c)
	records, err := h.Store.Attendance.List(c.UserContext(), database.Query{Where: where, Limit: limit, Offset: offset})
	if err != nil {
		return err
	}
	total, err := h.Store.Attendance.Count(c.UserContext(), where)
	if err != nil {
		return err
	}
	return common.List(c, records, total)
}

type registerEntry struct {
	StudentID   int64                   `json:"student_id"`
	AdmissionNo string                  `json:"admission_no"`
	Name        string                  `json:"name"`
	Status      models.AttendanceStatus `json:"status"`
	Marked      bool                    `json:"marked"`
}

// GetClassRegisterAPI lists every active student of the class with the status
// marked for the date, if any.
func (h *handler) GetClassRegisterAPI(c *fiber.Ctx) error {
	classID, err := common.ParamID(c, "classId")
	if err != nil {
		return err
	}
	date, err := models.ParseDate(c.Params("date"))
	if err != nil {
		return common.NewValidationError("date", "date must be YYYY-MM-DD")
	}

	ctx := c.UserContext()
	if _, err := h.Store.Classes.Get(ctx, classID); err != nil {
		return err
	}
	students, err := database.All(ctx, h.Store.Students, database.Filter{"class_id": classID, "status": models.StatusActive})
	if err != nil {
		return err
	}
	marked, err := database.All(ctx, h.Store.Attendance, database.Filter{"class_id": classID, "date": date.String()})
	if err != nil {
		return err
	}
	byStudent := make(map[int64]models.AttendanceStatus, len(marked))
	for _, a := range marked {
		byStudent[a.StudentID] = a.Status
	}

	register := make([]registerEntry, 0, len(students))
	for _, s := range students {
		status, ok := byStudent[s.ID]
		register = append(register, registerEntry{
			StudentID:   s.ID,
			AdmissionNo: s.AdmissionNo,
			Name:        s.FullName(),
			Status:      status,
			Marked:      ok,
		})
	}
	return common.OK(c, fiber.Map{"class_id": classID, "date": date, "students": register})
}

// MarkRegisterAPI records the attendance of a class for one day. Marking a
// student again for the same day replaces the earlier status.
func (h *handler) MarkRegisterAPI(c *fiber.Ctx) error {
	var req struct {
		ClassID int64       `json:"class_id" validate:"required"`
		Date    models.Date `json:"date"`
		Term    models.Term `json:"term" validate:"required,enum"`
		Session string      `json:"session" validate:"required,session"`
		Records []struct {
			StudentID int64                   `json:"student_id" validate:"required"`
			Status    models.AttendanceStatus `json:"status" validate:"required,enum"`
		} `json:"records" validate:"required,min=1,dive"`
	}
	if err := common.ParseBody(c, &req); err != nil {
		return err
	}
	if req.Date.IsZero() {
		return common.NewValidationError("date", "date is a required field")
	}
	if req.Date.After(h.Clock()) {
		return common.NewValidationError("date", "date cannot be in the future")
	}

	ctx := c.UserContext()
	if _, err := h.Store.Classes.Get(ctx, req.ClassID); err != nil {
		return err
	}

	// Check the whole register before writing.
	for _, r := range req.Records {
		s, err := h.Store.Students.Get(ctx, r.StudentID)
		if err != nil {
			if database.IsNotFound(err) {
				return common.NewValidationError("records", "unknown student in register")
			}
			return err
		}
		if !s.InClass(req.ClassID) {
			return common.NewValidationError("records", s.FullName()+" is not in this class")
		}
	}

	user := common.CurrentUser(c)
	saved := make([]models.Attendance, 0, len(req.Records))
	for _, r := range req.Records {
		rec, err := database.First(ctx, h.Store.Attendance, database.Filter{
			"student_id": r.StudentID,
			"date":       req.Date.String(),
		})
		isNew := database.IsNotFound(err)
		if err != nil && !isNew {
			return err
		}
		rec.StudentID = r.StudentID
		rec.ClassID = req.ClassID
		rec.Date = req.Date
		rec.Term = req.Term
		rec.Session = req.Session
		rec.Status = r.Status
		rec.MarkedBy = user.ID
		if isNew {
			err = h.Store.Attendance.Create(ctx, &rec)
		} else {
			err = h.Store.Attendance.Update(ctx, &rec)
		}
		if err != nil {
			return err
		}
		saved = append(saved, rec)
	}

	h.Log.Info("attendance marked",
		zap.Int64("class_id", req.ClassID),
		zap.String("date", req.Date.String()),
		zap.Int("count", len(saved)))
	return common.OK(c, fiber.Map{"records": saved, "count": len(saved)})
}

// Summary counts a student's attendance in a term.
type Summary struct {
	StudentID int64   `json:"student_id"`
	Days      int     `json:"days"`
	Present   int     `json:"present"`
	Absent    int     `json:"absent"`
	Late      int     `json:"late"`
	Excused   int     `json:"excused"`
	Rate      float64 `json:"rate"`
}

// Summarize counts the records by status. Late still counts as attended.
func Summarize(studentID int64, records []models.Attendance) Summary {
	s := Summary{StudentID: studentID, Days: len(records)}
	for _, r := range records {
		switch r.Status {
		case models.Present:
			s.Present++
		case models.Absent:
			s.Absent++
		case models.Late:
			s.Late++
		case models.Excused:
			s.Excused++
		}
	}
	if s.Days > 0 {
		s.Rate = math.Round(float64(s.Present+s.Late)/float64(s.Days)*10000) / 100
	}
	return s
}

func (h *handler) GetStudentSummaryAPI(c *fiber.Ctx) error {
	id, err := common.ParamID(c, "id")
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
	records, err := database.All(ctx, h.Store.Attendance, database.Filter{
		"student_id": id,
		"term":       term,
		"session":    session,
	})
	if err != nil {
		return err
	}
	return common.OK(c, Summarize(id, records))
}
