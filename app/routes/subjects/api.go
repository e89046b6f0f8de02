package subjects

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
	"github.com/smugflex-sys/Final-sub000/app/routes/results"
)

type handler struct {
	*common.Deps
}

func (h *handler) prepareSubject(c *fiber.Ctx, s *models.Subject, isNew bool) error {
	s.Name = strings.TrimSpace(s.Name)
	s.Code = strings.ToUpper(strings.TrimSpace(s.Code))
	return common.MustExistOptional(c, h.Store.Departments, s.DepartmentID, "department_id")
}

// subjectChanged drops the cached results of every class taking the subject.
func (h *handler) subjectChanged(c *fiber.Ctx, s *models.Subject) {
	assigned, err := database.All(c.UserContext(), h.Store.SubjectAssignments, database.Filter{"subject_id": s.ID})
	if err != nil {
		h.Log.Warn("list subject assignments", zap.Int64("subject_id", s.ID), zap.Error(err))
		return
	}
	seen := map[int64]bool{}
	for _, a := range assigned {
		if !seen[a.ClassID] {
			seen[a.ClassID] = true
			results.InvalidateClass(c.UserContext(), h.Deps, a.ClassID)
		}
	}
}

func (h *handler) assignmentChanged(c *fiber.Ctx, a *models.SubjectAssignment) {
	results.InvalidateClass(c.UserContext(), h.Deps, a.ClassID)
}

func (h *handler) beforeDeleteSubject(c *fiber.Ctx, id int64) error {
	return common.RefuseIfAny(c, h.Store.SubjectAssignments, database.Filter{"subject_id": id},
		"Subject is assigned to classes")
}

// prepareAssignment checks the references and that the subject is not
// already assigned to the class for the session.
func (h *handler) prepareAssignment(c *fiber.Ctx, a *models.SubjectAssignment, isNew bool) error {
	if err := common.MustExist(c, h.Store.Subjects, a.SubjectID, "subject_id"); err != nil {
		return err
	}
	if err := common.MustExist(c, h.Store.Classes, a.ClassID, "class_id"); err != nil {
		return err
	}
	if err := common.MustExistOptional(c, h.Store.Teachers, a.TeacherID, "teacher_id"); err != nil {
		return err
	}

	existing, err := database.All(c.UserContext(), h.Store.SubjectAssignments, database.Filter{
		"subject_id": a.SubjectID,
		"class_id":   a.ClassID,
		"session":    a.Session,
	})
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.ID != a.ID {
			return common.Conflict("Subject is already assigned to this class for the session")
		}
	}
	return nil
}

func (h *handler) beforeDeleteAssignment(c *fiber.Ctx, id int64) error {
	return common.RefuseIfAny(c, h.Store.Scores, database.Filter{"assignment_id": id},
		"Assignment has recorded scores")
}
