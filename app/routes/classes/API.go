package classes

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
)

type handler struct {
	*common.Deps
}

func (h *handler) prepare(c *fiber.Ctx, class *models.Class, isNew bool) error {
	class.Name = strings.TrimSpace(class.Name)
	if class.Status == "" {
		class.Status = models.StatusActive
	}
	return common.MustExistOptional(c, h.Store.Teachers, class.FormTeacherID, "form_teacher_id")
}

func (h *handler) beforeDelete(c *fiber.Ctx, id int64) error {
	if err := common.RefuseIfAny(c, h.Store.Students, database.Filter{"class_id": id},
		"Cannot delete a class with enrolled students"); err != nil {
		return err
	}
	return common.RefuseIfAny(c, h.Store.SubjectAssignments, database.Filter{"class_id": id},
		"Cannot delete a class with subject assignments")
}

// GetClassDetailsAPI returns the class with its form teacher and enrolment count.
func (h *handler) GetClassDetailsAPI(c *fiber.Ctx) error {
	id, err := common.ParamID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	class, err := h.Store.Classes.Get(ctx, id)
	if err != nil {
		return err
	}

	details := fiber.Map{"class": class}
	if class.FormTeacherID != nil {
		teacher, err := h.Store.Teachers.Get(ctx, *class.FormTeacherID)
		if err != nil && !database.IsNotFound(err) {
			return err
		}
		if err == nil {
			details["form_teacher"] = teacher
		}
	}
	count, err := h.Store.Students.Count(ctx, database.Filter{"class_id": id, "status": models.StatusActive})
	if err != nil {
		return err
	}
	details["student_count"] = count
	if class.Capacity > 0 {
		details["available_seats"] = class.Capacity - count
	}
	return common.OK(c, details)
}

func (h *handler) GetClassStudentsAPI(c *fiber.Ctx) error {
	id, err := common.ParamID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	if _, err := h.Store.Classes.Get(ctx, id); err != nil {
		return err
	}
	where := database.Filter{"class_id": id}
	if status := c.Query("status"); status != "" {
		where["status"] = status
	}
	students, err := database.All(ctx, h.Store.Students, where)
	if err != nil {
		return err
	}
	return common.List(c, students, len(students))
}
