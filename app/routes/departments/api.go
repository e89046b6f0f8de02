package departments

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

func (h *handler) prepare(c *fiber.Ctx, d *models.Department, isNew bool) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	if d.Status == "" {
		d.Status = models.StatusActive
	}
	return nil
}

// beforeDelete refuses to delete a department that still has active teachers.
// Inactive teachers and subjects are detached.
func (h *handler) beforeDelete(c *fiber.Ctx, id int64) error {
	if err := common.RefuseIfAny(c, h.Store.Teachers,
		database.Filter{"department_id": id, "status": models.StatusActive},
		"Cannot delete a department with active teachers"); err != nil {
		return err
	}

	ctx := c.UserContext()
	teachers, err := database.All(ctx, h.Store.Teachers, database.Filter{"department_id": id})
	if err != nil {
		return err
	}
	for i := range teachers {
		teachers[i].DepartmentID = nil
		if err := h.Store.Teachers.Update(ctx, &teachers[i]); err != nil {
			return err
		}
	}
	subjects, err := database.All(ctx, h.Store.Subjects, database.Filter{"department_id": id})
	if err != nil {
		return err
	}
	for i := range subjects {
		subjects[i].DepartmentID = nil
		if err := h.Store.Subjects.Update(ctx, &subjects[i]); err != nil {
			return err
		}
	}
	return nil
}

func (h *handler) GetDepartmentTeachersAPI(c *fiber.Ctx) error {
	id, err := common.ParamID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	if _, err := h.Store.Departments.Get(ctx, id); err != nil {
		return err
	}
	teachers, err := database.All(ctx, h.Store.Teachers, database.Filter{"department_id": id})
	if err != nil {
		return err
	}
	return common.List(c, teachers, len(teachers))
}

func (h *handler) AddTeacherToDepartmentAPI(c *fiber.Ctx) error {
	id, err := common.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		TeacherID int64 `json:"teacher_id" validate:"required"`
	}
	if err := common.ParseBody(c, &req); err != nil {
		return err
	}

	ctx := c.UserContext()
	if _, err := h.Store.Departments.Get(ctx, id); err != nil {
		return err
	}
	teacher, err := h.Store.Teachers.Get(ctx, req.TeacherID)
	if err != nil {
		return err
	}
	teacher.DepartmentID = &id
	if err := h.Store.Teachers.Update(ctx, &teacher); err != nil {
		return err
	}
	return common.OK(c, teacher)
}

func (h *handler) RemoveTeacherFromDepartmentAPI(c *fiber.Ctx) error {
	id, err := common.ParamID(c, "id")
	if err != nil {
		return err
	}
	teacherID, err := common.ParamID(c, "teacherId")
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	teacher, err := h.Store.Teachers.Get(ctx, teacherID)
	if err != nil {
		return err
	}
	if teacher.DepartmentID == nil || *teacher.DepartmentID != id {
		return fiber.NewError(fiber.StatusNotFound, "Teacher is not in this department")
	}
	teacher.DepartmentID = nil
	if err := h.Store.Teachers.Update(ctx, &teacher); err != nil {
		return err
	}
	return common.Message(c, "Teacher removed from department")
}
