package common

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
)

// CurrentUser returns the user set by the auth middleware.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// HasRole reports whether the current user has one of roles.
func HasRole(c *fiber.Ctx, roles ...models.Role) bool {
	user := CurrentUser(c)
	if user == nil {
		return false
	}
	for _, r := range roles {
		if user.Role == r {
			return true
		}
	}
	return false
}

// CanViewStudent lets staff see every student and parents only their own children.
func (d *Deps) CanViewStudent(c *fiber.Ctx, student models.Student) error {
	if !HasRole(c, models.RoleParent) {
		return nil
	}
	if student.ParentID != nil {
		parent, err := d.Store.Parents.Get(c.UserContext(), *student.ParentID)
		if err != nil && !database.IsNotFound(err) {
			return err
		}
		if err == nil && parent.UserID != nil && *parent.UserID == CurrentUser(c).ID {
			return nil
		}
	}
	return fiber.NewError(fiber.StatusForbidden, "Insufficient permissions")
}

// StaffOnly rejects parents.
func StaffOnly(c *fiber.Ctx) error {
	if HasRole(c, models.RoleParent) {
		return fiber.NewError(fiber.StatusForbidden, "Insufficient permissions")
	}
	return c.Next()
}
