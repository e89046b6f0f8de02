package parents

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

func (h *handler) prepare(c *fiber.Ctx, p *models.Parent, isNew bool) error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Phone = strings.TrimSpace(p.Phone)
	return common.MustExistOptional(c, h.Store.Users, p.UserID, "user_id")
}

// unlinkChildren clears the parent of every linked student so the parent can be removed.
func (h *handler) unlinkChildren(c *fiber.Ctx, id int64) error {
	ctx := c.UserContext()
	children, err := database.All(ctx, h.Store.Students, database.Filter{"parent_id": id})
	if err != nil {
		return err
	}
	for i := range children {
		children[i].ParentID = nil
		if err := h.Store.Students.Update(ctx, &children[i]); err != nil {
			return err
		}
	}
	return nil
}

func (h *handler) GetChildrenAPI(c *fiber.Ctx) error {
	id, err := common.ParamID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	parent, err := h.Store.Parents.Get(ctx, id)
	if err != nil {
		return err
	}
	children, err := database.All(ctx, h.Store.Students, database.Filter{"parent_id": parent.ID})
	if err != nil {
		return err
	}
	return common.OK(c, fiber.Map{"parent": parent, "children": children})
}

// GetMyChildrenAPI returns the parent profile linked to the logged-in user.
func (h *handler) GetMyChildrenAPI(c *fiber.Ctx) error {
	ctx := c.UserContext()
	parent, err := database.First(ctx, h.Store.Parents, database.Filter{"user_id": common.CurrentUser(c).ID})
	if err != nil {
		if database.IsNotFound(err) {
			return fiber.NewError(fiber.StatusNotFound, "No parent profile is linked to this account")
		}
		return err
	}
	children, err := database.All(ctx, h.Store.Students, database.Filter{"parent_id": parent.ID})
	if err != nil {
		return err
	}
	return common.OK(c, fiber.Map{"parent": parent, "children": children})
}
