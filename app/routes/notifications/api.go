package notifications

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
)

type handler struct {
	*common.Deps
}

// GetMyNotificationsAPI lists the notifications of the current user. ?unread=true
// restricts the list to unread ones; unread_count is always returned.
func (h *handler) GetMyNotificationsAPI(c *fiber.Ctx) error {
	ctx := c.UserContext()
	me := common.CurrentUser(c).ID
	where := database.Filter{"user_id": me}
	if unread, _ := strconv.ParseBool(c.Query("unread")); unread {
		where["is_read"] = false
	}

	limit, offset := common.Page(c)
	list, err := h.Store.Notifications.List(ctx, database.Query{Where: where, Limit: limit, Offset: offset})
	if err != nil {
		return err
	}
	total, err := h.Store.Notifications.Count(ctx, where)
	if err != nil {
		return err
	}
	unread, err := h.Store.Notifications.Count(ctx, database.Filter{"user_id": me, "is_read": false})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": list, "total": total, "unread_count": unread})
}

// own loads a notification of the current user. Other users' notifications are reported as missing.
func (h *handler) own(c *fiber.Ctx) (models.Notification, error) {
	id, err := common.ParamID(c, "id")
	if err != nil {
		return models.Notification{}, err
	}
	n, err := h.Store.Notifications.Get(c.UserContext(), id)
	if err != nil {
		return n, err
	}
	if n.UserID != common.CurrentUser(c).ID {
		return n, database.ErrNotFound
	}
	return n, nil
}

func (h *handler) MarkReadAPI(c *fiber.Ctx) error {
	n, err := h.own(c)
	if err != nil {
		return err
	}
	if !n.IsRead {
		now := h.Clock()
		n.IsRead = true
		n.ReadAt = &now
		if err := h.Store.Notifications.Update(c.UserContext(), &n); err != nil {
			return err
		}
	}
	return common.OK(c, n)
}

func (h *handler) MarkAllReadAPI(c *fiber.Ctx) error {
	ctx := c.UserContext()
	unread, err := database.All(ctx, h.Store.Notifications, database.Filter{
		"user_id": common.CurrentUser(c).ID,
		"is_read": false,
	})
	if err != nil {
		return err
	}
	now := h.Clock()
	for i := range unread {
		unread[i].IsRead = true
		unread[i].ReadAt = &now
		if err := h.Store.Notifications.Update(ctx, &unread[i]); err != nil {
			return err
		}
	}
	return common.OK(c, fiber.Map{"count": len(unread)})
}

// DeleteNotificationAPI removes one of the user's notifications. Admins may delete any.
func (h *handler) DeleteNotificationAPI(c *fiber.Ctx) error {
	var id int64
	if common.HasRole(c, models.RoleAdmin) {
		var err error
		if id, err = common.ParamID(c, "id"); err != nil {
			return err
		}
		if _, err := h.Store.Notifications.Get(c.UserContext(), id); err != nil {
			return err
		}
	} else {
		n, err := h.own(c)
		if err != nil {
			return err
		}
		id = n.ID
	}
	if err := h.Store.Notifications.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return common.Message(c, "Notification deleted")
}

type message struct {
	Title   string `json:"title" validate:"required,max=200"`
	Message string `json:"message" validate:"required"`
	Type    string `json:"type" validate:"omitempty,oneof=info warning success error"`
}

func (m message) notification(userID, sender int64, audience models.Audience) models.Notification {
	kind := m.Type
	if kind == "" {
		kind = "info"
	}
	return models.Notification{
		UserID:   userID,
		Title:    m.Title,
		Message:  m.Message,
		Type:     kind,
		Audience: audience,
		SentBy:   sender,
	}
}

// CreateNotificationAPI sends a notification to one user.
func (h *handler) CreateNotificationAPI(c *fiber.Ctx) error {
	var req struct {
		message
		UserID int64 `json:"user_id" validate:"required"`
	}
	if err := common.ParseBody(c, &req); err != nil {
		return err
	}
	if err := common.MustExist(c, h.Store.Users, req.UserID, "user_id"); err != nil {
		return err
	}
	n := req.notification(req.UserID, common.CurrentUser(c).ID, models.AudienceUser)
	if err := h.Store.Notifications.Create(c.UserContext(), &n); err != nil {
		return err
	}
	return common.Created(c, n)
}

// BroadcastAPI stores one notification for every active user in the audience.
func (h *handler) BroadcastAPI(c *fiber.Ctx) error {
	var req struct {
		message
		Audience models.Audience `json:"audience" validate:"required,enum,ne=user"`
	}
	if err := common.ParseBody(c, &req); err != nil {
		return err
	}

	ctx := c.UserContext()
	users, err := database.All(ctx, h.Store.Users, database.Filter{"is_active": true})
	if err != nil {
		return err
	}
	sender := common.CurrentUser(c).ID
	count := 0
	for _, u := range users {
		if !req.Audience.Includes(u.Role) {
			continue
		}
		n := req.notification(u.ID, sender, req.Audience)
		if err := h.Store.Notifications.Create(ctx, &n); err != nil {
			return err
		}
		count++
	}

	h.Log.Info("notification broadcast", zap.String("audience", string(req.Audience)), zap.Int("recipients", count))
	return common.Created(c, fiber.Map{"audience": req.Audience, "recipients": count})
}
