package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
)

type handler struct {
	*common.Deps
}

type tokenPair struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         *models.User `json:"user"`
}

// issue signs an access token and stores a fresh refresh token.
func (h *handler) issue(c *fiber.Ctx, user *models.User) error {
	now := h.Clock()
	token, err := GenerateJWT(h.Config.JWTSecret, user, now, h.Config.AccessTokenTTL)
	if err != nil {
		return err
	}
	refresh := NewRefreshToken(user.ID, now, h.Config.RefreshTokenTTL)
	if err := h.Store.RefreshTokens.Create(c.UserContext(), refresh); err != nil {
		return err
	}
	return common.OK(c, tokenPair{
		Token:        token,
		RefreshToken: refresh.Token,
		ExpiresIn:    int64(h.Config.AccessTokenTTL.Seconds()),
		User:         user,
	})
}

func (h *handler) LoginAPI(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := common.ParseBody(c, &req); err != nil {
		return err
	}

	user, err := database.GetUserByEmail(c.UserContext(), h.Store, req.Email)
	if err != nil {
		if database.IsNotFound(err) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}
		return err
	}

	if !CheckPasswordHash(req.Password, user.Password) {
		h.Log.Info("failed login", zap.String("email", user.Email))
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	}

	return h.issue(c, &user)
}

// RefreshAPI exchanges a refresh token for a new token pair. The old refresh token is revoked.
func (h *handler) RefreshAPI(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := common.ParseBody(c, &req); err != nil {
		return err
	}

	ctx := c.UserContext()
	stored, err := database.First(ctx, h.Store.RefreshTokens, database.Filter{"token": req.RefreshToken})
	if err != nil {
		if database.IsNotFound(err) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid refresh token")
		}
		return err
	}
	if !stored.Usable(h.Clock()) {
		return fiber.NewError(fiber.StatusUnauthorized, "Refresh token expired")
	}

	user, err := h.Store.Users.Get(ctx, stored.UserID)
	if err != nil {
		if database.IsNotFound(err) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid refresh token")
		}
		return err
	}
	if !user.IsActive {
		return fiber.NewError(fiber.StatusUnauthorized, "Account is disabled")
	}

	stored.Revoked = true
	if err := h.Store.RefreshTokens.Update(ctx, &stored); err != nil {
		return err
	}
	return h.issue(c, &user)
}

func (h *handler) LogoutAPI(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}

	if req.RefreshToken != "" {
		stored, err := database.First(c.UserContext(), h.Store.RefreshTokens, database.Filter{
			"token":   req.RefreshToken,
			"user_id": CurrentUser(c).ID,
		})
		switch {
		case err == nil:
			stored.Revoked = true
			if err := h.Store.RefreshTokens.Update(c.UserContext(), &stored); err != nil {
				return err
			}
		case !database.IsNotFound(err):
			return err
		}
	}

	return common.Message(c, "Logged out")
}

func (h *handler) MeAPI(c *fiber.Ctx) error {
	user, err := h.Store.Users.Get(c.UserContext(), CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return common.OK(c, user)
}

// ChangePasswordAPI replaces the password and revokes every refresh token of the user.
func (h *handler) ChangePasswordAPI(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8,nefield=CurrentPassword"`
	}
	if err := common.ParseBody(c, &req); err != nil {
		return err
	}

	ctx := c.UserContext()
	user, err := h.Store.Users.Get(ctx, CurrentUser(c).ID)
	if err != nil {
		return err
	}
	if !CheckPasswordHash(req.CurrentPassword, user.Password) {
		return common.NewValidationError("current_password", "current_password is incorrect")
	}

	hash, err := HashPassword(req.NewPassword, h.Config.BcryptCost)
	if err != nil {
		return err
	}
	user.Password = hash
	if err := h.Store.Users.Update(ctx, &user); err != nil {
		return err
	}

	tokens, err := database.All(ctx, h.Store.RefreshTokens, database.Filter{"user_id": user.ID, "revoked": false})
	if err != nil {
		return err
	}
	for i := range tokens {
		tokens[i].Revoked = true
		if err := h.Store.RefreshTokens.Update(ctx, &tokens[i]); err != nil {
			return err
		}
	}

	return common.Message(c, "Password changed successfully")
}
