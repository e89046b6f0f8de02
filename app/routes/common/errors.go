package common

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/services"
)

// Conflict rejects a request that would break a business rule.
func Conflict(msg string) *fiber.Error {
	return fiber.NewError(fiber.StatusConflict, msg)
}

// ErrorHandler renders every error as the JSON envelope used by the API.
// Unknown errors are logged and hidden behind a generic message.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Internal server error"
		body := fiber.Map{}

		var fe *fiber.Error
		var ve *ValidationError
		var re *services.RangeError
		switch {
		case errors.As(err, &fe):
			code, msg = fe.Code, fe.Message
		case errors.As(err, &ve):
			code, msg = fiber.StatusBadRequest, ve.Error()
			body["fields"] = ve.Fields
		case errors.As(err, &re):
			code, msg = fiber.StatusBadRequest, "validation failed"
			body["fields"] = fiber.Map{re.Field: re.Error()}
		case errors.Is(err, database.ErrNotFound):
			code, msg = fiber.StatusNotFound, "Record not found"
		case errors.Is(err, database.ErrDuplicate):
			code, msg = fiber.StatusConflict, "Record already exists"
		case errors.Is(err, database.ErrInUse):
			code, msg = fiber.StatusConflict, "Record is still referenced by other records"
		case errors.Is(err, database.ErrUnknownColumn):
			code, msg = fiber.StatusBadRequest, "Unknown filter"
		case errors.Is(err, services.ErrAlreadyVerified),
			errors.Is(err, services.ErrOverpayment):
			code, msg = fiber.StatusConflict, err.Error()
		case errors.Is(err, services.ErrInvalidAmount):
			code, msg = fiber.StatusBadRequest, err.Error()
		default:
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		body["success"] = false
		body["error"] = msg
		body["code"] = code
		return c.Status(code).JSON(body)
	}
}
