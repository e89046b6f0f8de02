package common

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// ParamID reads a positive integer path parameter.
func ParamID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// QueryID reads an optional positive integer query parameter. Zero means absent.
func QueryID(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// Page reads limit and offset, applying the default and maximum page size.
func Page(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", defaultLimit)
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Filters builds a storage filter from the named query parameters.
// Parameters ending in _id must be integers.
func Filters(c *fiber.Ctx, names ...string) (database.Filter, error) {
	where := database.Filter{}
	for _, name := range names {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			continue
		}
		if strings.HasSuffix(name, "_id") {
			id, err := QueryID(c, name)
			if err != nil {
				return nil, err
			}
			where[name] = id
			continue
		}
		where[name] = raw
	}
	return where, nil
}

// TermQuery reads the required term and session query parameters.
func TermQuery(c *fiber.Ctx) (models.Term, string, error) {
	q := struct {
		Term    models.Term `json:"term" validate:"required,enum"`
		Session string      `json:"session" validate:"required,session"`
	}{models.Term(c.Query("term")), c.Query("session")}
	if err := ValidateStruct(&q); err != nil {
		return "", "", err
	}
	return q.Term, q.Session, nil
}
