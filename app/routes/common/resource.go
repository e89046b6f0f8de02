package common

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
)

// Record constrains P to the pointer type of a stored entity.
type Record[T any] interface {
	*T
	models.Record
}

// Resource implements the list/detail/create/update/delete handlers shared by
// the plain entity endpoints. Hooks add the per-entity rules.
type Resource[T any, P Record[T]] struct {
	Repo database.Repository[T]
	// Filters are the query parameters List passes to the store.
	Filters []string
	// Prepare fills defaults and checks references before validation on
	// every create or update.
	Prepare func(c *fiber.Ctx, rec P, isNew bool) error
	// BeforeDelete may refuse a delete, usually with Conflict.
	BeforeDelete func(c *fiber.Ctx, id int64) error
	// Changed runs after a successful write.
	Changed func(c *fiber.Ctx, rec P)
}

func (r *Resource[T, P]) List(c *fiber.Ctx) error {
	where, err := Filters(c, r.Filters...)
	if err != nil {
		return err
	}
	limit, offset := Page(c)
	items, err := r.Repo.List(c.UserContext(), database.Query{Where: where, Limit: limit, Offset: offset})
	if err != nil {
		return err
	}
	total, err := r.Repo.Count(c.UserContext(), where)
	if err != nil {
		return err
	}
	return List(c, items, total)
}

func (r *Resource[T, P]) Get(c *fiber.Ctx) error {
	id, err := ParamID(c, "id")
	if err != nil {
		return err
	}
	rec, err := r.Repo.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return OK(c, rec)
}

func (r *Resource[T, P]) Create(c *fiber.Ctx) error {
	rec := P(new(T))
	if err := c.BodyParser(rec); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if r.Prepare != nil {
		if err := r.Prepare(c, rec, true); err != nil {
			return err
		}
	}
	if err := ValidateStruct(rec); err != nil {
		return err
	}
	if err := r.Repo.Create(c.UserContext(), (*T)(rec)); err != nil {
		return err
	}
	if r.Changed != nil {
		r.Changed(c, rec)
	}
	return Created(c, rec)
}

func (r *Resource[T, P]) Update(c *fiber.Ctx) error {
	id, err := ParamID(c, "id")
	if err != nil {
		return err
	}
	current, err := r.Repo.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	rec := P(&current)
	if err := c.BodyParser(rec); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	rec.SetKey(id)
	if r.Prepare != nil {
		if err := r.Prepare(c, rec, false); err != nil {
			return err
		}
	}
	if err := ValidateStruct(rec); err != nil {
		return err
	}
	if err := r.Repo.Update(c.UserContext(), (*T)(rec)); err != nil {
		return err
	}
	if r.Changed != nil {
		r.Changed(c, rec)
	}
	return OK(c, rec)
}

func (r *Resource[T, P]) Delete(c *fiber.Ctx) error {
	id, err := ParamID(c, "id")
	if err != nil {
		return err
	}
	rec, err := r.Repo.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	if r.BeforeDelete != nil {
		if err := r.BeforeDelete(c, id); err != nil {
			return err
		}
	}
	if err := r.Repo.Delete(c.UserContext(), id); err != nil {
		return err
	}
	if r.Changed != nil {
		r.Changed(c, P(&rec))
	}
	return Message(c, "Deleted successfully")
}

// MustExist turns a missing referenced record into a validation error on field.
func MustExist[T any](c *fiber.Ctx, repo database.Repository[T], id int64, field string) error {
	ok, err := database.Exists(c.UserContext(), repo, id)
	if err != nil {
		return err
	}
	if !ok {
		return NewValidationError(field, field+" does not reference an existing record")
	}
	return nil
}

// MustExistOptional is MustExist for nullable references.
func MustExistOptional[T any](c *fiber.Ctx, repo database.Repository[T], id *int64, field string) error {
	if id == nil {
		return nil
	}
	return MustExist(c, repo, *id, field)
}

// RefuseIfAny returns a Conflict carrying msg when any record matches where.
func RefuseIfAny[T any](c *fiber.Ctx, repo database.Repository[T], where database.Filter, msg string) error {
	n, err := repo.Count(c.UserContext(), where)
	if err != nil {
		return err
	}
	if n > 0 {
		return Conflict(msg)
	}
	return nil
}
