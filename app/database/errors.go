package database

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("record already exists")
	ErrInUse         = errors.New("record is referenced by other records")
	ErrUnknownColumn = errors.New("unknown column")
)

// translate maps driver errors onto the package's sentinel errors.
func translate(err error, op, table string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return errors.Wrapf(ErrDuplicate, "%s %s", op, table)
		case "23503":
			return errors.Wrapf(ErrInUse, "%s %s", op, table)
		}
	}
	return errors.Wrapf(err, "%s %s", op, table)
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
