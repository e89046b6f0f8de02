package database

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/smugflex-sys/Final-sub000/app/models"
)

// postgresRepo maps one entity onto one table. Column names come from the db struct tags.
type postgresRepo[T any, P record[T]] struct {
	db      *sqlx.DB
	table   string
	columns []string
	known   map[string]bool
	now     func() time.Time
}

func newPostgresRepo[T any, P record[T]](db *sqlx.DB, table string) *postgresRepo[T, P] {
	var zero T
	cols := columnNames(columnsOf(reflect.TypeOf(zero)))
	known := make(map[string]bool, len(cols))
	for _, c := range cols {
		known[c] = true
	}
	return &postgresRepo[T, P]{db: db, table: table, columns: cols, known: known, now: time.Now}
}

// NewPostgresStore returns a Store backed by PostgreSQL. Closing the store closes db.
func NewPostgresStore(db *sqlx.DB) *Store {
	return &Store{
		Users:              newPostgresRepo[models.User](db, "users"),
		RefreshTokens:      newPostgresRepo[models.RefreshToken](db, "refresh_tokens"),
		Departments:        newPostgresRepo[models.Department](db, "departments"),
		Teachers:           newPostgresRepo[models.Teacher](db, "teachers"),
		Parents:            newPostgresRepo[models.Parent](db, "parents"),
		Classes:            newPostgresRepo[models.Class](db, "classes"),
		Students:           newPostgresRepo[models.Student](db, "students"),
		Subjects:           newPostgresRepo[models.Subject](db, "subjects"),
		SubjectAssignments: newPostgresRepo[models.SubjectAssignment](db, "subject_assignments"),
		Scores:             newPostgresRepo[models.Score](db, "scores"),
		FeeStructures:      newPostgresRepo[models.FeeStructure](db, "fee_structures"),
		Scholarships:       newPostgresRepo[models.Scholarship](db, "scholarships"),
		Payments:           newPostgresRepo[models.Payment](db, "payments"),
		Attendance:         newPostgresRepo[models.Attendance](db, "attendance"),
		Notifications:      newPostgresRepo[models.Notification](db, "notifications"),
		closer:             db.Close,
	}
}

// where builds a WHERE clause with numbered placeholders starting at $1.
func (repo *postgresRepo[T, P]) where(f Filter) (string, []interface{}, error) {
	if len(f) == 0 {
		return "", nil, nil
	}
	var conds []string
	var args []interface{}
	for _, name := range sortedKeys(f) {
		if !repo.known[name] {
			return "", nil, errors.Wrapf(ErrUnknownColumn, "%s.%s", repo.table, name)
		}
		val := f[name]
		if val == nil || isNilPointer(val) {
			conds = append(conds, name+" IS NULL")
			continue
		}
		args = append(args, val)
		conds = append(conds, fmt.Sprintf("%s = $%d", name, len(args)))
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func (repo *postgresRepo[T, P]) List(ctx context.Context, q Query) ([]T, error) {
	clause, args, err := repo.where(q.Where)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + strings.Join(repo.columns, ", ") + " FROM " + repo.table + clause + " ORDER BY id"
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	out := make([]T, 0)
	if err := repo.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, translate(err, "list", repo.table)
	}
	return out, nil
}

func (repo *postgresRepo[T, P]) Count(ctx context.Context, where Filter) (int, error) {
	clause, args, err := repo.where(where)
	if err != nil {
		return 0, err
	}
	var n int
	if err := repo.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+repo.table+clause, args...); err != nil {
		return 0, translate(err, "count", repo.table)
	}
	return n, nil
}

func (repo *postgresRepo[T, P]) Get(ctx context.Context, id int64) (T, error) {
	var rec T
	query := "SELECT " + strings.Join(repo.columns, ", ") + " FROM " + repo.table + " WHERE id = $1"
	if err := repo.db.GetContext(ctx, &rec, query, id); err != nil {
		return rec, translate(err, "get", repo.table)
	}
	return rec, nil
}

func (repo *postgresRepo[T, P]) Create(ctx context.Context, rec *T) error {
	now := repo.now().UTC()
	P(rec).Stamp(now, now)

	cols := make([]string, 0, len(repo.columns))
	for _, c := range repo.columns {
		if c != "id" {
			cols = append(cols, c)
		}
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s) RETURNING id",
		repo.table, strings.Join(cols, ", "), strings.Join(cols, ", :"))

	rows, err := repo.db.NamedQueryContext(ctx, query, rec)
	if err != nil {
		return translate(err, "create", repo.table)
	}
	defer rows.Close()

	var id int64
	if !rows.Next() {
		return errors.Errorf("create %s: no id returned", repo.table)
	}
	if err := rows.Scan(&id); err != nil {
		return translate(err, "create", repo.table)
	}
	P(rec).SetKey(id)
	return nil
}

func (repo *postgresRepo[T, P]) Update(ctx context.Context, rec *T) error {
	P(rec).Stamp(P(rec).Created(), repo.now().UTC())

	sets := make([]string, 0, len(repo.columns))
	for _, c := range repo.columns {
		if c == "id" || c == "created_at" {
			continue
		}
		sets = append(sets, c+" = :"+c)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = :id", repo.table, strings.Join(sets, ", "))

	res, err := repo.db.NamedExecContext(ctx, query, rec)
	if err != nil {
		return translate(err, "update", repo.table)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate(err, "update", repo.table)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *postgresRepo[T, P]) Delete(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM "+repo.table+" WHERE id = $1", id)
	if err != nil {
		return translate(err, "delete", repo.table)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate(err, "delete", repo.table)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
