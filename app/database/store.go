package database

import (
	"context"
	"sort"

	"github.com/smugflex-sys/Final-sub000/app/models"
)

// Filter matches records whose columns equal the given values. A nil value matches NULL.
type Filter map[string]interface{}

// Query selects a page of records. Records are always ordered by id.
type Query struct {
	Where  Filter
	Limit  int
	Offset int
}

// Repository is the storage contract every entity table satisfies.
type Repository[T any] interface {
	List(ctx context.Context, q Query) ([]T, error)
	Count(ctx context.Context, where Filter) (int, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, rec *T) error
	Update(ctx context.Context, rec *T) error
	Delete(ctx context.Context, id int64) error
}

// Store groups the repositories of the application.
type Store struct {
	Users              Repository[models.User]
	RefreshTokens      Repository[models.RefreshToken]
	Departments        Repository[models.Department]
	Teachers           Repository[models.Teacher]
	Parents            Repository[models.Parent]
	Classes            Repository[models.Class]
	Students           Repository[models.Student]
	Subjects           Repository[models.Subject]
	SubjectAssignments Repository[models.SubjectAssignment]
	Scores             Repository[models.Score]
	FeeStructures      Repository[models.FeeStructure]
	Scholarships       Repository[models.Scholarship]
	Payments           Repository[models.Payment]
	Attendance         Repository[models.Attendance]
	Notifications      Repository[models.Notification]

	closer func() error
}

// Close releases the underlying connection, if any.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// sortedKeys keeps generated SQL deterministic.
func sortedKeys(f Filter) []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All is a convenience for listing every record matching where.
func All[T any](ctx context.Context, repo Repository[T], where Filter) ([]T, error) {
	return repo.List(ctx, Query{Where: where})
}

// First returns the first record matching where, or ErrNotFound.
func First[T any](ctx context.Context, repo Repository[T], where Filter) (T, error) {
	var zero T
	recs, err := repo.List(ctx, Query{Where: where, Limit: 1})
	if err != nil {
		return zero, err
	}
	if len(recs) == 0 {
		return zero, ErrNotFound
	}
	return recs[0], nil
}

// Exists reports whether a record with the id exists.
func Exists[T any](ctx context.Context, repo Repository[T], id int64) (bool, error) {
	n, err := repo.Count(ctx, Filter{"id": id})
	return n > 0, err
}
