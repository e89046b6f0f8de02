package database

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/smugflex-sys/Final-sub000/app/models"
)

type record[T any] interface {
	*T
	models.Record
}

// memoryRepo keeps one table in a map guarded by a mutex.
type memoryRepo[T any, P record[T]] struct {
	mutex  sync.RWMutex
	table  string
	seq    int64
	rows   map[int64]T
	cols   map[string][]int
	ptrs   [][]int
	unique []string
	now    func() time.Time
}

func newMemoryRepo[T any, P record[T]](table string, now func() time.Time, unique ...string) *memoryRepo[T, P] {
	var zero T
	cols := make(map[string][]int)
	var ptrs [][]int
	for _, c := range columnsOf(reflect.TypeOf(zero)) {
		cols[c.name] = c.index
		if reflect.TypeOf(zero).FieldByIndex(c.index).Type.Kind() == reflect.Ptr {
			ptrs = append(ptrs, c.index)
		}
	}
	return &memoryRepo[T, P]{
		table:  table,
		rows:   make(map[int64]T),
		cols:   cols,
		ptrs:   ptrs,
		unique: unique,
		now:    now,
	}
}

// NewMemoryStore returns a Store that keeps everything in process memory.
func NewMemoryStore() *Store {
	return newMemoryStore(time.Now)
}

func newMemoryStore(now func() time.Time) *Store {
	return &Store{
		Users:              newMemoryRepo[models.User]("users", now, "email"),
		RefreshTokens:      newMemoryRepo[models.RefreshToken]("refresh_tokens", now, "token"),
		Departments:        newMemoryRepo[models.Department]("departments", now, "code"),
		Teachers:           newMemoryRepo[models.Teacher]("teachers", now, "staff_no"),
		Parents:            newMemoryRepo[models.Parent]("parents", now),
		Classes:            newMemoryRepo[models.Class]("classes", now, "name"),
		Students:           newMemoryRepo[models.Student]("students", now, "admission_no"),
		Subjects:           newMemoryRepo[models.Subject]("subjects", now, "code"),
		SubjectAssignments: newMemoryRepo[models.SubjectAssignment]("subject_assignments", now),
		Scores:             newMemoryRepo[models.Score]("scores", now),
		FeeStructures:      newMemoryRepo[models.FeeStructure]("fee_structures", now),
		Scholarships:       newMemoryRepo[models.Scholarship]("scholarships", now),
		Payments:           newMemoryRepo[models.Payment]("payments", now),
		Attendance:         newMemoryRepo[models.Attendance]("attendance", now),
		Notifications:      newMemoryRepo[models.Notification]("notifications", now),
	}
}

// clone copies row and the values behind its pointer columns, so callers
// never share memory with the stored row.
func (repo *memoryRepo[T, P]) clone(row T) T {
	v := reflect.ValueOf(&row).Elem()
	for _, index := range repo.ptrs {
		f := v.FieldByIndex(index)
		if f.IsNil() {
			continue
		}
		fresh := reflect.New(f.Type().Elem())
		fresh.Elem().Set(f.Elem())
		f.Set(fresh)
	}
	return row
}

func (repo *memoryRepo[T, P]) matches(row *T, where Filter) (bool, error) {
	v := reflect.ValueOf(row).Elem()
	for _, name := range sortedKeys(where) {
		index, ok := repo.cols[name]
		if !ok {
			return false, errors.Wrapf(ErrUnknownColumn, "%s.%s", repo.table, name)
		}
		if !equalValue(v.FieldByIndex(index), where[name]) {
			return false, nil
		}
	}
	return true, nil
}

// equalValue compares a stored field with a filter value by their printed form,
// so typed enums, ints and query-string values compare naturally.
func equalValue(field reflect.Value, want interface{}) bool {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return want == nil || isNilPointer(want)
		}
		field = field.Elem()
	}
	if want == nil || isNilPointer(want) {
		return false
	}
	wv := reflect.ValueOf(want)
	if wv.Kind() == reflect.Ptr {
		wv = wv.Elem()
	}
	return fmt.Sprint(field.Interface()) == fmt.Sprint(wv.Interface())
}

func isNilPointer(v interface{}) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

func (repo *memoryRepo[T, P]) List(ctx context.Context, q Query) ([]T, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	ids := make([]int64, 0, len(repo.rows))
	for id := range repo.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0)
	skipped := 0
	for _, id := range ids {
		row := repo.rows[id]
		ok, err := repo.matches(&row, q.Where)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if skipped < q.Offset {
			skipped++
			continue
		}
		out = append(out, repo.clone(row))
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (repo *memoryRepo[T, P]) Count(ctx context.Context, where Filter) (int, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	n := 0
	for _, row := range repo.rows {
		row := row
		ok, err := repo.matches(&row, where)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func (repo *memoryRepo[T, P]) Get(ctx context.Context, id int64) (T, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if row, ok := repo.rows[id]; ok {
		return repo.clone(row), nil
	}
	var zero T
	return zero, ErrNotFound
}

// checkUnique must be called with the write lock held.
func (repo *memoryRepo[T, P]) checkUnique(rec *T, self int64) error {
	v := reflect.ValueOf(rec).Elem()
	for _, name := range repo.unique {
		want := v.FieldByIndex(repo.cols[name]).Interface()
		for id, row := range repo.rows {
			if id == self {
				continue
			}
			if equalValue(reflect.ValueOf(&row).Elem().FieldByIndex(repo.cols[name]), want) {
				return errors.Wrapf(ErrDuplicate, "%s.%s", repo.table, name)
			}
		}
	}
	return nil
}

func (repo *memoryRepo[T, P]) Create(ctx context.Context, rec *T) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if err := repo.checkUnique(rec, 0); err != nil {
		return err
	}
	repo.seq++
	now := repo.now().UTC()
	P(rec).SetKey(repo.seq)
	P(rec).Stamp(now, now)
	repo.rows[repo.seq] = repo.clone(*rec)
	return nil
}

func (repo *memoryRepo[T, P]) Update(ctx context.Context, rec *T) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	id := P(rec).Key()
	old, ok := repo.rows[id]
	if !ok {
		return ErrNotFound
	}
	if err := repo.checkUnique(rec, id); err != nil {
		return err
	}
	P(rec).Stamp(P(&old).Created(), repo.now().UTC())
	repo.rows[id] = repo.clone(*rec)
	return nil
}

func (repo *memoryRepo[T, P]) Delete(ctx context.Context, id int64) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if _, ok := repo.rows[id]; !ok {
		return ErrNotFound
	}
	delete(repo.rows, id)
	return nil
}
