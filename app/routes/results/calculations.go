package results

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
	"github.com/smugflex-sys/Final-sub000/app/services"
)

func classKeyPrefix(classID int64) string {
	return fmt.Sprintf("results:class:%d:", classID)
}

func classKey(classID int64, term models.Term, session string) string {
	return fmt.Sprintf("%s%s:%s", classKeyPrefix(classID), term, session)
}

// InvalidateClass drops the cached compiled results of a class. Cache errors are logged only.
func InvalidateClass(ctx context.Context, d *common.Deps, classID int64) {
	if err := d.Cache.Invalidate(ctx, classKeyPrefix(classID)); err != nil {
		d.Log.Warn("invalidate results cache", zap.Int64("class_id", classID), zap.Error(err))
	}
}

// ClassResults compiles the results of a class for a term. Unless fresh is
// set, a cached compilation is returned when there is one.
func ClassResults(ctx context.Context, d *common.Deps, classID int64, term models.Term, session string, fresh bool) (services.ClassResult, error) {
	key := classKey(classID, term, session)
	if !fresh {
		var cached services.ClassResult
		found, err := d.Cache.Get(ctx, key, &cached)
		if err != nil {
			d.Log.Warn("read results cache", zap.String("key", key), zap.Error(err))
		}
		if found {
			return cached, nil
		}
	}

	scores, err := database.All(ctx, d.Store.Scores, database.Filter{
		"class_id": classID,
		"term":     term,
		"session":  session,
	})
	if err != nil {
		return services.ClassResult{}, err
	}

	seen := make(map[int64]bool)
	var ids []int64
	for _, sc := range scores {
		if !seen[sc.StudentID] {
			seen[sc.StudentID] = true
			ids = append(ids, sc.StudentID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	students := make([]models.Student, 0, len(ids))
	for _, id := range ids {
		s, err := d.Store.Students.Get(ctx, id)
		if err != nil {
			if database.IsNotFound(err) {
				continue
			}
			return services.ClassResult{}, err
		}
		students = append(students, s)
	}

	subjects, err := database.All(ctx, d.Store.Subjects, nil)
	if err != nil {
		return services.ClassResult{}, err
	}

	result := services.CompileClassResults(classID, term, session, students, subjects, scores)
	if err := d.Cache.Set(ctx, key, result); err != nil {
		d.Log.Warn("write results cache", zap.String("key", key), zap.Error(err))
	}
	return result, nil
}
