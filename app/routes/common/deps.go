package common

import (
	"time"

	"go.uber.org/zap"

	"github.com/smugflex-sys/Final-sub000/app/cache"
	"github.com/smugflex-sys/Final-sub000/app/config"
	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/services"
)

// Deps is everything a route handler needs. It is built once in main.
type Deps struct {
	Store  *database.Store
	Cache  cache.Cache
	Config *config.Config
	Log    *zap.Logger
	Now    func() time.Time
}

// Maxima returns the configured score maxima.
func (d *Deps) Maxima() services.ScoreMaxima {
	return services.ScoreMaxima{CA1: d.Config.CA1Max, CA2: d.Config.CA2Max, Exam: d.Config.ExamMax}
}

// Clock returns the current time in UTC.
func (d *Deps) Clock() time.Time {
	if d.Now == nil {
		return time.Now().UTC()
	}
	return d.Now().UTC()
}
