package services

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ErrScoreOutOfRange is returned when a mark is negative or above its maximum.
var ErrScoreOutOfRange = errors.New("score out of range")

// RangeError names the component that was out of range.
type RangeError struct {
	Field string
	Value float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between 0 and %g, got %g", e.Field, e.Max, e.Value)
}

func (e *RangeError) Unwrap() error { return ErrScoreOutOfRange }

// ScoreMaxima holds the highest mark allowed for each component.
type ScoreMaxima struct {
	CA1  float64
	CA2  float64
	Exam float64
}

// DefaultMaxima is the usual 20/20/60 split.
var DefaultMaxima = ScoreMaxima{CA1: 20, CA2: 20, Exam: 60}

// Aggregate is the derived part of a subject score.
type Aggregate struct {
	Total  float64 `json:"total"`
	Grade  string  `json:"grade"`
	Remark string  `json:"remark"`
}

// AggregateScore sums the three marks and grades the total.
func AggregateScore(ca1, ca2, exam float64, max ScoreMaxima) (Aggregate, error) {
	parts := []struct {
		field string
		value float64
		max   float64
	}{
		{"ca1", ca1, max.CA1},
		{"ca2", ca2, max.CA2},
		{"exam", exam, max.Exam},
	}
	for _, p := range parts {
		if p.value < 0 || p.value > p.max || math.IsNaN(p.value) {
			return Aggregate{}, &RangeError{Field: p.field, Value: p.value, Max: p.max}
		}
	}

	total := round2(ca1 + ca2 + exam)
	grade := GradeFor(total)
	return Aggregate{Total: total, Grade: grade, Remark: RemarkFor(grade)}, nil
}

// GradeFor maps a total (or an average) out of 100 to a letter grade.
func GradeFor(total float64) string {
	switch {
	case total >= 80:
		return "A"
	case total >= 70:
		return "B"
	case total >= 60:
		return "C"
	case total >= 50:
		return "D"
	case total >= 45:
		return "E"
	default:
		return "F"
	}
}

var remarks = map[string]string{
	"A": "Excellent",
	"B": "Very Good",
	"C": "Good",
	"D": "Fair",
	"E": "Pass",
	"F": "Fail",
}

// RemarkFor returns the remark printed next to a grade.
func RemarkFor(grade string) string {
	return remarks[grade]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
