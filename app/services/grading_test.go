package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateScore(t *testing.T) {
	tests := []struct {
		name           string
		ca1, ca2, exam float64
		total          float64
		grade, remark  string
	}{
		{"worked example", 18, 17, 50, 85, "A", "Excellent"},
		{"lower bound of A", 20, 20, 40, 80, "A", "Excellent"},
		{"just below A", 20, 19, 40, 79, "B", "Very Good"},
		{"B", 15, 15, 40, 70, "B", "Very Good"},
		{"C", 10, 10, 40, 60, "C", "Good"},
		{"D", 10, 10, 30, 50, "D", "Fair"},
		{"E", 10, 5, 30, 45, "E", "Pass"},
		{"just below E", 10, 4.5, 30, 44.5, "F", "Fail"},
		{"all zero", 0, 0, 0, 0, "F", "Fail"},
		{"full marks", 20, 20, 60, 100, "A", "Excellent"},
		{"fractions", 12.5, 13.25, 44.75, 70.5, "B", "Very Good"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AggregateScore(tt.ca1, tt.ca2, tt.exam, DefaultMaxima)
			require.NoError(t, err)
			assert.Equal(t, tt.total, got.Total)
			assert.Equal(t, tt.grade, got.Grade)
			assert.Equal(t, tt.remark, got.Remark)
		})
	}
}

func TestAggregateScoreRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name           string
		ca1, ca2, exam float64
		field          string
	}{
		{"negative ca1", -1, 10, 10, "ca1"},
		{"ca2 above max", 10, 21, 10, "ca2"},
		{"exam above max", 10, 10, 61, "exam"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AggregateScore(tt.ca1, tt.ca2, tt.exam, DefaultMaxima)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrScoreOutOfRange)
			var re *RangeError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.field, re.Field)
		})
	}
}

func TestAggregateScoreCustomMaxima(t *testing.T) {
	max := ScoreMaxima{CA1: 10, CA2: 30, Exam: 60}
	got, err := AggregateScore(10, 30, 40, max)
	require.NoError(t, err)
	assert.Equal(t, 80.0, got.Total)

	_, err = AggregateScore(11, 0, 0, max)
	assert.ErrorIs(t, err, ErrScoreOutOfRange)
}

func TestGradeThresholdsAreMonotonic(t *testing.T) {
	order := map[string]int{"F": 0, "E": 1, "D": 2, "C": 3, "B": 4, "A": 5}
	prev := -1
	for total := 0.0; total <= 100; total += 0.5 {
		g := order[GradeFor(total)]
		assert.GreaterOrEqual(t, g, prev, "total %v", total)
		prev = g
	}
}
