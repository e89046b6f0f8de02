package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankClass(t *testing.T) {
	got := RankClass([]RankEntry{
		{StudentID: 1, Total: 70},
		{StudentID: 2, Total: 85},
		{StudentID: 3, Total: 40},
		{StudentID: 4, Total: 70},
	})

	require.Len(t, got.Entries, 4)
	assert.Equal(t, 66.25, got.Average)

	var ids, positions []int
	for _, e := range got.Entries {
		ids = append(ids, int(e.StudentID))
		positions = append(positions, e.Position)
	}
	assert.Equal(t, []int{2, 1, 4, 3}, ids, "ties keep input order")
	assert.Equal(t, []int{1, 2, 2, 4}, positions)
	assert.Equal(t, "2nd", got.Entries[2].Ordinal)
	assert.Equal(t, "4th", got.Entries[3].Ordinal)
}

func TestRankClassEmpty(t *testing.T) {
	got := RankClass(nil)
	assert.Empty(t, got.Entries)
	assert.Equal(t, 0.0, got.Average)
}

func TestRankClassDoesNotModifyInput(t *testing.T) {
	in := []RankEntry{{StudentID: 1, Total: 10}, {StudentID: 2, Total: 90}}
	RankClass(in)
	assert.Equal(t, int64(1), in[0].StudentID)
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th",
		13: "13th", 21: "21st", 22: "22nd", 101: "101st", 111: "111th",
	}
	for n, want := range cases {
		assert.Equal(t, want, Ordinal(n))
	}
}
