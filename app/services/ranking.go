package services

import (
	"fmt"
	"sort"
)

// RankEntry is one student's total within a class.
type RankEntry struct {
	StudentID int64   `json:"student_id"`
	Total     float64 `json:"total"`
}

// RankedEntry is a RankEntry with its position in the class.
type RankedEntry struct {
	RankEntry
	Position int    `json:"position"`
	Ordinal  string `json:"ordinal"`
}

// ClassRanking is the ordered class list and its mean total.
type ClassRanking struct {
	Entries []RankedEntry `json:"entries"`
	Average float64       `json:"average"`
}

// RankClass orders entries by total, highest first. Equal totals share a
// position and the next position is skipped (1, 2, 2, 4); tied entries keep
// their input order.
func RankClass(entries []RankEntry) ClassRanking {
	if len(entries) == 0 {
		return ClassRanking{Entries: []RankedEntry{}}
	}

	ranked := make([]RankedEntry, len(entries))
	sum := 0.0
	for i, e := range entries {
		ranked[i] = RankedEntry{RankEntry: e}
		sum += e.Total
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})

	for i := range ranked {
		if i > 0 && ranked[i].Total == ranked[i-1].Total {
			ranked[i].Position = ranked[i-1].Position
		} else {
			ranked[i].Position = i + 1
		}
		ranked[i].Ordinal = Ordinal(ranked[i].Position)
	}

	return ClassRanking{Entries: ranked, Average: round2(sum / float64(len(entries)))}
}

// Ordinal formats a position as 1st, 2nd, 3rd, 4th, 11th, 21st...
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
