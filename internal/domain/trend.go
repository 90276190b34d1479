package domain

import (
	"slices"
	"time"
)

// MonthCount is the number of collisions in one calendar month.
type MonthCount struct {
	Month      time.Time `json:"month"`
	Collisions int       `json:"collisions"`
}

// MonthlyCounts groups records by calendar month in chronological order. Month
// is the first instant of the month.
func MonthlyCounts(ds Dataset) []MonthCount {
	counts := make(map[time.Time]int)
	for _, r := range ds.records {
		counts[monthStart(r.Timestamp)]++
	}
	out := make([]MonthCount, 0, len(counts))
	for m, n := range counts {
		out = append(out, MonthCount{Month: m, Collisions: n})
	}
	slices.SortFunc(out, func(a, b MonthCount) int {
		return a.Month.Compare(b.Month)
	})
	return out
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
