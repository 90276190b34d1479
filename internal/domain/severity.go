package domain

import (
	"cmp"
	"slices"
)

// SeverityScore weights fatalities twice as heavily as injuries.
func SeverityScore(r CollisionRecord) int {
	return r.InjuredPersons + 2*r.KilledPersons
}

// SeverityDistribution counts records per distinct severity score.
func SeverityDistribution(ds Dataset) map[int]int {
	dist := make(map[int]int)
	for _, r := range ds.records {
		dist[SeverityScore(r)]++
	}
	return dist
}

// SeverityCount is one bar of the severity distribution.
type SeverityCount struct {
	Severity   int `json:"severity"`
	Collisions int `json:"collisions"`
}

// SortedSeverity orders a distribution by ascending severity.
func SortedSeverity(dist map[int]int) []SeverityCount {
	out := make([]SeverityCount, 0, len(dist))
	for s, n := range dist {
		out = append(out, SeverityCount{Severity: s, Collisions: n})
	}
	slices.SortFunc(out, func(a, b SeverityCount) int {
		return cmp.Compare(a.Severity, b.Severity)
	})
	return out
}
