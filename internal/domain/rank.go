package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Category is a class of people affected in a collision.
type Category string

const (
	CategoryPedestrians Category = "pedestrians"
	CategoryCyclists    Category = "cyclists"
	CategoryMotorists   Category = "motorists"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryPedestrians, CategoryCyclists, CategoryMotorists}

// ParseCategory accepts a category name in any case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Categories, c) {
		return "", fmt.Errorf("unknown category %q: want pedestrians, cyclists or motorists", s)
	}
	return c, nil
}

// Injured returns the number of people of category c injured in r.
func (c Category) Injured(r CollisionRecord) int {
	switch c {
	case CategoryPedestrians:
		return r.InjuredPedestrians
	case CategoryCyclists:
		return r.InjuredCyclists
	case CategoryMotorists:
		return r.InjuredMotorists
	default:
		return 0
	}
}

// StreetInjury is one collision on a named street with its injury count for a category.
type StreetInjury struct {
	Street  string `json:"on_street_name"`
	Injured int    `json:"injured"`
}

// TopAffected returns up to n collisions with at least one injured person of
// the given category, sorted by that count descending. Records without a
// street name are skipped. Equal counts keep load order.
func TopAffected(ds Dataset, category Category, n int) []StreetInjury {
	if n <= 0 {
		return nil
	}
	var rows []StreetInjury
	for _, r := range ds.records {
		injured := category.Injured(r)
		if injured < 1 || r.OnStreetName == "" {
			continue
		}
		rows = append(rows, StreetInjury{Street: r.OnStreetName, Injured: injured})
	}
	slices.SortStableFunc(rows, func(a, b StreetInjury) int {
		return b.Injured - a.Injured
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// VehicleTypeCount is the number of collisions whose first vehicle has a given type.
type VehicleTypeCount struct {
	VehicleType string `json:"vehicle_type"`
	Collisions  int    `json:"collisions"`
}

// TopVehicleTypes returns the n most frequent first-vehicle types, most
// frequent first. Equal frequencies keep first-seen order. Records without a
// vehicle type are not counted.
func TopVehicleTypes(ds Dataset, n int) []VehicleTypeCount {
	if n <= 0 {
		return nil
	}
	index := make(map[string]int)
	var counts []VehicleTypeCount
	for _, r := range ds.records {
		if r.VehicleType1 == "" {
			continue
		}
		i, ok := index[r.VehicleType1]
		if !ok {
			i = len(counts)
			index[r.VehicleType1] = i
			counts = append(counts, VehicleTypeCount{VehicleType: r.VehicleType1})
		}
		counts[i].Collisions++
	}
	slices.SortStableFunc(counts, func(a, b VehicleTypeCount) int {
		return b.Collisions - a.Collisions
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
