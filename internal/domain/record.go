package domain

import (
	"iter"
	"slices"
	"time"
)

// CollisionRecord is one normalized crash report.
type CollisionRecord struct {
	ID                 string    `json:"id"`
	Timestamp          time.Time `json:"date/time"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	InjuredPersons     int       `json:"injured_persons"`
	KilledPersons      int       `json:"killed_persons"`
	InjuredPedestrians int       `json:"injured_pedestrians"`
	InjuredCyclists    int       `json:"injured_cyclists"`
	InjuredMotorists   int       `json:"injured_motorists"`
	OnStreetName       string    `json:"on_street_name,omitempty"`
	VehicleType1       string    `json:"vehicle_type_1,omitempty"`
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Geo returns the record's coordinates.
func (r CollisionRecord) Geo() Geo {
	return Geo{Lat: r.Latitude, Lon: r.Longitude}
}

// Dataset is an ordered, read-only sequence of collision records. Filters and
// aggregations never modify a Dataset; they build new ones.
type Dataset struct {
	records []CollisionRecord
}

// NewDataset copies records into a new Dataset.
func NewDataset(records []CollisionRecord) Dataset {
	return Dataset{records: slices.Clone(records)}
}

// Len returns the number of records.
func (d Dataset) Len() int { return len(d.records) }

// At returns the i-th record. It panics if i is out of range, like a slice index.
func (d Dataset) At(i int) CollisionRecord { return d.records[i] }

// All iterates records in load order.
func (d Dataset) All() iter.Seq2[int, CollisionRecord] {
	return func(yield func(int, CollisionRecord) bool) {
		for i, r := range d.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Records returns a copy of the underlying records.
func (d Dataset) Records() []CollisionRecord {
	return slices.Clone(d.records)
}

// filter builds a new Dataset from the records matching keep, preserving order.
func (d Dataset) filter(keep func(CollisionRecord) bool) Dataset {
	out := make([]CollisionRecord, 0, len(d.records))
	for _, r := range d.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return Dataset{records: out}
}

// DropReason explains why a source row was excluded at load time.
type DropReason string

const (
	DropNone               DropReason = ""
	DropMissingGeolocation DropReason = "missing_geolocation"
	DropInvalidTimestamp   DropReason = "invalid_timestamp"
)

// LoadSummary describes one load of a source file.
type LoadSummary struct {
	Path                      string    `json:"path"`
	MaxRows                   int       `json:"max_rows"`
	RowsRead                  int       `json:"rows_read"`
	RowsKept                  int       `json:"rows_kept"`
	DroppedMissingGeolocation int       `json:"dropped_missing_geolocation"`
	DroppedInvalidTimestamp   int       `json:"dropped_invalid_timestamp"`
	LoadedAt                  time.Time `json:"loaded_at"`
}

// NewLoadSummary starts a summary for path stamped with the current time.
func NewLoadSummary(path string, maxRows int) LoadSummary {
	return LoadSummary{Path: path, MaxRows: maxRows, LoadedAt: clock.Now().UTC()}
}

// Count records the outcome of one source row.
func (s *LoadSummary) Count(reason DropReason) {
	s.RowsRead++
	switch reason {
	case DropNone:
		s.RowsKept++
	case DropMissingGeolocation:
		s.DroppedMissingGeolocation++
	case DropInvalidTimestamp:
		s.DroppedInvalidTimestamp++
	}
}

// Dropped returns the total number of excluded rows.
func (s LoadSummary) Dropped() int {
	return s.DroppedMissingGeolocation + s.DroppedInvalidTimestamp
}

// LoadResult is a loaded dataset together with its load summary.
type LoadResult struct {
	Dataset Dataset
	Summary LoadSummary
}
