package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	dateLayouts = []string{"1/2/2006", "2006-01-02"}
	timeLayouts = []string{"15:04", "15:04:05"}
)

// ParseRow converts one source row into a CollisionRecord. line is the
// 1-based data row number and only feeds the fallback ID. A non-empty
// DropReason means the row must be excluded; the returned record is then zero.
func ParseRow(s Schema, row []string, line int) (CollisionRecord, DropReason) {
	lat, okLat := parseCoordinate(s.value(row, FieldLatitude))
	lon, okLon := parseCoordinate(s.value(row, FieldLongitude))
	if !okLat || !okLon {
		return CollisionRecord{}, DropMissingGeolocation
	}

	ts, err := parseTimestamp(s.value(row, FieldCrashDate), s.value(row, FieldCrashTime))
	if err != nil {
		return CollisionRecord{}, DropInvalidTimestamp
	}

	rec := CollisionRecord{
		Timestamp:          ts,
		Latitude:           lat,
		Longitude:          lon,
		InjuredPersons:     parseCount(s.value(row, FieldInjuredPersons)),
		KilledPersons:      parseCount(s.value(row, FieldKilledPersons)),
		InjuredPedestrians: parseCount(s.value(row, FieldInjuredPedestrians)),
		InjuredCyclists:    parseCount(s.value(row, FieldInjuredCyclists)),
		InjuredMotorists:   parseCount(s.value(row, FieldInjuredMotorists)),
		OnStreetName:       normalizeText(s.value(row, FieldOnStreetName)),
		VehicleType1:       normalizeText(s.value(row, FieldVehicleType1)),
	}
	rec.ID = s.value(row, FieldCollisionID)
	if rec.ID == "" {
		rec.ID = generateID(rec, line)
	}
	return rec, DropNone
}

// parseCoordinate parses a decimal degree. Empty, non-numeric and NaN values are missing.
func parseCoordinate(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseTimestamp merges a crash date and a crash time into one instant.
// Socrata timestamps ("2021-09-11T00:00:00.000") contribute only their date.
func parseTimestamp(date, clockTime string) (time.Time, error) {
	if i := strings.IndexByte(date, 'T'); i > 0 {
		date = date[:i]
	}
	d, err := parseWithLayouts(date, dateLayouts)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse crash date %q: %w", date, err)
	}
	t, err := parseWithLayouts(clockTime, timeLayouts)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse crash time %q: %w", clockTime, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

func parseWithLayouts(value string, layouts []string) (time.Time, error) {
	var firstErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// parseCount parses a non-negative count. Empty or invalid values are 0,
// fractions truncate and negatives clamp to 0.
func parseCount(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return max(n, 0)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || v < 0 || v > math.MaxInt32 {
		return 0
	}
	return int(v)
}

// normalizeText collapses runs of whitespace; the source pads street names.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// generateID derives an ID for sources without a collision_id column. The row
// number keeps identical rows apart; reloads of the same file still agree.
func generateID(r CollisionRecord, line int) string {
	key := fmt.Sprintf("%d|%s|%.6f|%.6f|%s|%s",
		line, r.Timestamp.Format(time.RFC3339), r.Latitude, r.Longitude, r.OnStreetName, r.VehicleType1)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:16])
}
