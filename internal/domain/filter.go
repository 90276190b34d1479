package domain

import "fmt"

// HoursPerDay bounds the hour-of-day parameter: valid hours are 0 through 23.
const HoursPerDay = 24

// FilterByMinInjured returns the records with at least threshold injured persons.
func FilterByMinInjured(ds Dataset, threshold int) Dataset {
	return ds.filter(func(r CollisionRecord) bool {
		return r.InjuredPersons >= threshold
	})
}

// FilterByHour returns the records whose timestamp falls in the given hour of
// day. Hours outside 0–23 match nothing.
func FilterByHour(ds Dataset, hour int) Dataset {
	if !ValidHour(hour) {
		return Dataset{}
	}
	return ds.filter(func(r CollisionRecord) bool {
		return r.Timestamp.Hour() == hour
	})
}

// ValidHour reports whether hour is a valid hour of day.
func ValidHour(hour int) bool {
	return hour >= 0 && hour < HoursPerDay
}

// HourWindow returns the display bounds of an hour window. The end wraps past
// midnight, so hour 23 yields (23, 0). It does not affect filtering.
func HourWindow(hour int) (start, end int) {
	return hour, (hour + 1) % HoursPerDay
}

// HourWindowLabel renders the heading shown above an hour view.
func HourWindowLabel(hour int) string {
	start, end := HourWindow(hour)
	return fmt.Sprintf("Vehicle collisions between %d:00 and %d:00", start, end)
}

// MinuteHistogram counts records within hour, bucketed by minute of the hour.
func MinuteHistogram(ds Dataset, hour int) [60]int {
	var buckets [60]int
	if !ValidHour(hour) {
		return buckets
	}
	for _, r := range ds.records {
		if r.Timestamp.Hour() == hour {
			buckets[r.Timestamp.Minute()]++
		}
	}
	return buckets
}

// Midpoint returns the mean coordinate of the dataset, used to center maps.
// It reports false for an empty dataset.
func Midpoint(ds Dataset) (Geo, bool) {
	if len(ds.records) == 0 {
		return Geo{}, false
	}
	var lat, lon float64
	for _, r := range ds.records {
		lat += r.Latitude
		lon += r.Longitude
	}
	n := float64(len(ds.records))
	return Geo{Lat: lat / n, Lon: lon / n}, true
}

// Points returns the coordinates of every record in order.
func Points(ds Dataset) []Geo {
	out := make([]Geo, 0, len(ds.records))
	for _, r := range ds.records {
		out = append(out, r.Geo())
	}
	return out
}
