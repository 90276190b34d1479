package domain

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(month time.Month, day, hour, minute int) time.Time {
	return time.Date(2021, month, day, hour, minute, 0, 0, time.UTC)
}

// fixture is a small dataset spread over hours, months, categories and vehicle types.
func fixture() Dataset {
	return NewDataset([]CollisionRecord{
		{ID: "a", Timestamp: at(time.January, 3, 8, 15), Latitude: 40.70, Longitude: -73.90, InjuredPersons: 0, OnStreetName: "BROADWAY", VehicleType1: "Sedan"},
		{ID: "b", Timestamp: at(time.January, 9, 8, 15), Latitude: 40.72, Longitude: -73.92, InjuredPersons: 2, InjuredPedestrians: 2, OnStreetName: "ATLANTIC AVENUE", VehicleType1: "Taxi"},
		{ID: "c", Timestamp: at(time.February, 1, 23, 59), Latitude: 40.74, Longitude: -73.94, InjuredPersons: 5, KilledPersons: 1, InjuredPedestrians: 1, InjuredCyclists: 1, InjuredMotorists: 3, OnStreetName: "BROADWAY", VehicleType1: "Sedan"},
		{ID: "d", Timestamp: at(time.March, 14, 0, 0), Latitude: 40.76, Longitude: -73.96, InjuredPersons: 1, InjuredCyclists: 1, VehicleType1: "Bike"},
		{ID: "e", Timestamp: at(time.February, 20, 8, 45), Latitude: 40.78, Longitude: -73.98, InjuredPersons: 2, InjuredPedestrians: 2, OnStreetName: "QUEENS BOULEVARD", VehicleType1: "Taxi"},
		{ID: "f", Timestamp: at(time.March, 2, 17, 30), Latitude: 40.80, Longitude: -74.00, InjuredPersons: 3, InjuredMotorists: 3, OnStreetName: "FDR DRIVE"},
	})
}

func ids(ds Dataset) []string {
	out := make([]string, 0, ds.Len())
	for _, r := range ds.All() {
		out = append(out, r.ID)
	}
	return out
}

func TestDataset_IsImmutable(t *testing.T) {
	src := []CollisionRecord{{ID: "a"}, {ID: "b"}}
	ds := NewDataset(src)
	src[0].ID = "changed"
	assert.Equal(t, "a", ds.At(0).ID)

	recs := ds.Records()
	recs[1].ID = "changed"
	assert.Equal(t, "b", ds.At(1).ID)
}

func TestFilterByMinInjured_Scenario(t *testing.T) {
	ds := NewDataset([]CollisionRecord{
		{ID: "zero", InjuredPersons: 0},
		{ID: "two", InjuredPersons: 2},
		{ID: "five", InjuredPersons: 5},
	})
	got := FilterByMinInjured(ds, 2)
	assert.Equal(t, []string{"two", "five"}, ids(got))
	assert.Equal(t, 3, ds.Len(), "source dataset untouched")
}

func TestFilterByMinInjured_ZeroReturnsAll(t *testing.T) {
	ds := fixture()
	assert.Equal(t, ids(ds), ids(FilterByMinInjured(ds, 0)))
}

func TestFilterByMinInjured_MonotonicShrink(t *testing.T) {
	ds := fixture()
	for k := 1; k <= 6; k++ {
		prev := ids(FilterByMinInjured(ds, k-1))
		cur := ids(FilterByMinInjured(ds, k))
		assert.Subset(t, prev, cur, "threshold %d", k)
		assert.LessOrEqual(t, len(cur), len(prev))
	}
}

func TestFilterByHour_Partitions(t *testing.T) {
	ds := fixture()
	seen := make(map[string]int)
	total := 0
	for h := range HoursPerDay {
		part := FilterByHour(ds, h)
		total += part.Len()
		for _, r := range part.All() {
			assert.Equal(t, h, r.Timestamp.Hour())
			seen[r.ID]++
		}
	}
	assert.Equal(t, ds.Len(), total)
	assert.Len(t, seen, ds.Len())
	for id, n := range seen {
		assert.Equal(t, 1, n, "record %s in more than one hour", id)
	}
}

func TestFilterByHour_OutOfRange(t *testing.T) {
	ds := fixture()
	assert.Zero(t, FilterByHour(ds, -1).Len())
	assert.Zero(t, FilterByHour(ds, 24).Len())
}

func TestHourWindow(t *testing.T) {
	start, end := HourWindow(8)
	assert.Equal(t, 8, start)
	assert.Equal(t, 9, end)

	start, end = HourWindow(23)
	assert.Equal(t, 23, start)
	assert.Equal(t, 0, end)

	assert.Equal(t, "Vehicle collisions between 23:00 and 0:00", HourWindowLabel(23))
	// The wrapped label does not change what hour 23 filters.
	assert.Equal(t, []string{"c"}, ids(FilterByHour(fixture(), 23)))
}

func TestMinuteHistogram_SumsToHourCount(t *testing.T) {
	ds := fixture()
	for h := range HoursPerDay {
		hist := MinuteHistogram(ds, h)
		sum := 0
		for _, n := range hist {
			sum += n
		}
		assert.Equal(t, FilterByHour(ds, h).Len(), sum, "hour %d", h)
	}

	hist := MinuteHistogram(ds, 8)
	assert.Equal(t, 2, hist[15])
	assert.Equal(t, 1, hist[45])
}

func TestMinuteHistogram_Empty(t *testing.T) {
	assert.Equal(t, [60]int{}, MinuteHistogram(Dataset{}, 8))
	assert.Equal(t, [60]int{}, MinuteHistogram(fixture(), 99))
}

func TestMidpoint(t *testing.T) {
	_, ok := Midpoint(Dataset{})
	assert.False(t, ok)

	mid, ok := Midpoint(FilterByHour(fixture(), 8))
	require.True(t, ok)
	assert.InDelta(t, (40.70+40.72+40.78)/3, mid.Lat, 1e-9)
	assert.InDelta(t, (-73.90-73.92-73.98)/3, mid.Lon, 1e-9)
}

func TestPoints(t *testing.T) {
	pts := Points(FilterByMinInjured(fixture(), 5))
	assert.Equal(t, []Geo{{Lat: 40.74, Lon: -73.94}}, pts)
	assert.Empty(t, Points(Dataset{}))
}

func TestTopAffected_Pedestrians(t *testing.T) {
	got := TopAffected(fixture(), CategoryPedestrians, 5)
	want := []StreetInjury{
		{Street: "ATLANTIC AVENUE", Injured: 2},
		{Street: "QUEENS BOULEVARD", Injured: 2},
		{Street: "BROADWAY", Injured: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("TopAffected mismatch (-want +got):\n%s", diff)
	}
}

func TestTopAffected_BoundAndOrder(t *testing.T) {
	for _, c := range Categories {
		got := TopAffected(fixture(), c, 1)
		assert.LessOrEqual(t, len(got), 1)
		for i, s := range got {
			assert.GreaterOrEqual(t, s.Injured, 1)
			if i > 0 {
				assert.GreaterOrEqual(t, got[i-1].Injured, s.Injured)
			}
		}
	}
}

func TestTopAffected_SkipsMissingStreet(t *testing.T) {
	// Record "d" has an injured cyclist but no street name.
	got := TopAffected(fixture(), CategoryCyclists, 5)
	assert.Equal(t, []StreetInjury{{Street: "BROADWAY", Injured: 1}}, got)
}

func TestTopAffected_Degenerate(t *testing.T) {
	assert.Empty(t, TopAffected(Dataset{}, CategoryMotorists, 5))
	assert.Empty(t, TopAffected(fixture(), CategoryMotorists, 0))
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("Pedestrians")
	require.NoError(t, err)
	assert.Equal(t, CategoryPedestrians, c)

	_, err = ParseCategory("horses")
	assert.Error(t, err)
}

func TestMonthlyCounts(t *testing.T) {
	got := MonthlyCounts(fixture())
	want := []MonthCount{
		{Month: time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC), Collisions: 2},
		{Month: time.Date(2021, time.February, 1, 0, 0, 0, 0, time.UTC), Collisions: 2},
		{Month: time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC), Collisions: 2},
	}
	assert.Equal(t, want, got)
	assert.Empty(t, MonthlyCounts(Dataset{}))
}

func TestSeverity_Scenario(t *testing.T) {
	ds := NewDataset([]CollisionRecord{
		{InjuredPersons: 3, KilledPersons: 0},
		{InjuredPersons: 0, KilledPersons: 1},
	})
	assert.Equal(t, 3, SeverityScore(ds.At(0)))
	assert.Equal(t, 2, SeverityScore(ds.At(1)))
	assert.Equal(t, map[int]int{3: 1, 2: 1}, SeverityDistribution(ds))
	assert.Equal(t, []SeverityCount{{Severity: 2, Collisions: 1}, {Severity: 3, Collisions: 1}},
		SortedSeverity(SeverityDistribution(ds)))
}

func TestSeverityDistribution_Empty(t *testing.T) {
	assert.Empty(t, SeverityDistribution(Dataset{}))
	assert.Empty(t, SortedSeverity(nil))
}

func TestTopVehicleTypes(t *testing.T) {
	got := TopVehicleTypes(fixture(), 2)
	// Sedan and Taxi tie at 2; Sedan was seen first.
	assert.Equal(t, []VehicleTypeCount{
		{VehicleType: "Sedan", Collisions: 2},
		{VehicleType: "Taxi", Collisions: 2},
	}, got)

	all := TopVehicleTypes(fixture(), 10)
	assert.Len(t, all, 3, "record without a vehicle type is not counted")
	assert.Empty(t, TopVehicleTypes(Dataset{}, 10))
}

func TestCorrelate(t *testing.T) {
	ds := NewDataset([]CollisionRecord{
		{InjuredPersons: 1, InjuredMotorists: 1, InjuredCyclists: 3},
		{InjuredPersons: 2, InjuredMotorists: 2, InjuredCyclists: 2},
		{InjuredPersons: 3, InjuredMotorists: 3, InjuredCyclists: 1},
	})
	m := Correlate(ds, DefaultCorrelationColumns)
	require.Len(t, m.Values, 5)

	assert.InDelta(t, 1.0, m.At(ColumnInjuredPersons, ColumnInjuredMotorists), 1e-12)
	assert.InDelta(t, -1.0, m.At(ColumnInjuredPersons, ColumnInjuredCyclists), 1e-12)
	assert.Equal(t, 1.0, m.At(ColumnInjuredPersons, ColumnInjuredPersons))

	// killed_persons and injured_pedestrians are constant.
	assert.True(t, math.IsNaN(m.At(ColumnKilledPersons, ColumnInjuredPersons)))
	assert.True(t, math.IsNaN(m.At(ColumnKilledPersons, ColumnKilledPersons)))
	assert.True(t, math.IsNaN(m.At(ColumnInjuredPedestrians, ColumnInjuredCyclists)))

	// Symmetric.
	for i := range m.Columns {
		for j := range m.Columns {
			a, b := m.Values[i][j], m.Values[j][i]
			if math.IsNaN(a) {
				assert.True(t, math.IsNaN(b))
				continue
			}
			assert.InDelta(t, a, b, 1e-12)
		}
	}
}

func TestCorrelate_Degenerate(t *testing.T) {
	m := Correlate(Dataset{}, DefaultCorrelationColumns)
	assert.Equal(t, DefaultCorrelationColumns, m.Columns)
	for _, row := range m.Values {
		for _, v := range row {
			assert.True(t, math.IsNaN(v))
		}
	}

	empty := Correlate(fixture(), nil)
	assert.Empty(t, empty.Columns)
	assert.Empty(t, empty.Values)
}

func TestParseNumericColumn(t *testing.T) {
	c, err := ParseNumericColumn("INJURED_PERSONS")
	require.NoError(t, err)
	assert.Equal(t, ColumnInjuredPersons, c)

	_, err = ParseNumericColumn("latitude")
	assert.Error(t, err)
}
