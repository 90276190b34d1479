package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// row builds an underscored-header row from a map of canonical field values.
func row(values map[Field]string) []string {
	out := make([]string, len(requiredFields))
	for i, f := range requiredFields {
		out[i] = values[f]
	}
	return out
}

func validRow() map[Field]string {
	return map[Field]string{
		FieldCrashDate:          "09/11/2021",
		FieldCrashTime:          "2:39",
		FieldLatitude:           "40.667202",
		FieldLongitude:          "-73.8665",
		FieldInjuredPersons:     "2",
		FieldKilledPersons:      "0",
		FieldInjuredPedestrians: "0",
		FieldInjuredCyclists:    "0",
		FieldInjuredMotorists:   "2",
		FieldOnStreetName:       "WHITESTONE EXPRESSWAY          ",
		FieldVehicleType1:       "Sedan",
	}
}

func underscoredSchema(t *testing.T) Schema {
	t.Helper()
	s, err := ResolveSchema(underscoredHeader)
	require.NoError(t, err)
	return s
}

func TestParseRow_Valid(t *testing.T) {
	rec, reason := ParseRow(underscoredSchema(t), row(validRow()), 1)
	require.Equal(t, DropNone, reason)

	assert.Equal(t, time.Date(2021, time.September, 11, 2, 39, 0, 0, time.UTC), rec.Timestamp)
	assert.InDelta(t, 40.667202, rec.Latitude, 1e-9)
	assert.InDelta(t, -73.8665, rec.Longitude, 1e-9)
	assert.Equal(t, 2, rec.InjuredPersons)
	assert.Equal(t, 2, rec.InjuredMotorists)
	assert.Equal(t, "WHITESTONE EXPRESSWAY", rec.OnStreetName)
	assert.Equal(t, "Sedan", rec.VehicleType1)
	assert.Len(t, rec.ID, 32)
}

func TestParseRow_IDIsDeterministic(t *testing.T) {
	s := underscoredSchema(t)
	a, _ := ParseRow(s, row(validRow()), 1)
	b, _ := ParseRow(s, row(validRow()), 1)
	assert.Equal(t, a.ID, b.ID)

	other := validRow()
	other[FieldCrashTime] = "2:40"
	c, _ := ParseRow(s, row(other), 1)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestParseRow_IdenticalRowsGetDistinctIDs(t *testing.T) {
	s := underscoredSchema(t)
	values := validRow()
	values[FieldOnStreetName] = ""

	a, _ := ParseRow(s, row(values), 1)
	b, _ := ParseRow(s, row(values), 2)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestParseRow_CollisionIDColumn(t *testing.T) {
	header := append(append([]string{}, underscoredHeader...), "COLLISION_ID")
	s, err := ResolveSchema(header)
	require.NoError(t, err)

	first := validRow()
	first[FieldOnStreetName] = ""
	first[FieldInjuredPersons] = "0"
	second := validRow()
	second[FieldOnStreetName] = ""
	second[FieldInjuredPersons] = "3"

	a, reason := ParseRow(s, append(row(first), "4455765"), 1)
	require.Equal(t, DropNone, reason)
	b, reason := ParseRow(s, append(row(second), " 4455766 "), 1)
	require.Equal(t, DropNone, reason)

	assert.Equal(t, "4455765", a.ID)
	assert.Equal(t, "4455766", b.ID)
}

func TestParseRow_EmptyCollisionIDFallsBackToHash(t *testing.T) {
	header := append(append([]string{}, underscoredHeader...), "COLLISION_ID")
	s, err := ResolveSchema(header)
	require.NoError(t, err)

	rec, reason := ParseRow(s, append(row(validRow()), ""), 1)
	require.Equal(t, DropNone, reason)
	assert.Len(t, rec.ID, 32)
}

func TestParseRow_MissingGeolocation(t *testing.T) {
	tests := []struct {
		name string
		lat  string
		lon  string
	}{
		{"missing longitude", "40.7", ""},
		{"missing latitude", "", "-73.9"},
		{"both missing", "", ""},
		{"non-numeric", "abc", "-73.9"},
		{"nan", "NaN", "-73.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := validRow()
			values[FieldLatitude] = tt.lat
			values[FieldLongitude] = tt.lon
			rec, reason := ParseRow(underscoredSchema(t), row(values), 1)
			assert.Equal(t, DropMissingGeolocation, reason)
			assert.Equal(t, CollisionRecord{}, rec)
		})
	}
}

func TestParseRow_InvalidTimestamp(t *testing.T) {
	values := validRow()
	values[FieldCrashDate] = "not a date"
	_, reason := ParseRow(underscoredSchema(t), row(values), 1)
	assert.Equal(t, DropInvalidTimestamp, reason)

	values = validRow()
	values[FieldCrashTime] = "25:99"
	_, reason = ParseRow(underscoredSchema(t), row(values), 1)
	assert.Equal(t, DropInvalidTimestamp, reason)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		date string
		time string
		want time.Time
	}{
		{"09/11/2021", "2:39", time.Date(2021, 9, 11, 2, 39, 0, 0, time.UTC)},
		{"9/1/2021", "14:05", time.Date(2021, 9, 1, 14, 5, 0, 0, time.UTC)},
		{"2021-09-11", "23:59:30", time.Date(2021, 9, 11, 23, 59, 30, 0, time.UTC)},
		{"2021-09-11T00:00:00.000", "0:00", time.Date(2021, 9, 11, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.date+" "+tt.time, func(t *testing.T) {
			got, err := parseTimestamp(tt.date, tt.time)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"3", 3},
		{"2.0", 2},
		{"-1", 0},
		{"-1.5", 0},
		{"UNK", 0},
		{"NaN", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCount(tt.in))
		})
	}
}

func TestParseRow_EmptyCountsDefaultToZero(t *testing.T) {
	values := validRow()
	values[FieldInjuredPersons] = ""
	values[FieldKilledPersons] = ""
	values[FieldOnStreetName] = ""
	values[FieldVehicleType1] = ""
	rec, reason := ParseRow(underscoredSchema(t), row(values), 1)
	require.Equal(t, DropNone, reason)
	assert.Zero(t, rec.InjuredPersons)
	assert.Zero(t, rec.KilledPersons)
	assert.Empty(t, rec.OnStreetName)
	assert.Empty(t, rec.VehicleType1)
}
