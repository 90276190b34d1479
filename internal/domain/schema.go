package domain

import (
	"fmt"
	"strings"
)

// Field is a canonical column name.
type Field string

const (
	FieldCrashDate          Field = "crash_date"
	FieldCrashTime          Field = "crash_time"
	FieldLatitude           Field = "latitude"
	FieldLongitude          Field = "longitude"
	FieldInjuredPersons     Field = "injured_persons"
	FieldKilledPersons      Field = "killed_persons"
	FieldInjuredPedestrians Field = "injured_pedestrians"
	FieldInjuredCyclists    Field = "injured_cyclists"
	FieldInjuredMotorists   Field = "injured_motorists"
	FieldOnStreetName       Field = "on_street_name"
	FieldVehicleType1       Field = "vehicle_type_1"

	// FieldCollisionID is optional. When present it becomes the record ID.
	FieldCollisionID Field = "collision_id"

	// FieldDateTime is the canonical name of the merged crash date and time.
	FieldDateTime Field = "date/time"
)

// requiredFields lists every field a source file must provide, in report order.
var requiredFields = []Field{
	FieldCrashDate,
	FieldCrashTime,
	FieldLatitude,
	FieldLongitude,
	FieldInjuredPersons,
	FieldKilledPersons,
	FieldInjuredPedestrians,
	FieldInjuredCyclists,
	FieldInjuredMotorists,
	FieldOnStreetName,
	FieldVehicleType1,
}

// sourceAliases maps canonicalized source headers to fields. Canonical names
// map to themselves; the rest cover the NYC Open Data header spelling.
var sourceAliases = map[string]Field{
	"crash_date":                    FieldCrashDate,
	"crash_time":                    FieldCrashTime,
	"latitude":                      FieldLatitude,
	"longitude":                     FieldLongitude,
	"injured_persons":               FieldInjuredPersons,
	"number_of_persons_injured":     FieldInjuredPersons,
	"killed_persons":                FieldKilledPersons,
	"number_of_persons_killed":      FieldKilledPersons,
	"injured_pedestrians":           FieldInjuredPedestrians,
	"number_of_pedestrians_injured": FieldInjuredPedestrians,
	"injured_cyclists":              FieldInjuredCyclists,
	"number_of_cyclist_injured":     FieldInjuredCyclists,
	"number_of_cyclists_injured":    FieldInjuredCyclists,
	"injured_motorists":             FieldInjuredMotorists,
	"number_of_motorist_injured":    FieldInjuredMotorists,
	"number_of_motorists_injured":   FieldInjuredMotorists,
	"on_street_name":                FieldOnStreetName,
	"vehicle_type_1":                FieldVehicleType1,
	"vehicle_type_code_1":           FieldVehicleType1,
	"collision_id":                  FieldCollisionID,
}

// CanonicalColumnName lowercases a source header, strips a UTF-8 BOM and
// surrounding space, and replaces inner spaces with underscores.
func CanonicalColumnName(header string) string {
	header = strings.TrimPrefix(header, "\ufeff")
	header = strings.ToLower(strings.TrimSpace(header))
	return strings.Join(strings.Fields(header), "_")
}

// Schema locates each canonical field within a source row.
type Schema struct {
	index map[Field]int
}

// ResolveSchema maps a source header row onto the canonical fields. It fails
// with ErrMissingColumns naming every required field that has no source column.
// Unknown columns are ignored. When two headers alias the same field the first wins.
func ResolveSchema(header []string) (Schema, error) {
	index := make(map[Field]int, len(requiredFields))
	for i, h := range header {
		f, ok := sourceAliases[CanonicalColumnName(h)]
		if !ok {
			continue
		}
		if _, seen := index[f]; !seen {
			index[f] = i
		}
	}

	var missing []string
	for _, f := range requiredFields {
		if _, ok := index[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return Schema{}, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return Schema{index: index}, nil
}

// value returns the trimmed cell for f, or "" when the row is too short.
func (s Schema) value(row []string, f Field) string {
	i, ok := s.index[f]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
