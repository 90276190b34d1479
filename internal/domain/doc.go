// Package domain models NYC motor vehicle collision records and the derived
// metrics computed over them.
//
// # Data Source
//
// Records come from the NYPD "Motor Vehicle Collisions - Crashes" dataset
// published on NYC Open Data. The file is a comma-separated export with one row
// per reported crash. Two header styles are in circulation and both are
// accepted:
//
//	NYC Open Data:   "CRASH DATE", "NUMBER OF PERSONS INJURED", "VEHICLE TYPE CODE 1"
//	Underscored:     "CRASH_DATE", "INJURED_PERSONS", "VEHICLE_TYPE_1"
//
// # Canonical Schema
//
// Headers are canonicalized (trimmed, lowercased, spaces replaced with
// underscores) and mapped through an explicit alias table onto a fixed set of
// fields. See [ResolveSchema]. The merged date and time field is named
// "date/time", matching the column name downstream dashboards expect.
//
// # Conventions
//
// Date format:
//
//	"09/11/2021" (MM/DD/YYYY, leading zeros optional), "2021-09-11", or the
//	Socrata floating timestamp "2021-09-11T00:00:00.000" whose time part is
//	always midnight and is ignored.
//
// Time format:
//
//	"2:39" or "14:05" in 24-hour notation, optionally with seconds. Times are
//	local to New York; they are stored with a UTC location so the wall-clock
//	hour and minute are preserved as written.
//
// Coordinates:
//
//	WGS-84 decimal degrees. Rows with an empty or unparseable latitude or
//	longitude are excluded at load time; they are counted, never imputed.
//
// Counts:
//
//	Injury and fatality counts are non-negative integers. Empty cells mean 0.
//	Some exports write counts as floats ("2.0"); the fractional part is dropped.
//
// # Severity
//
// The severity score weights fatalities twice as heavily as injuries:
//
//	severity = injured_persons + 2 * killed_persons
//
// # ID Generation
//
// A record's ID is the source COLLISION_ID when the file has that column.
// Otherwise it is a SHA-256 hash of the data row number and
// date/time|lat|lon|street|vehicle, so identical rows still get distinct IDs.
// Either way reloading the same file yields the same IDs, so exported records
// can be upserted idempotently downstream. See [generateID].
package domain
