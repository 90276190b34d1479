// Command summarize loads a collision CSV once and prints every derived view:
// the load summary, injury locations, one hour of the day, the most affected
// streets, monthly trend, severity distribution, vehicle types and the
// injury/fatality correlation matrix.
//
// Usage:
//
//	go run ./cmd/summarize \
//	  -data data/Motor_Vehicle_Collisions_-_Crashes.csv \
//	  -max-rows 100000 -hour 17 -category pedestrians
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"text/tabwriter"

	"github.com/couchcryptid/collision-data-service/internal/adapter/csvfile"
	"github.com/couchcryptid/collision-data-service/internal/domain"
	"github.com/couchcryptid/collision-data-service/internal/observability"
	"github.com/couchcryptid/collision-data-service/internal/session"
)

type options struct {
	dataPath   string
	maxRows    int
	minInjured int
	hour       int
	category   string
	top        int
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	category, err := domain.ParseCategory(opts.category)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if !domain.ValidHour(opts.hour) {
		fmt.Fprintln(stderr, session.ErrInvalidHour)
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := observability.NewUnregisteredMetrics()
	loader := csvfile.NewLoader(logger, metrics)

	result, err := loader.Load(ctx, opts.dataPath, opts.maxRows)
	if err != nil {
		var loadErr *domain.LoadError
		if errors.As(err, &loadErr) {
			fmt.Fprintf(stderr, "collision data is unavailable: %v\n", loadErr)
		} else {
			fmt.Fprintln(stderr, err)
		}
		return 1
	}

	s := session.New(result, metrics)
	view, err := s.HourView(opts.hour)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	printSummary(w, s.Summary())
	printInjuries(w, opts.minInjured, s.InjuryPoints(opts.minInjured))
	printHour(w, view)
	printStreets(w, category, s.DangerousStreets(category, opts.top))
	printMonthly(w, s.MonthlyTrend())
	printSeverity(w, s.Severity())
	printVehicles(w, s.VehicleTypes(opts.top))
	printCorrelation(w, s.Correlation())
	if err := w.Flush(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("summarize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.dataPath, "data", "data/Motor_Vehicle_Collisions_-_Crashes.csv", "path to the collision CSV")
	fs.IntVar(&opts.maxRows, "max-rows", 100000, "maximum data rows to read (0 reads all)")
	fs.IntVar(&opts.minInjured, "min-injured", 1, "minimum injured persons for the injury map")
	fs.IntVar(&opts.hour, "hour", 0, "hour of day (0-23) for the hourly view")
	fs.StringVar(&opts.category, "category", string(domain.CategoryPedestrians), "pedestrians, cyclists or motorists")
	fs.IntVar(&opts.top, "top", 5, "rows in the street and vehicle rankings")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func printSummary(w io.Writer, sum domain.LoadSummary) {
	fmt.Fprintf(w, "== Load summary ==\n")
	fmt.Fprintf(w, "path\t%s\n", sum.Path)
	fmt.Fprintf(w, "rows read\t%d\n", sum.RowsRead)
	fmt.Fprintf(w, "rows kept\t%d\n", sum.RowsKept)
	fmt.Fprintf(w, "dropped (missing geolocation)\t%d\n", sum.DroppedMissingGeolocation)
	fmt.Fprintf(w, "dropped (invalid timestamp)\t%d\n\n", sum.DroppedInvalidTimestamp)
}

func printInjuries(w io.Writer, minInjured int, points []domain.Geo) {
	fmt.Fprintf(w, "== Collisions with at least %d injured ==\n", minInjured)
	fmt.Fprintf(w, "locations\t%d\n\n", len(points))
}

func printHour(w io.Writer, view session.HourView) {
	fmt.Fprintf(w, "== %s ==\n", view.Label)
	fmt.Fprintf(w, "collisions\t%d\n", view.Collisions)
	if view.Midpoint != nil {
		fmt.Fprintf(w, "midpoint\t%.6f, %.6f\n", view.Midpoint.Lat, view.Midpoint.Lon)
	}
	for minute, n := range view.MinuteHistogram {
		if n > 0 {
			fmt.Fprintf(w, "  :%02d\t%d\n", minute, n)
		}
	}
	fmt.Fprintln(w)
}

func printStreets(w io.Writer, category domain.Category, streets []domain.StreetInjury) {
	fmt.Fprintf(w, "== Top collisions injuring %s ==\n", category)
	for _, s := range streets {
		fmt.Fprintf(w, "%s\t%d\n", s.Street, s.Injured)
	}
	fmt.Fprintln(w)
}

func printMonthly(w io.Writer, months []domain.MonthCount) {
	fmt.Fprintf(w, "== Collisions per month ==\n")
	for _, m := range months {
		fmt.Fprintf(w, "%s\t%d\n", m.Month.Format("2006-01"), m.Collisions)
	}
	fmt.Fprintln(w)
}

func printSeverity(w io.Writer, dist []domain.SeverityCount) {
	fmt.Fprintf(w, "== Severity (injured + 2 x killed) ==\n")
	for _, d := range dist {
		fmt.Fprintf(w, "%d\t%d\n", d.Severity, d.Collisions)
	}
	fmt.Fprintln(w)
}

func printVehicles(w io.Writer, counts []domain.VehicleTypeCount) {
	fmt.Fprintf(w, "== Most common vehicle types ==\n")
	for _, c := range counts {
		fmt.Fprintf(w, "%s\t%d\n", c.VehicleType, c.Collisions)
	}
	fmt.Fprintln(w)
}

func printCorrelation(w io.Writer, m domain.CorrelationMatrix) {
	fmt.Fprintf(w, "== Correlation ==\n")
	for _, c := range m.Columns {
		fmt.Fprintf(w, "\t%s", c)
	}
	fmt.Fprintln(w)
	for i, row := range m.Values {
		fmt.Fprintf(w, "%s", m.Columns[i])
		for _, v := range row {
			if math.IsNaN(v) {
				fmt.Fprintf(w, "\tn/a")
				continue
			}
			fmt.Fprintf(w, "\t%.3f", v)
		}
		fmt.Fprintln(w)
	}
}
