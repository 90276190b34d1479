// Package session answers a dashboard's view requests against one loaded
// collision dataset. All parameters are passed explicitly; a Session holds no
// UI state of its own.
package session

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/collision-data-service/internal/domain"
	"github.com/couchcryptid/collision-data-service/internal/observability"
)

// ErrInvalidHour is returned for hours outside 0–23.
var ErrInvalidHour = errors.New("hour must be between 0 and 23")

// Session serves derived views over one immutable dataset.
type Session struct {
	result  *domain.LoadResult
	metrics *observability.Metrics
}

// New wraps a load result.
func New(result *domain.LoadResult, metrics *observability.Metrics) *Session {
	return &Session{result: result, metrics: metrics}
}

// Dataset returns the full normalized dataset.
func (s *Session) Dataset() domain.Dataset { return s.result.Dataset }

// Summary describes how the dataset was loaded.
func (s *Session) Summary() domain.LoadSummary { return s.result.Summary }

// InjuryPoints returns the coordinates of collisions with at least minInjured injured persons.
func (s *Session) InjuryPoints(minInjured int) []domain.Geo {
	s.observe("injuries")
	return domain.Points(domain.FilterByMinInjured(s.result.Dataset, minInjured))
}

// HourView is everything the dashboard shows for one hour of the day.
type HourView struct {
	Hour            int          `json:"hour"`
	WindowStart     int          `json:"window_start"`
	WindowEnd       int          `json:"window_end"`
	Label           string       `json:"label"`
	Collisions      int          `json:"collisions"`
	Midpoint        *domain.Geo  `json:"midpoint"`
	Points          []domain.Geo `json:"points"`
	MinuteHistogram [60]int      `json:"minute_histogram"`
}

// HourView filters the dataset to one hour of the day.
func (s *Session) HourView(hour int) (HourView, error) {
	if !domain.ValidHour(hour) {
		return HourView{}, fmt.Errorf("%w: got %d", ErrInvalidHour, hour)
	}
	s.observe("hour")

	filtered := domain.FilterByHour(s.result.Dataset, hour)
	start, end := domain.HourWindow(hour)
	view := HourView{
		Hour:            hour,
		WindowStart:     start,
		WindowEnd:       end,
		Label:           domain.HourWindowLabel(hour),
		Collisions:      filtered.Len(),
		Points:          domain.Points(filtered),
		MinuteHistogram: domain.MinuteHistogram(filtered, hour),
	}
	if mid, ok := domain.Midpoint(filtered); ok {
		view.Midpoint = &mid
	}
	return view, nil
}

// DangerousStreets lists up to n collisions injuring people of the given category.
func (s *Session) DangerousStreets(category domain.Category, n int) []domain.StreetInjury {
	s.observe("streets")
	return domain.TopAffected(s.result.Dataset, category, n)
}

// MonthlyTrend counts collisions per calendar month.
func (s *Session) MonthlyTrend() []domain.MonthCount {
	s.observe("monthly")
	return domain.MonthlyCounts(s.result.Dataset)
}

// Correlation computes the injury/fatality correlation matrix.
func (s *Session) Correlation() domain.CorrelationMatrix {
	s.observe("correlation")
	return domain.Correlate(s.result.Dataset, domain.DefaultCorrelationColumns)
}

// Severity returns the severity distribution ordered by severity.
func (s *Session) Severity() []domain.SeverityCount {
	s.observe("severity")
	return domain.SortedSeverity(domain.SeverityDistribution(s.result.Dataset))
}

// DensityPoints returns every collision coordinate.
func (s *Session) DensityPoints() []domain.Geo {
	s.observe("density")
	return domain.Points(s.result.Dataset)
}

// VehicleTypes returns the n most common first-vehicle types.
func (s *Session) VehicleTypes(n int) []domain.VehicleTypeCount {
	s.observe("vehicles")
	return domain.TopVehicleTypes(s.result.Dataset, n)
}

// RawRecords backs the raw data table. A nil hour returns records from the
// whole dataset; limit <= 0 means no limit.
func (s *Session) RawRecords(hour *int, limit int) ([]domain.CollisionRecord, error) {
	ds := s.result.Dataset
	if hour != nil {
		if !domain.ValidHour(*hour) {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidHour, *hour)
		}
		ds = domain.FilterByHour(ds, *hour)
	}
	s.observe("records")

	records := ds.Records()
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *Session) observe(view string) {
	s.metrics.ViewRequests.WithLabelValues(view).Inc()
}
