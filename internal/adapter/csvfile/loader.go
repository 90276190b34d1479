// Package csvfile loads collision records from delimited files on disk.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/collision-data-service/internal/domain"
	"github.com/couchcryptid/collision-data-service/internal/observability"
)

// cancelCheckInterval is how many rows are read between context checks.
const cancelCheckInterval = 4096

// Loader reads a source file into a dataset.
type Loader interface {
	Load(ctx context.Context, path string, maxRows int) (*domain.LoadResult, error)
}

// FileLoader implements Loader for CSV files.
type FileLoader struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader creates a FileLoader.
func NewLoader(logger *slog.Logger, metrics *observability.Metrics) *FileLoader {
	return &FileLoader{logger: logger, metrics: metrics}
}

// Load reads at most maxRows data rows from path (no cap when maxRows <= 0),
// maps the header onto the canonical schema, and drops rows without
// coordinates or a parseable date/time. Any failure is a *domain.LoadError.
func (l *FileLoader) Load(ctx context.Context, path string, maxRows int) (*domain.LoadResult, error) {
	start := time.Now()

	result, err := l.load(ctx, path, maxRows)
	if err != nil {
		l.metrics.DatasetLoads.WithLabelValues("error").Inc()
		l.logger.Error("dataset load failed", "path", path, "max_rows", maxRows, "error", err)
		return nil, &domain.LoadError{Path: path, Err: err}
	}

	s := result.Summary
	l.metrics.DatasetLoads.WithLabelValues("success").Inc()
	l.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	l.metrics.RowsRead.Add(float64(s.RowsRead))
	l.metrics.RowsDropped.WithLabelValues(string(domain.DropMissingGeolocation)).Add(float64(s.DroppedMissingGeolocation))
	l.metrics.RowsDropped.WithLabelValues(string(domain.DropInvalidTimestamp)).Add(float64(s.DroppedInvalidTimestamp))
	l.metrics.DatasetRecords.Set(float64(s.RowsKept))

	l.logger.Info("dataset loaded",
		"path", path,
		"max_rows", maxRows,
		"rows_read", s.RowsRead,
		"rows_kept", s.RowsKept,
		"dropped_missing_geolocation", s.DroppedMissingGeolocation,
		"dropped_invalid_timestamp", s.DroppedInvalidTimestamp,
		"duration", time.Since(start),
	)
	return result, nil
}

func (l *FileLoader) load(ctx context.Context, path string, maxRows int) (*domain.LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	return readCSV(ctx, f, path, maxRows)
}

// readCSV parses CSV content from r. It is split from file handling so tests
// can feed in-memory fixtures.
func readCSV(ctx context.Context, r io.Reader, path string, maxRows int) (*domain.LoadResult, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty source file: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	schema, err := domain.ResolveSchema(header)
	if err != nil {
		return nil, err
	}

	summary := domain.NewLoadSummary(path, maxRows)
	var records []domain.CollisionRecord //nolint:prealloc // size depends on drop policy

	for maxRows <= 0 || summary.RowsRead < maxRows {
		if summary.RowsRead%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", summary.RowsRead+1, err)
		}

		rec, reason := domain.ParseRow(schema, row, summary.RowsRead+1)
		summary.Count(reason)
		if reason == domain.DropNone {
			records = append(records, rec)
		}
	}

	return &domain.LoadResult{
		Dataset: domain.NewDataset(records),
		Summary: summary,
	}, nil
}
