package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/couchcryptid/collision-data-service/internal/domain"
	"github.com/couchcryptid/collision-data-service/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// BatchLoader writes multiple collision records to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, records []domain.CollisionRecord) error
}

// Exporter pushes a loaded dataset to a BatchLoader in fixed-size batches.
type Exporter struct {
	loader    BatchLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	batchSize int
}

// New creates an Exporter. A batchSize below 1 exports one record per batch.
func New(l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Exporter {
	return &Exporter{
		loader:    l,
		logger:    logger,
		metrics:   metrics,
		batchSize: max(batchSize, 1),
	}
}

// Export publishes every record of ds in load order. A failed batch is retried
// with exponential backoff until it succeeds or ctx ends; batches are never
// skipped, so a nil return means every record was written.
func (e *Exporter) Export(ctx context.Context, ds domain.Dataset) error {
	e.logger.Info("export started", "records", ds.Len(), "batch_size", e.batchSize)
	e.metrics.ExportRunning.Set(1)
	defer e.metrics.ExportRunning.Set(0)

	start := time.Now()
	exported := 0
	backoff := initialBackoff

	for batch := range slices.Chunk(ds.Records(), e.batchSize) {
		for {
			err := e.loader.LoadBatch(ctx, batch)
			if err == nil {
				break
			}
			if ctx.Err() != nil {
				return fmt.Errorf("export interrupted after %d records: %w", exported, ctx.Err())
			}
			e.metrics.ExportErrors.Inc()
			e.logger.Error("load batch failed", "error", err, "batch_size", len(batch), "retry_in", backoff)
			if !sleepWithContext(ctx, backoff) {
				return fmt.Errorf("export interrupted after %d records: %w", exported, ctx.Err())
			}
			backoff = nextBackoff(backoff, maxBackoff)
		}
		backoff = initialBackoff

		exported += len(batch)
		e.metrics.RecordsExported.Add(float64(len(batch)))
		e.metrics.ExportBatchSize.Observe(float64(len(batch)))
	}

	e.logger.Info("export finished", "records", exported, "duration", time.Since(start))
	return nil
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
