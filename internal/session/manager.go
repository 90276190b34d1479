package session

import (
	"context"

	"github.com/couchcryptid/collision-data-service/internal/adapter/csvfile"
	"github.com/couchcryptid/collision-data-service/internal/observability"
)

// Manager opens sessions for one configured source. Every call goes through
// the loader, so pairing it with a csvfile.CachedLoader keeps the file read to
// once per process no matter how often sessions are opened.
type Manager struct {
	loader  csvfile.Loader
	path    string
	maxRows int
	metrics *observability.Metrics
}

// NewManager creates a Manager for path capped at maxRows rows.
func NewManager(loader csvfile.Loader, path string, maxRows int, metrics *observability.Metrics) *Manager {
	return &Manager{
		loader:  loader,
		path:    path,
		maxRows: maxRows,
		metrics: metrics,
	}
}

// Open loads (or reuses) the dataset and returns a Session over it.
// Load failures are returned as *domain.LoadError.
func (m *Manager) Open(ctx context.Context) (*Session, error) {
	result, err := m.loader.Load(ctx, m.path, m.maxRows)
	if err != nil {
		return nil, err
	}
	return New(result, m.metrics), nil
}

// CheckReadiness returns nil once the dataset can be loaded.
func (m *Manager) CheckReadiness(ctx context.Context) error {
	_, err := m.Open(ctx)
	return err
}
