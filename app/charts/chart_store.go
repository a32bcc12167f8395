package charts

import (
	"context"
	"errors"
	"time"
)

var ErrChartNotFound = errors.New("chart not found")

// SavedChart is a named chart configuration persisted for later reuse.
// ConfigJSON is opaque to the store.
type SavedChart struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ConfigJSON string    `json:"configJson"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ChartStore interface {
	Init(ctx context.Context) error
	// Save stores a new chart and returns it with its ID assigned.
	Save(ctx context.Context, name string, configJSON string) (SavedChart, error)
	// Get returns ErrChartNotFound when no chart has the given ID.
	Get(ctx context.Context, id string) (SavedChart, error)
	// List returns every chart in insertion order.
	List(ctx context.Context) ([]SavedChart, error)
}
