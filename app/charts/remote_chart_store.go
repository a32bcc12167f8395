package charts

import (
	"context"
	"fmt"
)

// RemoteChartAPI is the part of the upload API that persists charts.
type RemoteChartAPI interface {
	SaveChart(ctx context.Context, name string, configJSON string) (SavedChart, error)
	ListCharts(ctx context.Context) ([]SavedChart, error)
}

// RemoteChartStore keeps charts in the remote upload service instead of a
// local database. The service has no single-chart lookup, so Get scans List.
type RemoteChartStore struct {
	api RemoteChartAPI
}

func NewRemoteChartStore(api RemoteChartAPI) *RemoteChartStore {
	return &RemoteChartStore{api: api}
}

var _ ChartStore = &RemoteChartStore{}

func (s *RemoteChartStore) Init(ctx context.Context) error {
	return nil
}

func (s *RemoteChartStore) Save(ctx context.Context, name string, configJSON string) (SavedChart, error) {
	c, err := s.api.SaveChart(ctx, name, configJSON)
	if err != nil {
		return SavedChart{}, fmt.Errorf("remote save: %w", err)
	}
	return c, nil
}

func (s *RemoteChartStore) Get(ctx context.Context, id string) (SavedChart, error) {
	all, err := s.List(ctx)
	if err != nil {
		return SavedChart{}, err
	}
	for _, c := range all {
		if c.ID == id {
			return c, nil
		}
	}
	return SavedChart{}, ErrChartNotFound
}

func (s *RemoteChartStore) List(ctx context.Context) ([]SavedChart, error) {
	cs, err := s.api.ListCharts(ctx)
	if err != nil {
		return nil, fmt.Errorf("remote list: %w", err)
	}
	return cs, nil
}
