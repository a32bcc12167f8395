package charts

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/axisni/chartdash/app/common"
)

type ChartService struct {
	store ChartStore
}

func NewChartService(store ChartStore) *ChartService {
	return &ChartService{store: store}
}

// Save validates and persists a chart configuration.
func (s *ChartService) Save(ctx context.Context, name string, configJSON string) (SavedChart, error) {
	if strings.TrimSpace(name) == "" {
		return SavedChart{}, common.BadRequest("Chart name must not be empty")
	}
	if strings.TrimSpace(configJSON) == "" {
		return SavedChart{}, common.BadRequest("Config JSON must not be empty")
	}
	if !json.Valid([]byte(configJSON)) {
		return SavedChart{}, common.BadRequest("Config JSON is not valid JSON")
	}
	c, err := s.store.Save(ctx, strings.TrimSpace(name), configJSON)
	if err != nil {
		slog.Error("failed to save chart", "name", name, "err", err)
		return SavedChart{}, err
	}
	slog.Info("chart saved", "id", c.ID, "name", c.Name)
	return c, nil
}

func (s *ChartService) Get(ctx context.Context, id string) (SavedChart, error) {
	c, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrChartNotFound) {
		return SavedChart{}, common.NotFound("No chart with id %q", id)
	}
	return c, err
}

func (s *ChartService) List(ctx context.Context) ([]SavedChart, error) {
	return s.store.List(ctx)
}
