package charts

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/axisni/chartdash/app/common"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestSQLStore(t *testing.T) *SQLChartStore {
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	store := NewSQLChartStore(db)
	require.NoError(t, store.Init(context.Background()))
	return store
}

func TestSQLChartStore(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLStore(t)

	first, err := store.Save(ctx, "Budget", `{"a":1}`)
	require.NoError(t, err)
	second, err := store.Save(ctx, "Schools", `{"b":2}`)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := store.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Schools", got.Name)
	assert.Equal(t, `{"b":2}`, got.ConfigJSON)

	_, err = store.Get(ctx, "999")
	assert.ErrorIs(t, err, ErrChartNotFound)
	_, err = store.Get(ctx, "not-a-number")
	assert.ErrorIs(t, err, ErrChartNotFound)

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Budget", all[0].Name)
}

type fakeRemote struct {
	charts []SavedChart
	err    error
}

func (f *fakeRemote) SaveChart(ctx context.Context, name, configJSON string) (SavedChart, error) {
	if f.err != nil {
		return SavedChart{}, f.err
	}
	c := SavedChart{ID: name + "-id", Name: name, ConfigJSON: configJSON}
	f.charts = append(f.charts, c)
	return c, nil
}

func (f *fakeRemote) ListCharts(ctx context.Context) ([]SavedChart, error) {
	return f.charts, f.err
}

func TestRemoteChartStore(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	store := NewRemoteChartStore(remote)

	_, err := store.Save(ctx, "one", "{}")
	require.NoError(t, err)
	got, err := store.Get(ctx, "one-id")
	require.NoError(t, err)
	assert.Equal(t, "one", got.Name)

	_, err = store.Get(ctx, "two-id")
	assert.ErrorIs(t, err, ErrChartNotFound)

	remote.err = errors.New("connection refused")
	_, err = store.List(ctx)
	assert.ErrorContains(t, err, "connection refused")
}

func TestChartService(t *testing.T) {
	ctx := context.Background()
	svc := NewChartService(newTestSQLStore(t))

	for _, tc := range []struct{ name, cfg string }{
		{"", "{}"},
		{"   ", "{}"},
		{"ok", ""},
		{"ok", "{not json"},
	} {
		_, err := svc.Save(ctx, tc.name, tc.cfg)
		var uve *common.UserVisibleError
		require.ErrorAs(t, err, &uve, "name=%q cfg=%q", tc.name, tc.cfg)
		assert.Equal(t, http.StatusBadRequest, uve.HttpCode)
	}

	saved, err := svc.Save(ctx, " Trend ", `{"chart":{"type":"line"}}`)
	require.NoError(t, err)
	assert.Equal(t, "Trend", saved.Name)

	_, err = svc.Get(ctx, "12345")
	var uve *common.UserVisibleError
	require.ErrorAs(t, err, &uve)
	assert.Equal(t, http.StatusNotFound, uve.HttpCode)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
