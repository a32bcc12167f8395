package budget

import (
	"errors"
	"net/http"
	"testing"

	"github.com/axisni/chartdash/app/charts"
	"github.com/axisni/chartdash/app/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataShape(t *testing.T) {
	require.Len(t, yearly, 16)
	for _, y := range yearly {
		split, ok := byDepartment[y.Year]
		require.True(t, ok, y.Year)
		assert.Len(t, split.Resource, len(departments), y.Year)
		assert.Len(t, split.Capital, len(departments), y.Year)
	}
}

func TestOverview(t *testing.T) {
	v := Overview()
	assert.Equal(t, charts.KindLine, v.ChartType)
	assert.Equal(t, Years(), v.Categories)
	require.Len(t, v.Series, 3)
	assert.Equal(t, "Total Budget", v.Series[0].Name)
	assert.Equal(t, colorTotal, v.Series[0].Color)
	assert.Equal(t, 11804.2, v.Series[0].Data[0])
	assert.Equal(t, 2445.6, v.Series[2].Data[15])
	require.Len(t, v.Cards, 3)
	assert.Equal(t, "2010 - 2025", v.Cards[0].Period)
}

func TestTrend(t *testing.T) {
	v := Trend(KindCapital)
	require.Len(t, v.Series, len(departments))
	assert.Equal(t, "Agriculture, Environment and Rural Affairs", v.Series[0].Name)
	assert.Equal(t, 0.0, v.Series[0].Data[0])
	assert.Equal(t, 119.5, v.Series[0].Data[15])
	assert.Contains(t, v.Title, "Capital")

	r := Trend(KindAll)
	assert.Equal(t, 354.5, r.Series[0].Data[0])

	cards, err := Cards("")
	require.NoError(t, err)
	assert.Equal(t, cards, v.Cards)
	assert.Equal(t, cards, Overview().Cards)
}

func TestBreakdown(t *testing.T) {
	v, err := Breakdown("2025", KindAll)
	require.NoError(t, err)
	assert.Equal(t, departments, v.Categories)
	require.Len(t, v.Series, 2)
	assert.Equal(t, "Resource", v.Series[0].Name)
	assert.Equal(t, 8409.9, v.Series[0].Data[5])
	assert.Equal(t, "2025", v.Cards[0].Period)
	assert.Equal(t, 19085.0, v.Cards[0].Value)

	only, err := Breakdown("2025", KindCapital)
	require.NoError(t, err)
	require.Len(t, only.Series, 1)
	assert.Equal(t, "Capital", only.Series[0].Name)

	_, err = Breakdown("1999", KindAll)
	var uve *common.UserVisibleError
	require.True(t, errors.As(err, &uve))
	assert.Equal(t, http.StatusNotFound, uve.HttpCode)
}

func TestCards(t *testing.T) {
	cards, err := Cards("")
	require.NoError(t, err)
	assert.Equal(t, 215662.525, cards[0].Value)
	assert.Equal(t, 190756.264, cards[1].Value)
	assert.Equal(t, 24906.261, cards[2].Value)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("capital")
	require.NoError(t, err)
	assert.Equal(t, KindCapital, k)
	_, err = ParseKind("other")
	assert.Error(t, err)
}
