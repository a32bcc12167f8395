package charts

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/axisni/chartdash/app/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	ds := rows([]string{"cat", "v", "x"}, []string{"A", "1", "2"}, []string{"B", "3", "4"})
	spec := Spec{Title: "Spend", Kind: KindBar, CategoryKey: "cat", ValueKeys: []string{"v"},
		DrilldownKeys: []string{"x"}, DataLabels: true}
	opts := Options(spec, Build(ds, spec))

	b, err := json.Marshal(opts)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "bar", decoded["chart"].(map[string]any)["type"])
	assert.Equal(t, "Spend", decoded["title"].(map[string]any)["text"])
	assert.Equal(t, false, decoded["legend"].(map[string]any)["enabled"])

	series := decoded["series"].([]any)
	require.Len(t, series, 1)
	first := series[0].(map[string]any)
	assert.Equal(t, true, first["colorByPoint"])
	point := first["data"].([]any)[1].(map[string]any)
	assert.Equal(t, "B", point["name"])
	assert.Equal(t, 3.0, point["y"])
	assert.Equal(t, "B", point["drilldown"])

	dd := decoded["drilldown"].(map[string]any)["series"].([]any)
	require.Len(t, dd, 2)
	assert.Equal(t, []any{"x", 4.0}, dd[1].(map[string]any)["data"].([]any)[0])
}

func TestOptions_NoDrilldown(t *testing.T) {
	opts := Options(Spec{Kind: "weird"}, emptySet())
	assert.Nil(t, opts.Drilldown)
	assert.Equal(t, KindColumn, opts.Chart.Type)
	assert.NotNil(t, opts.Series)
}

func TestSummaryOptions(t *testing.T) {
	set := SeriesSet{Summary: []Entry{{Key: "x", Value: 3}, {Key: "y", Value: 4}}}
	opts := SummaryOptions(Spec{Title: "T"}, set)
	assert.Equal(t, KindPie, opts.Chart.Type)
	require.Len(t, opts.Series, 1)
	assert.Equal(t, Point{Label: "y", Value: 4}, opts.Series[0].Data[1])
}

func TestConvert(t *testing.T) {
	ds := tabular.Dataset{
		Columns: []string{"Year", "A", "B"},
		Rows: []tabular.Row{
			{"Year": tabular.Number(2020), "A": tabular.Text("1.5"), "B": tabular.Text("x")},
			{"Year": tabular.Number(2021), "A": tabular.Number(2)},
		},
	}
	out := Convert(ds)
	assert.Equal(t, []string{"2020", "2021"}, out.Categories)
	require.Len(t, out.Series, 2)
	assert.Equal(t, ConvertedSeries{Name: "A", Data: []float64{1.5, 2}}, out.Series[0])
	assert.Equal(t, []float64{0, 0}, out.Series[1].Data)

	empty := Convert(tabular.Dataset{})
	assert.Empty(t, empty.Categories)
	assert.NotNil(t, empty.Series)
}

func TestRenderPNG(t *testing.T) {
	ds := rows([]string{"cat", "v"}, []string{"A", "3"}, []string{"B", "5"}, []string{"C", "8"})
	spec := Spec{Title: "Bars", Kind: KindColumn, CategoryKey: "cat", ValueKeys: []string{"v"}}

	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, spec, Build(ds, spec)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	assert.ErrorIs(t, RenderPNG(&buf, spec, emptySet()), ErrNothingToRender)
}

func TestRenderPNGFlatValues(t *testing.T) {
	oneRow := rows([]string{"Year", "Total"}, []string{"2020", "12.5"})
	allZero := rows([]string{"Year", "Total"}, []string{"2020", "bad"}, []string{"2021", ""})
	flatLine := rows([]string{"Year", "Total"}, []string{"2020", "4"}, []string{"2021", "4"}, []string{"2022", "4"})

	for _, tt := range []struct {
		name string
		kind Kind
		ds   tabular.Dataset
	}{
		{"column with one row", KindColumn, oneRow},
		{"line with one row", KindLine, oneRow},
		{"area with one row", KindArea, oneRow},
		{"column with all zero values", KindColumn, allZero},
		{"line with all zero values", KindLine, allZero},
		{"line with equal values", KindLine, flatLine},
	} {
		t.Run(tt.name, func(t *testing.T) {
			spec := Spec{Title: "Totals", Kind: tt.kind, CategoryKey: "Year", ValueKeys: []string{"Total"}}
			var buf bytes.Buffer
			require.NoError(t, RenderPNG(&buf, spec, Build(tt.ds, spec)))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
		})
	}
}

func TestFlatRange(t *testing.T) {
	assert.Nil(t, flatRange([]float64{1, 2}))
	assert.Nil(t, flatRange(nil))
	r := flatRange([]float64{0, 0})
	require.NotNil(t, r)
	assert.Equal(t, 0.0, r.Min)
	assert.Equal(t, 1.0, r.Max)
	r = flatRange([]float64{-3})
	assert.Equal(t, -3.0, r.Min)
	assert.Equal(t, 1.0, r.Max)
	r = flatRange([]float64{7, 7})
	assert.Equal(t, 0.0, r.Min)
	assert.Equal(t, 7.0, r.Max)
}
