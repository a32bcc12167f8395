package charts

import (
	"testing"

	"github.com/axisni/chartdash/app/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(cols []string, cells ...[]string) tabular.Dataset {
	ds := tabular.Dataset{Columns: cols}
	for _, line := range cells {
		r := make(tabular.Row)
		for i, c := range cols {
			r[c] = tabular.Text(line[i])
		}
		ds.Rows = append(ds.Rows, r)
	}
	return ds
}

func TestBuild_SingleSeries(t *testing.T) {
	ds := rows([]string{"Year", "Total"}, []string{"2020", "100"}, []string{"2021", "bad"})
	set := Build(ds, Spec{CategoryKey: "Year", ValueKeys: []string{"Total"}})

	require.Len(t, set.Series, 1)
	assert.Equal(t, "Total", set.Series[0].Name)
	assert.Equal(t, []Point{{Label: "2020", Value: 100}, {Label: "2021", Value: 0}}, set.Series[0].Points)
	assert.Empty(t, set.Drilldown)
	assert.Empty(t, set.Summary)
}

func TestBuild_MultipleValueKeysAndDuplicateLabels(t *testing.T) {
	ds := rows([]string{"cat", "a", "b"},
		[]string{"X", "1", "10"},
		[]string{"X", "2", "20"},
		[]string{"Y", "3", ""},
	)
	set := Build(ds, Spec{CategoryKey: "cat", ValueKeys: []string{"a", "", "b"}})

	require.Len(t, set.Series, 2)
	assert.Len(t, set.Series[0].Points, 3)
	assert.Equal(t, "X", set.Series[0].Points[1].Label)
	assert.Equal(t, 2.0, set.Series[0].Points[1].Value)
	assert.Equal(t, 0.0, set.Series[1].Points[2].Value)
}

func TestBuild_DrilldownFirstSeen(t *testing.T) {
	ds := rows([]string{"cat", "x", "v"}, []string{"A", "1", "5"}, []string{"A", "2", "6"})
	set := Build(ds, Spec{CategoryKey: "cat", ValueKeys: []string{"v"}, DrilldownKeys: []string{"x"}})

	require.Len(t, set.Drilldown, 1)
	assert.Equal(t, "A", set.Drilldown[0].ID)
	assert.Equal(t, "A Breakdown", set.Drilldown[0].Name)
	assert.Equal(t, []Entry{{Key: "x", Value: 1}}, set.Drilldown[0].Entries)

	require.Len(t, set.Summary, 1)
	assert.Equal(t, Entry{Key: "x", Value: 3}, set.Summary[0])

	assert.Equal(t, "A", set.Series[0].Points[0].Drilldown)
}

func TestBuild_DrilldownSum(t *testing.T) {
	ds := rows([]string{"cat", "x", "v"}, []string{"A", "0.1", "5"}, []string{"A", "0.2", "6"}, []string{"B", "4", "1"})
	set := Build(ds, Spec{CategoryKey: "cat", ValueKeys: []string{"v"}, DrilldownKeys: []string{"x"}, DrilldownMode: DrilldownSum})

	require.Len(t, set.Drilldown, 2)
	assert.Equal(t, 0.3, set.Drilldown[0].Entries[0].Value)
	assert.Equal(t, 4.0, set.Drilldown[1].Entries[0].Value)
	assert.Equal(t, 4.3, set.Summary[0].Value)
}

func TestBuild_DegenerateSpecs(t *testing.T) {
	ds := rows([]string{"a", "b"}, []string{"1", "2"})

	set := Build(ds, Spec{CategoryKey: "", ValueKeys: []string{"b"}})
	assert.Empty(t, set.Series)
	assert.NotNil(t, set.Series)

	set = Build(ds, Spec{CategoryKey: "a", ValueKeys: []string{""}})
	assert.Empty(t, set.Series)

	// unknown keys degrade to empty labels and zeros
	set = Build(ds, Spec{CategoryKey: "nope", ValueKeys: []string{"missing"}})
	require.Len(t, set.Series, 1)
	assert.Equal(t, Point{Label: "", Value: 0}, set.Series[0].Points[0])
}

func TestBuild_EndToEndMergedFiles(t *testing.T) {
	left := rows([]string{"Year", "Total"}, []string{"2020", "1"}, []string{"2021", "2"}, []string{"2022", "3"})
	right := rows([]string{"Region", "Spend", "Staff"},
		[]string{"N", "10", "4"}, []string{"S", "20", "5"}, []string{"E", "30", "6"})

	merged := tabular.NormalizeAndMerge(left, right)
	require.Equal(t, 3, merged.Len())
	require.Len(t, merged.Columns, 5)

	for _, cat := range merged.Columns {
		for _, val := range merged.Columns {
			set := Build(merged, Spec{CategoryKey: cat, ValueKeys: []string{val}})
			require.Len(t, set.Series, 1)
			assert.Len(t, set.Series[0].Points, 3, "category %s value %s", cat, val)
		}
	}
	set := Build(merged, Spec{CategoryKey: "F1_Year", ValueKeys: []string{"F2_Spend"}})
	assert.Equal(t, Point{Label: "2021", Value: 20}, set.Series[0].Points[1])
}

func TestSpecHelpers(t *testing.T) {
	cols := []string{"Year", "Total", "Resource", "Capital"}
	s := DefaultSpec(cols)
	assert.Equal(t, "Year", s.CategoryKey)
	assert.Equal(t, []string{"Total"}, s.ValueKeys)
	assert.Equal(t, KindColumn, s.Kind)
	assert.Equal(t, []string{"Resource", "Capital"}, AvailableDrilldownKeys(cols, s))

	assert.Empty(t, Validate(s, cols))
	s.DrilldownKeys = []string{"Nope"}
	assert.Equal(t, []string{`drill-down key "Nope" is not a column`}, Validate(s, cols))

	assert.Equal(t, KindPie, ParseKind("PIE"))
	assert.Equal(t, KindColumn, ParseKind("radar"))
}
