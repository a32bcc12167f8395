package charts

import (
	"github.com/axisni/chartdash/app/tabular"
	"github.com/shopspring/decimal"
)

type Point struct {
	Label     string  `json:"name"`
	Value     float64 `json:"y"`
	Drilldown string  `json:"drilldown,omitempty"`
}

type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"data"`
}

type Entry struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// DrilldownGroup is the breakdown shown when a category point is opened.
type DrilldownGroup struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

type SeriesSet struct {
	Series    []Series         `json:"series"`
	Drilldown []DrilldownGroup `json:"drilldown"`
	// Summary holds, per drill-down key, the sum over every row.
	Summary []Entry `json:"summary"`
}

func emptySet() SeriesSet {
	return SeriesSet{Series: []Series{}, Drilldown: []DrilldownGroup{}, Summary: []Entry{}}
}

// Build derives the chart series of ds for spec. Every row gives one point
// per value key, labelled verbatim with its category cell, so repeated
// labels are plotted repeatedly. Cells are coerced with tabular.Coerce.
//
// Drill-down groups are keyed by category label. With DrilldownFirstSeen
// (the default) only the first row of a label contributes; DrilldownSum
// accumulates all of them. The summary is always a full-table sum.
func Build(ds tabular.Dataset, spec Spec) SeriesSet {
	set := emptySet()
	valueKeys := nonEmpty(spec.ValueKeys)
	if spec.CategoryKey == "" || len(valueKeys) == 0 {
		return set
	}
	drillKeys := nonEmpty(spec.DrilldownKeys)

	for _, vk := range valueKeys {
		s := Series{Name: vk, Points: make([]Point, 0, len(ds.Rows))}
		for _, row := range ds.Rows {
			label := row.Get(spec.CategoryKey).String()
			p := Point{Label: label, Value: row.Get(vk).Float()}
			if len(drillKeys) > 0 {
				p.Drilldown = label
			}
			s.Points = append(s.Points, p)
		}
		set.Series = append(set.Series, s)
	}

	if len(drillKeys) == 0 {
		return set
	}

	seen := make(map[string]int)
	for _, row := range ds.Rows {
		label := row.Get(spec.CategoryKey).String()
		idx, ok := seen[label]
		if !ok {
			entries := make([]Entry, len(drillKeys))
			for i, k := range drillKeys {
				entries[i] = Entry{Key: k, Value: row.Get(k).Float()}
			}
			seen[label] = len(set.Drilldown)
			set.Drilldown = append(set.Drilldown, DrilldownGroup{
				ID:      label,
				Name:    label + " Breakdown",
				Entries: entries,
			})
			continue
		}
		if spec.DrilldownMode != DrilldownSum {
			continue
		}
		group := &set.Drilldown[idx]
		for i, k := range drillKeys {
			group.Entries[i].Value = addExact(group.Entries[i].Value, row.Get(k).Float())
		}
	}

	for _, k := range drillKeys {
		total := decimal.Zero
		for _, row := range ds.Rows {
			total = total.Add(decimal.NewFromFloat(row.Get(k).Float()))
		}
		set.Summary = append(set.Summary, Entry{Key: k, Value: total.InexactFloat64()})
	}
	return set
}

func addExact(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).InexactFloat64()
}
