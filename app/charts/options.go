package charts

import (
	"strings"

	"github.com/axisni/chartdash/app/tabular"
)

type titleOpt struct {
	Text string `json:"text"`
}

type axisOpt struct {
	Type       string   `json:"type,omitempty"`
	Title      titleOpt `json:"title"`
	Categories []string `json:"categories,omitempty"`
}

type toggleOpt struct {
	Enabled bool `json:"enabled"`
}

type seriesOpt struct {
	Name         string  `json:"name"`
	ColorByPoint bool    `json:"colorByPoint,omitempty"`
	Data         []Point `json:"data"`
}

type drilldownSeriesOpt struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Data [][2]any `json:"data"`
}

type drilldownOpt struct {
	Series []drilldownSeriesOpt `json:"series"`
}

// ChartOptions is the configuration object handed to the browser charting
// library (Highcharts option names).
type ChartOptions struct {
	Chart struct {
		Type Kind `json:"type"`
	} `json:"chart"`
	Title       titleOpt  `json:"title"`
	XAxis       axisOpt   `json:"xAxis"`
	YAxis       axisOpt   `json:"yAxis"`
	Legend      toggleOpt `json:"legend"`
	PlotOptions struct {
		Series struct {
			BorderWidth int       `json:"borderWidth"`
			DataLabels  toggleOpt `json:"dataLabels"`
		} `json:"series"`
	} `json:"plotOptions"`
	Series    []seriesOpt   `json:"series"`
	Drilldown *drilldownOpt `json:"drilldown,omitempty"`
	Credits   toggleOpt     `json:"credits"`
}

// Options turns a built series set into chart options.
func Options(spec Spec, set SeriesSet) ChartOptions {
	var o ChartOptions
	o.Chart.Type = ParseKind(string(spec.Kind))
	o.Title.Text = spec.Title
	o.XAxis = axisOpt{Type: "category", Title: titleOpt{Text: spec.CategoryKey}}
	o.YAxis = axisOpt{Title: titleOpt{Text: strings.Join(nonEmpty(spec.ValueKeys), ", ")}}
	o.Legend.Enabled = spec.Legend
	o.PlotOptions.Series.DataLabels.Enabled = spec.DataLabels

	o.Series = make([]seriesOpt, 0, len(set.Series))
	for _, s := range set.Series {
		o.Series = append(o.Series, seriesOpt{
			Name:         s.Name,
			ColorByPoint: len(set.Series) == 1,
			Data:         s.Points,
		})
	}

	if len(set.Drilldown) > 0 {
		dd := &drilldownOpt{Series: make([]drilldownSeriesOpt, 0, len(set.Drilldown))}
		for _, g := range set.Drilldown {
			data := make([][2]any, 0, len(g.Entries))
			for _, e := range g.Entries {
				data = append(data, [2]any{e.Key, e.Value})
			}
			dd.Series = append(dd.Series, drilldownSeriesOpt{ID: g.ID, Name: g.Name, Data: data})
		}
		o.Drilldown = dd
	}
	return o
}

// SummaryOptions charts the summary entries of set as a single series, the
// secondary chart shown next to a drill-down chart.
func SummaryOptions(spec Spec, set SeriesSet) ChartOptions {
	points := make([]Point, 0, len(set.Summary))
	for _, e := range set.Summary {
		points = append(points, Point{Label: e.Key, Value: e.Value})
	}
	summarySpec := Spec{
		Title:       spec.Title + " (totals)",
		Kind:        KindPie,
		CategoryKey: "Key",
		ValueKeys:   []string{"Total"},
		DataLabels:  spec.DataLabels,
		Legend:      true,
	}
	return Options(summarySpec, SeriesSet{Series: []Series{{Name: "Total", Points: points}}})
}

// Converted is the category/series layout produced by Convert.
type Converted struct {
	Categories []string          `json:"categories"`
	Series     []ConvertedSeries `json:"series"`
}

type ConvertedSeries struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

// Convert treats the first column of ds as the category axis and every
// other column as a numeric series.
func Convert(ds tabular.Dataset) Converted {
	out := Converted{Categories: []string{}, Series: []ConvertedSeries{}}
	if ds.Len() == 0 || len(ds.Columns) == 0 {
		return out
	}
	category := ds.Columns[0]
	for _, row := range ds.Rows {
		out.Categories = append(out.Categories, row.Get(category).String())
	}
	for _, col := range ds.Columns[1:] {
		s := ConvertedSeries{Name: col, Data: make([]float64, 0, ds.Len())}
		for _, row := range ds.Rows {
			s.Data = append(s.Data, row.Get(col).Float())
		}
		out.Series = append(out.Series, s)
	}
	return out
}
