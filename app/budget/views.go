package budget

import (
	"github.com/axisni/chartdash/app/charts"
	"github.com/axisni/chartdash/app/common"
	"github.com/axisni/chartdash/app/tabular"
	"github.com/shopspring/decimal"
)

const (
	colorTotal    = "#2a9d8f"
	colorResource = "#e9c46a"
	colorCapital  = "#f4a261"
)

// Kind selects resource or capital spending.
type Kind string

const (
	KindAll      Kind = ""
	KindResource Kind = "resource"
	KindCapital  Kind = "capital"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAll, KindResource, KindCapital:
		return Kind(s), nil
	}
	return KindAll, common.BadRequest("unknown budget kind %q", s)
}

func (k Kind) label() string {
	if k == KindCapital {
		return "Capital"
	}
	return "Resource"
}

type ViewSeries struct {
	Name  string    `json:"name"`
	Color string    `json:"color,omitempty"`
	Data  []float64 `json:"data"`
}

// View is one state of the budget dashboard: a chart and its KPI cards.
type View struct {
	Name       string       `json:"view"`
	Title      string       `json:"title"`
	ChartType  charts.Kind  `json:"chartType"`
	XAxisTitle string       `json:"xAxisTitle"`
	Categories []string     `json:"categories"`
	Series     []ViewSeries `json:"series"`
	// Year is set on breakdown views; overview points drill into it.
	Year  string `json:"year,omitempty"`
	Cards []Card `json:"cards"`
}

type Card struct {
	Label  string  `json:"label"`
	Period string  `json:"period"`
	Value  float64 `json:"value"`
	Color  string  `json:"color"`
	// Target is the view opened by clicking the card.
	Target string `json:"target"`
}

func Years() []string {
	out := make([]string, len(yearly))
	for i, y := range yearly {
		out[i] = y.Year
	}
	return out
}

func Departments() []string {
	return append([]string(nil), departments...)
}

// fromSet copies built series into view series, keeping category order
// from the first series.
func fromSet(set charts.SeriesSet, names map[string]string, colors map[string]string) ([]string, []ViewSeries) {
	categories := []string{}
	out := make([]ViewSeries, 0, len(set.Series))
	for i, s := range set.Series {
		data := make([]float64, len(s.Points))
		for j, p := range s.Points {
			data[j] = p.Value
			if i == 0 {
				categories = append(categories, p.Label)
			}
		}
		name := s.Name
		if n, ok := names[s.Name]; ok {
			name = n
		}
		out = append(out, ViewSeries{Name: name, Color: colors[s.Name], Data: data})
	}
	return categories, out
}

// Overview plots total, resource and capital budgets per year.
func Overview() View {
	ds := tabular.Dataset{Columns: []string{"Year", "TotalBudget", "TotalResource", "TotalCapital"}}
	for _, y := range yearly {
		ds.Rows = append(ds.Rows, tabular.Row{
			"Year":          tabular.Text(y.Year),
			"TotalBudget":   tabular.Number(y.Total),
			"TotalResource": tabular.Number(y.Resource),
			"TotalCapital":  tabular.Number(y.Capital),
		})
	}
	set := charts.Build(ds, charts.Spec{
		Kind:        charts.KindLine,
		CategoryKey: "Year",
		ValueKeys:   []string{"TotalBudget", "TotalResource", "TotalCapital"},
	})
	categories, series := fromSet(set,
		map[string]string{"TotalBudget": "Total Budget", "TotalResource": "Resource Budget", "TotalCapital": "Capital Budget"},
		map[string]string{"TotalBudget": colorTotal, "TotalResource": colorResource, "TotalCapital": colorCapital},
	)
	cards := allYearsCards()
	return View{
		Name:       "overview",
		Title:      "Total Budget Over Years (£M)",
		ChartType:  charts.KindLine,
		XAxisTitle: "Year",
		Categories: categories,
		Series:     series,
		Cards:      cards,
	}
}

// Trend plots one line per department across all years for kind.
// KindAll is treated as resource.
func Trend(kind Kind) View {
	ds := tabular.Dataset{Columns: append([]string{"Year"}, departments...)}
	for _, y := range yearly {
		split := byDepartment[y.Year]
		values := split.Resource
		if kind == KindCapital {
			values = split.Capital
		}
		row := tabular.Row{"Year": tabular.Text(y.Year)}
		for i, d := range departments {
			row[d] = tabular.Number(values[i])
		}
		ds.Rows = append(ds.Rows, row)
	}
	set := charts.Build(ds, charts.Spec{Kind: charts.KindLine, CategoryKey: "Year", ValueKeys: departments})
	categories, series := fromSet(set, nil, nil)
	cards := allYearsCards()
	return View{
		Name:       "trend",
		Title:      kind.label() + " Budget by Category (2010 - 2025) (£M)",
		ChartType:  charts.KindLine,
		XAxisTitle: "Year",
		Categories: categories,
		Series:     series,
		Cards:      cards,
	}
}

// Breakdown shows resource and capital spending per department for one
// year, or only one of them when kind is set.
func Breakdown(year string, kind Kind) (View, error) {
	split, ok := byDepartment[year]
	if !ok {
		return View{}, common.NotFound("no budget figures for year %q", year)
	}
	ds := tabular.Dataset{Columns: []string{"Department", "Resource", "Capital"}}
	for i, d := range departments {
		ds.Rows = append(ds.Rows, tabular.Row{
			"Department": tabular.Text(d),
			"Resource":   tabular.Number(split.Resource[i]),
			"Capital":    tabular.Number(split.Capital[i]),
		})
	}
	valueKeys := []string{"Resource", "Capital"}
	if kind != KindAll {
		valueKeys = []string{kind.label()}
	}
	set := charts.Build(ds, charts.Spec{Kind: charts.KindColumn, CategoryKey: "Department", ValueKeys: valueKeys})
	categories, series := fromSet(set, nil, map[string]string{"Resource": colorResource, "Capital": colorCapital})
	cards, err := Cards(year)
	if err != nil {
		return View{}, err
	}
	return View{
		Name:       "breakdown",
		Title:      "Budget Breakdown for " + year + " (£M)",
		ChartType:  charts.KindColumn,
		XAxisTitle: "Department",
		Categories: categories,
		Series:     series,
		Year:       year,
		Cards:      cards,
	}, nil
}

func cardsFor(period string, total, resource, capital decimal.Decimal) []Card {
	return []Card{
		{Label: "Total Budget", Period: period, Value: total.InexactFloat64(), Color: colorTotal, Target: "overview"},
		{Label: "Resource Budget", Period: period, Value: resource.InexactFloat64(), Color: colorResource, Target: "trend?kind=resource"},
		{Label: "Capital Budget", Period: period, Value: capital.InexactFloat64(), Color: colorCapital, Target: "trend?kind=capital"},
	}
}

// allYearsCards sums every year's figures.
func allYearsCards() []Card {
	var total, resource, capital decimal.Decimal
	for _, y := range yearly {
		total = total.Add(decimal.NewFromFloat(y.Total))
		resource = resource.Add(decimal.NewFromFloat(y.Resource))
		capital = capital.Add(decimal.NewFromFloat(y.Capital))
	}
	return cardsFor("2010 - 2025", total, resource, capital)
}

// Cards returns the KPI cards: sums over every year when year is empty,
// otherwise that year's figures.
func Cards(year string) ([]Card, error) {
	if year == "" {
		return allYearsCards(), nil
	}
	for _, y := range yearly {
		if y.Year == year {
			return cardsFor(year, decimal.NewFromFloat(y.Total), decimal.NewFromFloat(y.Resource), decimal.NewFromFloat(y.Capital)), nil
		}
	}
	return nil, common.NotFound("no budget figures for year %q", year)
}
