package charts

import (
	"errors"
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
)

var ErrNothingToRender = errors.New("chart has no series to render")

const (
	pngWidth  = 1024
	pngHeight = 600
)

// flatRange returns an explicit value range when every value is equal,
// since go-chart refuses a zero-width axis. It returns nil otherwise.
func flatRange(values []float64) *chart.ContinuousRange {
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo != hi {
		return nil
	}
	return &chart.ContinuousRange{Min: min(0, lo), Max: max(1, hi)}
}

// RenderPNG draws set as a static image. Column, bar and pie charts use the
// first series; line and area charts plot every series, falling back to bars
// when there is a single category.
func RenderPNG(w io.Writer, spec Spec, set SeriesSet) error {
	if len(set.Series) == 0 || len(set.Series[0].Points) == 0 {
		return ErrNothingToRender
	}

	var err error
	switch kind := ParseKind(string(spec.Kind)); {
	case kind == KindPie:
		err = renderPie(w, spec, set)
	case (kind == KindLine || kind == KindArea) && len(set.Series[0].Points) > 1:
		err = renderLines(w, spec, set, kind == KindArea)
	default:
		err = renderBars(w, spec, set)
	}
	if err != nil && !errors.Is(err, ErrNothingToRender) {
		return fmt.Errorf("%w: %v", ErrNothingToRender, err)
	}
	return err
}

func renderPie(w io.Writer, spec Spec, set SeriesSet) error {
	values := make([]chart.Value, 0, len(set.Series[0].Points))
	for _, p := range set.Series[0].Points {
		if p.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: p.Label, Value: p.Value})
	}
	if len(values) == 0 {
		return ErrNothingToRender
	}
	pie := chart.PieChart{Title: spec.Title, Width: pngWidth, Height: pngHeight, Values: values}
	return pie.Render(chart.PNG, w)
}

func renderLines(w io.Writer, spec Spec, set SeriesSet, area bool) error {
	graph := chart.Chart{Title: spec.Title, Width: pngWidth, Height: pngHeight}
	ticks := make([]chart.Tick, 0, len(set.Series[0].Points))
	for i, p := range set.Series[0].Points {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: p.Label})
	}
	graph.XAxis = chart.XAxis{Ticks: ticks}

	var all []float64
	for si, s := range set.Series {
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i] = float64(i)
			ys[i] = p.Value
		}
		all = append(all, ys...)
		series := chart.ContinuousSeries{Name: s.Name, XValues: xs, YValues: ys}
		if area {
			series.Style = chart.Style{
				StrokeColor: chart.GetDefaultColor(si),
				FillColor:   chart.GetDefaultColor(si).WithAlpha(64),
			}
		}
		graph.Series = append(graph.Series, series)
	}
	if r := flatRange(all); r != nil {
		graph.YAxis = chart.YAxis{Range: r}
	}
	if spec.Legend {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}
	return graph.Render(chart.PNG, w)
}

func renderBars(w io.Writer, spec Spec, set SeriesSet) error {
	bars := make([]chart.Value, 0, len(set.Series[0].Points))
	values := make([]float64, 0, len(set.Series[0].Points))
	for _, p := range set.Series[0].Points {
		bars = append(bars, chart.Value{Label: p.Label, Value: p.Value})
		values = append(values, p.Value)
	}
	bc := chart.BarChart{
		Title:    spec.Title,
		Width:    pngWidth,
		Height:   pngHeight,
		BarWidth: 40,
		Bars:     bars,
	}
	if r := flatRange(values); r != nil {
		bc.YAxis = chart.YAxis{Range: r}
	}
	return bc.Render(chart.PNG, w)
}
