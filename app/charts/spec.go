package charts

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindColumn Kind = "column"
	KindBar    Kind = "bar"
	KindLine   Kind = "line"
	KindPie    Kind = "pie"
	KindArea   Kind = "area"
)

var Kinds = []Kind{KindColumn, KindBar, KindLine, KindPie, KindArea}

// ParseKind maps a chart type name to a Kind, falling back to column.
func ParseKind(s string) Kind {
	for _, k := range Kinds {
		if strings.EqualFold(strings.TrimSpace(s), string(k)) {
			return k
		}
	}
	return KindColumn
}

type DrilldownMode string

const (
	// DrilldownFirstSeen keeps the breakdown of the first row of each
	// category and ignores later rows with the same label.
	DrilldownFirstSeen DrilldownMode = "first"
	// DrilldownSum adds up the breakdowns of every row of a category.
	DrilldownSum DrilldownMode = "sum"
)

// Spec is what a user configures for one chart.
type Spec struct {
	Title         string        `json:"title"`
	Kind          Kind          `json:"kind"`
	CategoryKey   string        `json:"categoryKey"`
	ValueKeys     []string      `json:"valueKeys"`
	DrilldownKeys []string      `json:"drilldownKeys"`
	DataLabels    bool          `json:"dataLabels"`
	Legend        bool          `json:"legend"`
	DrilldownMode DrilldownMode `json:"drilldownMode,omitempty"`
}

// DefaultSpec mirrors a freshly added chart: first column as category,
// second as value, no drill-down.
func DefaultSpec(columns []string) Spec {
	s := Spec{
		Title:         "My Chart",
		Kind:          KindColumn,
		ValueKeys:     []string{},
		DrilldownKeys: []string{},
		DataLabels:    true,
		DrilldownMode: DrilldownFirstSeen,
	}
	if len(columns) > 0 {
		s.CategoryKey = columns[0]
	}
	if len(columns) > 1 {
		s.ValueKeys = []string{columns[1]}
	}
	return s
}

// AvailableDrilldownKeys lists the columns not already used as category or
// value keys.
func AvailableDrilldownKeys(columns []string, s Spec) []string {
	used := map[string]struct{}{s.CategoryKey: {}}
	for _, k := range s.ValueKeys {
		used[k] = struct{}{}
	}
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if _, ok := used[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// Validate lists the keys of s that are not among columns. Build still
// accepts such a spec; unknown keys simply produce empty labels and zeros.
func Validate(s Spec, columns []string) []string {
	known := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		known[c] = struct{}{}
	}
	var problems []string
	check := func(role, key string) {
		if key == "" {
			problems = append(problems, fmt.Sprintf("%s key is empty", role))
			return
		}
		if _, ok := known[key]; !ok {
			problems = append(problems, fmt.Sprintf("%s key %q is not a column", role, key))
		}
	}
	check("category", s.CategoryKey)
	if len(nonEmpty(s.ValueKeys)) == 0 {
		problems = append(problems, "no value keys selected")
	}
	for _, k := range s.ValueKeys {
		check("value", k)
	}
	for _, k := range s.DrilldownKeys {
		check("drill-down", k)
	}
	return problems
}

func nonEmpty(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
