package schools

import (
	"slices"

	"github.com/axisni/chartdash/app/common"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortNone        SortKey = ""
	SortRank        SortKey = "rank"
	SortName        SortKey = "name"
	SortCity        SortKey = "city"
	SortType        SortKey = "type"
	SortPupils      SortKey = "pupils"
	SortGrade5      SortKey = "grade5"
	SortAttainment8 SortKey = "attainment8"
)

var sortKeys = []SortKey{SortRank, SortName, SortCity, SortType, SortPupils, SortGrade5, SortAttainment8}

// ParseSortKey returns SortNone for unknown keys.
func ParseSortKey(s string) SortKey {
	for _, k := range sortKeys {
		if string(k) == s {
			return k
		}
	}
	return SortNone
}

type Query struct {
	Filter Filter           `json:"filter"`
	Sort   SortKey          `json:"sort,omitempty"`
	Order  common.SortOrder `json:"order,omitempty"`
	// Rerank replaces each result's Rank with its 1-based position once a
	// sort key is applied.
	Rerank bool `json:"rerank,omitempty"`
}

// sortValue is a field extracted for comparison. Missing values sort last.
type sortValue struct {
	missing bool
	text    string
	num     float64
	numeric bool
}

func fieldOf(s School, key SortKey) sortValue {
	intVal := func(p *int) sortValue {
		if p == nil {
			return sortValue{missing: true, numeric: true}
		}
		return sortValue{num: float64(*p), numeric: true}
	}
	floatVal := func(p *float64) sortValue {
		if p == nil {
			return sortValue{missing: true, numeric: true}
		}
		return sortValue{num: *p, numeric: true}
	}
	textVal := func(t string) sortValue {
		return sortValue{missing: t == "", text: t}
	}

	switch key {
	case SortRank:
		return intVal(s.Rank)
	case SortPupils:
		return intVal(s.Pupils)
	case SortGrade5:
		g := s.Grade5Plus
		return floatVal(&g)
	case SortAttainment8:
		return floatVal(s.Attainment8)
	case SortName:
		return textVal(s.Name)
	case SortCity:
		return textVal(s.City)
	case SortType:
		return textVal(s.Type)
	default:
		return sortValue{missing: true}
	}
}

// Apply filters records in their original order and then, if q names a
// sort key, stable-sorts the survivors. Text compares with an English
// collator, numbers by difference. Records missing the sort field go last
// in either direction. The input slice is not modified.
func Apply(records []School, q Query) []School {
	out := make([]School, 0, len(records))
	for _, s := range records {
		if q.Filter.Matches(s) {
			out = append(out, s)
		}
	}
	if q.Sort == SortNone {
		return out
	}

	col := collate.New(language.English)
	desc := q.Order == common.OrderDesc
	slices.SortStableFunc(out, func(a, b School) int {
		va, vb := fieldOf(a, q.Sort), fieldOf(b, q.Sort)
		switch {
		case va.missing && vb.missing:
			return 0
		case va.missing:
			return 1
		case vb.missing:
			return -1
		}
		var c int
		if va.numeric {
			switch d := va.num - vb.num; {
			case d < 0:
				c = -1
			case d > 0:
				c = 1
			}
		} else {
			c = col.CompareString(va.text, vb.text)
		}
		if desc {
			return -c
		}
		return c
	})

	if q.Rerank {
		for i := range out {
			rank := i + 1
			out[i].Rank = &rank
		}
	}
	return out
}
