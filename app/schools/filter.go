package schools

import (
	"strings"

	"github.com/axisni/chartdash/app/common"
)

// Filter is a conjunction of predicates. Equality selectors are inactive
// when blank or "All", range bounds when nil. A record whose field is null
// fails every active range predicate on that field.
type Filter struct {
	City     string `json:"city,omitempty"`
	Type     string `json:"type,omitempty"`
	Gender   string `json:"gender,omitempty"`
	AgeRange string `json:"ageRange,omitempty"`
	// Name is matched as a case-insensitive substring.
	Name string `json:"name,omitempty"`

	PupilsMin      *int     `json:"pupilsMin,omitempty"`
	PupilsMax      *int     `json:"pupilsMax,omitempty"`
	Grade5Min      *float64 `json:"grade5Min,omitempty"`
	Grade5Max      *float64 `json:"grade5Max,omitempty"`
	Attainment8Min *float64 `json:"attainment8Min,omitempty"`
	Attainment8Max *float64 `json:"attainment8Max,omitempty"`
	RankMin        *int     `json:"rankMin,omitempty"`
	RankMax        *int     `json:"rankMax,omitempty"`
}

func equalsSelector(selector, value string) bool {
	return common.IsAll(selector) || strings.EqualFold(strings.TrimSpace(selector), value)
}

func inIntRange(v *int, lo, hi *int) bool {
	if lo == nil && hi == nil {
		return true
	}
	if v == nil {
		return false
	}
	return (lo == nil || *v >= *lo) && (hi == nil || *v <= *hi)
}

func inFloatRange(v *float64, lo, hi *float64) bool {
	if lo == nil && hi == nil {
		return true
	}
	if v == nil {
		return false
	}
	return (lo == nil || *v >= *lo) && (hi == nil || *v <= *hi)
}

// Matches reports whether s satisfies every active predicate of f.
func (f Filter) Matches(s School) bool {
	if !equalsSelector(f.City, s.City) ||
		!equalsSelector(f.Type, s.Type) ||
		!equalsSelector(f.Gender, s.Gender) ||
		!equalsSelector(f.AgeRange, s.AgeRange) {
		return false
	}
	if name := strings.TrimSpace(f.Name); name != "" &&
		!strings.Contains(strings.ToLower(s.Name), strings.ToLower(name)) {
		return false
	}
	grade5 := s.Grade5Plus
	return inIntRange(s.Pupils, f.PupilsMin, f.PupilsMax) &&
		inFloatRange(&grade5, f.Grade5Min, f.Grade5Max) &&
		inFloatRange(s.Attainment8, f.Attainment8Min, f.Attainment8Max) &&
		inIntRange(s.Rank, f.RankMin, f.RankMax)
}
