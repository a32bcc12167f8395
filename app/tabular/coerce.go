package tabular

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Coerce converts a cell to a number. The conversion is lossy by contract:
// blank text, unparsable text, nil, NaN and infinities all become 0, and
// the failure is never reported. Text is trimmed before parsing and
// booleans map to 1 and 0.
func Coerce(x any) float64 {
	switch t := x.(type) {
	case Value:
		return t.Float()
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return 0
		}
		x = t
	}
	f, err := cast.ToFloat64E(x)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
