package schools

const (
	colorTop    = "#1a9850"
	colorMiddle = "#fee08b"
	colorRest   = "#d73027"
)

type Marker struct {
	Name      string  `json:"name"`
	Rank      *int    `json:"rank"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Color     string  `json:"color"`
	School    School  `json:"school"`
}

// MarkerColor buckets a rank: top 100 green, up to 300 amber, the rest red.
func MarkerColor(rank *int) string {
	switch {
	case rank == nil:
		return colorRest
	case *rank <= 100:
		return colorTop
	case *rank <= 300:
		return colorMiddle
	default:
		return colorRest
	}
}

// Markers places every record that has coordinates and counts those that
// do not. Records without coordinates stay in list views.
func Markers(records []School) (markers []Marker, missing int) {
	markers = make([]Marker, 0, len(records))
	for _, s := range records {
		if !s.HasCoordinates() {
			missing++
			continue
		}
		markers = append(markers, Marker{
			Name:      s.Name,
			Rank:      s.Rank,
			Latitude:  *s.Latitude,
			Longitude: *s.Longitude,
			Color:     MarkerColor(s.Rank),
			School:    s,
		})
	}
	return markers, missing
}

// Facets are the selector options derived from the full record list.
type Facets struct {
	Cities  []string `json:"cities"`
	Types   []string `json:"types"`
	Genders []string `json:"genders"`
	MaxRank int      `json:"maxRank"`
}

func distinct(records []School, field func(School) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, s := range records {
		v := field(s)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// FacetsOf lists distinct non-empty values in first-seen order and the
// largest rank (0 when no record is ranked).
func FacetsOf(records []School) Facets {
	f := Facets{
		Cities:  distinct(records, func(s School) string { return s.City }),
		Types:   distinct(records, func(s School) string { return s.Type }),
		Genders: distinct(records, func(s School) string { return s.Gender }),
	}
	for _, s := range records {
		if s.Rank != nil && *s.Rank > f.MaxRank {
			f.MaxRank = *s.Rank
		}
	}
	return f
}
