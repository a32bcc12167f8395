package schools

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/axisni/chartdash/app/tabular"
)

// School is one row of the published school performance table. Nullable
// numeric fields are nil when the cell is blank or unparsable; Grade5Plus
// defaults to 0 instead.
type School struct {
	Rank             *int     `json:"rank"`
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	City             string   `json:"city"`
	Pupils           *int     `json:"pupils"`
	Grade5Plus       float64  `json:"grade5Plus"`
	Attainment8      *float64 `json:"attainment8"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	Gender           string   `json:"gender"`
	AgeRange         string   `json:"ageRange"`
	Country          string   `json:"country"`
	Type             string   `json:"type"`
	Progress8Score   string   `json:"progress8Score"`
	Progress8Banding string   `json:"progress8Banding"`
	Boys             *int     `json:"boys"`
	Girls            *int     `json:"girls"`
}

// HasCoordinates reports whether the school can be placed on the map.
func (s School) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// CSV column names of the published dataset.
const (
	colRank        = "Rank"
	colName        = "SCHNAME"
	colAddress     = "ADDRESS"
	colTown        = "TOWN"
	colPupils      = "TOTPUPS"
	colGrade5      = "PTL2BASICS_94"
	colAttainment8 = "ATT8SCR"
	colLatitude    = "Latitude"
	colLongitude   = "Longitude"
	colGender      = "EGENDER"
	colAgeRange    = "AGERANGE"
	colCountry     = "COUNTRY"
	colType        = "NFTYPE"
	colP8Score     = "P8PUP"
	colP8Banding   = "P8_BANDING"
	colBoys        = "NUMBOYS"
	colGirls       = "NUMGIRLS"
)

// ParseCSV reads school records from a CSV with a header row. Blank lines
// are skipped.
func ParseCSV(r io.Reader) ([]School, error) {
	ds, err := tabular.ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("parsing schools csv: %w", err)
	}
	out := make([]School, 0, ds.Len())
	for _, row := range ds.Rows {
		if blankRow(row) {
			continue
		}
		out = append(out, schoolFromRow(row))
	}
	return out, nil
}

func blankRow(row tabular.Row) bool {
	for _, v := range row {
		if strings.TrimSpace(v.String()) != "" {
			return false
		}
	}
	return true
}

func schoolFromRow(row tabular.Row) School {
	text := func(col string) string {
		return strings.TrimSpace(row.Get(col).String())
	}
	grade5 := 0.0
	if g := parseLeadingFloat(text(colGrade5)); g != nil {
		grade5 = *g
	}
	return School{
		Rank:             parseLeadingInt(text(colRank)),
		Name:             text(colName),
		Address:          text(colAddress),
		City:             text(colTown),
		Pupils:           parseLeadingInt(text(colPupils)),
		Grade5Plus:       grade5,
		Attainment8:      parseLeadingFloat(text(colAttainment8)),
		Latitude:         parseLeadingFloat(text(colLatitude)),
		Longitude:        parseLeadingFloat(text(colLongitude)),
		Gender:           text(colGender),
		AgeRange:         text(colAgeRange),
		Country:          text(colCountry),
		Type:             text(colType),
		Progress8Score:   text(colP8Score),
		Progress8Banding: text(colP8Banding),
		Boys:             parseLeadingInt(text(colBoys)),
		Girls:            parseLeadingInt(text(colGirls)),
	}
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

// parseLeadingFloat reads the numeric prefix of s ("12.5%" is 12.5). It
// returns nil when s does not start with a number.
func parseLeadingFloat(s string) *float64 {
	m := leadingNumber.FindString(s)
	if m == "" {
		return nil
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseLeadingInt(s string) *int {
	m := leadingInt.FindString(s)
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &n
}
