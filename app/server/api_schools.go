package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/axisni/chartdash/app/common"
	"github.com/axisni/chartdash/app/schools"
	"github.com/labstack/echo/v4"
)

func optionalInt(c echo.Context, name string) (*int, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, common.BadRequest("%s must be an integer", name)
	}
	return &n, nil
}

func optionalFloat(c echo.Context, name string) (*float64, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, common.BadRequest("%s must be a number", name)
	}
	return &f, nil
}

func parseSchoolQuery(c echo.Context) (schools.Query, error) {
	q := schools.Query{
		Filter: schools.Filter{
			City:     c.QueryParam("city"),
			Type:     c.QueryParam("type"),
			Gender:   c.QueryParam("gender"),
			AgeRange: c.QueryParam("ageRange"),
			Name:     c.QueryParam("name"),
		},
		Sort:   schools.ParseSortKey(c.QueryParam("sort")),
		Order:  common.ParseSortOrder(c.QueryParam("dir")),
		Rerank: c.QueryParam("rerank") == "true" || c.QueryParam("rerank") == "1",
	}

	ints := []struct {
		name string
		dst  **int
	}{
		{"pupilsMin", &q.Filter.PupilsMin},
		{"pupilsMax", &q.Filter.PupilsMax},
		{"rankMin", &q.Filter.RankMin},
		{"rankMax", &q.Filter.RankMax},
	}
	for _, p := range ints {
		v, err := optionalInt(c, p.name)
		if err != nil {
			return schools.Query{}, err
		}
		*p.dst = v
	}

	floats := []struct {
		name string
		dst  **float64
	}{
		{"grade5Min", &q.Filter.Grade5Min},
		{"grade5Max", &q.Filter.Grade5Max},
		{"att8Min", &q.Filter.Attainment8Min},
		{"att8Max", &q.Filter.Attainment8Max},
	}
	for _, p := range floats {
		v, err := optionalFloat(c, p.name)
		if err != nil {
			return schools.Query{}, err
		}
		*p.dst = v
	}
	return q, nil
}

func (dc *DashController) GetSchools(c echo.Context) error {
	q, err := parseSchoolQuery(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dc.catalog.Query(q))
}

func (dc *DashController) SearchSchools(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return common.BadRequest("q must not be empty")
	}
	limit := 10
	if l, err := optionalInt(c, "limit"); err != nil {
		return err
	} else if l != nil && *l > 0 && *l <= 100 {
		limit = *l
	}
	found, err := dc.catalog.Search(c.Request().Context(), q, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, found)
}

func (dc *DashController) GetSchoolsStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, dc.catalog.Status())
}
