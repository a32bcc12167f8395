package server

import (
	"html/template"
	"net/http"

	"github.com/axisni/chartdash/app/budget"
	"github.com/axisni/chartdash/app/schools"
	"github.com/labstack/echo/v4"
)

type homePage struct {
	Description template.HTML
}

type dashboardPage struct {
	Description template.HTML
	View        budget.View
	Years       []string
}

type uploadPage struct {
	Description template.HTML
	MaxUploadMB int
}

type mapPage struct {
	Description template.HTML
	Facets      schools.Facets
	Status      schools.Status
	Query       schools.Query
}

func (dc *DashController) GetHome(c echo.Context) error {
	return c.Render(http.StatusOK, "home", homePage{Description: dc.description("home")})
}

// GetDashboard renders the budget overview, or a year's breakdown when
// ?year= is given.
func (dc *DashController) GetDashboard(c echo.Context) error {
	view := budget.Overview()
	if year := c.QueryParam("year"); year != "" {
		v, err := budget.Breakdown(year, budget.KindAll)
		if err != nil {
			return err
		}
		view = v
	}
	return c.Render(http.StatusOK, "dashboard", dashboardPage{
		Description: dc.description("dashboard"),
		View:        view,
		Years:       budget.Years(),
	})
}

func (dc *DashController) GetUpload(c echo.Context) error {
	return c.Render(http.StatusOK, "upload", uploadPage{
		Description: dc.description("upload"),
		MaxUploadMB: dc.conf.MaxUploadMB,
	})
}

func (dc *DashController) GetMap(c echo.Context) error {
	q, err := parseSchoolQuery(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "map", mapPage{
		Description: dc.description("map"),
		Facets:      dc.catalog.Facets(),
		Status:      dc.catalog.Status(),
		Query:       q,
	})
}

// GetMapList renders the filtered school list as an HTML fragment.
func (dc *DashController) GetMapList(c echo.Context) error {
	q, err := parseSchoolQuery(c)
	if err != nil {
		return err
	}
	res := dc.catalog.Query(q)
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return SchoolList(res).Render(c.Request().Context(), c.Response().Writer)
}
