package server

import (
	"net/http"

	"github.com/axisni/chartdash/app/charts"
	"github.com/axisni/chartdash/app/common"
	"github.com/axisni/chartdash/app/tabular"
	"github.com/labstack/echo/v4"
)

type saveChartRequest struct {
	Name       string `json:"name"`
	ConfigJSON string `json:"configJson"`
}

func (dc *DashController) SaveChart(c echo.Context) error {
	var req saveChartRequest
	if err := c.Bind(&req); err != nil {
		return common.BadRequest("invalid chart payload")
	}
	saved, err := dc.charts.Save(c.Request().Context(), req.Name, req.ConfigJSON)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, saved)
}

func (dc *DashController) ListCharts(c echo.Context) error {
	all, err := dc.charts.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, all)
}

func (dc *DashController) GetChart(c echo.Context) error {
	saved, err := dc.charts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, saved)
}

// ConvertRows turns an array of row objects into a chart configuration,
// first column as categories.
func (dc *DashController) ConvertRows(c echo.Context) error {
	ds, err := tabular.DecodeJSONRows(c.Request().Body)
	if err != nil {
		return common.BadRequest("Failed to convert data: %s", err.Error())
	}
	if ds.Len() == 0 {
		return common.BadRequest("Raw data must not be empty")
	}
	return c.JSON(http.StatusOK, charts.Convert(ds))
}
