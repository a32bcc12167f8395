package server

import (
	"net/http"

	"github.com/axisni/chartdash/app/budget"
	"github.com/axisni/chartdash/app/common"
	"github.com/labstack/echo/v4"
)

// GetBudget serves one dashboard state: ?view=overview (default), trend
// or breakdown, with kind and year where they apply.
func (dc *DashController) GetBudget(c echo.Context) error {
	kind, err := budget.ParseKind(c.QueryParam("kind"))
	if err != nil {
		return err
	}
	switch c.QueryParam("view") {
	case "", "overview":
		return c.JSON(http.StatusOK, budget.Overview())
	case "trend":
		return c.JSON(http.StatusOK, budget.Trend(kind))
	case "breakdown":
		year := c.QueryParam("year")
		if year == "" {
			return common.BadRequest("year is required for the breakdown view")
		}
		v, err := budget.Breakdown(year, kind)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, v)
	default:
		return common.BadRequest("unknown budget view %q", c.QueryParam("view"))
	}
}
