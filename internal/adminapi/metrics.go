package adminapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clickhouse-shop/clickhouse/pkg/metrics"
)

// metricRange returns raw datapoints of one metric for the dashboard charts.
// Defaults to the last hour.
func (h *handler) metricRange(c echo.Context) error {
	name := c.Param("name")
	end := time.Now().Unix()
	start := end - 3600
	if v, err := strconv.ParseInt(c.QueryParam("start"), 10, 64); err == nil && v > 0 {
		start = v
	}
	if v, err := strconv.ParseInt(c.QueryParam("end"), 10, 64); err == nil && v > 0 {
		end = v
	}

	points, err := metrics.SelectRange(name, start, end)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to query metric", err.Error())
	}
	return ok(c, points)
}
