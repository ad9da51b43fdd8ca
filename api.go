package folio

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/analytics"
)

// handleViews answers GET /api/views?pageTitle=<title>. It always responds
// 200; a missing title or a failing reporter yields {"views": 0}.
func (a *App) handleViews(c echo.Context) error {
	title := c.QueryParam("pageTitle")
	if title == "" {
		return c.JSON(http.StatusOK, analytics.ViewsResponse{})
	}
	n, err := a.Reporter.PageViews(c.Request().Context(), title, a.Config.viewsStart(), time.Now().UTC())
	if err != nil {
		c.Logger().Errorf("views for %q: %v", title, err)
		n = 0
	}
	return c.JSON(http.StatusOK, analytics.ViewsResponse{Views: n})
}
