package folio

import (
	"embed"
	"net/http"

	"github.com/labstack/echo/v4"
)

// EmbeddedAssets contains the scripts shipped with the engine: views.js
// fills view counters, collect.js reports page views to local analytics and
// quote.js loads the home page quote when the page was rendered without one.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

func serveEmbedded(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		data, err := EmbeddedAssets.ReadFile("embedded/" + name)
		if err != nil {
			return echo.ErrNotFound
		}
		return c.Blob(http.StatusOK, "text/javascript; charset=utf-8", data)
	}
}
