package folio

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// contentSecurityPolicy admits the third-party analytics hosts the
// providers load from.
const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' https://plausible.io https://scripts.simpleanalyticscdn.com https://cloud.umami.is https://www.googletagmanager.com https://app.rybbit.io; " +
	"style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; " +
	"connect-src 'self' https:; media-src 'self' data:"

// pathKind groups request paths by how the middleware chain treats them.
type pathKind int

const (
	pathPage  pathKind = iota
	pathAsset          // /public, served with a long immutable cache
	pathFile           // feeds, sitemap, robots.txt, favicon
	pathAPI            // JSON endpoints, including the admin stats API
	pathAdmin
)

func classifyPath(path string) pathKind {
	switch {
	case path == "/public" || strings.HasPrefix(path, "/public/"):
		return pathAsset
	case strings.HasPrefix(path, "/api/"), strings.HasPrefix(path, "/admin/analytics/api/"):
		return pathAPI
	case strings.HasPrefix(path, "/admin"):
		return pathAdmin
	case strings.HasSuffix(path, ".xml"), strings.HasSuffix(path, ".txt"), path == "/favicon.svg":
		return pathFile
	}
	return pathPage
}

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())
	e.Pre(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))

	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return classifyPath(c.Request().URL.Path) == pathAsset
		},
	}))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
		HSTSMaxAge:            31536000,
	}))
	e.Use(session.Middleware(a.newSessionStore()))
	e.Use(a.csrf())
	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper:      skipTrailingSlash,
	}))
	e.Use(cacheControlMiddleware)
}

// requestLogger writes one line per request through the Echo logger,
// tagged with the request id.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s) id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	})
}

// csrf guards every form post. The public JSON API is exempt; the
// collector is posted by sendBeacon, which cannot carry the token.
func (a *App) csrf() echo.MiddlewareFunc {
	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:     middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/api/")
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	})
}

// skipTrailingSlash leaves files, assets, APIs and the /blog redirect alone;
// every other page lives under a trailing slash.
func skipTrailingSlash(c echo.Context) bool {
	path := c.Request().URL.Path
	switch classifyPath(path) {
	case pathPage:
		return path == "/blog"
	case pathAdmin:
		return false
	}
	return true
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var v string
		switch classifyPath(c.Request().URL.Path) {
		case pathAsset:
			v = "public, max-age=31536000, immutable"
		case pathFile:
			v = "public, max-age=86400"
		case pathAPI, pathAdmin:
			v = "no-store"
		default:
			v = "public, max-age=3600"
		}
		c.Response().Header().Set("Cache-Control", v)
		return next(c)
	}
}
