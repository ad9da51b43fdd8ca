package folio

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/analytics"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/portfolio"
	"github.com/eringen/folio/quote"
	"github.com/eringen/folio/seo"
	"github.com/eringen/folio/views"
)

// LayoutFunc renders a published post.
type LayoutFunc func(meta seo.Meta, page content.Page) templ.Component

// ViewFuncs holds the templ components the framework calls when rendering
// pages. Any nil field, and any missing layout, is filled from the default
// theme.
type ViewFuncs struct {
	Home           func(meta seo.Meta, posts []content.FrontMatter, q quote.Quote, hasQuote bool) templ.Component
	Blog           func(meta seo.Meta, posts []content.FrontMatter, activeTag string, tags []content.TagCount) templ.Component
	Tags           func(meta seo.Meta, tags []content.TagCount) templ.Component
	Layouts        map[string]LayoutFunc
	Draft          func(meta seo.Meta) templ.Component
	Projects       func(meta seo.Meta, projects portfolio.Projects) templ.Component
	Project        func(meta seo.Meta, p portfolio.Project) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(posts []content.FrontMatter, stats *analytics.Stats, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// DefaultViews returns the default theme for cfg.
func DefaultViews(cfg SiteConfig, contact portfolio.Contact) ViewFuncs {
	v := views.New(views.Site{
		Title:     cfg.Title,
		Author:    cfg.Author,
		Language:  cfg.Language,
		Contact:   contact,
		Providers: analytics.Enabled(analytics.Providers(cfg.Analytics)),
		MemeURL:   cfg.MemeURL,
		QuoteURL:  cfg.QuoteURL,
	})
	layouts := make(map[string]LayoutFunc)
	for name, fn := range v.Layouts() {
		layouts[name] = fn
	}
	return ViewFuncs{
		Home:           v.Home,
		Blog:           v.Blog,
		Tags:           v.Tags,
		Layouts:        layouts,
		Draft:          v.Draft,
		Projects:       v.Projects,
		Project:        v.Project,
		AdminLogin:     v.AdminLogin,
		AdminDashboard: v.AdminDashboard,
		NotFound:       v.NotFound,
		ServerError:    v.ServerError,
	}
}

func (v ViewFuncs) withDefaults(d ViewFuncs) ViewFuncs {
	if v.Home == nil {
		v.Home = d.Home
	}
	if v.Blog == nil {
		v.Blog = d.Blog
	}
	if v.Tags == nil {
		v.Tags = d.Tags
	}
	if v.Draft == nil {
		v.Draft = d.Draft
	}
	if v.Projects == nil {
		v.Projects = d.Projects
	}
	if v.Project == nil {
		v.Project = d.Project
	}
	if v.AdminLogin == nil {
		v.AdminLogin = d.AdminLogin
	}
	if v.AdminDashboard == nil {
		v.AdminDashboard = d.AdminDashboard
	}
	if v.NotFound == nil {
		v.NotFound = d.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = d.ServerError
	}
	layouts := make(map[string]LayoutFunc, len(d.Layouts)+len(v.Layouts))
	for name, fn := range d.Layouts {
		layouts[name] = fn
	}
	for name, fn := range v.Layouts {
		if fn != nil {
			layouts[name] = fn
		}
	}
	v.Layouts = layouts
	return v
}

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}
