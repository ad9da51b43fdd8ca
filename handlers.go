package folio

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/portfolio"
	"github.com/eringen/folio/seo"
	"github.com/eringen/folio/views"
)

func (a *App) homeMeta() seo.Meta {
	site := a.Config.SEO()
	meta := seo.Page(site, a.Config.Title, a.Config.Description, "/", "")
	meta.JSONLD = seo.WebsiteJSONLD(site)
	return meta
}

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Cache.Published()
	if err != nil {
		return err
	}
	q, ok := a.Quotes.Cached()
	return Render(c, a.Views.Home(a.homeMeta(), posts, q, ok))
}

func (a *App) blogMeta() seo.Meta {
	return seo.Page(a.Config.SEO(), "Blog - "+a.Config.Author, a.Config.Description, "/blog/", "")
}

func (a *App) handleBlog(c echo.Context) error {
	posts, err := a.Cache.Published()
	if err != nil {
		return err
	}
	tags := content.Tags(posts)
	active := content.Slugify(c.QueryParam("tag"))
	if active != "" {
		posts = content.FilterByTag(posts, active)
	}
	return Render(c, a.Views.Blog(a.blogMeta(), posts, active, tags))
}

func (a *App) handleTags(c echo.Context) error {
	posts, err := a.Cache.Published()
	if err != nil {
		return err
	}
	meta := seo.Page(a.Config.SEO(), "Tags - "+a.Config.Author, "Things I blog about", "/tags/", "")
	return Render(c, a.Views.Tags(meta, content.Tags(posts)))
}

func (a *App) handleTag(c echo.Context) error {
	posts, err := a.Cache.Published()
	if err != nil {
		return err
	}
	tag := content.Slugify(c.Param("tag"))
	filtered := content.FilterByTag(posts, tag)
	if len(filtered) == 0 {
		return content.ErrNotFound
	}
	meta := seo.Tag(a.Config.SEO(), tag, views.TagURL(tag))
	return Render(c, a.Views.Blog(meta, filtered, tag, content.Tags(posts)))
}

func (a *App) handlePost(c echo.Context) error {
	raw := strings.Trim(c.Param("*"), "/")
	if raw == "" {
		return c.Redirect(http.StatusMovedPermanently, "/blog/")
	}
	index, err := a.Cache.Index()
	if err != nil {
		return err
	}
	slug := content.ResolveSlug(strings.Split(raw, "/"))
	meta, page, err := a.assemblePage(c.Request().Context(), index, slug)
	if err != nil {
		return err
	}
	cmp, known := PostView(a.Views, meta, page)
	if !known {
		c.Logger().Warnf("post %s: unknown layout %q, using %s", slug, page.Post.FrontMatter.Layout, content.DefaultLayout)
	}
	return Render(c, cmp)
}

func (a *App) handleProjects(c echo.Context) error {
	meta := seo.Page(a.Config.SEO(), "Projects - "+a.Config.Author, "Things I have built", "/projects/", "")
	return Render(c, a.Views.Projects(meta, a.Projects))
}

func (a *App) handleProject(c echo.Context) error {
	p, err := a.Projects.Find(c.Param("slug"))
	if err != nil {
		return err
	}
	meta := seo.Page(a.Config.SEO(), p.Title, p.ShortDescription, "/projects/"+p.Slug+"/", p.Banner)
	return Render(c, a.Views.Project(meta, p))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.Index()
	if err != nil {
		return err
	}
	data, err := GenerateSitemap(a.Config, posts, a.Projects)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", data)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.Index()
	if err != nil {
		return err
	}
	data, err := GenerateFeed(a.Config, posts)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", data)
}

func (a *App) handleTagFeed(c echo.Context) error {
	posts, err := a.Cache.Published()
	if err != nil {
		return err
	}
	tag := content.Slugify(c.Param("tag"))
	filtered := content.FilterByTag(posts, tag)
	if len(filtered) == 0 {
		return content.ErrNotFound
	}
	data, err := generateFeed(a.Config, filtered, views.TagURL(tag)+"feed.xml")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", data)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/blog/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(filepath.Join(a.Config.PublicDir, "favicon.svg"))
}

// handleRobots serves <public>/robots.txt when present and a generated
// allow-all file otherwise.
func (a *App) handleRobots(c echo.Context) error {
	path := filepath.Join(a.Config.PublicDir, "robots.txt")
	if _, err := os.Stat(path); err == nil {
		return c.File(path)
	}
	return c.String(http.StatusOK, robotsTxt(a.Config))
}

func isNotFound(err error) bool {
	var pe *PageError
	if errors.As(err, &pe) {
		return false
	}
	return errors.Is(err, content.ErrNotFound) || errors.Is(err, portfolio.ErrProjectNotFound)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	isHTTP := errors.As(err, &he)
	if isNotFound(err) || (isHTTP && he.Code == http.StatusNotFound) {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if isHTTP {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
