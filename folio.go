// Package folio is a personal blog and portfolio engine built with Go, Echo,
// and templ. Content lives as markdown files with front matter; the site is
// either served live or generated into a static output directory.
//
// Sites may replace any page component through ViewFuncs; nil entries fall
// back to the default theme in package views.
package folio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"

	"github.com/eringen/folio/analytics"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/portfolio"
	"github.com/eringen/folio/quote"
)

// BlogCategory is the content directory holding posts.
const BlogCategory = "blog"

// App is the central folio application. It wires together the content
// loader, index cache, portfolio data, analytics and user-provided views.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Fs       afero.Fs
	Views    ViewFuncs
	Loader   *content.Loader
	Cache    *IndexCache
	Projects portfolio.Projects
	Contact  portfolio.Contact
	Reporter analytics.Reporter
	Quotes   *quote.Client

	loginLimiter   *LoginLimiter
	analyticsStore *analytics.Store
	analyticsSalt  string
	stopCleanup    func()
	customRoutes   []func(*App)
	prepared       bool
}

// New creates a folio App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Fs:     afero.NewOsFs(),
		Views:  views,
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	a.Loader = content.NewLoader(a.Fs, cfg.ContentDir, markdown.NewCompiler(markdown.DefaultStyle))
	a.Cache = NewIndexCache(a.Fs, cfg.ContentDir, BlogCategory, cfg.IndexCacheTTL)
	if a.Quotes == nil {
		a.Quotes = quote.New(cfg.QuoteURL, 3*time.Second, a.Echo.Logger)
	}
	return a
}

// prepare loads the portfolio data files and completes the view set. It is
// shared by the live server and the static build.
func (a *App) prepare() error {
	if a.prepared {
		return nil
	}
	projects, err := portfolio.LoadProjects(a.Fs, filepath.Join(a.Config.DataDir, "projects.yaml"))
	if err != nil {
		return fmt.Errorf("folio: %w", err)
	}
	contact, err := portfolio.LoadContact(a.Fs, filepath.Join(a.Config.DataDir, "contact.yaml"))
	if err != nil {
		return fmt.Errorf("folio: %w", err)
	}
	a.Projects = projects
	a.Contact = contact
	a.Views = a.Views.withDefaults(DefaultViews(a.Config, contact))
	if a.Reporter == nil {
		a.Reporter = analytics.NopReporter{}
	}
	a.prepared = true
	return nil
}

// Setup initializes analytics, middleware and routes without starting the
// listener. Start calls it; tests use it with Echo.ServeHTTP.
func (a *App) Setup(ctx context.Context) error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("folio: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("folio: SessionSecret is required")
	}

	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	ac := a.Config.Analytics
	if ac.Local {
		if dir := filepath.Dir(ac.DatabasePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("folio: create analytics dir: %w", err)
			}
		}
		store, err := analytics.NewStore(ac.DatabasePath)
		if err != nil {
			return fmt.Errorf("folio: init analytics: %w", err)
		}
		salt, err := analytics.LoadSalt(ctx, store)
		if err != nil {
			store.Close()
			return fmt.Errorf("folio: init analytics salt: %w", err)
		}
		a.analyticsStore = store
		a.analyticsSalt = salt
		a.stopCleanup = store.StartCleanupScheduler(ac.RetentionDays, 24*time.Hour, a.Echo.Logger)
	}

	if a.Reporter == nil {
		switch {
		case ac.GooglePropertyID != "" && ac.GoogleCredentials != "":
			r, err := analytics.NewGoogleReporter(ctx, ac.GooglePropertyID, ac.GoogleCredentials)
			if err != nil {
				return fmt.Errorf("folio: %w", err)
			}
			a.Reporter = r
		case a.analyticsStore != nil:
			a.Reporter = a.analyticsStore
		}
	}

	if err := a.prepare(); err != nil {
		return err
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the app up and serves until the server is shut down.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}
	a.Quotes.Cached()
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/public/views.js", serveEmbedded("views.js"))
	e.GET("/public/collect.js", serveEmbedded("collect.js"))
	e.GET("/public/quote.js", serveEmbedded("quote.js"))
	e.Static("/public", a.Config.PublicDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/*", a.handlePost)
	e.GET("/tags/", a.handleTags)
	e.GET("/tags/:tag/", a.handleTag)
	e.GET("/tags/:tag/feed.xml", a.handleTagFeed)
	e.GET("/projects/", a.handleProjects)
	e.GET("/projects/:slug/", a.handleProject)
	e.GET("/api/views", a.handleViews)

	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)

	if a.analyticsStore != nil {
		analytics.NewHandler(a.analyticsStore, a.analyticsSalt).RegisterRoutes(e, requireAdmin)
	}
}

// Close releases the analytics store and stops background work.
func (a *App) Close() error {
	if a.stopCleanup != nil {
		a.stopCleanup()
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.analyticsStore != nil {
		return a.analyticsStore.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("folio: required environment variable %s is not set", key)
	}
	return v
}
