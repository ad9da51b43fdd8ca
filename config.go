package folio

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/eringen/folio/analytics"
	"github.com/eringen/folio/quote"
	"github.com/eringen/folio/seo"
)

// DefaultViewsStart is the first day counted by the view counter.
const DefaultViewsStart = "2020-08-13"

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Title        string `mapstructure:"title"`
	URL          string `mapstructure:"url"`
	Description  string `mapstructure:"description"`
	Author       string `mapstructure:"author"`
	Email        string `mapstructure:"email"`
	Language     string `mapstructure:"language"`
	SocialBanner string `mapstructure:"social_banner"`
	SiteLogo     string `mapstructure:"site_logo"`
	Twitter      string `mapstructure:"twitter"` // @handle for twitter:site
	MemeURL      string `mapstructure:"meme_url"`
	QuoteURL     string `mapstructure:"quote_url"`

	ContentDir string `mapstructure:"content_dir"` // default "content"
	DataDir    string `mapstructure:"data_dir"`    // default "data"
	PublicDir  string `mapstructure:"public_dir"`  // default "public"
	OutputDir  string `mapstructure:"output_dir"`  // static build target, default "out"

	Addr       string `mapstructure:"addr"` // default ":3000"
	Production bool   `mapstructure:"production"`

	AdminPassword string `mapstructure:"admin_password"`
	SessionSecret string `mapstructure:"session_secret"`
	CookieSecure  bool   `mapstructure:"cookie_secure"`

	// ViewsStart (YYYY-MM-DD) begins the date range of the view counter.
	ViewsStart    string        `mapstructure:"views_start"`
	IndexCacheTTL time.Duration `mapstructure:"index_cache_ttl"`

	Analytics analytics.Config `mapstructure:"analytics"`
}

func (c *SiteConfig) setDefaults() {
	if c.Title == "" {
		c.Title = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Language == "" {
		c.Language = "en-us"
	}
	if c.SocialBanner == "" {
		c.SocialBanner = "/static/images/twitter-card.png"
	}
	if c.SiteLogo == "" {
		c.SiteLogo = "/static/images/logo.png"
	}
	if c.QuoteURL == "" {
		c.QuoteURL = quote.DefaultURL
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.OutputDir == "" {
		c.OutputDir = "out"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ViewsStart == "" {
		c.ViewsStart = DefaultViewsStart
	}
	if c.IndexCacheTTL == 0 {
		c.IndexCacheTTL = 5 * time.Minute
	}
	c.Analytics.Production = c.Production
	c.Analytics.SetDefaults()
}

// SEO returns the site-wide metadata used by the seo package.
func (c SiteConfig) SEO() seo.Site {
	return seo.Site{
		Title:        c.Title,
		URL:          c.URL,
		Description:  c.Description,
		Author:       c.Author,
		Language:     c.Language,
		SocialBanner: c.SocialBanner,
		SiteLogo:     c.SiteLogo,
		Twitter:      c.Twitter,
	}
}

func (c SiteConfig) viewsStart() time.Time {
	t, err := time.Parse("2006-01-02", c.ViewsStart)
	if err != nil {
		t, _ = time.Parse("2006-01-02", DefaultViewsStart)
	}
	return t
}

// LoadConfig reads cfgFile (or ./config.yaml when empty) and FOLIO_*
// environment variables. A missing default config file is not an error.
func LoadConfig(cfgFile string) (SiteConfig, error) {
	v := viper.New()

	v.SetDefault("title", "Blog")
	v.SetDefault("url", "http://localhost:3000")
	v.SetDefault("description", "")
	v.SetDefault("author", "")
	v.SetDefault("email", "")
	v.SetDefault("language", "en-us")
	v.SetDefault("social_banner", "")
	v.SetDefault("site_logo", "")
	v.SetDefault("twitter", "")
	v.SetDefault("meme_url", "https://randommeme-five.vercel.app/")
	v.SetDefault("quote_url", quote.DefaultURL)
	v.SetDefault("content_dir", "content")
	v.SetDefault("data_dir", "data")
	v.SetDefault("public_dir", "public")
	v.SetDefault("output_dir", "out")
	v.SetDefault("addr", ":3000")
	v.SetDefault("production", false)
	v.SetDefault("admin_password", "")
	v.SetDefault("session_secret", "")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("views_start", DefaultViewsStart)
	v.SetDefault("index_cache_ttl", "5m")
	v.SetDefault("analytics.plausible_data_domain", "")
	v.SetDefault("analytics.simple_analytics", false)
	v.SetDefault("analytics.umami_website_id", "")
	v.SetDefault("analytics.umami_script_url", "")
	v.SetDefault("analytics.google_analytics_id", "")
	v.SetDefault("analytics.rybbit_site_id", "")
	v.SetDefault("analytics.google_property_id", "")
	v.SetDefault("analytics.google_credentials", "")
	v.SetDefault("analytics.local", true)
	v.SetDefault("analytics.database_path", "data/analytics.db")
	v.SetDefault("analytics.retention_days", 365)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return SiteConfig{}, fmt.Errorf("folio: read config: %w", err)
		}
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("folio: decode config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithFs replaces the filesystem content, data and output are read from
// and written to (default: the OS filesystem).
func WithFs(fs afero.Fs) Option {
	return func(a *App) {
		a.Fs = fs
	}
}

// WithReporter overrides the view-count reporter chosen from the
// analytics configuration.
func WithReporter(r analytics.Reporter) Option {
	return func(a *App) {
		a.Reporter = r
	}
}

// WithQuotes overrides the quote client.
func WithQuotes(q *quote.Client) Option {
	return func(a *App) {
		a.Quotes = q
	}
}
