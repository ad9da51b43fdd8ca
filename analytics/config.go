package analytics

// Config selects and configures analytics integrations. It is injected
// through the site configuration; nothing reads it from globals.
type Config struct {
	PlausibleDataDomain string `mapstructure:"plausible_data_domain"`
	SimpleAnalytics     bool   `mapstructure:"simple_analytics"`
	UmamiWebsiteID      string `mapstructure:"umami_website_id"`
	UmamiScriptURL      string `mapstructure:"umami_script_url"`
	GoogleAnalyticsID   string `mapstructure:"google_analytics_id"`
	RybbitSiteID        string `mapstructure:"rybbit_site_id"`

	// GooglePropertyID and GoogleCredentials (base64 service-account JSON)
	// enable the Google Analytics Data API view-count reporter.
	GooglePropertyID  string `mapstructure:"google_property_id"`
	GoogleCredentials string `mapstructure:"google_credentials"`

	// Local enables the built-in SQLite collector.
	Local         bool   `mapstructure:"local"`
	DatabasePath  string `mapstructure:"database_path"`
	RetentionDays int    `mapstructure:"retention_days"`

	// Production gates providers that only load on the live site.
	Production bool `mapstructure:"-"`
}

// SetDefaults fills unset values.
func (c *Config) SetDefaults() {
	if c.UmamiScriptURL == "" {
		c.UmamiScriptURL = "https://cloud.umami.is/script.js"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/analytics.db"
	}
	if c.RetentionDays == 0 {
		c.RetentionDays = 365
	}
}
