// Package analytics covers everything the site knows about its readers:
// third-party provider scripts, page-view reporters for the view counter,
// and a privacy-first local collector backed by SQLite.
package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Logger is the subset of echo.Logger used outside of a request.
type Logger interface {
	Errorf(format string, args ...interface{})
}

const saltKey = "hash_salt"

// LoadSalt returns the installation's IP hashing salt, generating and
// persisting one on first use.
func LoadSalt(ctx context.Context, store *Store) (string, error) {
	s, err := store.GetSetting(ctx, saltKey)
	if err != nil {
		return "", fmt.Errorf("analytics: read hash salt: %w", err)
	}
	if s != "" {
		return s, nil
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("analytics: generate salt: %w", err)
	}
	s = hex.EncodeToString(b)
	if err := store.SetSetting(ctx, saltKey, s); err != nil {
		return "", fmt.Errorf("analytics: store hash salt: %w", err)
	}
	return s, nil
}

// Visit is a single human page view.
type Visit struct {
	ID          int64     `json:"-"`
	VisitorID   string    `json:"visitor_id"`
	SessionID   string    `json:"session_id"`
	IPHash      string    `json:"-"`
	Browser     string    `json:"browser"`
	OS          string    `json:"os"`
	Device      string    `json:"device"`
	Path        string    `json:"path"`
	Title       string    `json:"title"` // document title, matched by the view counter
	Referrer    string    `json:"referrer"`
	ScreenSize  string    `json:"screen_size"`
	Timestamp   time.Time `json:"timestamp"`
	DurationSec int       `json:"duration_sec"`
}

// BotVisit is a single crawler page view.
type BotVisit struct {
	ID        int64     `json:"-"`
	BotName   string    `json:"bot_name"`
	IPHash    string    `json:"-"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats is the aggregate shown on the admin dashboard.
type Stats struct {
	Period         string          `json:"period"`
	UniqueVisitors int             `json:"unique_visitors"`
	TotalViews     int             `json:"total_views"`
	AvgDuration    int             `json:"avg_duration_sec"`
	BotVisits      int             `json:"bot_visits"`
	TopPages       []PageStat      `json:"top_pages"`
	BrowserStats   []DimensionStat `json:"browsers"`
	OSStats        []DimensionStat `json:"os"`
	DeviceStats    []DimensionStat `json:"devices"`
	ReferrerStats  []DimensionStat `json:"referrers"`
	TopBots        []DimensionStat `json:"top_bots"`
	DailyViews     []DailyView     `json:"daily_views"`
}

// PageStat is the view count of one path.
type PageStat struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	Views int    `json:"views"`
}

// DimensionStat is one row of a breakdown (browser, OS, ...).
type DimensionStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DailyView is the number of views on one day.
type DailyView struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
}

// HashIP returns a salted, truncated SHA-256 of ip.
func HashIP(salt, ip string) string {
	h := sha256.Sum256([]byte(salt + ip))
	return hex.EncodeToString(h[:])[:16]
}

// VisitorID derives an anonymous visitor id from ip and user agent.
func VisitorID(salt, ip, userAgent string) string {
	h := sha256.Sum256([]byte(salt + ip + "|" + userAgent))
	return hex.EncodeToString(h[:])[:16]
}

// SessionID scopes a visitor id to a UTC day.
func SessionID(visitorID string, now time.Time) string {
	h := sha256.Sum256([]byte(visitorID + "|" + now.UTC().Format("2006-01-02")))
	return hex.EncodeToString(h[:])[:16]
}

// ParseUserAgent extracts browser, OS and device class from a User-Agent.
func ParseUserAgent(ua string) (browser, os, device string) {
	ua = strings.ToLower(ua)

	// Specific tokens first: Edge and Opera UAs also contain "chrome".
	switch {
	case strings.Contains(ua, "firefox"):
		browser = "Firefox"
	case strings.Contains(ua, "opera") || strings.Contains(ua, "opr/"):
		browser = "Opera"
	case strings.Contains(ua, "edg"):
		browser = "Edge"
	case strings.Contains(ua, "chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "safari"):
		browser = "Safari"
	default:
		browser = "Other"
	}

	// Android UAs contain "linux".
	switch {
	case strings.Contains(ua, "windows"):
		os = "Windows"
	case strings.Contains(ua, "android"):
		os = "Android"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad"):
		os = "iOS"
	case strings.Contains(ua, "macintosh") || strings.Contains(ua, "mac os"):
		os = "macOS"
	case strings.Contains(ua, "linux"):
		os = "Linux"
	default:
		os = "Other"
	}

	switch {
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		device = "Tablet"
	case strings.Contains(ua, "mobile"):
		device = "Mobile"
	default:
		device = "Desktop"
	}
	return browser, os, device
}

// botPatterns is ordered: named crawlers before the generic fallbacks.
var botPatterns = []struct {
	token string
	name  string
}{
	{"googlebot", "Googlebot"},
	{"bingbot", "Bingbot"},
	{"yandex", "Yandex"},
	{"baidu", "Baidu"},
	{"duckduckbot", "DuckDuckBot"},
	{"facebookexternalhit", "Facebook"},
	{"twitterbot", "Twitterbot"},
	{"linkedinbot", "LinkedIn"},
	{"ahrefsbot", "Ahrefs"},
	{"semrushbot", "SEMrush"},
	{"mj12bot", "Majestic"},
	{"dotbot", "Moz"},
	{"slurp", "Yahoo Slurp"},
	{"crawler", "Generic Crawler"},
	{"crawl", "Generic Crawler"},
	{"spider", "Generic Spider"},
	{"scrape", "Scraper"},
	{"bot", "Other Bot"},
}

// IsBot reports whether ua looks like a crawler.
func IsBot(ua string) bool {
	return BotName(ua) != ""
}

// BotName returns the crawler name for ua, or "" for non-bots.
func BotName(ua string) string {
	ua = strings.ToLower(ua)
	for _, p := range botPatterns {
		if strings.Contains(ua, p.token) {
			return p.name
		}
	}
	return ""
}

var referrerDomain = regexp.MustCompile(`^https?://(?:www\.)?([^/]+)`)

// CleanReferrer reduces a referrer URL to a source name.
func CleanReferrer(ref string) string {
	if ref == "" {
		return "Direct"
	}
	lower := strings.ToLower(ref)
	for _, se := range []struct{ token, name string }{
		{"google.", "Google"},
		{"bing.", "Bing"},
		{"duckduckgo.", "DuckDuckGo"},
		{"yahoo.", "Yahoo"},
		{"github.", "GitHub"},
	} {
		if strings.Contains(lower, se.token) {
			return se.name
		}
	}
	if m := referrerDomain.FindStringSubmatch(ref); len(m) > 1 {
		return m[1]
	}
	return "Other"
}
