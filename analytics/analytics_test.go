package analytics

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		ua                      string
		browser, os, deviceType string
	}{
		{
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
			"Chrome", "Windows", "Desktop",
		},
		{
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36 Edg/120.0",
			"Edge", "Windows", "Desktop",
		},
		{
			"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			"Safari", "iOS", "Mobile",
		},
		{
			"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			"Safari", "iOS", "Tablet",
		},
		{
			"Mozilla/5.0 (Linux; Android 14) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Mobile Safari/537.36",
			"Chrome", "Android", "Mobile",
		},
		{
			"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			"Firefox", "Linux", "Desktop",
		},
		{"", "Other", "Other", "Desktop"},
	}
	for _, tt := range tests {
		b, o, d := ParseUserAgent(tt.ua)
		if b != tt.browser || o != tt.os || d != tt.deviceType {
			t.Errorf("ParseUserAgent(%q) = %s/%s/%s, want %s/%s/%s", tt.ua, b, o, d, tt.browser, tt.os, tt.deviceType)
		}
	}
}

func TestBotName(t *testing.T) {
	tests := []struct {
		ua   string
		name string
	}{
		{"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "Googlebot"},
		{"Mozilla/5.0 (compatible; bingbot/2.0)", "Bingbot"},
		{"Mozilla/5.0 (compatible; AhrefsBot/7.0)", "Ahrefs"},
		{"some-spider/1.0", "Generic Spider"},
		{"MyCustomBot/1.0", "Other Bot"},
		{"Mozilla/5.0 (X11; Linux x86_64) Firefox/121.0", ""},
	}
	for _, tt := range tests {
		if got := BotName(tt.ua); got != tt.name {
			t.Errorf("BotName(%q) = %q, want %q", tt.ua, got, tt.name)
		}
		if IsBot(tt.ua) != (tt.name != "") {
			t.Errorf("IsBot(%q) = %v", tt.ua, IsBot(tt.ua))
		}
	}
}

func TestCleanReferrer(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "Direct"},
		{"https://www.google.com/search?q=go", "Google"},
		{"https://github.com/eringen", "GitHub"},
		{"https://www.example.org/post", "example.org"},
		{"not a url", "Other"},
	}
	for _, tt := range tests {
		if got := CleanReferrer(tt.input); got != tt.expected {
			t.Errorf("CleanReferrer(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestHashingIsSaltedAndStable(t *testing.T) {
	a := HashIP("salt-a", "203.0.113.1")
	if a != HashIP("salt-a", "203.0.113.1") {
		t.Error("HashIP is not deterministic")
	}
	if a == HashIP("salt-b", "203.0.113.1") {
		t.Error("HashIP ignores the salt")
	}
	if len(a) != 16 {
		t.Errorf("HashIP length = %d, want 16", len(a))
	}
	if VisitorID("s", "ip", "ua1") == VisitorID("s", "ip", "ua2") {
		t.Error("VisitorID ignores the user agent")
	}

	day := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	if SessionID("v", day) != SessionID("v", day.Add(5*time.Hour)) {
		t.Error("SessionID changed within a day")
	}
	if SessionID("v", day) == SessionID("v", day.AddDate(0, 0, 1)) {
		t.Error("SessionID did not change across days")
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.allow("a") || !rl.allow("a") {
		t.Fatal("expected first two hits to be allowed")
	}
	if rl.allow("a") {
		t.Fatal("expected third hit to be blocked")
	}
	if !rl.allow("b") {
		t.Fatal("expected other key to be allowed independently")
	}
	now = now.Add(61 * time.Second)
	if !rl.allow("a") {
		t.Fatal("expected hit after window to be allowed")
	}
}

func TestPeriodRange(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	from, to := PeriodRange(now, "today")
	if !to.Equal(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("to = %s", to)
	}
	if !from.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("today from = %s", from)
	}
	from, _ = PeriodRange(now, "bogus")
	if !from.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("default from = %s, want a week", from)
	}
}

func TestProviders(t *testing.T) {
	cfg := Config{
		PlausibleDataDomain: "example.com",
		UmamiWebsiteID:      "abc",
		GoogleAnalyticsID:   "G-123",
		RybbitSiteID:        "42",
	}
	names := func(ps []Provider) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Name())
		}
		return out
	}

	dev := names(Enabled(Providers(cfg)))
	if len(dev) != 2 || dev[0] != "google" || dev[1] != "rybbit" {
		t.Errorf("development providers = %v, want [google rybbit]", dev)
	}

	cfg.Production = true
	cfg.Local = true
	prod := names(Enabled(Providers(cfg)))
	want := []string{"plausible", "umami", "google", "rybbit", "local"}
	if len(prod) != len(want) {
		t.Fatalf("production providers = %v, want %v", prod, want)
	}
	for i := range want {
		if prod[i] != want[i] {
			t.Errorf("provider[%d] = %s, want %s", i, prod[i], want[i])
		}
	}
}

func TestMountAllEscapesConfig(t *testing.T) {
	ps := []Provider{
		Plausible{DataDomain: `ex"ample.com`, Production: true},
		Local{On: true},
	}
	var buf bytes.Buffer
	if err := MountAll(ps).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	html := buf.String()
	if !strings.Contains(html, `data-domain="ex&#34;ample.com"`) {
		t.Errorf("plausible domain not escaped:\n%s", html)
	}
	if !strings.Contains(html, `<script defer src="/public/collect.js"></script>`) {
		t.Errorf("local collector not mounted:\n%s", html)
	}
}
