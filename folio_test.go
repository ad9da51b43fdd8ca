package folio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/eringen/folio/analytics"
	"github.com/eringen/folio/portfolio"
	"github.com/eringen/folio/quote"
)

func writeFile(t *testing.T, fs afero.Fs, name, body string) {
	t.Helper()
	if err := afero.WriteFile(fs, name, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func post(title, date string, extra ...string) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: " + title + "\n")
	b.WriteString("date: " + date + "\n")
	for _, e := range extra {
		b.WriteString(e + "\n")
	}
	b.WriteString("---\n\n## Intro\n\nBody of " + title + ".\n")
	return b.String()
}

// seedSite writes three published posts, one draft, an author and the
// portfolio data files.
func seedSite(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "content/blog/first.md", post("First", "2024-01-01", "tags: [go]", "summary: The first one"))
	writeFile(t, fs, "content/blog/second.md", post("Second", "2024-02-01", "tags: [go, web-dev]", "layout: PostSimple"))
	writeFile(t, fs, "content/blog/2024/third.mdx", post("Third", "2024-03-01", "tags: [web-dev]", "layout: NoSuchLayout"))
	writeFile(t, fs, "content/blog/wip.md", post("Work in progress", "2024-04-01", "tags: [go]", "draft: true"))
	writeFile(t, fs, "content/authors/default.md", "---\nname: Jane Doe\ntwitter: https://twitter.com/jane\n---\nWriter.\n")
	writeFile(t, fs, "data/projects.yaml", `- title: Folio
  slug: folio
  description: A blog engine
  shortDescription: Blog engine
  banner: /static/folio.png
  stack: [go, react]
`)
	writeFile(t, fs, "data/contact.yaml", "links:\n  github: https://github.com/jane\n")
	return fs
}

type stubReporter struct {
	views int
	err   error
	title string
}

func (r *stubReporter) PageViews(_ context.Context, title string, _, _ time.Time) (int, error) {
	r.title = title
	return r.views, r.err
}

func quoteServer(t *testing.T, status int, body string) *quote.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return quote.New(srv.URL, time.Second, nil)
}

func testConfig() SiteConfig {
	return SiteConfig{
		Title:         "Jane's Folio",
		URL:           "https://example.com/",
		Description:   "Notes and projects",
		Author:        "Jane Doe",
		Email:         "jane@example.com",
		AdminPassword: "secret",
		SessionSecret: "0123456789abcdef0123456789abcdef",
		PublicDir:     filepath.Join("testdata", "missing-public"),
	}
}

func newTestApp(t *testing.T, fs afero.Fs, opts ...Option) *App {
	t.Helper()
	base := []Option{
		WithFs(fs),
		WithQuotes(quoteServer(t, http.StatusOK, `[{"en":"Talk is cheap.","author":"Linus"}]`)),
	}
	a := New(testConfig(), ViewFuncs{}, append(base, opts...)...)
	if err := a.Setup(context.Background()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func get(t *testing.T, a *App, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func TestSetupRequiresSecrets(t *testing.T) {
	cfg := testConfig()
	cfg.AdminPassword = ""
	if err := New(cfg, ViewFuncs{}, WithFs(afero.NewMemMapFs())).Setup(context.Background()); err == nil {
		t.Fatal("expected error without admin password")
	}
	cfg = testConfig()
	cfg.SessionSecret = ""
	if err := New(cfg, ViewFuncs{}, WithFs(afero.NewMemMapFs())).Setup(context.Background()); err == nil {
		t.Fatal("expected error without session secret")
	}
}

// waitForQuote blocks until the client's background refresh has a quote.
func waitForQuote(t *testing.T, c *quote.Client) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := c.Cached(); ok {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("quote cache never filled")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHomePage(t *testing.T) {
	a := newTestApp(t, seedSite(t))
	waitForQuote(t, a.Quotes)
	rec := get(t, a, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Talk is cheap.", "Third", "Second", "First", `"@type":"WebSite"`} {
		if !strings.Contains(body, want) {
			t.Errorf("home missing %q", want)
		}
	}
	if strings.Contains(body, "Work in progress") {
		t.Error("home lists a draft")
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("missing request id header")
	}
}

func TestHomeWithoutQuote(t *testing.T) {
	a := newTestApp(t, seedSite(t), WithQuotes(quoteServer(t, http.StatusBadGateway, "")))
	rec := get(t, a, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, quote failure must not fail the page", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, `class="author"`) {
		t.Error("quote rendered despite fetch failure")
	}
	if !strings.Contains(body, `data-quote-src="https://`) || !strings.Contains(body, `src="/public/quote.js"`) {
		t.Errorf("missing client-side quote placeholder:\n%s", body)
	}
}

func TestHomeDoesNotWaitForQuotes(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		fmt.Fprint(w, `[{"en":"Late.","author":"Slow"}]`)
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	a := newTestApp(t, seedSite(t), WithQuotes(quote.New(srv.URL, 10*time.Second, nil)))
	start := time.Now()
	rec := get(t, a, "/")
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("home took %s while the quote source was stalled", elapsed)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "data-quote-src") {
		t.Error("missing client-side quote placeholder")
	}
}

func TestQuoteScript(t *testing.T) {
	a := newTestApp(t, seedSite(t))
	rec := get(t, a, "/public/quote.js")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "data-quote-src") {
		t.Errorf("status = %d body = %q", rec.Code, rec.Body.String())
	}
}

func TestBlogListingAndTagFilter(t *testing.T) {
	a := newTestApp(t, seedSite(t))

	body := get(t, a, "/blog/").Body.String()
	if !strings.Contains(body, `href="/blog/2024/third/"`) || strings.Contains(body, "Work in progress") {
		t.Errorf("unexpected listing:\n%s", body)
	}

	rec := get(t, a, "/blog/?tag=web-dev")
	body = rec.Body.String()
	if !strings.Contains(body, "Third") || strings.Contains(body, ">First<") {
		t.Errorf("tag filter failed:\n%s", body)
	}

	rec = get(t, a, "/tags/web-dev/")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Web Dev") {
		t.Errorf("tag page status = %d", rec.Code)
	}
	if rec := get(t, a, "/tags/nope/"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown tag status = %d, want 404", rec.Code)
	}
	rec = get(t, a, "/tags/go/feed.xml")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "https://example.com/tags/go/feed.xml") {
		t.Errorf("tag feed status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestPostPages(t *testing.T) {
	a := newTestApp(t, seedSite(t))

	tests := []struct {
		name   string
		path   string
		status int
		want   []string
		absent []string
	}{
		{
			name:   "simple layout with neighbors",
			path:   "/blog/second/",
			status: http.StatusOK,
			want:   []string{"post-simple", "Previous Article", `href="/blog/first/"`, "Next Article", `href="/blog/2024/third/"`, `data-views-title="Second"`},
		},
		{
			name:   "unknown layout falls back",
			path:   "/blog/2024/third/",
			status: http.StatusOK,
			want:   []string{"post-layout", `<a href="#intro">Intro</a>`, "Jane Doe", `"@type": "Article"`},
			absent: []string{"Next Article"},
		},
		{
			name:   "draft",
			path:   "/blog/wip/",
			status: http.StatusOK,
			want:   []string{"Under Construction", `content="noindex, nofollow"`},
			absent: []string{"Body of Work in progress"},
		},
		{
			name:   "missing",
			path:   "/blog/nope/",
			status: http.StatusNotFound,
			want:   []string{"404"},
		},
		{
			name:   "traversal",
			path:   "/blog/../../etc/passwd/",
			status: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, a, tt.path)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			body := rec.Body.String()
			for _, w := range tt.want {
				if !strings.Contains(body, w) {
					t.Errorf("body missing %q", w)
				}
			}
			for _, w := range tt.absent {
				if strings.Contains(body, w) {
					t.Errorf("body unexpectedly contains %q", w)
				}
			}
		})
	}
}

func TestPostMissingAuthorIsServerError(t *testing.T) {
	fs := seedSite(t)
	writeFile(t, fs, "content/blog/guest.md", post("Guest", "2024-05-01", "tags: [go]", "authors: [ghost]"))
	a := newTestApp(t, fs)

	rec := get(t, a, "/blog/guest/")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<h1>500</h1>") {
		t.Errorf("body is not the error page:\n%s", rec.Body.String())
	}
}

func TestTrailingSlashRedirect(t *testing.T) {
	a := newTestApp(t, seedSite(t))
	rec := get(t, a, "/blog/first")
	if rec.Code != http.StatusMovedPermanently || rec.Header().Get("Location") != "/blog/first/" {
		t.Errorf("status = %d location = %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestProjects(t *testing.T) {
	a := newTestApp(t, seedSite(t))
	rec := get(t, a, "/projects/")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `href="/projects/folio/"`) {
		t.Errorf("projects status = %d", rec.Code)
	}
	rec = get(t, a, "/projects/folio/")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "A blog engine") {
		t.Errorf("project status = %d", rec.Code)
	}
	if rec := get(t, a, "/projects/nope/"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown project status = %d, want 404", rec.Code)
	}
}

func TestFeedSitemapRobots(t *testing.T) {
	a := newTestApp(t, seedSite(t))

	rec := get(t, a, "/feed.xml")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/rss+xml") {
		t.Fatalf("feed status = %d type = %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if strings.Contains(rec.Body.String(), "Work in progress") {
		t.Error("feed contains a draft")
	}

	body := get(t, a, "/sitemap.xml").Body.String()
	for _, want := range []string{"https://example.com/blog/2024/third/", "https://example.com/projects/folio/", "https://example.com/tags/web-dev/"} {
		if !strings.Contains(body, want) {
			t.Errorf("sitemap missing %s", want)
		}
	}
	if strings.Contains(body, "/blog/wip/") {
		t.Error("sitemap contains a draft")
	}

	body = get(t, a, "/robots.txt").Body.String()
	if !strings.Contains(body, "Sitemap: https://example.com/sitemap.xml") {
		t.Errorf("robots = %q", body)
	}
}

func TestEmbeddedScripts(t *testing.T) {
	a := newTestApp(t, seedSite(t))
	for _, path := range []string{"/public/views.js", "/public/collect.js"} {
		rec := get(t, a, path)
		if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Content-Type"), "javascript") {
			t.Errorf("%s status = %d type = %q", path, rec.Code, rec.Header().Get("Content-Type"))
		}
	}
}

func TestViewsAPI(t *testing.T) {
	tests := []struct {
		name     string
		reporter *stubReporter
		query    string
		want     int
	}{
		{"count", &stubReporter{views: 42}, "?pageTitle=" + url.QueryEscape("Hello World"), 42},
		{"reporter failure", &stubReporter{err: errors.New("quota exceeded")}, "?pageTitle=Hello", 0},
		{"missing title", &stubReporter{views: 7}, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, seedSite(t), WithReporter(tt.reporter))
			rec := get(t, a, "/api/views"+tt.query)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var resp analytics.ViewsResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Views != tt.want {
				t.Errorf("views = %d, want %d", resp.Views, tt.want)
			}
		})
	}
}

func TestViewsAPIWithViewClient(t *testing.T) {
	a := newTestApp(t, seedSite(t), WithReporter(&stubReporter{views: 1234}))
	srv := httptest.NewServer(a.Echo)
	defer srv.Close()

	vc := &analytics.ViewClient{BaseURL: srv.URL}
	if got := vc.Fetch(context.Background(), "Second"); got != 1234 {
		t.Errorf("Fetch = %d, want 1234", got)
	}
}

var csrfInput = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

func TestAdminLoginFlow(t *testing.T) {
	cfg := testConfig()
	cfg.Analytics.Local = true
	cfg.Analytics.DatabasePath = filepath.Join(t.TempDir(), "analytics.db")
	a := New(cfg, ViewFuncs{}, WithFs(seedSite(t)), WithQuotes(quoteServer(t, http.StatusOK, "[]")))
	if err := a.Setup(context.Background()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer a.Close()

	rec := get(t, a, "/admin/")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Log in") {
		t.Fatalf("login page status = %d", rec.Code)
	}
	m := csrfInput.FindStringSubmatch(rec.Body.String())
	if m == nil {
		t.Fatal("no csrf token in login form")
	}
	cookies := rec.Result().Cookies()

	login := func(password string) *httptest.ResponseRecorder {
		form := url.Values{"_csrf": {m[1]}, "password": {password}}
		req := httptest.NewRequest(http.MethodPost, "/admin/login/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		a.Echo.ServeHTTP(rec, req)
		return rec
	}

	if rec := login("wrong"); rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "Invalid credentials.") {
		t.Errorf("bad password status = %d", rec.Code)
	}

	rec = login("secret")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, want 303", rec.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	for _, c := range append(cookies, rec.Result().Cookies()...) {
		req.AddCookie(c)
	}
	dash := httptest.NewRecorder()
	a.Echo.ServeHTTP(dash, req)
	body := dash.Body.String()
	if !strings.Contains(body, "Dashboard") || !strings.Contains(body, "Work in progress") || !strings.Contains(body, "Unique visitors") {
		t.Errorf("dashboard missing drafts or stats:\n%s", body)
	}
}

func TestAdminStatsRequiresLogin(t *testing.T) {
	cfg := testConfig()
	cfg.Analytics.Local = true
	cfg.Analytics.DatabasePath = filepath.Join(t.TempDir(), "analytics.db")
	a := New(cfg, ViewFuncs{}, WithFs(seedSite(t)), WithQuotes(quoteServer(t, http.StatusOK, "[]")))
	if err := a.Setup(context.Background()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer a.Close()

	rec := get(t, a, "/admin/analytics/api/stats")
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
}

func TestCustomViewsOverrideDefaults(t *testing.T) {
	custom := ViewFuncs{NotFound: DefaultViews(testConfig(), portfolio.Contact{}).ServerError}
	a := New(testConfig(), custom, WithFs(seedSite(t)), WithQuotes(quoteServer(t, http.StatusOK, "[]")))
	if err := a.Setup(context.Background()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer a.Close()

	rec := get(t, a, "/blog/nope/")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "<h1>500</h1>") {
		t.Errorf("custom NotFound not used: %d", rec.Code)
	}
	if a.Views.Home == nil || len(a.Views.Layouts) != 3 {
		t.Errorf("defaults not filled: layouts = %d", len(a.Views.Layouts))
	}
}
