package folio

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/eringen/folio/content"
)

func TestBuild(t *testing.T) {
	fs := seedSite(t)
	writeFile(t, fs, "public/styles.css", "body{}")
	writeFile(t, fs, "public/favicon.svg", "<svg/>")

	cfg := testConfig()
	cfg.PublicDir = "public"
	cfg.AdminPassword = ""
	a := New(cfg, ViewFuncs{}, WithFs(fs), WithQuotes(quoteServer(t, 200, `[{"en":"Ship it.","author":"Anon"}]`)))

	if err := a.Build(context.Background(), "site"); err != nil {
		t.Fatalf("Build: %v", err)
	}

	files := map[string]string{
		"site/index.html":                 "data-quote-src",
		"site/blog/index.html":            "Third",
		"site/blog/first/index.html":      "Body of First.",
		"site/blog/2024/third/index.html": "Body of Third.",
		"site/blog/wip/index.html":        "Under Construction",
		"site/tags/index.html":            "web-dev",
		"site/tags/go/index.html":         "First",
		"site/tags/go/feed.xml":           "https://example.com/blog/first/",
		"site/projects/index.html":        "Folio",
		"site/projects/folio/index.html":  "A blog engine",
		"site/404.html":                   "404",
		"site/feed.xml":                   "https://example.com/blog/2024/third/",
		"site/sitemap.xml":                "https://example.com/projects/folio/",
		"site/robots.txt":                 "Sitemap: https://example.com/sitemap.xml",
		"site/public/styles.css":          "body{}",
		"site/public/views.js":            "/api/views",
		"site/public/collect.js":          "/api/analytics/collect",
		"site/public/quote.js":            "data-quote-src",
		"site/favicon.svg":                "<svg/>",
	}
	for path, want := range files {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			t.Errorf("%s: %v", path, err)
			continue
		}
		if !strings.Contains(string(data), want) {
			t.Errorf("%s does not contain %q", path, want)
		}
	}

	feed, _ := afero.ReadFile(fs, "site/feed.xml")
	if strings.Contains(string(feed), "Work in progress") {
		t.Error("feed contains a draft")
	}
	sitemap, _ := afero.ReadFile(fs, "site/sitemap.xml")
	if strings.Contains(string(sitemap), "/blog/wip/") {
		t.Error("sitemap contains a draft")
	}
}

func TestBuildIsRepeatable(t *testing.T) {
	fs := seedSite(t)
	a := New(testConfig(), ViewFuncs{}, WithFs(fs), WithQuotes(quoteServer(t, 500, "")))
	ctx := context.Background()

	if err := a.Build(ctx, "out"); err != nil {
		t.Fatal(err)
	}
	first, err := afero.ReadFile(fs, "out/feed.xml")
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Build(ctx, "out"); err != nil {
		t.Fatal(err)
	}
	second, err := afero.ReadFile(fs, "out/feed.xml")
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("feed changed between identical builds")
	}
}

func TestBuildCanceled(t *testing.T) {
	a := New(testConfig(), ViewFuncs{}, WithFs(seedSite(t)), WithQuotes(quoteServer(t, 500, "")))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Build(ctx, "out"); err == nil {
		t.Error("expected error from canceled build")
	}
}

func TestBuildMissingAuthorFails(t *testing.T) {
	fs := seedSite(t)
	writeFile(t, fs, "content/blog/guest.md", post("Guest", "2024-05-01", "tags: [go]", "authors: [ghost]"))
	a := New(testConfig(), ViewFuncs{}, WithFs(fs), WithQuotes(quoteServer(t, 500, "")))
	err := a.Build(context.Background(), "out")
	var pe *PageError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *PageError", err)
	}
	if !errors.Is(err, content.ErrNotFound) {
		t.Errorf("err = %v, want it to wrap content.ErrNotFound", err)
	}
}
