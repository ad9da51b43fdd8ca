package folio

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/portfolio"
	"github.com/eringen/folio/seo"
	"github.com/eringen/folio/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// GenerateSitemap lists the static pages, every published post, every tag
// and every project.
func GenerateSitemap(cfg SiteConfig, posts []content.FrontMatter, projects portfolio.Projects) ([]byte, error) {
	published := content.Published(posts)
	loc := func(path string) string { return seo.AbsURL(cfg.URL, path) }

	urls := []sitemapURL{
		{Loc: loc("/")},
		{Loc: loc("/blog/")},
		{Loc: loc("/tags/")},
		{Loc: loc("/projects/")},
	}
	for _, p := range published {
		mod := p.Date
		if p.HasLastMod() {
			mod = p.LastMod
		}
		urls = append(urls, sitemapURL{
			Loc:     loc(views.PostURL(p.Slug)),
			LastMod: mod.Format("2006-01-02"),
		})
	}
	for _, t := range content.Tags(published) {
		urls = append(urls, sitemapURL{Loc: loc(views.TagURL(t.Name))})
	}
	for _, p := range projects {
		urls = append(urls, sitemapURL{Loc: loc("/projects/" + p.Slug + "/")})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}); err != nil {
		return nil, fmt.Errorf("folio: encode sitemap: %w", err)
	}
	return buf.Bytes(), nil
}

// robotsTxt allows everything and points crawlers at the sitemap.
func robotsTxt(cfg SiteConfig) string {
	return "User-agent: *\nAllow: /\n\nSitemap: " + cfg.URL + "/sitemap.xml\n"
}
