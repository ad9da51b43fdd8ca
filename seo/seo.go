// Package seo builds per-page metadata: OpenGraph and Twitter tags,
// canonical links and schema.org JSON-LD.
package seo

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/eringen/folio/content"
)

// Site is the site-wide metadata every page inherits.
type Site struct {
	Title        string
	URL          string
	Description  string
	Author       string
	Language     string
	SocialBanner string // site-relative
	SiteLogo     string // site-relative
	Twitter      string // @handle
}

// Alternate is a <link rel="alternate"> entry.
type Alternate struct {
	Type  string
	Title string
	Href  string
}

// Meta is everything rendered into a page's <head>.
type Meta struct {
	Title        string
	Description  string
	Robots       string
	Keywords     []string
	URL          string // og:url
	Canonical    string
	OGType       string // "website" or "article"
	SiteName     string
	Images       []string // absolute og:image URLs
	TwitterCard  string
	TwitterSite  string
	TwitterImage string

	PublishedTime string // RFC3339, articles only
	ModifiedTime  string // RFC3339, only when lastmod is set

	Alternates []Alternate
	JSONLD     string
}

func common(site Site, title, description, path, ogType string, images []string) Meta {
	pageURL := AbsURL(site.URL, path)
	return Meta{
		Title:        title,
		Description:  description,
		Robots:       "follow, index",
		URL:          pageURL,
		Canonical:    pageURL,
		OGType:       ogType,
		SiteName:     site.Title,
		Images:       images,
		TwitterCard:  "summary_large_image",
		TwitterSite:  site.Twitter,
		TwitterImage: images[0],
	}
}

// Page builds metadata for a static page. An empty imageURL uses the
// site's social banner.
func Page(site Site, title, description, path, imageURL string) Meta {
	if imageURL == "" {
		imageURL = site.SocialBanner
	}
	return common(site, title, description, path, "website", []string{AbsURL(site.URL, imageURL)})
}

// Tag builds metadata for a tag listing, including its RSS alternate link.
func Tag(site Site, tag, path string) Meta {
	description := site.Title + " " + tag + " tagged content"
	m := common(site, tag+" - "+site.Author, description, path, "website",
		[]string{AbsURL(site.URL, site.SocialBanner)})
	m.Alternates = []Alternate{{
		Type:  "application/rss+xml",
		Title: description + " - RSS feed",
		Href:  strings.TrimRight(m.URL, "/") + "/feed.xml",
	}}
	return m
}

// Blog builds article metadata for a post. url is the post's absolute URL.
func Blog(site Site, fm content.FrontMatter, authors []content.Author, url string) Meta {
	imgs := fm.Images
	if len(imgs) == 0 {
		imgs = []string{site.SocialBanner}
	}
	images := make([]string, 0, len(imgs))
	for _, img := range imgs {
		images = append(images, AbsURL(site.URL, img))
	}

	m := common(site, fm.Title, fm.Summary, "", "article", images)
	m.URL = url
	m.Canonical = url
	if fm.CanonicalURL != "" {
		m.Canonical = fm.CanonicalURL
	}
	m.Keywords = fm.Tags

	published := fm.Date.UTC().Format(time.RFC3339)
	modified := published
	m.PublishedTime = published
	if fm.HasLastMod() {
		modified = fm.LastMod.UTC().Format(time.RFC3339)
		m.ModifiedTime = modified
	}

	m.JSONLD = articleJSONLD(site, fm, authors, url, images, published, modified)
	return m
}

type ldThing struct {
	Type string `json:"@type"`
	ID   string `json:"@id,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

type ldOrganization struct {
	Type string  `json:"@type"`
	Name string  `json:"name"`
	Logo ldThing `json:"logo"`
}

type ldArticle struct {
	Context          string         `json:"@context"`
	Type             string         `json:"@type"`
	MainEntityOfPage ldThing        `json:"mainEntityOfPage"`
	Headline         string         `json:"headline"`
	Image            []ldThing      `json:"image"`
	DatePublished    string         `json:"datePublished"`
	DateModified     string         `json:"dateModified"`
	Author           []ldThing      `json:"author"`
	Publisher        ldOrganization `json:"publisher"`
	Description      string         `json:"description"`
}

func articleJSONLD(site Site, fm content.FrontMatter, authors []content.Author, url string, images []string, published, modified string) string {
	ld := ldArticle{
		Context:          "https://schema.org",
		Type:             "Article",
		MainEntityOfPage: ldThing{Type: "WebPage", ID: url},
		Headline:         fm.Title,
		DatePublished:    published,
		DateModified:     modified,
		Publisher: ldOrganization{
			Type: "Organization",
			Name: site.Author,
			Logo: ldThing{Type: "ImageObject", URL: AbsURL(site.URL, site.SiteLogo)},
		},
		Description: fm.Summary,
	}
	for _, img := range images {
		ld.Image = append(ld.Image, ldThing{Type: "ImageObject", URL: img})
	}
	for _, a := range authors {
		ld.Author = append(ld.Author, ldThing{Type: "Person", Name: a.Name})
	}
	if len(ld.Author) == 0 {
		ld.Author = []ldThing{{Type: "Person", Name: site.Author}}
	}
	b, err := json.MarshalIndent(ld, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// WebsiteJSONLD returns a WebSite schema for the home page.
func WebsiteJSONLD(site Site) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        site.Title,
		"url":         AbsURL(site.URL, "/"),
		"description": site.Description,
	}
	if site.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  site.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// AbsURL joins a site-relative path onto base. Absolute URLs pass through.
func AbsURL(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base = strings.TrimRight(base, "/")
	if path == "" {
		return base + "/"
	}
	return base + "/" + strings.TrimLeft(path, "/")
}
