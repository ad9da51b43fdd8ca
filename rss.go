package folio

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/seo"
	"github.com/eringen/folio/views"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title          string    `xml:"title"`
	Link           string    `xml:"link"`
	Description    string    `xml:"description"`
	Language       string    `xml:"language"`
	ManagingEditor string    `xml:"managingEditor,omitempty"`
	WebMaster      string    `xml:"webMaster,omitempty"`
	LastBuildDate  string    `xml:"lastBuildDate,omitempty"`
	AtomLink       atomLink  `xml:"atom:link"`
	Items          []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

type rssItem struct {
	GUID        rssGUID  `xml:"guid"`
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description,omitempty"`
	PubDate     string   `xml:"pubDate"`
	Author      string   `xml:"author,omitempty"`
	Categories  []string `xml:"category"`
}

// GenerateFeed renders the RSS 2.0 feed of the published posts in posts.
// The output depends only on its input: lastBuildDate is the newest post's
// date, never the current time.
func GenerateFeed(cfg SiteConfig, posts []content.FrontMatter) ([]byte, error) {
	return generateFeed(cfg, posts, "/feed.xml")
}

func generateFeed(cfg SiteConfig, posts []content.FrontMatter, selfPath string) ([]byte, error) {
	published := content.Published(posts)
	editor := ""
	if cfg.Email != "" {
		editor = fmt.Sprintf("%s (%s)", cfg.Email, cfg.Author)
	}

	items := make([]rssItem, 0, len(published))
	var newest time.Time
	for _, p := range published {
		link := seo.AbsURL(cfg.URL, views.PostURL(p.Slug))
		items = append(items, rssItem{
			GUID:        rssGUID{Value: link, IsPermaLink: true},
			Title:       p.Title,
			Link:        link,
			Description: p.Summary,
			PubDate:     p.Date.UTC().Format(time.RFC1123Z),
			Author:      editor,
			Categories:  p.Tags,
		})
		if p.Date.After(newest) {
			newest = p.Date
		}
	}

	ch := rssChannel{
		Title:          cfg.Title,
		Link:           cfg.URL + "/blog",
		Description:    cfg.Description,
		Language:       cfg.Language,
		ManagingEditor: editor,
		WebMaster:      editor,
		AtomLink: atomLink{
			Href: cfg.URL + selfPath,
			Rel:  "self",
			Type: "application/rss+xml",
		},
		Items: items,
	}
	if !newest.IsZero() {
		ch.LastBuildDate = newest.UTC().Format(time.RFC1123Z)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(rssXML{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: ch,
	}); err != nil {
		return nil, fmt.Errorf("folio: encode feed: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteFeed replaces the feed at path with data. The bytes go to a temp file
// in the same directory first, so readers never see a partial feed.
func WriteFeed(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("folio: write feed: %w", err)
	}
	tmp, err := afero.TempFile(fs, dir, ".feed-*.xml")
	if err != nil {
		return fmt.Errorf("folio: write feed: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(name)
		return fmt.Errorf("folio: write feed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(name)
		return fmt.Errorf("folio: write feed: %w", err)
	}
	if err := fs.Rename(name, path); err != nil {
		fs.Remove(name)
		return fmt.Errorf("folio: write feed: %w", err)
	}
	return nil
}
