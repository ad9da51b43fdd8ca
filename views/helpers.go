package views

import (
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/markdown"
)

var titleCaser = cases.Title(language.English)

// TagTitle renders a tag for headings: "web-dev" becomes "Web Dev".
func TagTitle(tag string) string {
	return titleCaser.String(strings.ReplaceAll(tag, "-", " "))
}

// FormatDate renders a post date for humans.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}

// PostURL is the site-relative URL of a post.
func PostURL(slug string) string {
	segs := content.SplitSlug(slug)
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return "/blog/" + strings.Join(segs, "/") + "/"
}

// TagURL is the site-relative URL of a tag listing.
func TagURL(tag string) string {
	return "/tags/" + url.PathEscape(content.Slugify(tag)) + "/"
}

func safeURL(raw string) string {
	return markdown.SafeURL(raw)
}
