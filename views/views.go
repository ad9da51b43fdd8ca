// Package views holds the default HTML components. Sites can replace any
// of them through folio.ViewFuncs.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/folio/analytics"
	"github.com/eringen/folio/portfolio"
	"github.com/eringen/folio/seo"
)

// Site is the site-wide data every page shell needs.
type Site struct {
	Title     string
	Author    string
	Language  string
	Contact   portfolio.Contact
	Providers []analytics.Provider // already filtered to enabled ones
	MemeURL   string
	QuoteURL  string // quote list fetched in the browser when the page has no quote
}

// Views renders the default theme.
type Views struct {
	site Site
}

// New returns the default views for site.
func New(site Site) *Views {
	if site.Language == "" {
		site.Language = "en"
	}
	return &Views{site: site}
}

// out accumulates writes and keeps the first error.
type out struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (o *out) raw(s string) {
	if o.err == nil {
		_, o.err = io.WriteString(o.w, s)
	}
}

func (o *out) rawf(format string, args ...interface{}) {
	o.raw(fmt.Sprintf(format, args...))
}

func (o *out) text(s string) { o.raw(templ.EscapeString(s)) }

func (o *out) comp(c templ.Component) {
	if o.err == nil {
		o.err = c.Render(o.ctx, o.w)
	}
}

func component(fn func(o *out)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		o := &out{ctx: ctx, w: w}
		fn(o)
		return o.err
	})
}

func esc(s string) string { return templ.EscapeString(s) }

var navLinks = []struct{ href, label string }{
	{"/blog/", "Blog"},
	{"/tags/", "Tags"},
	{"/projects/", "Projects"},
}

// shell wraps body in the full document: head metadata, analytics
// providers, navigation and footer.
func (v *Views) shell(meta seo.Meta, body func(o *out)) templ.Component {
	return component(func(o *out) {
		o.rawf("<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n", esc(v.site.Language))
		o.raw("<meta charset=\"utf-8\">\n<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
		o.comp(seo.Head(meta))
		o.raw("<link rel=\"stylesheet\" href=\"/public/styles.css\">\n")
		o.raw("<link rel=\"icon\" href=\"/favicon.svg\" type=\"image/svg+xml\">\n")
		o.rawf("<link rel=\"alternate\" type=\"application/rss+xml\" title=\"%s\" href=\"/feed.xml\">\n", esc(v.site.Title))
		o.comp(analytics.MountAll(v.site.Providers))
		o.raw("</head>\n<body>\n<header class=\"site-header\">\n")
		o.rawf("<a class=\"site-title\" href=\"/\">%s</a>\n<nav>", esc(v.site.Title))
		for _, l := range navLinks {
			o.rawf("<a href=\"%s\">%s</a>", l.href, l.label)
		}
		o.raw("</nav>\n</header>\n<main>\n")
		body(o)
		o.raw("\n</main>\n")
		v.footer(o)
		o.raw("</body>\n</html>\n")
	})
}

func (v *Views) footer(o *out) {
	o.raw("<footer class=\"site-footer\">\n<ul class=\"social\">")
	for _, t := range portfolio.ContactTypes {
		href := v.site.Contact.Links[t]
		if safe := safeURL(href); safe != "" {
			o.rawf("<li><a href=\"%s\" rel=\"me noreferrer\" target=\"_blank\">%s</a></li>", safe, esc(string(t)))
		}
	}
	o.raw("</ul>\n")
	o.rawf("<p>%s</p>\n</footer>\n", esc(v.site.Author))
}
