package seo

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Head renders m as <head> children: title, meta, links and JSON-LD.
func Head(m Meta) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		e := templ.EscapeString[string]

		fmt.Fprintf(&b, "<title>%s</title>\n", e(m.Title))
		metaName := func(name, value string) {
			if value != "" {
				fmt.Fprintf(&b, "<meta name=\"%s\" content=\"%s\">\n", name, e(value))
			}
		}
		metaProp := func(prop, value string) {
			if value != "" {
				fmt.Fprintf(&b, "<meta property=\"%s\" content=\"%s\">\n", prop, e(value))
			}
		}

		metaName("robots", m.Robots)
		metaName("description", m.Description)
		if len(m.Keywords) > 0 {
			metaName("keywords", strings.Join(m.Keywords, ", "))
		}
		metaProp("og:url", m.URL)
		metaProp("og:type", m.OGType)
		metaProp("og:site_name", m.SiteName)
		metaProp("og:description", m.Description)
		metaProp("og:title", m.Title)
		for _, img := range m.Images {
			metaProp("og:image", img)
		}
		metaName("twitter:card", m.TwitterCard)
		metaName("twitter:site", m.TwitterSite)
		metaName("twitter:title", m.Title)
		metaName("twitter:description", m.Description)
		metaName("twitter:image", m.TwitterImage)
		if m.Canonical != "" {
			fmt.Fprintf(&b, "<link rel=\"canonical\" href=\"%s\">\n", e(m.Canonical))
		}
		for _, alt := range m.Alternates {
			fmt.Fprintf(&b, "<link rel=\"alternate\" type=\"%s\" title=\"%s\" href=\"%s\">\n",
				e(alt.Type), e(alt.Title), e(alt.Href))
		}
		metaProp("article:published_time", m.PublishedTime)
		metaProp("article:modified_time", m.ModifiedTime)
		if m.JSONLD != "" {
			fmt.Fprintf(&b, "<script type=\"application/ld+json\">%s</script>\n", m.JSONLD)
		}

		_, err := io.WriteString(w, b.String())
		return err
	})
}
