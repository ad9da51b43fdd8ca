package views

import (
	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/quote"
	"github.com/eringen/folio/seo"
)

// homeLimit is how many recent posts the home page lists.
const homeLimit = 5

// Home renders the landing page with the latest posts and the quote and
// meme widgets. Without a quote the block is left for quote.js to fill from
// Site.QuoteURL, or omitted when that is unset.
func (v *Views) Home(meta seo.Meta, posts []content.FrontMatter, q quote.Quote, hasQuote bool) templ.Component {
	return v.shell(meta, func(o *out) {
		o.raw("<section class=\"hero\">\n")
		o.rawf("<h1>Hi, I'm %s</h1>\n", esc(v.site.Author))
		if hasQuote {
			o.rawf("<blockquote class=\"quote\"><p>%s</p><footer class=\"author\">- %s</footer></blockquote>\n",
				esc(q.Text), esc(q.Author))
		} else if src := safeURL(v.site.QuoteURL); src != "" {
			o.rawf("<blockquote class=\"quote\" data-quote-src=\"%s\" hidden></blockquote>\n", src)
			o.raw("<script defer src=\"/public/quote.js\"></script>\n")
		}
		if src := safeURL(v.site.MemeURL); src != "" {
			o.rawf("<div class=\"meme-container\"><img class=\"meme-image\" src=\"%s\" alt=\"meme\" loading=\"lazy\"></div>\n", src)
		}
		o.raw("</section>\n<section class=\"latest\">\n<h2>Latest posts</h2>\n")
		if len(posts) > homeLimit {
			posts = posts[:homeLimit]
		}
		postList(o, posts)
		if len(posts) > 0 {
			o.raw("<p><a href=\"/blog/\">All posts &rarr;</a></p>\n")
		}
		o.raw("</section>")
	})
}

// Blog renders the post listing, optionally filtered to activeTag.
func (v *Views) Blog(meta seo.Meta, posts []content.FrontMatter, activeTag string, tags []content.TagCount) templ.Component {
	return v.shell(meta, func(o *out) {
		if activeTag != "" {
			o.rawf("<h1>%s</h1>\n", esc(TagTitle(activeTag)))
		} else {
			o.raw("<h1>All posts</h1>\n")
		}
		tagCloud(o, tags, activeTag)
		postList(o, posts)
	})
}

// Tags renders every tag with its post count.
func (v *Views) Tags(meta seo.Meta, tags []content.TagCount) templ.Component {
	return v.shell(meta, func(o *out) {
		o.raw("<h1>Tags</h1>\n")
		if len(tags) == 0 {
			o.raw("<p>No tags found.</p>")
			return
		}
		tagCloud(o, tags, "")
	})
}

func tagCloud(o *out, tags []content.TagCount, active string) {
	if len(tags) == 0 {
		return
	}
	o.raw("<ul class=\"tags\">")
	for _, t := range tags {
		class := "tag"
		if t.Slug == active {
			class += " active"
		}
		o.rawf("<li><a class=\"%s\" href=\"%s\">%s</a> <span class=\"count\">(%s)</span></li>",
			class, TagURL(t.Name), esc(t.Name), humanize.Comma(int64(t.Count)))
	}
	o.raw("</ul>\n")
}

func postList(o *out, posts []content.FrontMatter) {
	if len(posts) == 0 {
		o.raw("<p>No posts found.</p>\n")
		return
	}
	o.raw("<ul class=\"posts\">\n")
	for _, p := range posts {
		o.raw("<li><article>")
		o.rawf("<time datetime=\"%s\">%s</time>", p.Date.Format("2006-01-02"), esc(FormatDate(p.Date)))
		o.rawf("<h2><a href=\"%s\">%s</a></h2>", PostURL(p.Slug), esc(p.Title))
		if len(p.Tags) > 0 {
			o.raw("<div class=\"post-tags\">")
			for _, t := range p.Tags {
				o.rawf("<a class=\"tag\" href=\"%s\">%s</a>", TagURL(t), esc(t))
			}
			o.raw("</div>")
		}
		if p.Summary != "" {
			o.rawf("<p class=\"summary\">%s</p>", esc(p.Summary))
		}
		o.raw("</article></li>\n")
	}
	o.raw("</ul>\n")
}
