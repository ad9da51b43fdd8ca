package views

import (
	"fmt"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/seo"
)

// Layouts returns the post layouts keyed by the front matter layout id.
func (v *Views) Layouts() map[string]func(seo.Meta, content.Page) templ.Component {
	return map[string]func(seo.Meta, content.Page) templ.Component{
		content.DefaultLayout: v.PostLayout,
		"PostSimple":          v.PostSimple,
		"PostBanner":          v.PostBanner,
	}
}

// PostLayout is the default layout: header, authors sidebar, table of
// contents, body and prev/next navigation.
func (v *Views) PostLayout(meta seo.Meta, page content.Page) templ.Component {
	return v.shell(meta, func(o *out) {
		fm := page.Post.FrontMatter
		o.raw("<article class=\"post post-layout\">\n")
		postHeader(o, fm)
		o.raw("<div class=\"post-grid\">\n<aside>\n")
		authorList(o, page.Authors)
		toc(o, page.Post.TOC())
		tagLinks(o, fm.Tags)
		o.raw("</aside>\n<div class=\"prose\">\n")
		o.comp(markdown.HTML(page.Post.Document))
		o.raw("\n</div>\n</div>\n")
		neighbors(o, page.Prev, page.Next)
		o.raw("</article>")
	})
}

// PostSimple renders the body without sidebar.
func (v *Views) PostSimple(meta seo.Meta, page content.Page) templ.Component {
	return v.shell(meta, func(o *out) {
		o.raw("<article class=\"post post-simple\">\n")
		postHeader(o, page.Post.FrontMatter)
		o.raw("<div class=\"prose\">\n")
		o.comp(markdown.HTML(page.Post.Document))
		o.raw("\n</div>\n")
		neighbors(o, page.Prev, page.Next)
		o.raw("</article>")
	})
}

// PostBanner renders the first image full width above the post.
func (v *Views) PostBanner(meta seo.Meta, page content.Page) templ.Component {
	return v.shell(meta, func(o *out) {
		fm := page.Post.FrontMatter
		o.raw("<article class=\"post post-banner\">\n")
		if len(fm.Images) > 0 {
			if src := safeURL(fm.Images[0]); src != "" {
				o.rawf("<img class=\"banner\" src=\"%s\" alt=\"%s\">\n", src, esc(fm.Title))
			}
		}
		postHeader(o, fm)
		o.raw("<div class=\"prose\">\n")
		o.comp(markdown.HTML(page.Post.Document))
		o.raw("\n</div>\n")
		neighbors(o, page.Prev, page.Next)
		o.raw("</article>")
	})
}

// Draft replaces a post that is not yet published.
func (v *Views) Draft(meta seo.Meta) templ.Component {
	return v.shell(meta, func(o *out) {
		o.raw("<div class=\"draft\">\n<h1>Under Construction</h1>\n")
		o.raw("<p>This post is a draft and has not been published yet. Check back soon.</p>\n")
		o.raw("<p><a href=\"/blog/\">&larr; Back to the blog</a></p>\n</div>")
	})
}

// postHeader renders title, date, reading time and the view counter. The
// counter starts at 0 and is patched client-side by /public/views.js.
func postHeader(o *out, fm content.FrontMatter) {
	o.raw("<header>\n")
	o.rawf("<time datetime=\"%s\">%s</time>\n", fm.Date.Format("2006-01-02"), esc(FormatDate(fm.Date)))
	o.rawf("<h1>%s</h1>\n", esc(fm.Title))
	o.raw("<p class=\"post-meta\">")
	if fm.ReadingTime > 0 {
		o.rawf("<span class=\"reading-time\">%d min read</span> &middot; ", fm.ReadingTime)
	}
	o.rawf("<span class=\"views\" data-views-title=\"%s\">%s</span> views", esc(fm.Title), humanize.Comma(0))
	o.raw("</p>\n</header>\n")
	o.raw("<script defer src=\"/public/views.js\"></script>\n")
}

func authorList(o *out, authors []content.Author) {
	if len(authors) == 0 {
		return
	}
	o.raw("<ul class=\"authors\">")
	for _, a := range authors {
		o.raw("<li>")
		if src := safeURL(a.Avatar); src != "" {
			o.rawf("<img class=\"avatar\" src=\"%s\" alt=\"%s\" width=\"38\" height=\"38\">", src, esc(a.Name))
		}
		o.rawf("<span class=\"name\">%s</span>", esc(a.Name))
		if href := safeURL(a.Twitter); href != "" {
			o.rawf(" <a href=\"%s\" rel=\"noreferrer\" target=\"_blank\">%s</a>", href, esc(twitterHandle(a.Twitter)))
		}
		o.raw("</li>")
	}
	o.raw("</ul>\n")
}

func twitterHandle(u string) string {
	for _, prefix := range []string{"https://twitter.com/", "https://x.com/"} {
		if len(u) > len(prefix) && u[:len(prefix)] == prefix {
			return "@" + u[len(prefix):]
		}
	}
	return u
}

func toc(o *out, entries []markdown.TocEntry) {
	if len(entries) == 0 {
		return
	}
	o.raw("<nav class=\"toc\"><h2>Contents</h2><ul>")
	for _, e := range entries {
		o.rawf("<li class=\"toc-depth-%d\"><a href=\"%s\">%s</a></li>", e.Depth, esc(e.URL), esc(e.Value))
	}
	o.raw("</ul></nav>\n")
}

func tagLinks(o *out, tags []string) {
	if len(tags) == 0 {
		return
	}
	o.raw("<div class=\"post-tags\"><h2>Tags</h2>")
	for _, t := range tags {
		o.rawf("<a class=\"tag\" href=\"%s\">%s</a>", TagURL(t), esc(t))
	}
	o.raw("</div>\n")
}

func neighbors(o *out, prev, next *content.Neighbor) {
	if prev == nil && next == nil {
		return
	}
	o.raw("<nav class=\"post-nav\">")
	if prev != nil {
		o.raw(neighborLink("prev", "Previous Article", prev))
	}
	if next != nil {
		o.raw(neighborLink("next", "Next Article", next))
	}
	o.raw("</nav>\n")
}

func neighborLink(class, label string, n *content.Neighbor) string {
	return fmt.Sprintf("<div class=\"%s\"><h2>%s</h2><a href=\"%s\">%s</a></div>",
		class, label, PostURL(n.Slug), esc(n.Title))
}
