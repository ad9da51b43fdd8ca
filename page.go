package folio

import (
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/seo"
	"github.com/eringen/folio/views"
)

// State is the publication state of a post.
type State int

const (
	Draft State = iota
	Published
)

func (s State) String() string {
	if s == Draft {
		return "draft"
	}
	return "published"
}

// StateOf reports whether fm renders as a draft or a published post.
func StateOf(fm content.FrontMatter) State {
	if fm.Draft {
		return Draft
	}
	return Published
}

// PostView picks the component for page. Drafts always render the Draft
// view. Published posts use their front matter layout; known is false
// when that layout does not exist and the default layout was used instead.
func PostView(v ViewFuncs, meta seo.Meta, page content.Page) (cmp templ.Component, known bool) {
	fm := page.Post.FrontMatter
	if StateOf(fm) == Draft {
		return v.Draft(meta), true
	}
	name := fm.Layout
	if name == "" {
		name = content.DefaultLayout
	}
	layout, ok := v.Layouts[name]
	if !ok {
		layout = v.Layouts[content.DefaultLayout]
	}
	return layout(meta, page), ok
}

// PageError reports a post that exists but cannot be rendered, such as one
// naming a missing author. It is never a not-found condition.
type PageError struct {
	Slug string
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("folio: post %s: %v", e.Slug, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// assemblePage loads slug and everything its layout needs. index is the
// full blog index, drafts included.
func (a *App) assemblePage(ctx context.Context, index []content.FrontMatter, slug string) (seo.Meta, content.Page, error) {
	post, err := a.Loader.Load(ctx, BlogCategory, slug)
	if err != nil {
		return seo.Meta{}, content.Page{}, err
	}
	page := content.Page{Post: post}
	fm := post.FrontMatter
	site := a.Config.SEO()
	postURL := seo.AbsURL(site.URL, views.PostURL(fm.Slug))

	if StateOf(fm) == Draft {
		meta := seo.Blog(site, fm, nil, postURL)
		meta.Robots = "noindex, nofollow"
		return meta, page, nil
	}

	page.Prev, page.Next = content.Neighbors(content.Published(index), fm.Slug)
	authors, err := a.Loader.Authors(ctx, fm.Authors)
	if err != nil {
		return seo.Meta{}, content.Page{}, &PageError{Slug: fm.Slug, Err: err}
	}
	page.Authors = authors
	return seo.Blog(site, fm, authors, postURL), page, nil
}
