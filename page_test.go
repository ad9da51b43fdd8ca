package folio

import (
	"context"
	"errors"
	"testing"

	"github.com/a-h/templ"
	"github.com/spf13/afero"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/seo"
)

func TestStateOf(t *testing.T) {
	if got := StateOf(content.FrontMatter{Draft: true}); got != Draft {
		t.Errorf("StateOf(draft) = %v", got)
	}
	if got := StateOf(content.FrontMatter{}); got != Published {
		t.Errorf("StateOf(published) = %v", got)
	}
	if Draft.String() != "draft" || Published.String() != "published" {
		t.Error("unexpected State strings")
	}
}

func TestPostView(t *testing.T) {
	var picked string
	layout := func(name string) LayoutFunc {
		return func(seo.Meta, content.Page) templ.Component {
			picked = name
			return templ.NopComponent
		}
	}
	v := ViewFuncs{
		Layouts: map[string]LayoutFunc{
			content.DefaultLayout: layout(content.DefaultLayout),
			"PostSimple":          layout("PostSimple"),
		},
		Draft: func(seo.Meta) templ.Component {
			picked = "draft"
			return templ.NopComponent
		},
	}

	tests := []struct {
		name      string
		fm        content.FrontMatter
		want      string
		wantKnown bool
	}{
		{"default", content.FrontMatter{}, content.DefaultLayout, true},
		{"named", content.FrontMatter{Layout: "PostSimple"}, "PostSimple", true},
		{"unknown", content.FrontMatter{Layout: "Nope"}, content.DefaultLayout, false},
		{"draft ignores layout", content.FrontMatter{Draft: true, Layout: "PostSimple"}, "draft", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			picked = ""
			page := content.Page{Post: content.CompiledPost{FrontMatter: tt.fm}}
			_, known := PostView(v, seo.Meta{}, page)
			if picked != tt.want || known != tt.wantKnown {
				t.Errorf("picked %q known=%v, want %q known=%v", picked, known, tt.want, tt.wantKnown)
			}
		})
	}
}

func TestAssemblePage(t *testing.T) {
	fs := seedSite(t)
	writeFile(t, fs, "content/blog/guest.md", post("Guest", "2024-05-01", "tags: [go]", "authors: [ghost]"))
	a := New(testConfig(), ViewFuncs{}, WithFs(fs))
	index, err := a.Cache.Index()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	meta, page, err := a.assemblePage(ctx, index, "second")
	if err != nil {
		t.Fatal(err)
	}
	if page.Prev == nil || page.Prev.Slug != "first" || page.Next == nil || page.Next.Slug != "2024/third" {
		t.Errorf("neighbors = %+v / %+v", page.Prev, page.Next)
	}
	if len(page.Authors) != 1 || page.Authors[0].Name != "Jane Doe" {
		t.Errorf("authors = %+v", page.Authors)
	}
	if meta.URL != "https://example.com/blog/second/" {
		t.Errorf("meta.URL = %q", meta.URL)
	}

	meta, page, err = a.assemblePage(ctx, index, "wip")
	if err != nil {
		t.Fatal(err)
	}
	if meta.Robots != "noindex, nofollow" || page.Prev != nil || page.Next != nil || page.Authors != nil {
		t.Errorf("draft page leaked published data: robots=%q page=%+v", meta.Robots, page)
	}

	_, _, err = a.assemblePage(ctx, index, "guest")
	var pe *PageError
	if !errors.As(err, &pe) || pe.Slug != "guest" {
		t.Fatalf("err = %v, want PageError", err)
	}
	if isNotFound(err) {
		t.Error("missing author reported as not found")
	}
	if !errors.Is(err, content.ErrNotFound) {
		t.Error("PageError should unwrap to the loader error")
	}

	_, _, err = a.assemblePage(ctx, index, "missing")
	if !isNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestNewAppDefaults(t *testing.T) {
	a := New(SiteConfig{}, ViewFuncs{}, WithFs(afero.NewMemMapFs()))
	if a.Config.ContentDir != "content" || a.Config.Addr != ":3000" || a.Config.ViewsStart != DefaultViewsStart {
		t.Errorf("defaults not applied: %+v", a.Config)
	}
	if a.Quotes == nil || a.Loader == nil || a.Cache == nil {
		t.Error("collaborators not constructed")
	}
}
