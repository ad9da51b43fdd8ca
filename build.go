package folio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/a-h/templ"
	"github.com/spf13/afero"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/quote"
	"github.com/eringen/folio/seo"
	"github.com/eringen/folio/views"
)

// Build generates the whole site into outDir (default Config.OutputDir).
// Pages are rendered one at a time; the RSS feed is rewritten after every
// blog page.
func (a *App) Build(ctx context.Context, outDir string) error {
	if outDir == "" {
		outDir = a.Config.OutputDir
	}
	if err := a.prepare(); err != nil {
		return err
	}
	index, err := content.BuildIndex(a.Fs, a.Config.ContentDir, BlogCategory)
	if err != nil {
		return err
	}
	published := content.Published(index)
	tags := content.Tags(published)
	log := a.Echo.Logger
	pages := 0

	page := func(rel string, cmp templ.Component) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := renderFile(ctx, a.Fs, filepath.Join(outDir, rel), cmp); err != nil {
			return err
		}
		pages++
		return nil
	}

	// The static home page loads its quote in the browser through quote.js.
	if err := page("index.html", a.Views.Home(a.homeMeta(), published, quote.Quote{}, false)); err != nil {
		return err
	}
	if err := page(filepath.Join("blog", "index.html"), a.Views.Blog(a.blogMeta(), published, "", tags)); err != nil {
		return err
	}

	tagsMeta := seo.Page(a.Config.SEO(), "Tags - "+a.Config.Author, "Things I blog about", "/tags/", "")
	if err := page(filepath.Join("tags", "index.html"), a.Views.Tags(tagsMeta, tags)); err != nil {
		return err
	}
	for _, t := range tags {
		filtered := content.FilterByTag(published, t.Slug)
		meta := seo.Tag(a.Config.SEO(), t.Slug, views.TagURL(t.Slug))
		if err := page(filepath.Join("tags", t.Slug, "index.html"), a.Views.Blog(meta, filtered, t.Slug, tags)); err != nil {
			return err
		}
		data, err := generateFeed(a.Config, filtered, views.TagURL(t.Slug)+"feed.xml")
		if err != nil {
			return err
		}
		if err := WriteFeed(a.Fs, filepath.Join(outDir, "tags", t.Slug, "feed.xml"), data); err != nil {
			return err
		}
	}

	feed, err := GenerateFeed(a.Config, index)
	if err != nil {
		return err
	}
	feedPath := filepath.Join(outDir, "feed.xml")
	for _, fm := range index {
		meta, p, err := a.assemblePage(ctx, index, fm.Slug)
		if err != nil {
			return err
		}
		cmp, known := PostView(a.Views, meta, p)
		if !known {
			log.Warnf("post %s: unknown layout %q, using %s", fm.Slug, fm.Layout, content.DefaultLayout)
		}
		rel := filepath.Join("blog", filepath.FromSlash(fm.Slug), "index.html")
		if err := page(rel, cmp); err != nil {
			return err
		}
		if err := WriteFeed(a.Fs, feedPath, feed); err != nil {
			return err
		}
	}

	projectsMeta := seo.Page(a.Config.SEO(), "Projects - "+a.Config.Author, "Things I have built", "/projects/", "")
	if err := page(filepath.Join("projects", "index.html"), a.Views.Projects(projectsMeta, a.Projects)); err != nil {
		return err
	}
	for _, p := range a.Projects {
		meta := seo.Page(a.Config.SEO(), p.Title, p.ShortDescription, "/projects/"+p.Slug+"/", p.Banner)
		if err := page(filepath.Join("projects", p.Slug, "index.html"), a.Views.Project(meta, p)); err != nil {
			return err
		}
	}
	if err := page("404.html", a.Views.NotFound()); err != nil {
		return err
	}

	sitemap, err := GenerateSitemap(a.Config, index, a.Projects)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(a.Fs, filepath.Join(outDir, "sitemap.xml"), sitemap, 0o644); err != nil {
		return fmt.Errorf("folio: write sitemap: %w", err)
	}
	if err := afero.WriteFile(a.Fs, filepath.Join(outDir, "robots.txt"), []byte(robotsTxt(a.Config)), 0o644); err != nil {
		return fmt.Errorf("folio: write robots.txt: %w", err)
	}
	if err := a.copyAssets(outDir); err != nil {
		return err
	}

	log.Infof("built %d pages into %s", pages, outDir)
	return nil
}

func renderFile(ctx context.Context, fsys afero.Fs, path string, cmp templ.Component) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("folio: render %s: %w", path, err)
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("folio: render %s: %w", path, err)
	}
	if err := cmp.Render(ctx, f); err != nil {
		f.Close()
		return fmt.Errorf("folio: render %s: %w", path, err)
	}
	return f.Close()
}

// copyAssets mirrors the public dir under outDir/public, adds the embedded
// scripts and lifts favicon.svg and robots.txt to the site root.
func (a *App) copyAssets(outDir string) error {
	pub := a.Config.PublicDir
	err := afero.Walk(a.Fs, pub, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(pub, path)
		if err != nil {
			return err
		}
		target := filepath.Join(outDir, "public", rel)
		if info.IsDir() {
			return a.Fs.MkdirAll(target, 0o755)
		}
		if err := copyFile(a.Fs, path, target); err != nil {
			return err
		}
		if rel == "favicon.svg" || rel == "robots.txt" {
			return copyFile(a.Fs, path, filepath.Join(outDir, rel))
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("folio: copy public dir: %w", err)
	}

	for _, name := range []string{"views.js", "collect.js", "quote.js"} {
		data, err := EmbeddedAssets.ReadFile("embedded/" + name)
		if err != nil {
			return err
		}
		if err := a.Fs.MkdirAll(filepath.Join(outDir, "public"), 0o755); err != nil {
			return err
		}
		if err := afero.WriteFile(a.Fs, filepath.Join(outDir, "public", name), data, 0o644); err != nil {
			return fmt.Errorf("folio: write %s: %w", name, err)
		}
	}
	return nil
}

func copyFile(fsys afero.Fs, src, dst string) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := fsys.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := fsys.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
