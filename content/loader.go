package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/folio/markdown"
)

// AuthorsCategory is the content directory holding author profiles.
const AuthorsCategory = "authors"

// Compiler turns a markdown body into HTML and a table of contents.
type Compiler interface {
	Compile(src []byte) (markdown.Document, error)
}

// CompiledPost is a post body compiled for rendering. It is built once per
// page request and never cached.
type CompiledPost struct {
	FrontMatter FrontMatter
	Document    markdown.Document
}

// TOC returns the post's table of contents.
func (p CompiledPost) TOC() []markdown.TocEntry { return p.Document.TOC }

// Author is a profile from content/authors/<slug>.md.
type Author struct {
	Slug       string
	Name       string
	Avatar     string
	Occupation string
	Company    string
	Email      string
	Twitter    string
	LinkedIn   string
	GitHub     string
	Bio        markdown.Document
}

type rawAuthor struct {
	Name       string `yaml:"name" toml:"name" json:"name"`
	Avatar     string `yaml:"avatar" toml:"avatar" json:"avatar"`
	Occupation string `yaml:"occupation" toml:"occupation" json:"occupation"`
	Company    string `yaml:"company" toml:"company" json:"company"`
	Email      string `yaml:"email" toml:"email" json:"email"`
	Twitter    string `yaml:"twitter" toml:"twitter" json:"twitter"`
	LinkedIn   string `yaml:"linkedin" toml:"linkedin" json:"linkedin"`
	GitHub     string `yaml:"github" toml:"github" json:"github"`
}

// Neighbor identifies a chronologically adjacent post.
type Neighbor struct {
	Slug  string
	Title string
}

// Page is everything a post layout needs.
type Page struct {
	Post    CompiledPost
	Authors []Author
	Prev    *Neighbor
	Next    *Neighbor
}

// Loader reads single content files. It never consults the post index.
type Loader struct {
	fs       afero.Fs
	dir      string
	compiler Compiler
}

// NewLoader returns a Loader reading from dir on fsys.
func NewLoader(fsys afero.Fs, dir string, compiler Compiler) *Loader {
	return &Loader{fs: fsys, dir: dir, compiler: compiler}
}

// Load reads category/<slug>.mdx, falling back to .md, and compiles it.
func (l *Loader) Load(ctx context.Context, category, slug string) (CompiledPost, error) {
	if err := ctx.Err(); err != nil {
		return CompiledPost{}, err
	}
	file, src, err := l.read(category, slug)
	if err != nil {
		return CompiledPost{}, err
	}
	fm, body, err := ParseFrontMatter(path.Join(category, file), src)
	if err != nil {
		return CompiledPost{}, err
	}
	fm.FileName = file
	fm.Slug = FormatSlug(file)
	fm.ReadingTime = readingTime(body)

	doc, err := l.compiler.Compile(body)
	if err != nil {
		return CompiledPost{}, fmt.Errorf("content: %s: compile: %w", path.Join(category, file), err)
	}
	return CompiledPost{FrontMatter: fm, Document: doc}, nil
}

// LoadSegments resolves URL segments to a slug and loads it.
func (l *Loader) LoadSegments(ctx context.Context, category string, segments []string) (CompiledPost, error) {
	return l.Load(ctx, category, ResolveSlug(segments))
}

// Author loads a single author profile.
func (l *Loader) Author(ctx context.Context, id string) (Author, error) {
	if err := ctx.Err(); err != nil {
		return Author{}, err
	}
	file, src, err := l.read(AuthorsCategory, id)
	if err != nil {
		return Author{}, fmt.Errorf("content: author %q: %w", id, err)
	}
	var raw rawAuthor
	body, err := frontmatter.Parse(bytes.NewReader(src), &raw)
	if err != nil {
		return Author{}, fmt.Errorf("content: %s: parse front matter: %w", path.Join(AuthorsCategory, file), err)
	}
	if strings.TrimSpace(raw.Name) == "" {
		return Author{}, &MissingFieldError{File: path.Join(AuthorsCategory, file), Field: "name"}
	}
	bio, err := l.compiler.Compile(body)
	if err != nil {
		return Author{}, fmt.Errorf("content: %s: compile: %w", path.Join(AuthorsCategory, file), err)
	}
	return Author{
		Slug:       FormatSlug(file),
		Name:       strings.TrimSpace(raw.Name),
		Avatar:     raw.Avatar,
		Occupation: raw.Occupation,
		Company:    raw.Company,
		Email:      raw.Email,
		Twitter:    raw.Twitter,
		LinkedIn:   raw.LinkedIn,
		GitHub:     raw.GitHub,
		Bio:        bio,
	}, nil
}

// Authors resolves ids concurrently. Results keep the order of ids and the
// first missing or invalid profile fails the whole call.
func (l *Loader) Authors(ctx context.Context, ids []string) ([]Author, error) {
	authors := make([]Author, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			a, err := l.Author(gctx, id)
			if err != nil {
				return err
			}
			authors[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return authors, nil
}

// read returns the category-relative file name and contents for slug.
func (l *Loader) read(category, slug string) (string, []byte, error) {
	if !validSlug(slug) {
		return "", nil, ErrNotFound
	}
	for _, ext := range extensions {
		file := slug + ext
		src, err := afero.ReadFile(l.fs, filepath.Join(l.dir, category, filepath.FromSlash(file)))
		if err == nil {
			return file, src, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("content: read %s: %w", path.Join(category, file), err)
		}
	}
	return "", nil, ErrNotFound
}
