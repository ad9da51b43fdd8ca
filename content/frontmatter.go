// Package content reads posts and authors from a tree of markdown files
// with front matter and orders them into a post index.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

const (
	// DefaultLayout is used when a post names no layout.
	DefaultLayout = "PostLayout"
	// DefaultAuthor is the author id used when a post lists none.
	DefaultAuthor = "default"
)

// FrontMatter is the validated metadata of a post.
type FrontMatter struct {
	Title        string
	Date         time.Time
	LastMod      time.Time // zero when unset
	Draft        bool
	Summary      string
	Tags         []string
	Authors      []string
	Layout       string
	CanonicalURL string
	Images       []string

	Slug        string // derived from FileName
	FileName    string // path relative to the category dir, forward slashes
	ReadingTime int    // minutes; zero in index records
}

// HasLastMod reports whether the post declares a modification date.
func (fm FrontMatter) HasLastMod() bool { return !fm.LastMod.IsZero() }

// rawFrontMatter mirrors the on-disk keys. Pointers and any-typed fields
// distinguish an absent key from a zero value.
type rawFrontMatter struct {
	Title        *string   `yaml:"title" toml:"title" json:"title"`
	Date         any       `yaml:"date" toml:"date" json:"date"`
	LastMod      any       `yaml:"lastmod" toml:"lastmod" json:"lastmod"`
	Draft        bool      `yaml:"draft" toml:"draft" json:"draft"`
	Summary      string    `yaml:"summary" toml:"summary" json:"summary"`
	Tags         *[]string `yaml:"tags" toml:"tags" json:"tags"`
	Authors      []string  `yaml:"authors" toml:"authors" json:"authors"`
	Layout       string    `yaml:"layout" toml:"layout" json:"layout"`
	CanonicalURL string    `yaml:"canonicalUrl" toml:"canonicalUrl" json:"canonicalUrl"`
	Images       []string  `yaml:"images" toml:"images" json:"images"`
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseFrontMatter splits src into validated front matter and the remaining body.
// file is the category-relative path used for the slug and in errors.
func ParseFrontMatter(file string, src []byte) (FrontMatter, []byte, error) {
	var raw rawFrontMatter
	body, err := frontmatter.MustParse(bytes.NewReader(src), &raw)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return FrontMatter{}, nil, &MissingFieldError{File: file, Field: "title"}
		}
		return FrontMatter{}, nil, fmt.Errorf("content: %s: parse front matter: %w", file, err)
	}
	fm, err := raw.validate(file)
	if err != nil {
		return FrontMatter{}, nil, err
	}
	return fm, body, nil
}

func (r rawFrontMatter) validate(file string) (FrontMatter, error) {
	if r.Title == nil || strings.TrimSpace(*r.Title) == "" {
		return FrontMatter{}, &MissingFieldError{File: file, Field: "title"}
	}
	if r.Date == nil {
		return FrontMatter{}, &MissingFieldError{File: file, Field: "date"}
	}
	if r.Tags == nil {
		return FrontMatter{}, &MissingFieldError{File: file, Field: "tags"}
	}
	date, err := parseDate(r.Date)
	if err != nil {
		return FrontMatter{}, &InvalidFieldError{File: file, Field: "date", Value: fmt.Sprint(r.Date), Err: err}
	}
	var lastMod time.Time
	if r.LastMod != nil {
		lastMod, err = parseDate(r.LastMod)
		if err != nil {
			return FrontMatter{}, &InvalidFieldError{File: file, Field: "lastmod", Value: fmt.Sprint(r.LastMod), Err: err}
		}
	}

	authors := cleanList(r.Authors)
	if len(authors) == 0 {
		authors = []string{DefaultAuthor}
	}
	layout := strings.TrimSpace(r.Layout)
	if layout == "" {
		layout = DefaultLayout
	}

	return FrontMatter{
		Title:        strings.TrimSpace(*r.Title),
		Date:         date,
		LastMod:      lastMod,
		Draft:        r.Draft,
		Summary:      strings.TrimSpace(r.Summary),
		Tags:         cleanList(*r.Tags),
		Authors:      authors,
		Layout:       layout,
		CanonicalURL: strings.TrimSpace(r.CanonicalURL),
		Images:       cleanList(r.Images),
		Slug:         FormatSlug(file),
		FileName:     file,
	}, nil
}

func parseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d.UTC(), nil
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date format")
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T", v)
	}
}

// cleanList trims entries and drops empties and duplicates, keeping first appearance order.
func cleanList(vals []string) []string {
	seen := make(map[string]struct{}, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		s := strings.TrimSpace(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// readingTime estimates minutes to read body at 200 words per minute, minimum one.
func readingTime(body []byte) int {
	words := len(bytes.Fields(body))
	minutes := (words + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
