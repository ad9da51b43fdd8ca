package content

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// BuildIndex reads the front matter of every .md/.mdx file under
// contentDir/category and returns it newest first, ties broken by FileName.
// Bodies are never compiled. The first invalid file aborts the build.
func BuildIndex(fs afero.Fs, contentDir, category string) ([]FrontMatter, error) {
	root := filepath.Join(contentDir, category)
	if ok, _ := afero.DirExists(fs, root); !ok {
		return nil, nil
	}
	var index []FrontMatter
	bySlug := make(map[string]string)

	err := afero.Walk(fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isContentFile(info.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		src, err := afero.ReadFile(fs, p)
		if err != nil {
			return fmt.Errorf("content: read %s: %w", path.Join(category, rel), err)
		}
		fm, _, err := ParseFrontMatter(path.Join(category, rel), src)
		if err != nil {
			return err
		}
		// Slug and FileName stay relative to the category dir.
		fm.FileName = rel
		fm.Slug = FormatSlug(rel)
		if other, ok := bySlug[fm.Slug]; ok {
			return fmt.Errorf("%w %q: %s and %s", ErrDuplicateSlug, fm.Slug, other, rel)
		}
		bySlug[fm.Slug] = rel
		index = append(index, fm)
		return nil
	})
	if err != nil {
		return nil, err
	}

	SortIndex(index)
	return index, nil
}

// SortIndex orders records by Date descending, then FileName ascending.
func SortIndex(index []FrontMatter) {
	sort.SliceStable(index, func(i, j int) bool {
		if !index[i].Date.Equal(index[j].Date) {
			return index[i].Date.After(index[j].Date)
		}
		return index[i].FileName < index[j].FileName
	})
}

// Published returns the records that are not drafts, preserving order.
func Published(index []FrontMatter) []FrontMatter {
	out := make([]FrontMatter, 0, len(index))
	for _, fm := range index {
		if !fm.Draft {
			out = append(out, fm)
		}
	}
	return out
}

// Find returns the record with the given slug.
func Find(index []FrontMatter, slug string) (FrontMatter, bool) {
	for _, fm := range index {
		if fm.Slug == slug {
			return fm, true
		}
	}
	return FrontMatter{}, false
}

// Neighbors returns the chronologically adjacent posts of slug in a
// newest-first index. prev is the older post, next the newer one; either
// is nil at the ends of the timeline or when slug is not indexed.
func Neighbors(index []FrontMatter, slug string) (prev, next *Neighbor) {
	i := -1
	for k, fm := range index {
		if fm.Slug == slug {
			i = k
			break
		}
	}
	if i < 0 {
		return nil, nil
	}
	if i+1 < len(index) {
		prev = &Neighbor{Slug: index[i+1].Slug, Title: index[i+1].Title}
	}
	if i > 0 {
		next = &Neighbor{Slug: index[i-1].Slug, Title: index[i-1].Title}
	}
	return prev, next
}

// TagCount is a tag and the number of posts carrying it.
type TagCount struct {
	Name  string
	Slug  string
	Count int
}

// Tags returns every tag in index with its post count, sorted by slug.
// Tags that slugify identically are merged under the first spelling seen.
func Tags(index []FrontMatter) []TagCount {
	counts := make(map[string]*TagCount)
	for _, fm := range index {
		for _, t := range fm.Tags {
			slug := Slugify(t)
			if slug == "" {
				continue
			}
			tc, ok := counts[slug]
			if !ok {
				tc = &TagCount{Name: t, Slug: slug}
				counts[slug] = tc
			}
			tc.Count++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for _, tc := range counts {
		out = append(out, *tc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// FilterByTag returns records carrying a tag whose slug equals tagSlug.
func FilterByTag(index []FrontMatter, tagSlug string) []FrontMatter {
	tagSlug = strings.ToLower(strings.TrimSpace(tagSlug))
	var out []FrontMatter
	for _, fm := range index {
		for _, t := range fm.Tags {
			if Slugify(t) == tagSlug {
				out = append(out, fm)
				break
			}
		}
	}
	return out
}
