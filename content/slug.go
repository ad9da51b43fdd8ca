package content

import (
	"path"
	"path/filepath"
	"strings"
)

var extensions = []string{".mdx", ".md"}

// ResolveSlug joins URL path segments into a slug. Edge slashes are dropped
// and a .md or .mdx extension on the final segment is removed. It never
// touches the filesystem.
func ResolveSlug(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return trimExt(strings.Join(parts, "/"))
}

// SplitSlug is the inverse of ResolveSlug for slugs built from valid segments.
func SplitSlug(slug string) []string {
	slug = strings.Trim(slug, "/")
	if slug == "" {
		return nil
	}
	return strings.Split(slug, "/")
}

// FormatSlug derives a slug from a file path relative to the category dir.
func FormatSlug(fileName string) string {
	return strings.Trim(trimExt(filepath.ToSlash(fileName)), "/")
}

func trimExt(s string) string {
	for _, ext := range extensions {
		if strings.HasSuffix(s, ext) {
			return strings.TrimSuffix(s, ext)
		}
	}
	return s
}

func isContentFile(name string) bool {
	ext := path.Ext(name)
	return ext == ".md" || ext == ".mdx"
}

// validSlug rejects slugs that would escape the category directory.
func validSlug(slug string) bool {
	if slug == "" {
		return false
	}
	for _, seg := range strings.Split(slug, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

// Slugify converts a tag or title to a lowercase, hyphenated URL segment.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
