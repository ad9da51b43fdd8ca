// Package portfolio loads the project showcase and contact links from YAML
// data files.
package portfolio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultDimensions is the banner [height, width] used when a project sets none.
var DefaultDimensions = Dimensions{450, 220}

// Dimensions is an image [height, width] pair.
type Dimensions [2]int

func (d Dimensions) Height() int { return d[0] }
func (d Dimensions) Width() int  { return d[1] }

// Deployment lists where a project runs.
type Deployment struct {
	Web     string `yaml:"web"`
	Android string `yaml:"android,omitempty"`
	IOS     string `yaml:"ios,omitempty"`
}

// SubProject is a component repository of a larger project.
type SubProject struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Repository  string     `yaml:"repository,omitempty"`
	Deployment  Deployment `yaml:"deployment"`
}

// Project is one entry of the showcase.
type Project struct {
	Title            string       `yaml:"title"`
	Slug             string       `yaml:"slug"`
	Website          string       `yaml:"website"`
	Banner           string       `yaml:"banner"`
	Description      string       `yaml:"description"`
	ShortDescription string       `yaml:"shortDescription"`
	Repository       string       `yaml:"repository"`
	Stack            []Stack      `yaml:"stack"`
	Dimensions       *Dimensions  `yaml:"dimensions,omitempty"`
	Screenshots      []string     `yaml:"screenshots"`
	Deployment       Deployment   `yaml:"deployment"`
	SubProjects      []SubProject `yaml:"subProjects"`
}

// Size returns the project's dimensions or the default.
func (p Project) Size() Dimensions {
	if p.Dimensions == nil {
		return DefaultDimensions
	}
	return *p.Dimensions
}

// ErrProjectNotFound is returned by Find for an unknown slug.
var ErrProjectNotFound = errors.New("portfolio: project not found")

// Projects is the ordered project table.
type Projects []Project

// Find returns the project with slug.
func (ps Projects) Find(slug string) (Project, error) {
	for _, p := range ps {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Project{}, ErrProjectNotFound
}

// LoadProjects reads the project table from path. A missing file yields an
// empty table. Unknown stack keys, missing slugs and duplicate slugs are errors.
func LoadProjects(fsys afero.Fs, path string) (Projects, error) {
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return Projects{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("portfolio: read %s: %w", path, err)
	}
	return ParseProjects(data)
}

// ParseProjects decodes a YAML list of projects.
func ParseProjects(data []byte) (Projects, error) {
	var projects Projects
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&projects); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("portfolio: decode projects: %w", err)
	}

	seen := make(map[string]bool, len(projects))
	for i := range projects {
		p := &projects[i]
		p.Slug = strings.TrimSpace(p.Slug)
		if p.Slug == "" {
			return nil, fmt.Errorf("portfolio: project %d (%q) has no slug", i, p.Title)
		}
		if seen[p.Slug] {
			return nil, fmt.Errorf("portfolio: duplicate project slug %q", p.Slug)
		}
		seen[p.Slug] = true
	}
	return projects, nil
}

// ContactType names a contact link.
type ContactType string

const (
	ContactGitHub       ContactType = "github"
	ContactLinkedIn     ContactType = "linkedin"
	ContactTwitter      ContactType = "twitter"
	ContactYouTube      ContactType = "youtube"
	ContactEmail        ContactType = "email"
	ContactBuyMeACoffee ContactType = "buymeacoffee"
)

// ContactTypes is the display order of contact links.
var ContactTypes = []ContactType{
	ContactGitHub, ContactLinkedIn, ContactTwitter, ContactYouTube, ContactEmail, ContactBuyMeACoffee,
}

// Contact holds the owner's social handles and links.
type Contact struct {
	Twitter  string                 `yaml:"twitter"`
	Site     string                 `yaml:"site"`
	Calendly string                 `yaml:"calendly,omitempty"`
	Links    map[ContactType]string `yaml:"links"`
}

// LoadContact reads contact details from path. A missing file yields a zero Contact.
func LoadContact(fsys afero.Fs, path string) (Contact, error) {
	var c Contact
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("portfolio: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("portfolio: decode contact: %w", err)
	}
	for k := range c.Links {
		known := false
		for _, t := range ContactTypes {
			if k == t {
				known = true
				break
			}
		}
		if !known {
			return c, fmt.Errorf("portfolio: unknown contact type %q", k)
		}
	}
	return c, nil
}
