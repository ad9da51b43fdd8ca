package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/folio/portfolio"
	"github.com/eringen/folio/seo"
)

// Projects renders the showcase grid.
func (v *Views) Projects(meta seo.Meta, projects portfolio.Projects) templ.Component {
	return v.shell(meta, func(o *out) {
		o.raw("<h1>Projects</h1>\n")
		if len(projects) == 0 {
			o.raw("<p>No projects yet.</p>")
			return
		}
		o.raw("<div class=\"projects\">\n")
		for _, p := range projects {
			href := "/projects/" + esc(p.Slug) + "/"
			o.raw("<div class=\"project-card\">")
			if src := safeURL(p.Banner); src != "" {
				size := p.Size()
				o.rawf("<a href=\"%s\"><img src=\"%s\" alt=\"%s\" height=\"%d\" width=\"%d\" loading=\"lazy\"></a>",
					href, src, esc(p.Title), size.Height(), size.Width())
			}
			o.rawf("<h2><a href=\"%s\">%s</a></h2>", href, esc(p.Title))
			o.rawf("<p>%s</p>", esc(p.ShortDescription))
			stackBadges(o, p.Stack)
			o.raw("</div>\n")
		}
		o.raw("</div>")
	})
}

// Project renders a single project with its screenshots and sub-projects.
func (v *Views) Project(meta seo.Meta, p portfolio.Project) templ.Component {
	return v.shell(meta, func(o *out) {
		o.raw("<article class=\"project\">\n")
		o.rawf("<h1>%s</h1>\n", esc(p.Title))
		if src := safeURL(p.Banner); src != "" {
			size := p.Size()
			o.rawf("<img class=\"banner\" src=\"%s\" alt=\"%s\" height=\"%d\" width=\"%d\">\n",
				src, esc(p.Title), size.Height(), size.Width())
		}
		o.rawf("<p class=\"description\">%s</p>\n", esc(p.Description))
		stackBadges(o, p.Stack)
		links(o, p.Website, p.Repository, p.Deployment)

		if len(p.Screenshots) > 0 {
			o.raw("<div class=\"screenshots\">")
			for _, s := range p.Screenshots {
				if src := safeURL(s); src != "" {
					o.rawf("<img src=\"%s\" alt=\"%s screenshot\" loading=\"lazy\">", src, esc(p.Title))
				}
			}
			o.raw("</div>\n")
		}

		if len(p.SubProjects) > 0 {
			o.raw("<section class=\"sub-projects\">\n<h2>Components</h2>\n")
			for _, sp := range p.SubProjects {
				o.rawf("<div class=\"sub-project\"><h3>%s</h3><p>%s</p>", esc(sp.Title), esc(sp.Description))
				links(o, "", sp.Repository, sp.Deployment)
				o.raw("</div>\n")
			}
			o.raw("</section>\n")
		}
		o.raw("<p><a href=\"/projects/\">&larr; All projects</a></p>\n</article>")
	})
}

func stackBadges(o *out, stack []portfolio.Stack) {
	if len(stack) == 0 {
		return
	}
	o.raw("<ul class=\"stack\">")
	for _, s := range stack {
		o.rawf("<li class=\"badge\" style=\"border-color:%s\">%s</li>", esc(s.Color()), esc(s.String()))
	}
	o.raw("</ul>")
}

func links(o *out, website, repo string, d portfolio.Deployment) {
	items := []struct{ label, href string }{
		{"Website", website},
		{"Source", repo},
		{"Live", d.Web},
		{"Android", d.Android},
		{"iOS", d.IOS},
	}
	wrote := false
	for _, it := range items {
		href := safeURL(it.href)
		if href == "" {
			continue
		}
		if !wrote {
			o.raw("<ul class=\"project-links\">")
			wrote = true
		}
		o.rawf("<li><a href=\"%s\" rel=\"noreferrer\" target=\"_blank\">%s</a></li>", href, it.label)
	}
	if wrote {
		o.raw("</ul>")
	}
}
