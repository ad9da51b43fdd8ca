package views

import (
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/eringen/folio/analytics"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/seo"
)

func adminMeta(title string) seo.Meta {
	return seo.Meta{Title: title, Robots: "noindex, nofollow"}
}

// AdminLogin renders the login form.
func (v *Views) AdminLogin(showError bool, csrf string) templ.Component {
	return v.shell(adminMeta("Admin login"), func(o *out) {
		o.raw("<section class=\"admin-login\">\n<h1>Admin</h1>\n")
		if showError {
			o.raw("<p class=\"error\">Invalid credentials.</p>\n")
		}
		o.raw("<form method=\"post\" action=\"/admin/login/\">\n")
		o.rawf("<input type=\"hidden\" name=\"_csrf\" value=\"%s\">\n", esc(csrf))
		o.raw("<label>Username <input name=\"username\" autocomplete=\"username\" required></label>\n")
		o.raw("<label>Password <input type=\"password\" name=\"password\" autocomplete=\"current-password\" required></label>\n")
		o.raw("<button type=\"submit\">Log in</button>\n</form>\n</section>")
	})
}

// AdminDashboard lists every post, drafts included, next to the local
// analytics summary. stats may be nil when local analytics is off.
func (v *Views) AdminDashboard(posts []content.FrontMatter, stats *analytics.Stats, csrf string) templ.Component {
	return v.shell(adminMeta("Dashboard"), func(o *out) {
		o.raw("<section class=\"admin\">\n<h1>Dashboard</h1>\n")
		o.raw("<form method=\"post\" action=\"/admin/logout/\">")
		o.rawf("<input type=\"hidden\" name=\"_csrf\" value=\"%s\">", esc(csrf))
		o.raw("<button type=\"submit\">Log out</button></form>\n")

		if stats != nil {
			statsSummary(o, stats)
		}

		o.rawf("<h2>Posts (%s)</h2>\n", humanize.Comma(int64(len(posts))))
		if len(posts) == 0 {
			o.raw("<p>No posts.</p>\n</section>")
			return
		}
		o.raw("<table class=\"admin-posts\">\n<thead><tr><th>Title</th><th>Date</th><th>Status</th></tr></thead>\n<tbody>\n")
		for _, p := range posts {
			status := "published"
			if p.Draft {
				status = "draft"
			}
			o.rawf("<tr class=\"%s\"><td><a href=\"%s\">%s</a></td><td title=\"%s\">%s</td><td>%s</td></tr>\n",
				status, PostURL(p.Slug), esc(p.Title), esc(FormatDate(p.Date)), esc(relTime(p.Date)), status)
		}
		o.raw("</tbody>\n</table>\n</section>")
	})
}

func statsSummary(o *out, s *analytics.Stats) {
	o.rawf("<h2>Analytics (%s)</h2>\n", esc(s.Period))
	o.raw("<dl class=\"stats\">")
	o.rawf("<dt>Unique visitors</dt><dd>%s</dd>", humanize.Comma(int64(s.UniqueVisitors)))
	o.rawf("<dt>Page views</dt><dd>%s</dd>", humanize.Comma(int64(s.TotalViews)))
	o.rawf("<dt>Avg. time on page</dt><dd>%ds</dd>", s.AvgDuration)
	o.rawf("<dt>Bot visits</dt><dd>%s</dd>", humanize.Comma(int64(s.BotVisits)))
	o.raw("</dl>\n")
	if len(s.TopPages) == 0 {
		return
	}
	o.raw("<table class=\"top-pages\">\n<thead><tr><th>Page</th><th>Views</th></tr></thead>\n<tbody>\n")
	for _, p := range s.TopPages {
		label := p.Title
		if label == "" {
			label = p.Path
		}
		o.rawf("<tr><td>%s</td><td>%s</td></tr>\n", esc(label), humanize.Comma(int64(p.Views)))
	}
	o.raw("</tbody>\n</table>\n")
	o.raw("<div id=\"analytics-charts\" data-src=\"/admin/analytics/api/stats\"></div>\n")
}

func relTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}
