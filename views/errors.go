package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/folio/seo"
)

// NotFound is rendered for unknown routes, slugs and tags.
func (v *Views) NotFound() templ.Component {
	meta := seo.Meta{Title: "Page not found", Robots: "noindex"}
	return v.shell(meta, func(o *out) {
		o.raw("<section class=\"error-page\">\n<h1>404</h1>\n")
		o.raw("<p>Sorry, we couldn't find this page.</p>\n")
		o.raw("<p><a href=\"/\">Back to homepage</a></p>\n</section>")
	})
}

// ServerError is rendered when a handler fails.
func (v *Views) ServerError() templ.Component {
	meta := seo.Meta{Title: "Something went wrong", Robots: "noindex"}
	return v.shell(meta, func(o *out) {
		o.raw("<section class=\"error-page\">\n<h1>500</h1>\n")
		o.raw("<p>Something went wrong on our end. Please try again later.</p>\n")
		o.raw("<p><a href=\"/\">Back to homepage</a></p>\n</section>")
	})
}
