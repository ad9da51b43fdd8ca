package analytics

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Provider is one analytics integration the layout can mount in <head>.
type Provider interface {
	Name() string
	Enabled() bool
	Mount() templ.Component
}

// Providers returns every known provider configured from cfg, enabled or not.
func Providers(cfg Config) []Provider {
	return []Provider{
		Plausible{DataDomain: cfg.PlausibleDataDomain, Production: cfg.Production},
		SimpleAnalytics{On: cfg.SimpleAnalytics},
		Umami{WebsiteID: cfg.UmamiWebsiteID, ScriptURL: cfg.UmamiScriptURL, Production: cfg.Production},
		GoogleAnalytics{MeasurementID: cfg.GoogleAnalyticsID},
		Rybbit{SiteID: cfg.RybbitSiteID},
		Local{On: cfg.Local},
	}
}

// Enabled filters providers down to the ones that should be mounted.
func Enabled(providers []Provider) []Provider {
	var out []Provider
	for _, p := range providers {
		if p.Enabled() {
			out = append(out, p)
		}
	}
	return out
}

// MountAll renders each provider in order.
func MountAll(providers []Provider) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, p := range providers {
			if err := p.Mount().Render(ctx, w); err != nil {
				return fmt.Errorf("analytics: mount %s: %w", p.Name(), err)
			}
		}
		return nil
	})
}

// Plausible loads only in production.
type Plausible struct {
	DataDomain string
	Production bool
}

func (p Plausible) Name() string  { return "plausible" }
func (p Plausible) Enabled() bool { return p.Production && p.DataDomain != "" }
func (p Plausible) Mount() templ.Component {
	return templ.Raw(fmt.Sprintf(
		`<script defer data-domain="%s" src="https://plausible.io/js/plausible.js"></script>`+
			`<script>window.plausible = window.plausible || function() { (window.plausible.q = window.plausible.q || []).push(arguments) }</script>`,
		templ.EscapeString(p.DataDomain)))
}

type SimpleAnalytics struct {
	On bool
}

func (s SimpleAnalytics) Name() string  { return "simpleanalytics" }
func (s SimpleAnalytics) Enabled() bool { return s.On }
func (s SimpleAnalytics) Mount() templ.Component {
	return templ.Raw(`<script async defer src="https://scripts.simpleanalyticscdn.com/latest.js"></script>` +
		`<noscript><img src="https://queue.simpleanalyticscdn.com/noscript.gif" alt=""></noscript>`)
}

// Umami loads only in production.
type Umami struct {
	WebsiteID  string
	ScriptURL  string
	Production bool
}

func (u Umami) Name() string  { return "umami" }
func (u Umami) Enabled() bool { return u.Production && u.WebsiteID != "" }
func (u Umami) Mount() templ.Component {
	return templ.Raw(fmt.Sprintf(`<script async defer data-website-id="%s" src="%s"></script>`,
		templ.EscapeString(u.WebsiteID), templ.EscapeString(u.ScriptURL)))
}

type GoogleAnalytics struct {
	MeasurementID string
}

func (g GoogleAnalytics) Name() string  { return "google" }
func (g GoogleAnalytics) Enabled() bool { return g.MeasurementID != "" }
func (g GoogleAnalytics) Mount() templ.Component {
	id := templ.EscapeString(g.MeasurementID)
	return templ.Raw(fmt.Sprintf(
		`<script async src="https://www.googletagmanager.com/gtag/js?id=%[1]s"></script>`+
			`<script>window.dataLayer = window.dataLayer || []; function gtag(){dataLayer.push(arguments);} gtag('js', new Date()); gtag('config', '%[1]s', { page_path: window.location.pathname });</script>`,
		id))
}

type Rybbit struct {
	SiteID string
}

func (r Rybbit) Name() string  { return "rybbit" }
func (r Rybbit) Enabled() bool { return r.SiteID != "" }
func (r Rybbit) Mount() templ.Component {
	return templ.Raw(fmt.Sprintf(`<script src="https://app.rybbit.io/api/script.js" data-site-id="%s" defer></script>`,
		templ.EscapeString(r.SiteID)))
}

// Local mounts the built-in collector script.
type Local struct {
	On bool
}

func (l Local) Name() string  { return "local" }
func (l Local) Enabled() bool { return l.On }
func (l Local) Mount() templ.Component {
	return templ.Raw(`<script defer src="/public/collect.js"></script>`)
}
