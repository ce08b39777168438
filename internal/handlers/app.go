package handlers

import (
	"html/template"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/nav"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/theme"
)

// AppState is the per-request application state handed to every view model.
// Templates read the theme, language and render generation from here.
type AppState struct {
	Theme      theme.Mode
	Lang       string
	Langs      []string
	Generation uint64
	CSRFToken  string
	Path       string
	HTMX       bool
	Fixtures   bool
}

// Dark reports whether the dark theme is active.
func (s AppState) Dark() bool { return s.Theme == theme.Dark }

// SEOData holds the head metadata of a page.
type SEOData struct {
	Title       string
	Description string
	Canonical   string
	Alternates  []Alternate
	// JSONLD holds pre-encoded structured data blocks.
	JSONLD []template.JS
}

type Alternate struct {
	Href     string
	Hreflang string
}

// Layout is embedded by every full-page view model.
type Layout struct {
	App   AppState
	Title string
	SEO   SEOData
	Nav   []nav.RenderedItem
}
