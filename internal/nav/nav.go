package nav

import "strings"

// Item represents a top-level navigation item.
type Item struct {
	Path     string // e.g. "/about"
	LabelKey string // i18n key, e.g. "nav.about"
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	Active   bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Path: "/", LabelKey: "nav.home"},
	{Path: "/about", LabelKey: "nav.about"},
}

// Build renders navigation items with active state given the current path.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:     it.Path,
			LabelKey: it.LabelKey,
			Active:   isActive(it.Path, currentPath),
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/" || strings.HasPrefix(currentPath, "/recommendations")
	}
	// match exact or prefix boundary: "/about" or "/about/..."
	if currentPath == itemPath {
		return true
	}
	return strings.HasPrefix(currentPath, strings.TrimRight(itemPath, "/")+"/")
}
