// Package seo builds schema.org payloads for <script type="application/ld+json"> blocks.
package seo

import (
	"encoding/json"
	"html/template"
)

// JSON marshals v for embedding in a JSON-LD script. json.Marshal escapes <, > and &,
// so the payload cannot close the script element. It returns "" on error.
func JSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(b)
}

// WebSite returns a minimal WebSite schema.
func WebSite(name, url, lang string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if lang != "" {
		m["inLanguage"] = lang
	}
	return m
}

// ProductItem is one ranked product of an ItemList.
type ProductItem struct {
	Name  string
	Brand string
	URL   string
	Image string
	// Price is the raw IDR amount; empty when the backend did not send one.
	Price string
}

// ItemList wraps ranked products. Positions follow slice order starting at 1.
func ItemList(name string, items []ProductItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"item":     product(it),
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "ItemList",
		"name":            name,
		"numberOfItems":   len(items),
		"itemListElement": el,
	}
}

func product(it ProductItem) map[string]any {
	m := map[string]any{
		"@type": "Product",
		"name":  it.Name,
	}
	if it.Brand != "" {
		m["brand"] = map[string]any{"@type": "Brand", "name": it.Brand}
	}
	if it.URL != "" {
		m["url"] = it.URL
	}
	if it.Image != "" {
		m["image"] = it.Image
	}
	if it.Price != "" {
		m["offers"] = map[string]any{
			"@type":         "Offer",
			"price":         it.Price,
			"priceCurrency": "IDR",
		}
	}
	return m
}

// Article returns a minimal Article schema payload.
func Article(headline, url, lang, dateModified string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Article",
		"headline": headline,
	}
	if url != "" {
		m["url"] = url
	}
	if lang != "" {
		m["inLanguage"] = lang
	}
	if dateModified != "" {
		m["dateModified"] = dateModified
	}
	return m
}
