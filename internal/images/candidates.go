// Package images derives product image candidates, probes them in order and serves
// the image directory.
package images

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	reInvalidSlugChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	reWhitespace       = regexp.MustCompile(`\s+`)
	reHyphens          = regexp.MustCompile(`-+`)
)

// Slug lowercases name, drops characters outside [a-z0-9\s-], turns whitespace runs into
// single hyphens, collapses repeated hyphens and trims hyphens at both ends.
func Slug(name string) string {
	s := strings.ToLower(name)
	s = reInvalidSlugChars.ReplaceAllString(s, "")
	s = reWhitespace.ReplaceAllString(s, "-")
	s = reHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Product is what the candidate derivation needs from a recommendation.
type Product struct {
	Name  string
	Brand string
	// Image is an explicit filename override sent by the backend.
	Image string
}

// Candidate is one image location to try.
type Candidate struct {
	// Filename is the object name inside the image store.
	Filename string
	// URL is the page-relative URL rendered into <img src>.
	URL string
}

func (c Candidate) IsZero() bool { return c.Filename == "" }

// Chain is an ordered candidate list without duplicates. The last element is the placeholder.
type Chain []Candidate

// URLs lists the candidate URLs in order.
func (ch Chain) URLs() []string {
	out := make([]string, len(ch))
	for i, c := range ch {
		out[i] = c.URL
	}
	return out
}

// Builder turns products into candidate chains.
type Builder struct {
	// URLBase prefixes every candidate URL, "img/" by default.
	URLBase     string
	Extension   string
	Placeholder string
}

func NewBuilder(urlBase, ext, placeholder string) Builder {
	if urlBase == "" {
		urlBase = "img/"
	}
	if !strings.HasSuffix(urlBase, "/") {
		urlBase += "/"
	}
	if ext == "" {
		ext = ".jpeg"
	}
	if placeholder == "" {
		placeholder = "default-mouse.png"
	}
	return Builder{URLBase: urlBase, Extension: ext, Placeholder: placeholder}
}

func (b Builder) candidate(filename string) Candidate {
	return Candidate{Filename: filename, URL: b.URLBase + url.PathEscape(filename)}
}

// PlaceholderCandidate is the default image that ends every chain.
func (b Builder) PlaceholderCandidate() Candidate { return b.candidate(b.Placeholder) }

// Primary is the optimistic first image: the explicit filename when present, otherwise
// the slug of the name. It is zero when the product has neither.
func (b Builder) Primary(p Product) Candidate {
	if img := strings.TrimSpace(p.Image); img != "" {
		return b.candidate(img)
	}
	if slug := Slug(p.Name); slug != "" {
		return b.candidate(slug + b.Extension)
	}
	return Candidate{}
}

// Fallback is the chain tried after the primary failed to load: brand+name hyphenated,
// brand followed by the concatenated name, name hyphenated, name concatenated, placeholder.
// Variants that repeat the primary or an earlier entry are skipped. A product without a
// primary was rendered with the placeholder, so its fallback chain is empty.
func (b Builder) Fallback(p Product) Chain {
	seen := map[string]struct{}{}
	if primary := b.Primary(p); !primary.IsZero() {
		seen[primary.Filename] = struct{}{}
	} else {
		seen[b.Placeholder] = struct{}{}
	}
	return b.chain(seen, b.variants(p))
}

// Full is the primary followed by the fallback chain.
func (b Builder) Full(p Product) Chain {
	var names []string
	if primary := b.Primary(p); !primary.IsZero() {
		names = append(names, primary.Filename)
	}
	return b.chain(map[string]struct{}{}, append(names, b.variants(p)...))
}

func (b Builder) variants(p Product) []string {
	name := strings.ToLower(strings.TrimSpace(p.Name))
	brand := strings.ToLower(strings.TrimSpace(p.Brand))
	var out []string
	if name != "" && brand != "" {
		out = append(out,
			hyphenate(brand+" "+name)+b.Extension,
			hyphenate(brand)+"-"+squash(name)+b.Extension,
		)
	}
	if name != "" {
		out = append(out,
			hyphenate(name)+b.Extension,
			squash(name)+b.Extension,
		)
	}
	return out
}

func (b Builder) chain(seen map[string]struct{}, filenames []string) Chain {
	out := make(Chain, 0, len(filenames)+1)
	for _, f := range append(filenames, b.Placeholder) {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, b.candidate(f))
	}
	return out
}

func hyphenate(s string) string { return reWhitespace.ReplaceAllString(s, "-") }
func squash(s string) string    { return reWhitespace.ReplaceAllString(s, "") }
