// Package content renders the static markdown pages (about) with YAML front matter.
package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no markdown file exists for the slug in any language.
var ErrNotFound = errors.New("content: not found")

// Page is a rendered content page.
type Page struct {
	Slug        string
	Lang        string
	Title       string
	Summary     string
	HTML        template.HTML
	UpdatedAt   time.Time
	Description string
}

type frontMatter struct {
	Title       string `yaml:"title"`
	Summary     string `yaml:"summary"`
	Description string `yaml:"description"`
	UpdatedAt   string `yaml:"updated_at"`
}

type cacheEntry struct {
	page    Page
	expires time.Time
}

// Store reads <dir>/<slug>.<lang>.md and caches rendered pages for ttl.
type Store struct {
	dir      string
	fallback string
	ttl      time.Duration
	now      func() time.Time
	md       goldmark.Markdown
	policy   *bluemonday.Policy

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

func NewStore(dir, fallbackLang string, ttl time.Duration) *Store {
	if strings.TrimSpace(dir) == "" {
		dir = "content"
	}
	return &Store{
		dir:      dir,
		fallback: fallbackLang,
		ttl:      ttl,
		now:      time.Now,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   newPagePolicy(),
		cache:    map[string]cacheEntry{},
	}
}

func newPagePolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span", "div")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

// Get returns the page for slug in lang, falling back to the default language.
func (s *Store) Get(ctx context.Context, slug, lang string) (Page, error) {
	slug = sanitizeSlug(slug)
	if slug == "" {
		return Page{}, ErrNotFound
	}
	lang = strings.ToLower(strings.TrimSpace(lang))
	key := slug + "|" + lang

	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()
	if ok && s.now().Before(entry.expires) {
		return entry.page, nil
	}

	priority := []string{lang}
	if s.fallback != "" && s.fallback != lang {
		priority = append(priority, s.fallback)
	}
	for _, candidate := range priority {
		if candidate == "" {
			continue
		}
		page, err := s.read(slug, candidate)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return Page{}, err
		}
		if s.ttl > 0 {
			s.mu.Lock()
			s.cache[key] = cacheEntry{page: page, expires: s.now().Add(s.ttl)}
			s.mu.Unlock()
		}
		return page, nil
	}
	return Page{}, ErrNotFound
}

func (s *Store) read(slug, lang string) (Page, error) {
	file := filepath.Join(s.dir, slug+"."+lang+".md")
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Page{}, ErrNotFound
		}
		return Page{}, err
	}
	fm, body := splitFrontMatter(string(data))
	front := frontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, fmt.Errorf("content: parse front matter %s: %w", file, err)
		}
	}
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(body), &buf); err != nil {
		return Page{}, fmt.Errorf("content: render %s: %w", file, err)
	}
	page := Page{
		Slug:        slug,
		Lang:        lang,
		Title:       strings.TrimSpace(front.Title),
		Summary:     strings.TrimSpace(front.Summary),
		Description: strings.TrimSpace(front.Description),
		HTML:        template.HTML(s.policy.SanitizeBytes(buf.Bytes())),
		UpdatedAt:   parseDate(front.UpdatedAt),
	}
	if page.UpdatedAt.IsZero() {
		if info, err := os.Stat(file); err == nil {
			page.UpdatedAt = info.ModTime()
		}
	}
	if page.Title == "" {
		page.Title = prettifySlug(slug)
	}
	return page, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func prettifySlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func sanitizeSlug(slug string) string {
	slug = strings.Trim(strings.TrimSpace(strings.ToLower(slug)), "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\.`) {
		return ""
	}
	return slug
}
