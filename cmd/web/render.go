package main

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/format"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/i18n"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/observability"
)

// templateSet is a parsed view tree: shared layouts/partials plus one clone per page.
type templateSet struct {
	shared *template.Template
	pages  map[string]*template.Template
}

// views parses templates once, or on every render when dev is set.
type views struct {
	dir    string
	dev    bool
	bundle *i18n.Bundle
	cache  *templateSet
}

func newViews(dir string, dev bool, bundle *i18n.Bundle) (*views, error) {
	v := &views{dir: dir, dev: dev, bundle: bundle}
	set, err := v.parse()
	if err != nil {
		return nil, err
	}
	v.cache = set
	return v, nil
}

func (v *views) funcMap() template.FuncMap {
	return template.FuncMap{
		"t":  v.bundle.T,
		"tf": v.bundle.Tf,
		"num": func(n int, lang string) string {
			return format.Number(int64(n), lang)
		},
		"dict": func(kv ...any) (map[string]any, error) {
			if len(kv)%2 != 0 {
				return nil, errors.New("dict: odd number of arguments")
			}
			m := make(map[string]any, len(kv)/2)
			for i := 0; i < len(kv); i += 2 {
				k, ok := kv[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
				}
				m[k] = kv[i+1]
			}
			return m, nil
		},
	}
}

// parse reads layouts/ and partials/ into a shared set, then clones it once per file in pages/.
// ParseGlob doesn't support **, so the tree is walked.
func (v *views) parse() (*templateSet, error) {
	var shared, pages []string
	err := filepath.WalkDir(v.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".tmpl") {
			return nil
		}
		if filepath.Base(filepath.Dir(path)) == "pages" {
			pages = append(pages, path)
		} else {
			shared = append(shared, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(shared) == 0 || len(pages) == 0 {
		return nil, fmt.Errorf("no templates found under %s", v.dir)
	}
	base, err := template.New("_root").Funcs(v.funcMap()).ParseFiles(shared...)
	if err != nil {
		return nil, err
	}
	set := &templateSet{shared: base, pages: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFiles(p); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		set.pages[strings.TrimSuffix(filepath.Base(p), ".tmpl")] = clone
	}
	return set, nil
}

func (v *views) current() (*templateSet, error) {
	if v.dev {
		return v.parse()
	}
	if v.cache == nil {
		return nil, errors.New("templates not initialized")
	}
	return v.cache, nil
}

// page renders the base layout with the named page's content block.
func (v *views) page(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	set, err := v.current()
	if err != nil {
		v.fail(w, r, err)
		return
	}
	t, ok := set.pages[name]
	if !ok {
		v.fail(w, r, fmt.Errorf("unknown page %q", name))
		return
	}
	v.execute(w, r, status, t, "base", data)
}

// fragment renders a single named template, used for htmx swaps.
func (v *views) fragment(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	set, err := v.current()
	if err != nil {
		v.fail(w, r, err)
		return
	}
	v.execute(w, r, status, set.shared, name, data)
}

func (v *views) execute(w http.ResponseWriter, r *http.Request, status int, t *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		v.fail(w, r, fmt.Errorf("execute %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (v *views) fail(w http.ResponseWriter, r *http.Request, err error) {
	observability.FromContext(r.Context()).Error("template render failed", zap.Error(err))
	http.Error(w, "template error", http.StatusInternalServerError)
}
