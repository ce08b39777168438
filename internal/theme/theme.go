// Package theme holds the light/dark display mode and where it is kept between requests.
package theme

import (
	"net/http"
	"strings"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/middleware"
)

type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Parse accepts "light" or "dark" in any case.
func Parse(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	default:
		return "", false
	}
}

// Toggle flips between light and dark.
func (m Mode) Toggle() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

func (m Mode) String() string { return string(m) }

// Store loads and saves the mode for the current visitor.
type Store interface {
	Load(r *http.Request) Mode
	Save(r *http.Request, m Mode)
}

// SessionStore keeps the mode inside the signed session cookie.
type SessionStore struct {
	Default Mode
}

func NewSessionStore(def string) *SessionStore {
	m, ok := Parse(def)
	if !ok {
		m = Light
	}
	return &SessionStore{Default: m}
}

func (s *SessionStore) Load(r *http.Request) Mode {
	if m, ok := Parse(middleware.GetSession(r).Theme); ok {
		return m
	}
	return s.Default
}

func (s *SessionStore) Save(r *http.Request, m Mode) {
	sess := middleware.GetSession(r)
	if sess.Theme == string(m) {
		return
	}
	sess.Theme = string(m)
	sess.MarkDirty()
}

// Toggle flips the stored mode and returns the new one.
func Toggle(st Store, r *http.Request) Mode {
	next := st.Load(r).Toggle()
	st.Save(r, next)
	return next
}
