package main

import (
	"errors"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/content"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/format"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/handlers"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/images"
	mw "github.com/DimasAjiNarindra/mouse-recommender/internal/middleware"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/nav"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/observability"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/preferences"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/recommend"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/seo"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/theme"
)

var messagePolicy = bluemonday.StrictPolicy()

// appState collects the per-request view state.
func (s *server) appState(r *http.Request) handlers.AppState {
	sess := mw.GetSession(r)
	return handlers.AppState{
		Theme:      s.themes.Load(r),
		Lang:       mw.Lang(r),
		Langs:      s.bundle.Supported(),
		Generation: s.gens.Current(sess.ID),
		CSRFToken:  mw.CSRFToken(r),
		Path:       r.URL.Path,
		HTMX:       mw.IsHTMX(r.Context()),
		Fixtures:   s.fixtures,
	}
}

func (s *server) layout(r *http.Request, app handlers.AppState, titleKey, descKey string) handlers.Layout {
	title := s.bundle.T(app.Lang, titleKey)
	alts := make([]handlers.Alternate, 0, len(app.Langs))
	for _, l := range app.Langs {
		alts = append(alts, handlers.Alternate{Href: r.URL.Path + "?hl=" + l, Hreflang: l})
	}
	return handlers.Layout{
		App:   app,
		Title: title,
		SEO: handlers.SEOData{
			Title:       title + " | " + s.bundle.T(app.Lang, "site.name"),
			Description: s.bundle.T(app.Lang, descKey),
			Canonical:   r.URL.Path,
			Alternates:  alts,
		},
		Nav: nav.Build(r.URL.Path),
	}
}

// formView loads the select options. A failed load is reported on the form; the
// form itself still renders.
func (s *server) formView(r *http.Request) handlers.FormView {
	f := handlers.FormView{Bounds: s.cfg.Validation}
	opts, err := s.options.Load(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Warn("options unavailable",
			zap.Error(err),
			zap.String("kind", string(recommend.KindOf(err))),
		)
		f.OptionsError = true
		return f
	}
	f.Options = opts
	return f
}

// handleHome renders the landing page with the empty form.
func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	app := s.appState(r)
	data := handlers.HomeData{
		Layout: s.layout(r, app, "home.title", "home.description"),
		Form:   s.formView(r),
	}
	data.SEO.JSONLD = append(data.SEO.JSONLD, seo.JSON(seo.WebSite(s.bundle.T(app.Lang, "site.name"), "/", app.Lang)))
	s.views.page(w, r, http.StatusOK, "home", data)
}

// handleRecommendations validates the form, asks the backend and renders the cards.
// htmx requests get the recommender section back; plain posts get the full page.
func (s *server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	sess := mw.GetSession(r)
	gen := s.gens.Advance(sess.ID)
	app := s.appState(r)
	app.Generation = gen

	prefs, raw, ferrs := preferences.FromForm(r.PostForm, s.cfg.Validation)
	form := s.formView(r)
	form.Values = raw

	data := handlers.HomeData{
		Layout: s.layout(r, app, "home.title", "home.description"),
		Form:   form,
	}
	if !ferrs.Empty() {
		data.Form.Errors = s.fieldMessages(app.Lang, ferrs)
		status := http.StatusUnprocessableEntity
		if app.HTMX {
			// htmx only swaps 2xx responses
			status = http.StatusOK
		}
		s.renderRecommender(w, r, status, data)
		return
	}

	results := &handlers.ResultsView{App: app}
	logger.Debug("requesting recommendations",
		zap.Uint64("generation", gen),
		zap.Bool("unfiltered", prefs.IsEmpty()),
	)
	resp, err := s.client.Recommend(ctx, prefs)
	if !s.gens.IsCurrent(sess.ID, gen) {
		logger.Debug("dropping stale recommendations", zap.Uint64("generation", gen))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		logger.Error("recommendations failed",
			zap.Error(err),
			zap.String("kind", string(recommend.KindOf(err))),
		)
		results.Error = s.bundle.T(app.Lang, "error.recommendations")
	} else {
		results.Cards = s.cards(r, resp.Recommendations, gen, app.HTMX)
		results.Message = plainMessage(resp.Message)
		if len(results.Cards) > 0 {
			list := seo.ItemList(s.bundle.T(app.Lang, "home.heading"), handlers.ProductList(resp.Recommendations, results.Cards))
			data.SEO.JSONLD = append(data.SEO.JSONLD, seo.JSON(list))
		}
	}
	data.Results = results
	s.renderRecommender(w, r, http.StatusOK, data)
}

func (s *server) renderRecommender(w http.ResponseWriter, r *http.Request, status int, data handlers.HomeData) {
	if data.App.HTMX {
		s.views.fragment(w, r, status, "recommender", data)
		return
	}
	s.views.page(w, r, status, "home", data)
}

// cards builds the card list. htmx pages render the primary image and defer the rest
// of the chain to the fallback endpoint; full pages resolve every chain up front.
func (s *server) cards(r *http.Request, recs []recommend.Record, gen uint64, deferred bool) []handlers.Card {
	out := make([]handlers.Card, len(recs))
	if deferred {
		for i, rec := range recs {
			out[i] = handlers.BuildCard(rec, handlers.DeferredImage(s.builder, handlers.ProductOf(rec), rec.Rank, gen, imageFallback))
		}
		return out
	}
	chains := make([]images.Chain, len(recs))
	for i, rec := range recs {
		chains[i] = s.builder.Full(handlers.ProductOf(rec))
	}
	results := s.resolver.ResolveAll(r.Context(), chains, s.cfg.Images.ProbeConcurrency)
	for i, rec := range recs {
		out[i] = handlers.BuildCard(rec, handlers.ResolvedImage(results[i], rec.Name, rec.Rank))
	}
	return out
}

func (s *server) fieldMessages(lang string, ferrs preferences.FieldErrors) map[string]string {
	out := make(map[string]string, len(ferrs))
	for field, fe := range ferrs {
		key := "validation." + fe.Code
		if fe.Code == preferences.CodeNotNumber {
			out[field] = s.bundle.T(lang, key)
			continue
		}
		out[field] = s.bundle.Tf(lang, key, format.Number(int64(fe.Limit), lang))
	}
	return out
}

// plainMessage strips markup from a backend-supplied message; the template escapes the rest.
func plainMessage(msg string) string {
	return strings.TrimSpace(html.UnescapeString(messagePolicy.Sanitize(msg)))
}

// handleImageFallback is requested by htmx once the primary image of a card fails.
// It walks the remaining candidates and answers with an <img> or the placeholder.
func (s *server) handleImageFallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	gen, err := strconv.ParseUint(q.Get("gen"), 10, 64)
	if err != nil {
		http.Error(w, "bad generation", http.StatusBadRequest)
		return
	}
	sess := mw.GetSession(r)
	if !s.gens.IsCurrent(sess.ID, gen) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rank, _ := strconv.Atoi(q.Get("rank"))
	p := images.Product{
		Name:  strings.TrimSpace(q.Get("name")),
		Brand: strings.TrimSpace(q.Get("brand")),
		Image: strings.TrimSpace(q.Get("image")),
	}
	res := s.resolver.Resolve(r.Context(), s.builder.Fallback(p))
	if !s.gens.IsCurrent(sess.ID, gen) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.views.fragment(w, r, http.StatusOK, "card_image", map[string]any{
		"Lang":  mw.Lang(r),
		"Image": handlers.ResolvedImage(res, p.Name, rank),
	})
}

// handleTheme flips light/dark and sends the visitor back where they came from.
func (s *server) handleTheme(w http.ResponseWriter, r *http.Request) {
	mode := theme.Toggle(s.themes, r)
	observability.FromContext(r.Context()).Debug("theme toggled", zap.String("theme", mode.String()))
	if mw.IsHTMX(r.Context()) {
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// backTo returns the same-origin path of the Referer, or "/".
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return "/"
	}
	if ref.Host != "" && ref.Host != r.Host {
		return "/"
	}
	if ref.Path == "/recommendations" {
		return "/"
	}
	out := ref.Path
	if ref.RawQuery != "" {
		out += "?" + ref.RawQuery
	}
	return out
}

func (s *server) handleAbout(w http.ResponseWriter, r *http.Request) {
	app := s.appState(r)
	page, err := s.pages.Get(r.Context(), "about", app.Lang)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			s.renderError(w, r, http.StatusNotFound, "error.not_found")
			return
		}
		observability.FromContext(r.Context()).Error("load content page", zap.Error(err))
		s.renderError(w, r, http.StatusInternalServerError, "error.internal")
		return
	}
	data := handlers.ContentData{
		Layout: s.layout(r, app, "about.title", "about.description"),
		Page:   page,
	}
	data.Title = page.Title
	data.SEO.Title = page.Title + " | " + s.bundle.T(app.Lang, "site.name")
	if page.Description != "" {
		data.SEO.Description = page.Description
	}
	var modified string
	if !page.UpdatedAt.IsZero() {
		modified = page.UpdatedAt.Format("2006-01-02")
	}
	data.SEO.JSONLD = append(data.SEO.JSONLD, seo.JSON(seo.Article(page.Title, r.URL.Path, page.Lang, modified)))
	s.views.page(w, r, http.StatusOK, "about", data)
}

func (s *server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		s.writeAPIError(w, r, "not_found", "resource not found", http.StatusNotFound)
		return
	}
	s.renderError(w, r, http.StatusNotFound, "error.not_found")
}

func (s *server) renderError(w http.ResponseWriter, r *http.Request, status int, key string) {
	app := s.appState(r)
	data := handlers.ErrorData{
		Layout:     s.layout(r, app, key+".title", key+".message"),
		Status:     status,
		MessageKey: key + ".message",
	}
	s.views.page(w, r, status, "error", data)
}
