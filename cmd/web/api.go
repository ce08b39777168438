package main

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/httpx"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/observability"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/preferences"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/recommend"
)

type healthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Backend     string `json:"backend"`
	ImageStore  string `json:"image_store"`
	ProbeMode   string `json:"probe_mode"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	backend := "remote"
	if s.fixtures {
		backend = "fixtures"
	}
	httpx.WriteJSON(w, http.StatusOK, healthResponse{
		Status:      "healthy",
		Environment: s.cfg.Environment,
		Backend:     backend,
		ImageStore:  s.store.Kind(),
		ProbeMode:   s.cfg.Images.ProbeMode,
	})
}

// handleAPIOptions proxies the selectable values through the options cache.
func (s *server) handleAPIOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options.Load(r.Context())
	if err != nil {
		s.writeBackendError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, opts)
}

// handleAPIRecommendations validates a JSON preferences body and relays it to the backend.
func (s *server) handleAPIRecommendations(w http.ResponseWriter, r *http.Request) {
	var prefs preferences.Preferences
	if err := httpx.DecodeJSON(r, &prefs); err != nil {
		if errors.Is(err, httpx.ErrBodyTooLarge) {
			s.writeAPIError(w, r, "body_too_large", "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		s.writeAPIError(w, r, "invalid_json", "request body must be a JSON object", http.StatusBadRequest)
		return
	}
	prefs.Normalize()
	if ferrs := prefs.Validate(s.cfg.Validation); !ferrs.Empty() {
		details := make(map[string]any, len(ferrs))
		for field, fe := range ferrs {
			details[field] = fe
		}
		httpx.WriteError(r.Context(), w,
			httpx.NewError("invalid_preferences", "one or more preferences are out of range", http.StatusBadRequest).
				WithDetails(details))
		return
	}
	resp, err := s.client.Recommend(r.Context(), prefs)
	if err != nil {
		s.writeBackendError(w, r, err)
		return
	}
	if resp.Recommendations == nil {
		resp.Recommendations = []recommend.Record{}
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// writeBackendError maps a recommend.Error onto the JSON envelope. Backend 4xx answers
// keep their status; everything else becomes 502.
func (s *server) writeBackendError(w http.ResponseWriter, r *http.Request, err error) {
	observability.FromContext(r.Context()).Error("backend call failed",
		zap.Error(err),
		zap.String("kind", string(recommend.KindOf(err))),
	)
	var be *recommend.Error
	if errors.As(err, &be) {
		switch {
		case be.Kind == recommend.KindStatus && be.Status >= 400 && be.Status < 500:
			s.writeAPIError(w, r, "backend_rejected", "the recommendation service rejected the request", be.Status)
			return
		case be.Kind == recommend.KindMalformed:
			s.writeAPIError(w, r, "backend_malformed", "the recommendation service sent an unreadable response", http.StatusBadGateway)
			return
		}
	}
	s.writeAPIError(w, r, "backend_unavailable", "the recommendation service is unavailable", http.StatusBadGateway)
}

func (s *server) writeAPIError(w http.ResponseWriter, r *http.Request, code, msg string, status int) {
	httpx.WriteError(r.Context(), w, httpx.NewError(code, msg, status))
}
