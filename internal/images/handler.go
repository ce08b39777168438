package images

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/observability"
)

const imageCacheControl = "public, max-age=86400, stale-while-revalidate=3600"

// Handler serves GET /img/{name} from store. Missing images are a plain 404; the
// candidate chain on the page decides what to show instead.
func Handler(store Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		obj, err := store.Open(r.Context(), name)
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidName):
			http.NotFound(w, r)
			return
		case err != nil:
			observability.FromContext(r.Context()).Error("images: open failed", zap.String("name", observability.SanitizeValue(name)), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
			return
		}
		defer obj.Close()

		h := w.Header()
		h.Set("Cache-Control", imageCacheControl)
		if obj.ContentType != "" {
			h.Set("Content-Type", obj.ContentType)
		}
		if obj.ETag != "" {
			h.Set("ETag", obj.ETag)
		}
		if rs, ok := obj.ReadCloser.(io.ReadSeeker); ok {
			http.ServeContent(w, r, obj.Name, obj.ModTime, rs)
			return
		}
		if obj.ETag != "" && r.Header.Get("If-None-Match") == obj.ETag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		if obj.Size > 0 {
			h.Set("Content-Length", strconv.FormatInt(obj.Size, 10))
		}
		if r.Method == http.MethodHead {
			return
		}
		_, _ = io.Copy(w, obj)
	})
}
