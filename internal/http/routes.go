package httpapp

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/purplemusic/catalog/internal/store"
)

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		h.badRequest(w, "q is required")
		return
	}
	h.writeJSON(w, http.StatusOK, h.Catalog.Search(r.Context(), query))
}

func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		h.badRequest(w, "q is required")
		return
	}
	h.writeJSON(w, http.StatusOK, h.Catalog.Suggest(r.Context(), query))
}

func (h *Handler) BrowsePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := h.browseID(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.Catalog.BrowsePlaylist(r.Context(), id))
}

func (h *Handler) BrowseAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := h.browseID(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.Catalog.BrowseAlbum(r.Context(), id))
}

func (h *Handler) BrowseArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := h.browseID(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.Catalog.BrowseArtist(r.Context(), id))
}

func (h *Handler) browseID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		h.badRequest(w, "id is required")
		return "", false
	}
	return id, true
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "store unavailable"})
		return
	}
	stats, err := h.DB.CatalogStats(r.Context())
	if err != nil {
		h.Logger.Error("Failed to get catalog stats", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read stats"})
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) ArtistStats(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "store unavailable"})
		return
	}
	key := strings.TrimSpace(chi.URLParam(r, "key"))
	stats, err := h.DB.ArtistStats(r.Context(), key)
	if errors.Is(err, store.ErrNotFound) {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "artist not found"})
		return
	}
	if err != nil {
		h.Logger.Error("Failed to get artist stats", "artist_key", key, "error", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read stats"})
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}
