// Package httpapp exposes the catalog read endpoints as JSON over chi.
package httpapp

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/purplemusic/catalog/internal/domain"
	"github.com/purplemusic/catalog/internal/logger"
)

// Catalog is the application surface served over HTTP.
type Catalog interface {
	Search(ctx context.Context, query string) domain.SearchResponse
	Suggest(ctx context.Context, query string) domain.SuggestResponse
	BrowsePlaylist(ctx context.Context, id string) domain.BrowseResponse
	BrowseAlbum(ctx context.Context, id string) domain.BrowseResponse
	BrowseArtist(ctx context.Context, channelID string) domain.BrowseResponse
}

// Store is the database surface behind health and stats.
type Store interface {
	PingContext(ctx context.Context) error
	CatalogStats(ctx context.Context) (domain.CatalogStats, error)
	ArtistStats(ctx context.Context, key string) (domain.ArtistStats, error)
}

type Handler struct {
	Catalog Catalog
	DB      Store
	Logger  *logger.Logger
}

func NewHandler(c Catalog, db Store, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		Catalog: c,
		DB:      db,
		Logger:  log.WithComponent("http"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Get("/suggest", h.Suggest)
		r.Get("/browse/playlist/{id}", h.BrowsePlaylist)
		r.Get("/browse/album/{id}", h.BrowseAlbum)
		r.Get("/browse/artist/{id}", h.BrowseArtist)
		r.Get("/stats", h.Stats)
		r.Get("/stats/artists/{key}", h.ArtistStats)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			h.Logger.Warn("Health check failed", "error", err)
			h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
