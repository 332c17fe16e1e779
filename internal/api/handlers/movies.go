package handlers

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/screenclub/cinevote/internal/controllers"
)

// MovieHandler serves enhanced movies, search and discovery
type MovieHandler struct {
	enrichCtrl *controllers.EnrichController
	searchCtrl *controllers.SearchController
	logger     *logrus.Logger
}

// NewMovieHandler creates a new movie handler
func NewMovieHandler(enrichCtrl *controllers.EnrichController, searchCtrl *controllers.SearchController, logger *logrus.Logger) *MovieHandler {
	return &MovieHandler{
		enrichCtrl: enrichCtrl,
		searchCtrl: searchCtrl,
		logger:     logger,
	}
}

// GetMovie handles GET /api/movies/{id}
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid movie id"})
		return
	}

	movie, err := h.enrichCtrl.GetMovie(r.Context(), id, viewerID(r))
	if err != nil {
		h.logger.WithError(err).WithField("tmdb_id", id).Error("Failed to get movie")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

// Search handles GET /api/search?q=
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing query parameter q"})
		return
	}

	movies, err := h.searchCtrl.Search(r.Context(), query, viewerID(r))
	if err != nil {
		h.logger.WithError(err).WithField("query", query).Error("Search failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, movies)
}

// Discover handles GET /api/discover
func (h *MovieHandler) Discover(w http.ResponseWriter, r *http.Request) {
	movies, err := h.searchCtrl.Discover(r.Context(), viewerID(r))
	if err != nil {
		h.logger.WithError(err).Error("Discover failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, movies)
}
