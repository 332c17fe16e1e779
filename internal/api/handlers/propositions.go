package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/screenclub/cinevote/internal/controllers"
)

// PropositionHandler handles proposition requests
type PropositionHandler struct {
	proposeCtrl *controllers.PropositionController
	logger      *logrus.Logger
}

// NewPropositionHandler creates a new proposition handler
func NewPropositionHandler(proposeCtrl *controllers.PropositionController, logger *logrus.Logger) *PropositionHandler {
	return &PropositionHandler{
		proposeCtrl: proposeCtrl,
		logger:      logger,
	}
}

type proposeRequest struct {
	TMDBID int64 `json:"tmdb_id"`
}

// List handles GET /api/propositions
func (h *PropositionHandler) List(w http.ResponseWriter, r *http.Request) {
	movies, err := h.proposeCtrl.Active(r.Context(), viewerID(r))
	if err != nil {
		h.logger.WithError(err).Error("Failed to list propositions")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, movies)
}

// Create handles POST /api/propositions
func (h *PropositionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := viewerID(r)
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing user identity"})
		return
	}

	var req proposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TMDBID == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.proposeCtrl.Propose(r.Context(), req.TMDBID, userID); err != nil {
		h.logger.WithError(err).WithField("tmdb_id", req.TMDBID).Warn("Proposition rejected")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

// Delete handles DELETE /api/propositions/{id}
func (h *PropositionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := viewerID(r)
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing user identity"})
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid movie id"})
		return
	}

	if err := h.proposeCtrl.Remove(r.Context(), id, userID); err != nil {
		h.logger.WithError(err).WithField("tmdb_id", id).Error("Failed to remove proposition")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
