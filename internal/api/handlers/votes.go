package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/screenclub/cinevote/internal/controllers"
)

// VoteHandler handles vote requests
type VoteHandler struct {
	voteCtrl *controllers.VoteController
	logger   *logrus.Logger
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(voteCtrl *controllers.VoteController, logger *logrus.Logger) *VoteHandler {
	return &VoteHandler{
		voteCtrl: voteCtrl,
		logger:   logger,
	}
}

type voteRequest struct {
	TMDBID int64 `json:"tmdb_id"`
}

// Create handles POST /api/votes
func (h *VoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := viewerID(r)
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing user identity"})
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TMDBID == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.voteCtrl.Vote(r.Context(), req.TMDBID, userID); err != nil {
		h.logger.WithError(err).WithField("tmdb_id", req.TMDBID).Warn("Vote rejected")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

// Delete handles DELETE /api/votes/{id}
func (h *VoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.voteCtrl.Unvote(r.Context(), id, userID); err != nil {
		h.logger.WithError(err).WithField("tmdb_id", id).Error("Failed to remove vote")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
