package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/screenclub/cinevote/internal/controllers"
	"github.com/screenclub/cinevote/internal/models"
	"github.com/screenclub/cinevote/internal/services/tmdb"
)

// viewerID extracts the authenticated viewer from the request. Session
// handling lives in front of this service; it forwards the identity here.
func viewerID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the error taxonomy onto HTTP status codes
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, tmdb.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, tmdb.ErrTooManyRequests):
		status = http.StatusTooManyRequests
	case errors.Is(err, tmdb.ErrUpstream):
		status = http.StatusBadGateway
	case errors.Is(err, models.ErrNoCampaign):
		status = http.StatusNotFound
	case errors.Is(err, controllers.ErrProposalLimit),
		errors.Is(err, controllers.ErrAlreadyProposed),
		errors.Is(err, controllers.ErrVoteLimit),
		errors.Is(err, controllers.ErrAlreadyVoted),
		errors.Is(err, controllers.ErrNotProposed):
		status = http.StatusConflict
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}
