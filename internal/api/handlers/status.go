package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/screenclub/cinevote/internal/models"
)

// StatusHandler reports cache and campaign state
type StatusHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *models.Database, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		db:     db,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	Cache    *models.CacheStats `json:"cache"`
	Campaign *models.Campaign   `json:"campaign,omitempty"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.Stats()
	if err != nil {
		h.logger.WithError(err).Error("Failed to collect stats")
		writeError(w, err)
		return
	}

	response := StatusResponse{Cache: stats}

	campaign, err := h.db.CurrentCampaign()
	if err == nil {
		response.Campaign = campaign
	}

	writeJSON(w, http.StatusOK, response)
}
