package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/screenclub/cinevote/internal/models"
)

// CampaignHandler serves the current screening campaign
type CampaignHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(db *models.Database, logger *logrus.Logger) *CampaignHandler {
	return &CampaignHandler{
		db:     db,
		logger: logger,
	}
}

// Current handles GET /api/campaign
func (h *CampaignHandler) Current(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.db.CurrentCampaign()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}
