package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/screenclub/cinevote/internal/api/handlers"
	"github.com/screenclub/cinevote/internal/api/middleware"
	"github.com/screenclub/cinevote/internal/config"
	"github.com/screenclub/cinevote/internal/controllers"
	"github.com/screenclub/cinevote/internal/models"
)

// Server represents the HTTP server
type Server struct {
	server      *http.Server
	db          *models.Database
	enrichCtrl  *controllers.EnrichController
	searchCtrl  *controllers.SearchController
	proposeCtrl *controllers.PropositionController
	voteCtrl    *controllers.VoteController
	logger      *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	db *models.Database,
	enrichCtrl *controllers.EnrichController,
	searchCtrl *controllers.SearchController,
	proposeCtrl *controllers.PropositionController,
	voteCtrl *controllers.VoteController,
	logger *logrus.Logger,
) *Server {
	s := &Server{
		db:          db,
		enrichCtrl:  enrichCtrl,
		searchCtrl:  searchCtrl,
		proposeCtrl: proposeCtrl,
		voteCtrl:    voteCtrl,
		logger:      logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// Operational endpoints
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.Handle("GET /health", healthHandler)

	statusHandler := handlers.NewStatusHandler(s.db, s.logger)
	mux.Handle("GET /status", statusHandler)

	mux.Handle("GET /metrics", promhttp.Handler())

	// Movies
	movieHandler := handlers.NewMovieHandler(s.enrichCtrl, s.searchCtrl, s.logger)
	mux.HandleFunc("GET /api/movies/{id}", movieHandler.GetMovie)
	mux.HandleFunc("GET /api/search", movieHandler.Search)
	mux.HandleFunc("GET /api/discover", movieHandler.Discover)

	// Campaign
	campaignHandler := handlers.NewCampaignHandler(s.db, s.logger)
	mux.HandleFunc("GET /api/campaign", campaignHandler.Current)

	// Propositions
	propositionHandler := handlers.NewPropositionHandler(s.proposeCtrl, s.logger)
	mux.HandleFunc("GET /api/propositions", propositionHandler.List)
	mux.HandleFunc("POST /api/propositions", propositionHandler.Create)
	mux.HandleFunc("DELETE /api/propositions/{id}", propositionHandler.Delete)

	// Votes
	voteHandler := handlers.NewVoteHandler(s.voteCtrl, s.logger)
	mux.HandleFunc("POST /api/votes", voteHandler.Create)
	mux.HandleFunc("DELETE /api/votes/{id}", voteHandler.Delete)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
