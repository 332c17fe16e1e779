package controllers

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/screenclub/cinevote/internal/models"
	"github.com/screenclub/cinevote/internal/utils"
)

// Number of search/discover results enriched per request. Each enrichment
// costs up to three upstream calls, so this bounds a page render's budget.
const enrichPageSize = 8

// SearchController handles catalog search and discovery
type SearchController struct {
	enrich  *EnrichController
	catalog CatalogClient
	logger  *logrus.Logger
}

// NewSearchController creates a new search controller
func NewSearchController(enrich *EnrichController, catalog CatalogClient, logger *logrus.Logger) *SearchController {
	return &SearchController{
		enrich:  enrich,
		catalog: catalog,
		logger:  logger,
	}
}

// Search queries TMDB, reorders the page by title relevance to the query and
// enriches the top results. Ids that fail enrichment are dropped.
func (c *SearchController) Search(ctx context.Context, query, userID string) ([]*models.EnhancedMovie, error) {
	page, err := c.catalog.SearchMovies(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"query": query,
		"count": len(page.Results),
	}).Debug("Search results received")

	titles := make([]string, len(page.Results))
	popularity := make([]float64, len(page.Results))
	for i, result := range page.Results {
		titles[i] = result.Title
		popularity[i] = result.Popularity
	}

	ids := make([]int64, 0, enrichPageSize)
	for _, index := range utils.RankByRelevance(query, titles, popularity) {
		ids = append(ids, page.Results[index].ID)
		if len(ids) == enrichPageSize {
			break
		}
	}

	return c.enrich.GetMovies(ctx, ids, userID, BatchOptions{IgnoreErrors: true})
}

// Discover enriches the top of the TMDB discovery page
func (c *SearchController) Discover(ctx context.Context, userID string) ([]*models.EnhancedMovie, error) {
	page, err := c.catalog.GetDiscoverMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover failed: %w", err)
	}

	ids := make([]int64, 0, enrichPageSize)
	for _, result := range page.Results {
		ids = append(ids, result.ID)
		if len(ids) == enrichPageSize {
			break
		}
	}

	return c.enrich.GetMovies(ctx, ids, userID, BatchOptions{IgnoreErrors: true})
}
