package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// SearchMovies searches for movies matching the query. Rate limited per query
// string, adult results excluded.
func (c *Client) SearchMovies(ctx context.Context, query string) (*ResultPage, error) {
	if err := c.consume("search", query); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var page ResultPage
	if err := c.doRequest(ctx, "search", "/search/movie", params, &page); err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	if page.Page == 0 {
		return nil, fmt.Errorf("search response missing page field: %w", ErrUpstream)
	}

	return &page, nil
}

// GetMovieDetails fetches detailed information for one movie. Rate limited
// per movie id.
func (c *Client) GetMovieDetails(ctx context.Context, id int64) (*MovieDetails, error) {
	if err := c.consume("details", strconv.FormatInt(id, 10)); err != nil {
		return nil, err
	}

	var details MovieDetails
	if err := c.doRequest(ctx, "details", fmt.Sprintf("/movie/%d", id), nil, &details); err != nil {
		return nil, fmt.Errorf("failed to get movie %d details: %w", id, err)
	}
	if details.ID == 0 {
		return nil, fmt.Errorf("details response missing movie id: %w", ErrUpstream)
	}

	return &details, nil
}

// GetMovieCredits fetches the cast and crew for one movie
func (c *Client) GetMovieCredits(ctx context.Context, id int64) (*Credits, error) {
	if err := c.consume("credits", strconv.FormatInt(id, 10)); err != nil {
		return nil, err
	}

	var credits Credits
	if err := c.doRequest(ctx, "credits", fmt.Sprintf("/movie/%d/credits", id), nil, &credits); err != nil {
		return nil, fmt.Errorf("failed to get movie %d credits: %w", id, err)
	}

	return &credits, nil
}

// GetMovieRecommendations fetches movies recommended alongside one movie
func (c *Client) GetMovieRecommendations(ctx context.Context, id int64) (*ResultPage, error) {
	if err := c.consume("recommendations", strconv.FormatInt(id, 10)); err != nil {
		return nil, err
	}

	var page ResultPage
	if err := c.doRequest(ctx, "recommendations", fmt.Sprintf("/movie/%d/recommendations", id), nil, &page); err != nil {
		return nil, fmt.Errorf("failed to get movie %d recommendations: %w", id, err)
	}

	return &page, nil
}

// GetDiscoverMovies fetches the default discovery page. All discovery calls
// share one rate-limiter key.
func (c *Client) GetDiscoverMovies(ctx context.Context) (*ResultPage, error) {
	if err := c.consume("discover", "discover"); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("include_adult", "false")

	var page ResultPage
	if err := c.doRequest(ctx, "discover", "/discover/movie", params, &page); err != nil {
		return nil, fmt.Errorf("failed to get discover movies: %w", err)
	}
	if page.Page == 0 {
		return nil, fmt.Errorf("discover response missing page field: %w", ErrUpstream)
	}

	return &page, nil
}
