package controllers

import (
	"time"

	"github.com/screenclub/cinevote/internal/models"
	"github.com/screenclub/cinevote/internal/services/tmdb"
)

func movieFromDetails(details *tmdb.MovieDetails, now time.Time) *models.Movie {
	return &models.Movie{
		TMDBID:           details.ID,
		Title:            details.Title,
		OriginalTitle:    details.OriginalTitle,
		Overview:         details.Overview,
		Tagline:          details.Tagline,
		PosterPath:       details.PosterPath,
		BackdropPath:     details.BackdropPath,
		ReleaseDate:      details.ReleaseDate,
		Runtime:          details.Runtime,
		OriginalLanguage: details.OriginalLanguage,
		Popularity:       details.Popularity,
		VoteAverage:      details.VoteAverage,
		VoteCount:        details.VoteCount,
		Adult:            details.Adult,
		Video:            details.Video,
		CachedAt:         now,
		LastUpdated:      now,
	}
}

func moviesFromResults(results []tmdb.MovieResult, now time.Time) []models.Movie {
	movies := make([]models.Movie, 0, len(results))
	for _, r := range results {
		movies = append(movies, models.Movie{
			TMDBID:           r.ID,
			Title:            r.Title,
			OriginalTitle:    r.OriginalTitle,
			Overview:         r.Overview,
			PosterPath:       r.PosterPath,
			BackdropPath:     r.BackdropPath,
			ReleaseDate:      r.ReleaseDate,
			OriginalLanguage: r.OriginalLanguage,
			Popularity:       r.Popularity,
			VoteAverage:      r.VoteAverage,
			VoteCount:        r.VoteCount,
			Adult:            r.Adult,
			Video:            r.Video,
			CachedAt:         now,
			LastUpdated:      now,
		})
	}
	return movies
}

func genresFromTMDB(genres []tmdb.Genre) []models.Genre {
	converted := make([]models.Genre, 0, len(genres))
	for _, g := range genres {
		converted = append(converted, models.Genre{ID: g.ID, Name: g.Name})
	}
	return converted
}

func companiesFromTMDB(companies []tmdb.ProductionCompany) []models.ProductionCompany {
	converted := make([]models.ProductionCompany, 0, len(companies))
	for _, company := range companies {
		converted = append(converted, models.ProductionCompany{
			ID:       company.ID,
			Name:     company.Name,
			LogoPath: company.LogoPath,
		})
	}
	return converted
}

func castFromTMDB(cast []tmdb.Cast) []models.CastCredit {
	credits := make([]models.CastCredit, 0, len(cast))
	for _, member := range cast {
		credits = append(credits, models.CastCredit{
			ID:          member.ID,
			Name:        member.Name,
			ProfilePath: member.ProfilePath,
			Gender:      member.Gender,
			Popularity:  member.Popularity,
			Character:   member.Character,
			CastOrder:   member.Order,
		})
	}
	return credits
}

func crewFromTMDB(crew []tmdb.Crew) []models.CrewCredit {
	credits := make([]models.CrewCredit, 0, len(crew))
	for _, member := range crew {
		credits = append(credits, models.CrewCredit{
			ID:          member.ID,
			Name:        member.Name,
			ProfilePath: member.ProfilePath,
			Gender:      member.Gender,
			Popularity:  member.Popularity,
			Department:  member.Department,
			Job:         member.Job,
		})
	}
	return credits
}
