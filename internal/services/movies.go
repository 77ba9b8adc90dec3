package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/desertthunder/shadowkick/internal/models"
)

// GetMovies fetches the whole catalogue.
func (a *APIService) GetMovies(ctx context.Context) ([]models.Movie, error) {
	var movies []models.Movie
	if _, err := a.call(ctx, http.MethodGet, "/movies", true, nil, &movies); err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []models.Movie{}
	}
	return movies, nil
}

func (a *APIService) GetMovie(ctx context.Context, title string) (*models.Movie, error) {
	var movie models.Movie
	if _, err := a.call(ctx, http.MethodGet, "/movies/"+url.PathEscape(title), true, nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

func (a *APIService) GetDirector(ctx context.Context, name string) (*models.Director, error) {
	var director models.Director
	if _, err := a.call(ctx, http.MethodGet, "/directors/"+url.PathEscape(name), true, nil, &director); err != nil {
		return nil, err
	}
	return &director, nil
}

func (a *APIService) GetGenre(ctx context.Context, name string) (*models.Genre, error) {
	var genre models.Genre
	if _, err := a.call(ctx, http.MethodGet, "/genres/"+url.PathEscape(name), true, nil, &genre); err != nil {
		return nil, err
	}
	return &genre, nil
}
