// package services defines the [MovieAPI] interface for the movie catalogue service
package services

import (
	"context"

	"github.com/desertthunder/shadowkick/internal/models"
)

// MovieAPI is the set of remote operations the views depend on.
type MovieAPI interface {
	// Register creates an account. No token is required.
	Register(ctx context.Context, reg models.Registration) (*models.User, error)

	// Login exchanges credentials for a token and stores it in the session.
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)

	// GetUser fetches a user record, caching it when it is the current user.
	GetUser(ctx context.Context, username string) (*models.User, error)

	// UpdateUser sends the changed profile fields for the logged in user.
	UpdateUser(ctx context.Context, update models.UserUpdate) (*models.User, error)

	// DeleteUser removes the logged in user's account.
	DeleteUser(ctx context.Context) error

	GetMovies(ctx context.Context) ([]models.Movie, error)
	GetMovie(ctx context.Context, title string) (*models.Movie, error)
	GetDirector(ctx context.Context, name string) (*models.Director, error)
	GetGenre(ctx context.Context, name string) (*models.Genre, error)

	// GetFavourites refreshes the cached favourites and returns their movie IDs.
	GetFavourites(ctx context.Context) ([]string, error)
	AddFavourite(ctx context.Context, movieID string) error
	RemoveFavourite(ctx context.Context, movieID string) error
}

var _ MovieAPI = (*APIService)(nil)
