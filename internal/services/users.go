package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/shadowkick/internal/models"
	"github.com/desertthunder/shadowkick/internal/shared"
)

// Register creates an account and marks the session registered.
func (a *APIService) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	if err := models.Validate(reg); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	resp, err := a.call(ctx, http.MethodPost, "/users", false, reg, nil)
	if err != nil {
		return nil, err
	}

	a.session.MarkRegistered()
	a.logger.Info("registered", "username", reg.Username)

	user, err := decodeUser(resp.Body)
	if err != nil {
		// Sign-up succeeded; the echo is informational only.
		a.logger.Warn("could not decode registration response", "err", err)
		return &models.User{Username: reg.Username, Email: reg.Email, Birthday: reg.Birthday}, nil
	}
	return user, nil
}

// Login stores the token, username and returned user record.
func (a *APIService) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	if err := models.Validate(creds); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	var out models.LoginResponse
	if _, err := a.call(ctx, http.MethodPost, "/login", false, creds, &out); err != nil {
		return nil, err
	}

	if out.Token == "" || out.User.Username == "" {
		a.logger.Error("invalid login response", "has_token", out.Token != "", "username", out.User.Username)
		return &out, fmt.Errorf("%w: login response is missing a token or username", shared.ErrAuthFailed)
	}

	user := out.User
	a.session.Login(out.Token, out.User.Username, &user)
	a.logger.Info("logged in", "username", out.User.Username)
	return &out, nil
}

// GetUser fetches username's record. Only the current user's record is cached.
func (a *APIService) GetUser(ctx context.Context, username string) (*models.User, error) {
	resp, err := a.call(ctx, http.MethodGet, "/users/"+url.PathEscape(username), true, nil, nil)
	if err != nil {
		return nil, err
	}

	user, err := decodeUser(resp.Body)
	if err != nil {
		return nil, err
	}
	if current, ok := a.session.CurrentUsername(); ok && current == username {
		a.session.SetCachedUser(user)
	}
	return user, nil
}

// UpdateUser sends update for the current user, caches the returned record and follows a
// username change. The result is nil when the response omits the user.
func (a *APIService) UpdateUser(ctx context.Context, update models.UserUpdate) (*models.User, error) {
	username, err := a.currentUser()
	if err != nil {
		return nil, err
	}
	if err := models.Validate(update); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	var out models.UserEnvelope
	if _, err := a.call(ctx, http.MethodPut, "/users/"+url.PathEscape(username), true, update, &out); err != nil {
		return nil, err
	}

	if out.User == nil {
		a.logger.Warn("update response carried no user", "username", username)
		return nil, nil
	}

	a.session.SetCachedUser(out.User)
	if out.User.Username != "" && out.User.Username != username {
		a.session.SetUsername(out.User.Username)
	}
	return out.User, nil
}

// DeleteUser deletes the current user's account. Clearing the session is left to the caller.
func (a *APIService) DeleteUser(ctx context.Context) error {
	username, err := a.currentUser()
	if err != nil {
		return err
	}
	_, err = a.call(ctx, http.MethodDelete, "/users/"+url.PathEscape(username), true, nil, nil)
	return err
}

// GetFavourites fetches the current user, writes their favourites into the cached record and
// returns the movie IDs.
//
// A response without a favourites list yields an empty result and leaves the cache alone.
func (a *APIService) GetFavourites(ctx context.Context) ([]string, error) {
	username, err := a.currentUser()
	if err != nil {
		return nil, err
	}

	var out models.UserEnvelope
	if _, err := a.call(ctx, http.MethodGet, "/users/"+url.PathEscape(username), true, nil, &out); err != nil {
		return nil, err
	}

	if out.User == nil || out.User.Favourites == nil {
		a.logger.Error("favourites response is not a list", "username", username)
		return []string{}, nil
	}

	a.session.SetFavourites(out.User.Favourites)
	return out.User.FavouriteIDs(), nil
}

// AddFavourite puts movieID on the current user's favourites.
func (a *APIService) AddFavourite(ctx context.Context, movieID string) error {
	username, err := a.currentUser()
	if err != nil {
		return err
	}

	path := favouritePath(username, movieID)
	if _, err := a.call(ctx, http.MethodPut, path, true, struct{}{}, nil); err != nil {
		return err
	}

	a.session.AddFavourite(movieID)
	return nil
}

// RemoveFavourite takes movieID off the current user's favourites.
func (a *APIService) RemoveFavourite(ctx context.Context, movieID string) error {
	username, err := a.currentUser()
	if err != nil {
		return err
	}

	if _, err := a.call(ctx, http.MethodDelete, favouritePath(username, movieID), true, nil, nil); err != nil {
		return err
	}

	a.session.RemoveFavourite(movieID)
	return nil
}

func favouritePath(username, movieID string) string {
	return "/users/" + url.PathEscape(username) + "/favourites/" + url.PathEscape(movieID)
}

// decodeUser accepts both {"user": {...}} and a bare user object.
func decodeUser(body []byte) (*models.User, error) {
	var env models.UserEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecodeResponse, err)
	}
	if env.User != nil {
		return env.User, nil
	}

	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecodeResponse, err)
	}
	if user.Username == "" {
		return nil, fmt.Errorf("%w: no user in response", shared.ErrDecodeResponse)
	}
	return &user, nil
}
