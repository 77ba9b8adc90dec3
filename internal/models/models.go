// package models defines the data model for the movie catalogue client
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the validator tags on a request body.
//
// Field failures are flattened into one "field: rule" line each.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	lines := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		lines = append(lines, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(lines, "\n"))
}

// Genre is a movie genre.
type Genre struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UnmarshalJSON accepts either a genre object or a bare genre name.
func (g *Genre) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*g = Genre{Name: name}
		return nil
	}

	type plain Genre
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*g = Genre(p)
	return nil
}

// Director is a movie director.
type Director struct {
	Name  string `json:"name"`
	Bio   string `json:"bio"`
	Birth string `json:"birth,omitempty"`
	Death string `json:"death,omitempty"`
}

// Movie is a catalogue entry.
type Movie struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genre       Genre    `json:"genre"`
	Director    Director `json:"director"`
	ImagePath   string   `json:"imagePath,omitempty"`
	Featured    bool     `json:"featured,omitempty"`
	Actors      []string `json:"actors,omitempty"`
}

// Favourite references a movie on a user's favourites list.
type Favourite struct {
	MovieID string `json:"movieId"`
}

// UnmarshalJSON accepts either {"movieId": "..."} or a bare movie ID string.
func (f *Favourite) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		return json.Unmarshal(data, &f.MovieID)
	}

	type plain Favourite
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = Favourite(p)
	return nil
}

// User is the account record owned by the movie service.
type User struct {
	ID         string      `json:"_id,omitempty"`
	Username   string      `json:"username"`
	Email      string      `json:"email,omitempty"`
	Birthday   string      `json:"birthday,omitempty"`
	Favourites []Favourite `json:"favourites"`
}

// FavouriteIDs projects the favourites list onto bare movie IDs.
func (u *User) FavouriteIDs() []string {
	ids := make([]string, 0, len(u.Favourites))
	for _, f := range u.Favourites {
		ids = append(ids, f.MovieID)
	}
	return ids
}

// HasFavourite reports whether movieID is on the favourites list.
func (u *User) HasFavourite(movieID string) bool {
	for _, f := range u.Favourites {
		if f.MovieID == movieID {
			return true
		}
	}
	return false
}

// NewFavourites builds a favourites list from movie IDs, dropping duplicates and keeping first-seen order.
func NewFavourites(ids []string) []Favourite {
	seen := make(map[string]struct{}, len(ids))
	favs := make([]Favourite, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		favs = append(favs, Favourite{MovieID: id})
	}
	return favs
}

// UserEnvelope is the {"user": {...}} wrapper used by the user endpoints.
type UserEnvelope struct {
	User *User `json:"user"`
}

// Registration is the body of a sign-up request.
type Registration struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Birthday string `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Credentials is the body of a login request.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UserUpdate carries only the profile fields that changed.
type UserUpdate struct {
	NewUsername string `json:"newUsername,omitempty"`
	NewEmail    string `json:"newEmail,omitempty" validate:"omitempty,email"`
	NewPassword string `json:"newPassword,omitempty"`
	NewBirthday string `json:"newBirthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u == UserUpdate{}
}
