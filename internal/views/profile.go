package views

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/desertthunder/shadowkick/internal/models"
	"github.com/desertthunder/shadowkick/internal/router"
	"github.com/desertthunder/shadowkick/internal/shared"
)

// ProfileForm is the editable copy of the user record. Password starts empty.
type ProfileForm struct {
	Username string
	Email    string
	Password string
	Birthday string
}

// ProfileEditor loads, edits and deletes the logged in user's account.
type ProfileEditor struct {
	deps Deps

	mu         sync.RWMutex
	user       *models.User
	form       ProfileForm
	favourites []models.Favourite
}

func NewProfileEditor(d Deps) *ProfileEditor {
	return &ProfileEditor{deps: d.withDefaults()}
}

// Load fetches the current user and resets the form from it.
func (p *ProfileEditor) Load(ctx context.Context) error {
	username, ok := p.deps.Session.CurrentUsername()
	if !ok {
		p.deps.Logger.Error("no username found in session")
		return shared.ErrNotLoggedIn
	}

	user, err := p.deps.API.GetUser(ctx, username)
	if err != nil {
		p.deps.fail("error fetching user profile", "Error fetching profile. Please try again.", err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.user = user
	p.form = ProfileForm{
		Username: user.Username,
		Email:    user.Email,
		Birthday: shared.FormatDate(user.Birthday),
	}
	p.favourites = slices.Clone(user.Favourites)
	return nil
}

// User returns the last loaded record.
func (p *ProfileEditor) User() *models.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.user
}

func (p *ProfileEditor) Form() ProfileForm {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.form
}

func (p *ProfileEditor) SetForm(f ProfileForm) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form = f
}

func (p *ProfileEditor) Favourites() []models.Favourite {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.favourites)
}

// Diff returns only the fields that differ from the loaded record. Blank fields never count
// as changes; the password counts whenever it is non-blank and is sent trimmed.
func (p *ProfileEditor) Diff() models.UserUpdate {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var current models.User
	if p.user != nil {
		current = *p.user
	}

	var u models.UserUpdate
	f := p.form
	if f.Username != "" && f.Username != current.Username {
		u.NewUsername = f.Username
	}
	if f.Email != "" && f.Email != current.Email {
		u.NewEmail = f.Email
	}
	if pw := strings.TrimSpace(f.Password); pw != "" {
		u.NewPassword = pw
	}
	if f.Birthday != "" && f.Birthday != shared.FormatDate(current.Birthday) {
		u.NewBirthday = f.Birthday
	}
	return u
}

// Save sends the diff. An empty diff returns [shared.ErrNoChanges] without a request; success reloads
// the profile.
func (p *ProfileEditor) Save(ctx context.Context) error {
	update := p.Diff()
	if update.Empty() {
		p.deps.notify(LevelInfo, shared.ErrNoChanges.Error())
		return shared.ErrNoChanges
	}

	if _, err := p.deps.API.UpdateUser(ctx, update); err != nil {
		p.deps.fail("update failed", "", err)
		return err
	}

	p.deps.notify(LevelSuccess, "Profile updated successfully!")
	return p.Load(ctx)
}

// RemoveFavourite drops movieID from the favourites after the service accepts it.
func (p *ProfileEditor) RemoveFavourite(ctx context.Context, movieID string) error {
	if _, ok := p.deps.Session.CurrentUsername(); !ok {
		p.deps.Logger.Error("no username found in session")
		return shared.ErrNotLoggedIn
	}

	if err := p.deps.API.RemoveFavourite(ctx, movieID); err != nil {
		p.deps.fail("error removing movie from favorites", "", err)
		return err
	}

	p.mu.Lock()
	p.favourites = slices.DeleteFunc(p.favourites, func(f models.Favourite) bool {
		return f.MovieID == movieID
	})
	p.mu.Unlock()
	return nil
}

// Delete removes the account once confirmed, then clears the session and returns to the
// welcome screen.
func (p *ProfileEditor) Delete(ctx context.Context, confirmed bool) (router.Destination, error) {
	if !confirmed {
		return router.Destination{}, shared.ErrNotConfirmed
	}

	if err := p.deps.API.DeleteUser(ctx); err != nil {
		p.deps.fail("error deleting account", "Error deleting account. Please try again.", err)
		return router.Destination{}, err
	}

	p.deps.notify(LevelSuccess, "Account deleted successfully.")
	p.deps.Session.Clear()

	p.mu.Lock()
	p.user, p.form, p.favourites = nil, ProfileForm{}, nil
	p.mu.Unlock()

	return p.deps.navigate(router.Welcome), nil
}
