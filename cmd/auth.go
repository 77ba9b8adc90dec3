package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/shadowkick/internal/formatter"
	"github.com/desertthunder/shadowkick/internal/models"
	"github.com/desertthunder/shadowkick/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthRegister creates an account. It does not log in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	reg := models.Registration{
		Username: cmd.String("username"),
		Password: cmd.String("password"),
		Email:    cmd.String("email"),
		Birthday: cmd.String("birthday"),
	}

	r.logger.Info("registering", "username", reg.Username)

	user, err := r.api.Register(ctx, reg)
	if err != nil {
		return err
	}

	if r.format(cmd) == formatter.JSON {
		return r.writeJSON(user, true)
	}
	r.writePlain("✓ Registration successful! Please log in.\n")
	return r.writePlain("Run 'shadowkick auth login -u %s -p <password>'\n", user.Username)
}

// AuthLogin logs in and persists the token, username and user record.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	creds := models.Credentials{
		Username: cmd.String("username"),
		Password: cmd.String("password"),
	}

	resp, err := r.api.Login(ctx, creds)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	r.logger.Info("authentication successful", "username", resp.User.Username)
	return r.writePlain("✓ Logged in as %s\n", resp.User.Username)
}

// AuthLogout removes every session key.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.session.Logout()
	r.logger.Info("logged out")
	return r.writePlain("✓ Logged out\n")
}

type authStatus struct {
	LoggedIn  bool       `json:"loggedIn"`
	Username  string     `json:"username,omitempty"`
	Subject   string     `json:"subject,omitempty"`
	IssuedAt  *time.Time `json:"issuedAt,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Expired   bool       `json:"expired"`
}

// AuthStatus reports the stored session and the token's claims when they can be read.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	status := authStatus{LoggedIn: r.session.Authorized()}
	status.Username, _ = r.session.CurrentUsername()

	if status.LoggedIn {
		claims, err := r.session.Claims()
		switch {
		case err == nil:
			status.Subject = claims.Subject
			if status.Username == "" {
				status.Username = claims.Username
			}
			if !claims.IssuedAt.IsZero() {
				status.IssuedAt = &claims.IssuedAt
			}
			if !claims.ExpiresAt.IsZero() {
				status.ExpiresAt = &claims.ExpiresAt
			}
			status.Expired = claims.Expired(time.Now())
		case errors.Is(err, shared.ErrInvalidInput):
			r.logger.Debug("token claims unreadable", "err", err)
		default:
			return err
		}
	}

	if r.format(cmd) == formatter.JSON {
		return r.writeJSON(status, true)
	}

	if !status.LoggedIn {
		return r.writePlain("✗ Not logged in\n")
	}

	r.writePlain("✓ Logged in as %s\n", status.Username)
	if status.ExpiresAt != nil {
		state := "valid"
		if status.Expired {
			state = "expired"
		}
		r.writePlain("Token: %s until %s\n", state, status.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}
