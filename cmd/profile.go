package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/shadowkick/internal/formatter"
	"github.com/desertthunder/shadowkick/internal/shared"
	"github.com/desertthunder/shadowkick/internal/views"
	"github.com/urfave/cli/v3"
)

func (r *Runner) loadProfile(ctx context.Context, notices chan<- views.Notice) (*views.ProfileEditor, error) {
	editor := views.NewProfileEditor(r.deps(notices))
	if err := editor.Load(ctx); err != nil {
		return nil, err
	}
	return editor, nil
}

// ProfileShow prints the logged in user's account.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	editor, err := r.loadProfile(ctx, nil)
	if err != nil {
		return err
	}

	data, err := formatter.User(r.format(cmd), *editor.User())
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// ProfileUpdate sends only the flags that were given and differ from the account.
func (r *Runner) ProfileUpdate(ctx context.Context, cmd *cli.Command) error {
	notices := make(chan views.Notice, 4)
	editor, err := r.loadProfile(ctx, notices)
	if err != nil {
		return err
	}

	form := editor.Form()
	if cmd.IsSet("username") {
		form.Username = cmd.String("username")
	}
	if cmd.IsSet("email") {
		form.Email = cmd.String("email")
	}
	if cmd.IsSet("password") {
		form.Password = cmd.String("password")
	}
	if cmd.IsSet("birthday") {
		form.Birthday = cmd.String("birthday")
	}
	editor.SetForm(form)

	if err := editor.Save(ctx); err != nil && !errors.Is(err, shared.ErrNoChanges) {
		return err
	}
	r.writeNotices(notices)
	return nil
}

// ProfileDelete deletes the account when --yes is given.
func (r *Runner) ProfileDelete(ctx context.Context, cmd *cli.Command) error {
	notices := make(chan views.Notice, 4)
	editor := views.NewProfileEditor(r.deps(notices))

	dest, err := editor.Delete(ctx, cmd.Bool("yes"))
	if errors.Is(err, shared.ErrNotConfirmed) {
		return fmt.Errorf("%w: pass --yes to delete your account", err)
	}
	if err != nil {
		return err
	}
	r.writeNotices(notices)

	r.logger.Debug("account deleted", "next", dest.Path)
	return nil
}
