package main

import (
	"context"

	"github.com/desertthunder/shadowkick/internal/formatter"
	"github.com/urfave/cli/v3"
)

// Navigate resolves a screen path the way the TUI would and prints where it lands.
func (r *Runner) Navigate(ctx context.Context, cmd *cli.Command) error {
	dest := r.router.Navigate(cmd.StringArg("path"))

	if r.format(cmd) == formatter.JSON {
		return r.writeJSON(map[string]any{
			"requested":  dest.Requested,
			"path":       dest.Path,
			"redirected": dest.Redirected,
			"state":      r.router.State().String(),
		}, true)
	}

	if dest.Redirected {
		return r.writePlain("%s (redirected from %q, %s)\n", dest.Path, dest.Requested, r.router.State())
	}
	return r.writePlain("%s\n", dest.Path)
}
