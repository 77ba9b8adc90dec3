package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/shadowkick/internal/formatter"
	"github.com/desertthunder/shadowkick/internal/shared"
	"github.com/urfave/cli/v3"
)

// FavoritesList prints the logged in user's favourite movie IDs.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	ids, err := r.api.GetFavourites(ctx)
	if err != nil {
		return err
	}

	switch r.format(cmd) {
	case formatter.JSON:
		return r.writeJSON(ids, true)
	case formatter.CSV:
		r.writePlain("ID\n")
		for _, id := range ids {
			r.writePlain("%s\n", id)
		}
		return nil
	case formatter.Markdown:
		r.writePlain("# Favorites\n\n")
		for _, id := range ids {
			r.writePlain("- %s\n", id)
		}
		return nil
	}

	if len(ids) == 0 {
		return r.writePlain("No favorite movies yet.\n")
	}
	r.writePlainHeader(fmt.Sprintf("Favorites (%d)", len(ids)))
	for _, id := range ids {
		r.writePlain("  ★ %s\n", id)
	}
	return nil
}

// FavoritesAdd adds a movie to the favourites.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: movie ID", shared.ErrMissingArgument)
	}
	if err := r.api.AddFavourite(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Added to favorites.\n")
}

// FavoritesRemove removes a movie from the favourites.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: movie ID", shared.ErrMissingArgument)
	}
	if err := r.api.RemoveFavourite(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Removed from favorites.\n")
}
