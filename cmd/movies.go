package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/shadowkick/internal/formatter"
	"github.com/desertthunder/shadowkick/internal/router"
	"github.com/desertthunder/shadowkick/internal/shared"
	"github.com/desertthunder/shadowkick/internal/views"
	"github.com/urfave/cli/v3"
)

// MoviesList prints one page of the catalogue with favourites marked.
//
// The listing is protected like the movies screen. Once the catalogue has loaded, a session
// without a username still lists movies, just without favourites.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	size := cmd.Int("size")
	if size <= 0 {
		size = r.config.UI.PageSize
	}
	page := cmd.Int("page")
	if page < 1 {
		return fmt.Errorf("%w: --page must be at least 1", shared.ErrInvalidFlag)
	}

	if dest := r.router.Navigate(router.Movies); dest.Redirected {
		return fmt.Errorf("%w: log in to list movies", shared.ErrNotAuthenticated)
	}

	browser := views.NewMovieBrowser(r.deps(nil), size)
	if err := browser.Activate(ctx); err != nil {
		if !browser.Loaded() || !errors.Is(err, shared.ErrNotLoggedIn) {
			return err
		}
		r.logger.Warn("listing without favourites", "err", err)
	}
	browser.SetPage(page-1, size)

	result := formatter.MoviePage{
		Movies:     browser.Visible(),
		Page:       page - 1,
		Pages:      browser.PageCount(),
		Total:      len(browser.Movies()),
		Favourites: browser.Favourites(),
	}

	format := r.format(cmd)
	if cmd.Bool("json") {
		format = formatter.JSON
	}

	data, err := formatter.Movies(format, result)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// MoviesShow prints one movie, optionally exporting it or opening its poster.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	title := strings.TrimSpace(cmd.StringArg("title"))
	if title == "" {
		return fmt.Errorf("%w: movie title", shared.ErrMissingArgument)
	}

	movie, err := r.api.GetMovie(ctx, title)
	if err != nil {
		return err
	}

	if dir := cmd.String("export"); dir != "" {
		result, err := formatter.WriteMovieMarkdown(r.httpClient, *movie, dir)
		if err != nil {
			return err
		}
		for _, w := range result.Warnings {
			r.logger.Warn("export incomplete", "err", w)
		}
		r.writePlain("✓ Exported %s to %s\n", movie.Title, result.Directory)
		for _, f := range result.Files {
			r.writePlain("  %s\n", f)
		}
	}

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(movie.ImagePath); err != nil {
			return err
		}
	}

	data, err := formatter.Movie(r.format(cmd), *movie, "")
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteFile(path, data); err != nil {
			return err
		}
		return r.writePlain("✓ Wrote %s\n", path)
	}
	return r.writeBytes(data)
}

func (r *Runner) details() (*views.Details, error) {
	return views.NewDetails(r.deps(nil), r.config.UI.DetailCacheSize)
}

// GenresShow prints a genre's description.
func (r *Runner) GenresShow(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: genre name", shared.ErrMissingArgument)
	}

	details, err := r.details()
	if err != nil {
		return err
	}
	dialog, err := details.OpenGenre(ctx, name)
	if err != nil {
		return err
	}

	data, err := formatter.Genre(r.format(cmd), *dialog.Genre)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// DirectorsShow prints a director's biography.
func (r *Runner) DirectorsShow(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: director name", shared.ErrMissingArgument)
	}

	details, err := r.details()
	if err != nil {
		return err
	}
	dialog, err := details.OpenDirector(ctx, name)
	if err != nil {
		return err
	}

	data, err := formatter.Director(r.format(cmd), *dialog.Director)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}
