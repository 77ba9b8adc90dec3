package views

import (
	"context"

	"github.com/desertthunder/shadowkick/internal/models"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DialogKind selects which detail dialog is open.
type DialogKind int

const (
	MovieDialog DialogKind = iota
	GenreDialog
	DirectorDialog
)

// Dialog is an open detail dialog. Only the field for Kind is set.
type Dialog struct {
	Kind     DialogKind
	Movie    *models.Movie
	Genre    *models.Genre
	Director *models.Director
}

// Title is the dialog heading.
func (d Dialog) Title() string {
	switch d.Kind {
	case GenreDialog:
		if d.Genre != nil {
			return d.Genre.Name
		}
	case DirectorDialog:
		if d.Director != nil {
			return d.Director.Name
		}
	default:
		if d.Movie != nil {
			return d.Movie.Title
		}
	}
	return ""
}

// Details opens movie, genre and director dialogs.
//
// Genre and director lookups are memoized when a cache size is configured.
type Details struct {
	deps      Deps
	genres    *lru.Cache[string, models.Genre]
	directors *lru.Cache[string, models.Director]
}

// NewDetails creates a Details view. cacheSize of zero or less disables memoization.
func NewDetails(d Deps, cacheSize int) (*Details, error) {
	v := &Details{deps: d.withDefaults()}
	if cacheSize <= 0 {
		return v, nil
	}

	var err error
	if v.genres, err = lru.New[string, models.Genre](cacheSize); err != nil {
		return nil, err
	}
	if v.directors, err = lru.New[string, models.Director](cacheSize); err != nil {
		return nil, err
	}
	return v, nil
}

// OpenMovie shows a movie already in hand.
func (v *Details) OpenMovie(movie models.Movie) Dialog {
	return Dialog{Kind: MovieDialog, Movie: &movie}
}

// FetchMovie loads the full record for title, as the profile's favourites list only carries IDs.
func (v *Details) FetchMovie(ctx context.Context, title string) (Dialog, error) {
	movie, err := v.deps.API.GetMovie(ctx, title)
	if err != nil {
		v.deps.fail("error fetching full movie details", "", err)
		return Dialog{}, err
	}
	return Dialog{Kind: MovieDialog, Movie: movie}, nil
}

func (v *Details) OpenGenre(ctx context.Context, name string) (Dialog, error) {
	if v.genres != nil {
		if g, ok := v.genres.Get(name); ok {
			return Dialog{Kind: GenreDialog, Genre: &g}, nil
		}
	}

	genre, err := v.deps.API.GetGenre(ctx, name)
	if err != nil {
		v.deps.fail("error fetching genre", "", err)
		return Dialog{}, err
	}
	if v.genres != nil {
		v.genres.Add(name, *genre)
	}
	return Dialog{Kind: GenreDialog, Genre: genre}, nil
}

func (v *Details) OpenDirector(ctx context.Context, name string) (Dialog, error) {
	if v.directors != nil {
		if d, ok := v.directors.Get(name); ok {
			return Dialog{Kind: DirectorDialog, Director: &d}, nil
		}
	}

	director, err := v.deps.API.GetDirector(ctx, name)
	if err != nil {
		v.deps.fail("error fetching director", "", err)
		return Dialog{}, err
	}
	if v.directors != nil {
		v.directors.Add(name, *director)
	}
	return Dialog{Kind: DirectorDialog, Director: director}, nil
}
