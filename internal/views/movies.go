package views

import (
	"context"
	"slices"
	"sync"

	"github.com/desertthunder/shadowkick/internal/models"
	"golang.org/x/sync/errgroup"
)

// DefaultPageSize is the number of movies per page.
const DefaultPageSize = 6

// Page returns items[index*size : index*size+size], clipped to the slice.
func Page[T any](items []T, index, size int) []T {
	if size <= 0 || index < 0 {
		return nil
	}
	start := index * size
	if start >= len(items) {
		return []T{}
	}
	return items[start:min(start+size, len(items))]
}

// PageCount is the number of pages needed for n items.
func PageCount(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// MovieBrowser is the paginated catalogue with favourite toggles.
type MovieBrowser struct {
	deps Deps

	mu         sync.RWMutex
	movies     []models.Movie
	loaded     bool
	favourites []string
	pageIndex  int
	pageSize   int
}

// NewMovieBrowser creates a browser showing pageSize movies per page, [DefaultPageSize] when
// pageSize is not positive.
func NewMovieBrowser(d Deps, pageSize int) *MovieBrowser {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &MovieBrowser{deps: d.withDefaults(), pageSize: pageSize}
}

// Activate fetches the catalogue and the favourites concurrently.
//
// Each fetch applies its own result; one failing does not discard the other. The first error
// is returned after both finish.
func (b *MovieBrowser) Activate(ctx context.Context) error {
	var g errgroup.Group

	g.Go(func() error {
		movies, err := b.deps.API.GetMovies(ctx)
		if err != nil {
			b.deps.fail("error fetching movies", "", err)
			return err
		}
		b.mu.Lock()
		b.movies = movies
		b.loaded = true
		b.mu.Unlock()
		return nil
	})

	g.Go(func() error {
		ids, err := b.deps.API.GetFavourites(ctx)
		if err != nil {
			b.deps.fail("error fetching favorites", "", err)
			return err
		}
		b.mu.Lock()
		b.favourites = slices.Clone(ids)
		b.mu.Unlock()
		return nil
	})

	return g.Wait()
}

// Movies returns the full collection.
func (b *MovieBrowser) Movies() []models.Movie {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.movies)
}

// Loaded reports whether the catalogue fetch has succeeded.
func (b *MovieBrowser) Loaded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loaded
}

// Visible returns the current page.
func (b *MovieBrowser) Visible() []models.Movie {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(Page(b.movies, b.pageIndex, b.pageSize))
}

// SetPage moves to index with size movies per page.
func (b *MovieBrowser) SetPage(index, size int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 {
		index = 0
	}
	if size > 0 {
		b.pageSize = size
	}
	b.pageIndex = index
}

func (b *MovieBrowser) PageIndex() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pageIndex
}

func (b *MovieBrowser) PageSize() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pageSize
}

func (b *MovieBrowser) PageCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return PageCount(len(b.movies), b.pageSize)
}

// Favourites returns the movie IDs marked as favourite.
func (b *MovieBrowser) Favourites() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.favourites)
}

func (b *MovieBrowser) IsFavourite(movieID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Contains(b.favourites, movieID)
}

// ToggleFavourite removes movieID from the favourites if present, otherwise adds it.
//
// The local list changes only after the service accepted the change. Returns whether the movie
// is a favourite afterwards.
func (b *MovieBrowser) ToggleFavourite(ctx context.Context, movieID string) (bool, error) {
	if b.IsFavourite(movieID) {
		if err := b.deps.API.RemoveFavourite(ctx, movieID); err != nil {
			b.deps.fail("error removing favorite", "", err)
			return true, err
		}
		b.mu.Lock()
		b.favourites = slices.DeleteFunc(b.favourites, func(id string) bool { return id == movieID })
		b.mu.Unlock()
		b.deps.notify(LevelSuccess, "Removed from favorites.")
		return false, nil
	}

	if err := b.deps.API.AddFavourite(ctx, movieID); err != nil {
		b.deps.fail("error adding favorite", "", err)
		return false, err
	}
	b.mu.Lock()
	if !slices.Contains(b.favourites, movieID) {
		b.favourites = append(b.favourites, movieID)
	}
	b.mu.Unlock()
	b.deps.notify(LevelSuccess, "Added to favorites.")
	return true, nil
}
