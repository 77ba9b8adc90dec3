package formatter

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/shadowkick/internal/models"
	"github.com/desertthunder/shadowkick/internal/shared"
	th "github.com/desertthunder/shadowkick/internal/testing"
)

var samplePage = MoviePage{
	Movies: []models.Movie{
		{
			ID:       "m1",
			Title:    "Silent Hill",
			Genre:    models.Genre{Name: "Horror"},
			Director: models.Director{Name: "Christophe Gans"},
			Featured: true,
		},
		{
			ID:    "m2",
			Title: "Gladiator",
			Genre: models.Genre{Name: "Action"},
		},
	},
	Page:       1,
	Pages:      3,
	Total:      13,
	Favourites: []string{"m2"},
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": Text, "text": Text, "JSON": JSON, "md": Markdown, "csv": CSV}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseFormat(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseFormat("yaml"); !errors.Is(err, shared.ErrInvalidFlag) {
		t.Errorf("expected ErrInvalidFlag, got %v", err)
	}
}

func TestMovies(t *testing.T) {
	t.Run("CSV", func(t *testing.T) {
		data, err := Movies(CSV, samplePage)
		if err != nil {
			t.Fatalf("Movies(CSV) failed: %v", err)
		}
		output := string(data)

		if !strings.Contains(output, "ID,Title,Genre,Director,Featured,Favourite") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "m1,Silent Hill,Horror,Christophe Gans,true,false") {
			t.Errorf("CSV missing m1 row, got: %s", output)
		}
		if !strings.Contains(output, "m2,Gladiator,Action,,false,true") {
			t.Errorf("CSV missing m2 row, got: %s", output)
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		data, _ := Movies(Markdown, samplePage)
		output := string(data)

		if !strings.Contains(output, "**Page**: 2 of 3") {
			t.Errorf("Markdown missing page marker, got: %s", output)
		}
		if !strings.Contains(output, "1. **Silent Hill** (Horror, dir. Christophe Gans)\n") {
			t.Errorf("Markdown missing first movie, got: %s", output)
		}
		if !strings.Contains(output, "2. **Gladiator** (Action, dir. -) ★") {
			t.Errorf("Markdown missing favourite star, got: %s", output)
		}
	})

	t.Run("Text", func(t *testing.T) {
		data, _ := Movies(Text, samplePage)
		output := string(data)

		if !strings.HasPrefix(output, "Movies: page 2 of 3 (13 total)") {
			t.Errorf("Text missing header, got: %s", output)
		}
		if !strings.Contains(output, "* m2") {
			t.Errorf("Text missing favourite marker, got: %s", output)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := Movies(JSON, samplePage)
		if err != nil {
			t.Fatalf("Movies(JSON) failed: %v", err)
		}
		if !strings.Contains(string(data), `"total": 13`) {
			t.Errorf("JSON missing total, got: %s", data)
		}
	})
}

func TestDetails(t *testing.T) {
	movie := models.Movie{
		Title:       "Alien",
		Description: "In space no one can hear you scream.",
		Genre:       models.Genre{Name: "Horror"},
		Director:    models.Director{Name: "Ridley Scott"},
		Actors:      []string{"Sigourney Weaver", "Tom Skerritt"},
		ImagePath:   "https://example.com/alien.png",
	}

	t.Run("Movie Markdown", func(t *testing.T) {
		data, _ := Movie(Markdown, movie, "")
		output := string(data)

		for _, want := range []string{
			"# Alien",
			"![Poster](https://example.com/alien.png)",
			"**Actors**: Sigourney Weaver, Tom Skerritt",
			"In space no one can hear you scream.",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("Movie Markdown With Local Poster", func(t *testing.T) {
		data, _ := Movie(Markdown, movie, "poster.png")
		if !strings.Contains(string(data), "![Poster](poster.png)") {
			t.Errorf("expected local poster reference, got: %s", data)
		}
	})

	t.Run("Movie CSV", func(t *testing.T) {
		data, err := Movie(CSV, movie, "")
		if err != nil {
			t.Fatalf("Movie(CSV) failed: %v", err)
		}
		if !strings.Contains(string(data), "Actors,Sigourney Weaver; Tom Skerritt") {
			t.Errorf("CSV missing actors row, got: %s", data)
		}
	})

	t.Run("Genre", func(t *testing.T) {
		data, _ := Genre(Text, models.Genre{Name: "Horror", Description: "Scary."})
		if string(data) != "Genre: Horror\nScary.\n" {
			t.Errorf("unexpected text: %q", data)
		}
	})

	t.Run("Director", func(t *testing.T) {
		data, _ := Director(Markdown, models.Director{Name: "Ridley Scott", Birth: "1937-11-30T00:00:00.000Z", Bio: "English."})
		output := string(data)
		if !strings.Contains(output, "**Lived**: born 1937-11-30") {
			t.Errorf("Markdown missing lifespan, got: %s", output)
		}

		data, _ = Director(Text, models.Director{Name: "Kubrick", Birth: "1928", Death: "1999"})
		if !strings.Contains(string(data), "Lived: 1928 to 1999") {
			t.Errorf("Text missing lifespan, got: %s", data)
		}
	})

	t.Run("User", func(t *testing.T) {
		u := models.User{
			Username:   "ana",
			Email:      "ana@example.com",
			Birthday:   "1990-04-01T00:00:00.000Z",
			Favourites: models.NewFavourites([]string{"m1", "m2"}),
		}

		data, _ := User(Text, u)
		if !strings.Contains(string(data), "Birthday: 1990-04-01\n") {
			t.Errorf("Text missing formatted birthday, got: %s", data)
		}

		data, _ = User(Markdown, u)
		if !strings.Contains(string(data), "- m2\n") {
			t.Errorf("Markdown missing favourites, got: %s", data)
		}

		data, _ = User(JSON, u)
		if !strings.Contains(string(data), `"birthday": "1990-04-01"`) {
			t.Errorf("JSON missing formatted birthday, got: %s", data)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		_, err := DownloadImage(nil, "")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("NonOKStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := DownloadImage(server.Client(), server.URL); err == nil {
			t.Error("expected error for 404")
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteMovieMarkdown", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("PNGDATA"))
		}))
		defer server.Close()

		movie := models.Movie{Title: "The Dark Knight", ImagePath: server.URL + "/tdk.png"}

		t.Run("WithPoster", func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "tdk")
			result, err := WriteMovieMarkdown(server.Client(), movie, dir)
			if err != nil {
				t.Fatalf("WriteMovieMarkdown failed: %v", err)
			}

			th.AssertDirExists(t, dir)
			th.AssertFileExists(t, filepath.Join(dir, "README.md"))
			th.AssertFileExists(t, filepath.Join(dir, "poster.png"))

			if len(result.Files) != 2 || len(result.Warnings) != 0 {
				t.Errorf("unexpected result %+v", result)
			}

			readme := th.MustReadFile(t, filepath.Join(dir, "README.md"))
			if !strings.Contains(readme, "![Poster](poster.png)") {
				t.Errorf("README should link local poster, got: %s", readme)
			}
		})

		t.Run("WithDefaultDirectory", func(t *testing.T) {
			origDir := th.MustGetwd(t)
			th.MustChdir(t, t.TempDir())
			defer th.MustChdir(t, origDir)

			result, err := WriteMovieMarkdown(server.Client(), models.Movie{Title: "The Dark Knight!"}, "")
			if err != nil {
				t.Fatalf("WriteMovieMarkdown failed: %v", err)
			}
			if result.Directory != "the-dark-knight" {
				t.Errorf("expected slug directory, got %s", result.Directory)
			}
			th.AssertFileExists(t, filepath.Join("the-dark-knight", "README.md"))
		})

		t.Run("PosterFailureIsAWarning", func(t *testing.T) {
			broken := models.Movie{Title: "Alien", ImagePath: "http://127.0.0.1:0/alien.jpg"}
			result, err := WriteMovieMarkdown(server.Client(), broken, t.TempDir())
			if err != nil {
				t.Fatalf("WriteMovieMarkdown failed: %v", err)
			}
			if len(result.Warnings) != 1 || result.Poster != "" {
				t.Errorf("expected one warning and no poster, got %+v", result)
			}
		})
	})

	t.Run("WriteFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "movies.csv")
		if err := WriteFile(path, []byte("a,b\n")); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		data, _ := os.ReadFile(path)
		if string(data) != "a,b\n" {
			t.Errorf("unexpected content %q", data)
		}
	})
}
