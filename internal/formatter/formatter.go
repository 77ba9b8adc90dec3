// package formatter renders catalogue and account data as text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/shadowkick/internal/models"
	"github.com/desertthunder/shadowkick/internal/shared"
)

// Format selects an output encoding.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	CSV      Format = "csv"
	JSON     Format = "json"
)

// ParseFormat accepts a format name, defaulting to [Text] when empty.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return Text, nil
	case Text, Markdown, CSV, JSON:
		return f, nil
	case "md":
		return Markdown, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (text, markdown, csv, json)", shared.ErrInvalidFlag, name)
	}
}

// ToJSON renders v as indented JSON.
func ToJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// MoviePage is a slice of the catalogue with its position.
type MoviePage struct {
	Movies     []models.Movie `json:"movies"`
	Page       int            `json:"page"`
	Pages      int            `json:"pages"`
	Total      int            `json:"total"`
	Favourites []string       `json:"favourites,omitempty"`
}

func (p MoviePage) isFavourite(id string) bool {
	return slices.Contains(p.Favourites, id)
}

// Movies renders a page of movies in format.
func Movies(format Format, page MoviePage) ([]byte, error) {
	switch format {
	case JSON:
		return ToJSON(page)
	case CSV:
		return moviesToCSV(page)
	case Markdown:
		return moviesToMarkdown(page), nil
	default:
		return moviesToText(page), nil
	}
}

func moviesToCSV(page MoviePage) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Genre", "Director", "Featured", "Favourite"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range page.Movies {
		record := []string{
			m.ID,
			m.Title,
			m.Genre.Name,
			m.Director.Name,
			strconv.FormatBool(m.Featured),
			strconv.FormatBool(page.isFavourite(m.ID)),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

func moviesToMarkdown(page MoviePage) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Movies\n\n")
	fmt.Fprintf(&buf, "**Page**: %d of %d\n", page.Page+1, max(page.Pages, 1))
	fmt.Fprintf(&buf, "**Total**: %d\n\n", page.Total)

	for i, m := range page.Movies {
		star := ""
		if page.isFavourite(m.ID) {
			star = " ★"
		}
		fmt.Fprintf(&buf, "%d. **%s** (%s, dir. %s)%s\n", i+1, m.Title, orDash(m.Genre.Name), orDash(m.Director.Name), star)
	}
	return buf.Bytes()
}

func moviesToText(page MoviePage) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Movies: page %d of %d (%d total)\n\n", page.Page+1, max(page.Pages, 1), page.Total)
	for _, m := range page.Movies {
		mark := " "
		if page.isFavourite(m.ID) {
			mark = "*"
		}
		fmt.Fprintf(&buf, "%s %-24s %s - %s [%s]\n", mark, m.ID, m.Title, orDash(m.Genre.Name), orDash(m.Director.Name))
	}
	return buf.Bytes()
}

// Movie renders one movie's details. posterRef replaces the image URL in Markdown when set.
func Movie(format Format, m models.Movie, posterRef string) ([]byte, error) {
	switch format {
	case JSON:
		return ToJSON(m)
	case CSV:
		return keyValueCSV([][2]string{
			{"ID", m.ID},
			{"Title", m.Title},
			{"Genre", m.Genre.Name},
			{"Director", m.Director.Name},
			{"Featured", strconv.FormatBool(m.Featured)},
			{"Actors", strings.Join(m.Actors, "; ")},
			{"Image", m.ImagePath},
			{"Description", m.Description},
		})
	case Markdown:
		return movieToMarkdown(m, posterRef), nil
	default:
		return movieToText(m), nil
	}
}

func movieToMarkdown(m models.Movie, posterRef string) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", m.Title)

	if posterRef == "" {
		posterRef = m.ImagePath
	}
	if posterRef != "" {
		fmt.Fprintf(&buf, "![Poster](%s)\n\n", posterRef)
	}

	fmt.Fprintf(&buf, "**Genre**: %s\n", orDash(m.Genre.Name))
	fmt.Fprintf(&buf, "**Director**: %s\n", orDash(m.Director.Name))
	if len(m.Actors) > 0 {
		fmt.Fprintf(&buf, "**Actors**: %s\n", strings.Join(m.Actors, ", "))
	}
	if m.Featured {
		buf.WriteString("**Featured**: yes\n")
	}
	if m.Description != "" {
		fmt.Fprintf(&buf, "\n%s\n", m.Description)
	}
	return buf.Bytes()
}

func movieToText(m models.Movie) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Title: %s\n", m.Title)
	fmt.Fprintf(&buf, "Genre: %s\n", orDash(m.Genre.Name))
	fmt.Fprintf(&buf, "Director: %s\n", orDash(m.Director.Name))
	if len(m.Actors) > 0 {
		fmt.Fprintf(&buf, "Actors: %s\n", strings.Join(m.Actors, ", "))
	}
	if m.Description != "" {
		fmt.Fprintf(&buf, "\n%s\n", m.Description)
	}
	return buf.Bytes()
}

// Genre renders a genre.
func Genre(format Format, g models.Genre) ([]byte, error) {
	switch format {
	case JSON:
		return ToJSON(g)
	case CSV:
		return keyValueCSV([][2]string{{"Name", g.Name}, {"Description", g.Description}})
	case Markdown:
		return []byte(fmt.Sprintf("# %s\n\n%s\n", g.Name, g.Description)), nil
	default:
		return []byte(fmt.Sprintf("Genre: %s\n%s\n", g.Name, g.Description)), nil
	}
}

// Director renders a director.
func Director(format Format, d models.Director) ([]byte, error) {
	life := lifespan(d)
	switch format {
	case JSON:
		return ToJSON(d)
	case CSV:
		return keyValueCSV([][2]string{{"Name", d.Name}, {"Birth", d.Birth}, {"Death", d.Death}, {"Bio", d.Bio}})
	case Markdown:
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "# %s\n\n", d.Name)
		if life != "" {
			fmt.Fprintf(&buf, "**Lived**: %s\n\n", life)
		}
		if d.Bio != "" {
			fmt.Fprintf(&buf, "%s\n", d.Bio)
		}
		return buf.Bytes(), nil
	default:
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "Director: %s\n", d.Name)
		if life != "" {
			fmt.Fprintf(&buf, "Lived: %s\n", life)
		}
		if d.Bio != "" {
			fmt.Fprintf(&buf, "%s\n", d.Bio)
		}
		return buf.Bytes(), nil
	}
}

func lifespan(d models.Director) string {
	birth, death := shared.FormatDate(d.Birth), shared.FormatDate(d.Death)
	if birth == "" {
		birth = d.Birth
	}
	if death == "" {
		death = d.Death
	}
	switch {
	case birth == "" && death == "":
		return ""
	case death == "":
		return "born " + birth
	default:
		return orDash(birth) + " to " + death
	}
}

// User renders an account. Birthdays are shown as YYYY-MM-DD.
func User(format Format, u models.User) ([]byte, error) {
	birthday := shared.FormatDate(u.Birthday)
	switch format {
	case JSON:
		u.Birthday = birthday
		return ToJSON(u)
	case CSV:
		return keyValueCSV([][2]string{
			{"Username", u.Username},
			{"Email", u.Email},
			{"Birthday", birthday},
			{"Favourites", strings.Join(u.FavouriteIDs(), "; ")},
		})
	case Markdown:
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "# %s\n\n", u.Username)
		fmt.Fprintf(&buf, "**Email**: %s\n", orDash(u.Email))
		fmt.Fprintf(&buf, "**Birthday**: %s\n", orDash(birthday))
		fmt.Fprintf(&buf, "**Favourites**: %d\n", len(u.Favourites))
		if len(u.Favourites) > 0 {
			buf.WriteString("\n## Favourites\n\n")
			for _, id := range u.FavouriteIDs() {
				fmt.Fprintf(&buf, "- %s\n", id)
			}
		}
		return buf.Bytes(), nil
	default:
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "Username: %s\n", u.Username)
		fmt.Fprintf(&buf, "Email: %s\n", orDash(u.Email))
		fmt.Fprintf(&buf, "Birthday: %s\n", orDash(birthday))
		fmt.Fprintf(&buf, "Favourites: %d\n", len(u.Favourites))
		return buf.Bytes(), nil
	}
}

func keyValueCSV(rows [][2]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Field", "Value"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row[:]); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrMissingArgument)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteMovieMarkdown
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Poster    string
	Warnings  []error
}

// WriteMovieMarkdown writes {dir}/README.md for movie and, when the movie has an image URL,
// {dir}/poster{ext} next to it.
//
// A poster that cannot be fetched or saved is reported in Warnings and the README links the
// remote URL instead.
func WriteMovieMarkdown(client *http.Client, movie models.Movie, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = slug(movie.Title)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}

	var posterRef string
	if movie.ImagePath != "" {
		if data, err := DownloadImage(client, movie.ImagePath); err != nil {
			result.Warnings = append(result.Warnings, err)
		} else {
			name := "poster" + imageExt(movie.ImagePath)
			path := filepath.Join(outputDir, name)
			if err := os.WriteFile(path, data, 0644); err != nil {
				result.Warnings = append(result.Warnings, fmt.Errorf("failed to save poster: %w", err))
			} else {
				posterRef = name
				result.Poster = path
				result.Files = append(result.Files, path)
			}
		}
	}

	mdData, err := Movie(Markdown, movie, posterRef)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func imageExt(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	switch ext := strings.ToLower(filepath.Ext(url)); ext {
	case ".png", ".gif", ".webp", ".jpeg", ".jpg":
		return ext
	default:
		return ".jpg"
	}
}

func slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "movie"
	}
	return s
}
