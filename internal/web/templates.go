package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/justestif/gigbook/internal/booking"
	"github.com/justestif/gigbook/internal/db"
	"github.com/justestif/gigbook/internal/forms"
)

// Templates manages HTML template rendering.
type Templates struct {
	templates map[string]*template.Template
	funcs     template.FuncMap
}

// NewTemplates creates a new template manager by loading templates from the given filesystem.
func NewTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{
		templates: make(map[string]*template.Template),
		funcs:     defaultFuncs(),
	}

	if err := t.load(templatesFS); err != nil {
		return nil, err
	}

	return t, nil
}

// Render renders a page template with the given data. Output is buffered so
// a failing template never leaves a half-written page.
func (t *Templates) Render(w io.Writer, page string, data any) error {
	tmpl, ok := t.templates[page]
	if !ok {
		return fmt.Errorf("template %q not found", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("executing template %q: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Has reports whether page was loaded.
func (t *Templates) Has(page string) bool {
	_, ok := t.templates[page]
	return ok
}

// load parses all templates from the filesystem.
func (t *Templates) load(templatesFS fs.FS) error {
	layouts, err := fs.Glob(templatesFS, "layouts/*.html")
	if err != nil {
		return fmt.Errorf("finding layouts: %w", err)
	}

	partials, err := fs.Glob(templatesFS, "partials/*.html")
	if err != nil {
		return fmt.Errorf("finding partials: %w", err)
	}

	pages, err := fs.Glob(templatesFS, "pages/*.html")
	if err != nil {
		return fmt.Errorf("finding pages: %w", err)
	}

	// Common files to include with every page
	commonFiles := append(layouts, partials...)

	for _, page := range pages {
		name := strings.TrimSuffix(filepath.Base(page), ".html")
		files := append([]string{page}, commonFiles...)

		tmpl, err := template.New(name).Funcs(t.funcs).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		t.templates[name] = tmpl
	}

	return nil
}

// defaultFuncs returns the default template functions.
func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		// formatDateTime formats a show start as "Fri Jun 14, 2024 8:00 PM"
		"formatDateTime": func(t time.Time) string {
			return t.Format("Mon Jan 2, 2006 3:04 PM")
		},

		"clock": func(t pgtype.Time) string {
			return db.FormatClock(t)
		},

		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},

		"contains": func(list []string, s string) bool {
			return slices.Contains(list, s)
		},

		"join": strings.Join,

		// add adds two integers (for 1-based indexing in loops)
		"add": func(a, b int) int {
			return a + b
		},
	}
}

// PageData contains common data passed to all page templates.
type PageData struct {
	Title       string
	Flashes     []FlashMessage
	CurrentPath string
}

// FlashMessage represents a temporary notification message.
type FlashMessage struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// HomePageData contains data for the home page template.
type HomePageData struct {
	PageData
	Artists []db.Artist
	Venues  []db.Venue
}

// VenuesPageData contains data for the venues list.
type VenuesPageData struct {
	PageData
	Areas []booking.Area
}

// VenuePageData contains data for a single venue.
type VenuePageData struct {
	PageData
	*booking.VenueDetail
}

// ArtistsPageData contains data for the artists list.
type ArtistsPageData struct {
	PageData
	Artists []db.Summary
}

// ArtistPageData contains data for a single artist.
type ArtistPageData struct {
	PageData
	*booking.ArtistDetail
}

// SearchPageData contains data for search results.
type SearchPageData struct {
	PageData
	SearchTerm string
	Results    *db.SearchResult
	BasePath   string // "/venues" or "/artists"
}

// ShowsPageData contains data for the shows list.
type ShowsPageData struct {
	PageData
	Shows []db.ShowListing
}

// FormPageData contains data for every create/edit form.
type FormPageData[F any] struct {
	PageData
	Form    F
	Errors  forms.Errors
	Action  string
	Genres  []string
	States  []string
	Choices *booking.ShowChoices
}
