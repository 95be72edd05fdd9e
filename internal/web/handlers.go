package web

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/justestif/gigbook/internal/booking"
	"github.com/justestif/gigbook/internal/db"
	"github.com/justestif/gigbook/internal/forms"
)

// Bookings is the part of the booking service the pages use.
type Bookings interface {
	Home(ctx context.Context) (*booking.HomePage, error)

	ListVenues(ctx context.Context) ([]booking.Area, error)
	VenueDetail(ctx context.Context, id int) (*booking.VenueDetail, error)
	SearchVenues(ctx context.Context, term string) (*db.SearchResult, error)
	VenueForm(ctx context.Context, id int) (forms.VenueForm, error)
	CreateVenue(ctx context.Context, f *forms.VenueForm) (*db.Venue, error)
	UpdateVenue(ctx context.Context, id int, f *forms.VenueForm) error
	DeleteVenue(ctx context.Context, id int) error

	ListArtists(ctx context.Context) ([]db.Summary, error)
	ArtistDetail(ctx context.Context, id int) (*booking.ArtistDetail, error)
	SearchArtists(ctx context.Context, term string) (*db.SearchResult, error)
	ArtistForm(ctx context.Context, id int) (forms.ArtistForm, error)
	ArtistName(ctx context.Context, id int) (string, error)
	CreateArtist(ctx context.Context, f *forms.ArtistForm) (*db.Artist, error)
	UpdateArtist(ctx context.Context, id int, f *forms.ArtistForm) error
	DeleteArtist(ctx context.Context, id int) error
	CreateAlbum(ctx context.Context, artistID int, f *forms.AlbumForm) (*db.Album, error)

	ListShows(ctx context.Context) ([]db.ShowListing, error)
	NewShowForm() forms.ShowForm
	ShowChoices(ctx context.Context) (*booking.ShowChoices, error)
	CreateShow(ctx context.Context, f *forms.ShowForm) (*db.Show, error)
	DeleteShow(ctx context.Context, id int) error
}

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	bookings  Bookings
	flashes   *FlashStore
	templates *Templates
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(bookings Bookings, flashes *FlashStore, templates *Templates, logger *slog.Logger) *Handlers {
	return &Handlers{
		bookings:  bookings,
		flashes:   flashes,
		templates: templates,
		logger:    logger,
	}
}

// page builds the common page data and pops pending flash messages.
func (h *Handlers) page(r *http.Request, title string) PageData {
	return PageData{
		Title:       title,
		Flashes:     h.flashes.Pop(r),
		CurrentPath: r.URL.Path,
	}
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, page, data); err != nil {
		h.logger.ErrorContext(r.Context(), "rendering page",
			"page", page,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}
}

// fail logs err and shows the error page.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
	h.render(w, r, http.StatusInternalServerError, "500", h.page(r, "Server Error"))
}

func (h *Handlers) flash(w http.ResponseWriter, r *http.Request, kind, message string) {
	h.flashes.Add(w, r, FlashMessage{Type: kind, Message: message})
}

// redirect finishes a POST/DELETE with a See Other to a GET page.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// notFound flashes the missing entity and returns to its list page.
func (h *Handlers) notFound(w http.ResponseWriter, r *http.Request, entity string, id int, list string) {
	h.missing(w, r, entity, strconv.Itoa(id), list)
}

func (h *Handlers) missing(w http.ResponseWriter, r *http.Request, entity, id, list string) {
	h.flash(w, r, "error", "Could not find "+article(entity)+" "+entity+" with the ID #"+id)
	redirect(w, r, list)
}

func article(noun string) string {
	switch noun[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an"
	default:
		return "a"
	}
}

// pathID reads the {id} URL parameter. Routes guarded by knownID only
// reach their handler with an id that fits a serial column.
func pathID(r *http.Request) int {
	id, _ := parseID(chi.URLParam(r, "id"))
	return id
}

func parseID(s string) (int, bool) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 || id > math.MaxInt32 {
		return 0, false
	}
	return id, true
}

// knownID answers ids no row can have, such as 3000000000, with the
// not-found flash instead of passing them to the database.
func (h *Handlers) knownID(entity, list string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := chi.URLParam(r, "id")
			if _, ok := parseID(raw); !ok {
				h.missing(w, r, entity, raw, list)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Home handles the home page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	home, err := h.bookings.Home(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "home", HomePageData{
		PageData: h.page(r, "Gigbook"),
		Artists:  home.Artists,
		Venues:   home.Venues,
	})
}

// NotFound renders the 404 page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "404", h.page(r, "Page Not Found"))
}

// Recoverer turns a panicking request into the 500 page.
func (h *Handlers) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			h.logger.ErrorContext(r.Context(), "panic serving request",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", middleware.GetReqID(r.Context()),
				"panic", rec,
			)
			h.render(w, r, http.StatusInternalServerError, "500", h.page(r, "Server Error"))
		}()
		next.ServeHTTP(w, r)
	})
}

// Health reports whether the database is reachable (GET /healthz).
func Health(ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable\n"))
			return
		}
		_, _ = w.Write([]byte("ok\n"))
	}
}

// writeFailed reports an unexpected write error to the visitor and logs it.
func (h *Handlers) writeFailed(w http.ResponseWriter, r *http.Request, err error, message, to string) {
	h.logger.ErrorContext(r.Context(), "write failed",
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
	h.flash(w, r, "error", message)
	redirect(w, r, to)
}

// validationErrors extracts field failures from err.
func validationErrors(err error) (forms.Errors, bool) {
	var verr *booking.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}
