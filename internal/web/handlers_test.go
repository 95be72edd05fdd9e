package web

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justestif/gigbook/internal/availability"
	"github.com/justestif/gigbook/internal/booking"
	"github.com/justestif/gigbook/internal/db"
	"github.com/justestif/gigbook/internal/forms"
	"github.com/justestif/gigbook/internal/metrics"
	assets "github.com/justestif/gigbook/web"
)

// fakeBookings serves canned data and records writes.
type fakeBookings struct {
	venues    map[int]*db.Venue
	artists   map[int]*db.Artist
	createErr error
	showErr   error
	panicHome bool

	deletedVenues  []int
	deletedArtists []int
	deletedShows   []int
	searchTerms    []string
	lookedUp       []int
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{
		venues: map[int]*db.Venue{
			1: {ID: 1, Name: "The Musical Hop", City: "San Francisco", State: "CA", Phone: "123-123-1234", Genres: []string{"Jazz"}},
		},
		artists: map[int]*db.Artist{
			4: {ID: 4, Name: "Guns N Petals", City: "San Francisco", State: "CA", Phone: "326-123-5000", Genres: []string{"Rock n Roll"}},
		},
	}
}

func (f *fakeBookings) Home(context.Context) (*booking.HomePage, error) {
	if f.panicHome {
		panic("home exploded")
	}
	home := &booking.HomePage{}
	for _, a := range f.artists {
		home.Artists = append(home.Artists, *a)
	}
	for _, v := range f.venues {
		home.Venues = append(home.Venues, *v)
	}
	return home, nil
}

func (f *fakeBookings) ListVenues(context.Context) ([]booking.Area, error) {
	return []booking.Area{{City: "San Francisco", State: "CA", Venues: []booking.VenueSummary{{ID: 1, Name: "The Musical Hop", NumUpcomingShows: 2}}}}, nil
}

func (f *fakeBookings) VenueDetail(_ context.Context, id int) (*booking.VenueDetail, error) {
	f.lookedUp = append(f.lookedUp, id)
	v, ok := f.venues[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	start := time.Date(2024, 6, 21, 20, 0, 0, 0, time.UTC)
	return &booking.VenueDetail{
		Venue: v,
		UpcomingShows: []db.ShowListing{{
			Show:       db.Show{ID: 9, ArtistID: 4, VenueID: id, Name: "Petals at the Hop", StartTime: start},
			ArtistName: "Guns N Petals",
			VenueName:  v.Name,
		}},
	}, nil
}

func (f *fakeBookings) SearchVenues(_ context.Context, term string) (*db.SearchResult, error) {
	f.searchTerms = append(f.searchTerms, term)
	return &db.SearchResult{Count: 1, Items: []db.Summary{{ID: 1, Name: "The Musical Hop"}}}, nil
}

func (f *fakeBookings) VenueForm(_ context.Context, id int) (forms.VenueForm, error) {
	v, ok := f.venues[id]
	if !ok {
		return forms.VenueForm{}, db.ErrNotFound
	}
	return forms.VenueFormFrom(v), nil
}

func (f *fakeBookings) CreateVenue(_ context.Context, form *forms.VenueForm) (*db.Venue, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, &booking.ValidationError{Fields: errs}
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	v := form.Venue()
	v.ID = 2
	return v, nil
}

func (f *fakeBookings) UpdateVenue(_ context.Context, id int, form *forms.VenueForm) error {
	if _, ok := f.venues[id]; !ok {
		return db.ErrNotFound
	}
	if errs := form.Validate(); len(errs) > 0 {
		return &booking.ValidationError{Fields: errs}
	}
	return nil
}

func (f *fakeBookings) DeleteVenue(_ context.Context, id int) error {
	if _, ok := f.venues[id]; !ok {
		return db.ErrNotFound
	}
	f.deletedVenues = append(f.deletedVenues, id)
	return nil
}

func (f *fakeBookings) ListArtists(context.Context) ([]db.Summary, error) {
	return []db.Summary{{ID: 4, Name: "Guns N Petals"}}, nil
}

func (f *fakeBookings) ArtistDetail(_ context.Context, id int) (*booking.ArtistDetail, error) {
	a, ok := f.artists[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &booking.ArtistDetail{
		Artist: a,
		Schedules: []db.ArtistSchedule{
			{ArtistID: id, DayOfWeek: db.Friday, Available: true, StartTime: db.ClockTime(18, 0, 0), EndTime: db.DefaultEndTime},
		},
		Albums: []db.Album{{ID: 1, ArtistID: id, Title: "Petal Pusher", Cover: "https://example.com/c.jpg", Songs: []db.Song{{ID: 1, Title: "Thorns"}}}},
	}, nil
}

func (f *fakeBookings) SearchArtists(_ context.Context, term string) (*db.SearchResult, error) {
	f.searchTerms = append(f.searchTerms, term)
	return &db.SearchResult{}, nil
}

func (f *fakeBookings) ArtistForm(_ context.Context, id int) (forms.ArtistForm, error) {
	a, ok := f.artists[id]
	if !ok {
		return forms.ArtistForm{}, db.ErrNotFound
	}
	return forms.ArtistFormFrom(a, nil), nil
}

func (f *fakeBookings) ArtistName(_ context.Context, id int) (string, error) {
	a, ok := f.artists[id]
	if !ok {
		return "", db.ErrNotFound
	}
	return a.Name, nil
}

func (f *fakeBookings) CreateArtist(_ context.Context, form *forms.ArtistForm) (*db.Artist, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, &booking.ValidationError{Fields: errs}
	}
	a := form.Artist()
	a.ID = 5
	return a, nil
}

func (f *fakeBookings) UpdateArtist(_ context.Context, id int, form *forms.ArtistForm) error {
	if _, ok := f.artists[id]; !ok {
		return db.ErrNotFound
	}
	if errs := form.Validate(); len(errs) > 0 {
		return &booking.ValidationError{Fields: errs}
	}
	return nil
}

func (f *fakeBookings) DeleteArtist(_ context.Context, id int) error {
	if _, ok := f.artists[id]; !ok {
		return db.ErrNotFound
	}
	f.deletedArtists = append(f.deletedArtists, id)
	return nil
}

func (f *fakeBookings) CreateAlbum(_ context.Context, artistID int, form *forms.AlbumForm) (*db.Album, error) {
	if _, ok := f.artists[artistID]; !ok {
		return nil, db.ErrNotFound
	}
	if errs := form.Validate(); len(errs) > 0 {
		return nil, &booking.ValidationError{Fields: errs}
	}
	return form.Album(artistID), nil
}

func (f *fakeBookings) ListShows(context.Context) ([]db.ShowListing, error) {
	return nil, nil
}

func (f *fakeBookings) NewShowForm() forms.ShowForm {
	return forms.ShowForm{StartTime: "2024-06-15T20:00"}
}

func (f *fakeBookings) ShowChoices(context.Context) (*booking.ShowChoices, error) {
	return &booking.ShowChoices{
		Artists: []db.Summary{{ID: 4, Name: "Guns N Petals"}},
		Venues:  []db.Summary{{ID: 1, Name: "The Musical Hop"}},
	}, nil
}

func (f *fakeBookings) CreateShow(_ context.Context, form *forms.ShowForm) (*db.Show, error) {
	if errs := form.Validate(time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)); len(errs) > 0 {
		return nil, &booking.ValidationError{Fields: errs}
	}
	if f.showErr != nil {
		return nil, f.showErr
	}
	return form.Show(), nil
}

func (f *fakeBookings) DeleteShow(_ context.Context, id int) error {
	if id != 9 {
		return db.ErrNotFound
	}
	f.deletedShows = append(f.deletedShows, id)
	return nil
}

func newTestServer(t *testing.T, bookings *fakeBookings, ping func(context.Context) error) http.Handler {
	t.Helper()

	templatesFS, err := fs.Sub(assets.TemplatesFS, "templates")
	require.NoError(t, err)
	staticFS, err := fs.Sub(assets.StaticFS, "static")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	srv, err := NewServer(ServerConfig{
		TemplatesFS: templatesFS,
		StaticFS:    staticFS,
		Bookings:    bookings,
		Ping:        ping,
		Metrics:     metrics.NewWithRegistry(reg, reg),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return srv.Handler()
}

func do(h http.Handler, method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// follow requests the redirect target of rec, carrying its cookies.
func follow(t *testing.T, h http.Handler, rec *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code)
	return do(h, http.MethodGet, rec.Header().Get("Location"), nil, rec.Result().Cookies()...)
}

func validVenueForm() url.Values {
	return url.Values{
		"name":    {"The Dueling Pianos Bar"},
		"city":    {"New York"},
		"state":   {"NY"},
		"address": {"335 Delancey Street"},
		"phone":   {"914-003-1132"},
		"genres":  {"Classical", "R&B"},
	}
}

func TestHome(t *testing.T) {
	h := newTestServer(t, newFakeBookings(), nil)

	rec := do(h, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Guns N Petals")
	assert.Contains(t, rec.Body.String(), "The Musical Hop")
}

func TestPages(t *testing.T) {
	h := newTestServer(t, newFakeBookings(), nil)

	tests := []struct {
		path string
		want string
	}{
		{path: "/venues", want: "2 upcoming shows"},
		{path: "/venues/1", want: "Petals at the Hop"},
		{path: "/venues/create", want: "List a Venue"},
		{path: "/venues/1/edit", want: "Edit The Musical Hop"},
		{path: "/artists", want: "Guns N Petals"},
		{path: "/artists/4", want: "18:00:00"},
		{path: "/artists/create", want: "Saturday_schedule_start_time"},
		{path: "/artists/4/edit", want: "Edit Guns N Petals"},
		{path: "/artists/4/albums/create", want: "Add an album for Guns N Petals"},
		{path: "/shows", want: "No shows yet"},
		{path: "/shows/create", want: "2024-06-15T20:00"},
		{path: "/static/css/app.css", want: ".flash"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(h, http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestUnknownEntity_FlashesAndRedirects(t *testing.T) {
	h := newTestServer(t, newFakeBookings(), nil)

	rec := do(h, http.MethodGet, "/venues/7", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/venues", rec.Header().Get("Location"))

	page := follow(t, h, rec)
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Could not find a venue with the ID #7")

	rec = do(h, http.MethodGet, "/artists/99/edit", nil)
	assert.Equal(t, "/artists", rec.Header().Get("Location"))
	assert.Contains(t, follow(t, h, rec).Body.String(), "Could not find an artist with the ID #99")
}

func TestOversizedID_FlashesNotFound(t *testing.T) {
	tests := []struct {
		method, path, list, want string
	}{
		{http.MethodGet, "/venues/3000000000", "/venues", "Could not find a venue with the ID #3000000000"},
		{http.MethodGet, "/venues/99999999999999999999", "/venues", "Could not find a venue with the ID #99999999999999999999"},
		{http.MethodGet, "/artists/2147483648/edit", "/artists", "Could not find an artist with the ID #2147483648"},
		{http.MethodPost, "/shows/3000000000/delete", "/shows", "Could not find a show with the ID #3000000000"},
		{http.MethodGet, "/venues/0", "/venues", "Could not find a venue with the ID #0"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			fake := newFakeBookings()
			h := newTestServer(t, fake, nil)

			rec := do(h, tt.method, tt.path, nil)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.list, rec.Header().Get("Location"))
			assert.Contains(t, follow(t, h, rec).Body.String(), tt.want)
			assert.Empty(t, fake.lookedUp)
			assert.Empty(t, fake.deletedShows)
		})
	}
}

func TestNotFoundPage(t *testing.T) {
	h := newTestServer(t, newFakeBookings(), nil)

	for _, path := range []string{"/nope", "/venues/abc"} {
		rec := do(h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "does not exist", path)
	}
}

func TestPanicRendersErrorPage(t *testing.T) {
	bookings := newFakeBookings()
	bookings.panicHome = true
	h := newTestServer(t, bookings, nil)

	rec := do(h, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong")
}

func TestCreateVenue(t *testing.T) {
	h := newTestServer(t, newFakeBookings(), nil)

	rec := do(h, http.MethodPost, "/venues/create", validVenueForm())
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Contains(t, follow(t, h, rec).Body.String(), "Venue The Dueling Pianos Bar was successfully listed!")
}

func TestCreateVenue_ShowsFieldErrors(t *testing.T) {
	h := newTestServer(t, newFakeBookings(), nil)

	form := validVenueForm()
	form.Set("phone", "9140031132")
	form.Del("name")

	rec := do(h, http.MethodPost, "/venues/create", form)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "This field is required.")
	assert.Contains(t, body, "Phone number must look like 123-456-7890.")
	assert.Contains(t, body, `value="New York"`)
}

func TestCreateVenue_WriteFailure(t *testing.T) {
	bookings := newFakeBookings()
	bookings.createErr = errors.New("connection reset")
	h := newTestServer(t, bookings, nil)

	rec := do(h, http.MethodPost, "/venues/create", validVenueForm())

	page := follow(t, h, rec)
	assert.Contains(t, page.Body.String(), "An error occurred. Venue The Dueling Pianos Bar could not be listed.")
	assert.NotContains(t, page.Body.String(), "connection reset")
}

func TestDeleteVenue(t *testing.T) {
	bookings := newFakeBookings()
	h := newTestServer(t, bookings, nil)

	rec := do(h, http.MethodDelete, "/venues/1", nil)
	assert.Equal(t, "/venues", rec.Header().Get("Location"))

	rec = do(h, http.MethodPost, "/venues/1/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	assert.Equal(t, []int{1, 1}, bookings.deletedVenues)
}

func TestDeleteArtistAndShow(t *testing.T) {
	bookings := newFakeBookings()
	h := newTestServer(t, bookings, nil)

	rec := do(h, http.MethodDelete, "/artists/4", nil)
	assert.Equal(t, "/artists", rec.Header().Get("Location"))

	rec = do(h, http.MethodPost, "/shows/9/delete", url.Values{})
	assert.Equal(t, "/shows", rec.Header().Get("Location"))

	rec = do(h, http.MethodDelete, "/shows/10", nil)
	assert.Contains(t, follow(t, h, rec).Body.String(), "Could not find a show with the ID #10")

	assert.Equal(t, []int{4}, bookings.deletedArtists)
	assert.Equal(t, []int{9}, bookings.deletedShows)
}

func TestSearch(t *testing.T) {
	bookings := newFakeBookings()
	h := newTestServer(t, bookings, nil)

	rec := do(h, http.MethodPost, "/venues/search", url.Values{"search_term": {"hop"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/venues/1"`)

	rec = do(h, http.MethodPost, "/artists/search", url.Values{"search_term": {"zzz"}})
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"hop", "zzz"}, bookings.searchTerms)
}

func TestCreateArtist_ScheduleErrors(t *testing.T) {
	h := newTestServer(t, newFakeBookings(), nil)

	form := url.Values{
		"name":                       {"Matt Quevedo"},
		"city":                       {"New York"},
		"state":                      {"NY"},
		"phone":                      {"300-400-5000"},
		"genres":                     {"Jazz"},
		"Friday":                     {"y"},
		"Friday_schedule_start_time": {"22:00"},
		"Friday_schedule_end_time":   {"18:00"},
	}
	rec := do(h, http.MethodPost, "/artists/create", form)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Friday must end after it starts.")
}

func TestCreateAlbum(t *testing.T) {
	h := newTestServer(t, newFakeBookings(), nil)

	rec := do(h, http.MethodPost, "/artists/4/albums/create", url.Values{
		"title": {"Petal Pusher"},
		"cover": {"https://example.com/cover.jpg"},
		"songs": {"Thorns\nBloom"},
	})
	assert.Equal(t, "/artists/4", rec.Header().Get("Location"))

	rec = do(h, http.MethodPost, "/artists/4/albums/create", url.Values{"title": {"No Cover"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "This field is required.")
}

func TestCreateShow(t *testing.T) {
	form := url.Values{
		"name":       {"Friday Night"},
		"artist_id":  {"4"},
		"venue_id":   {"1"},
		"start_time": {"2024-06-21T20:00"},
	}

	t.Run("booked", func(t *testing.T) {
		h := newTestServer(t, newFakeBookings(), nil)
		rec := do(h, http.MethodPost, "/shows/create", form)
		assert.Contains(t, follow(t, h, rec).Body.String(), "Show was successfully listed!")
	})

	t.Run("artist unavailable", func(t *testing.T) {
		bookings := newFakeBookings()
		bookings.showErr = availability.ErrUnavailable
		h := newTestServer(t, bookings, nil)

		rec := do(h, http.MethodPost, "/shows/create", form)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "This artist is not available during the specified time")
		assert.Contains(t, rec.Body.String(), `value="2024-06-21T20:00"`)
	})

	t.Run("invalid ids", func(t *testing.T) {
		h := newTestServer(t, newFakeBookings(), nil)
		bad := url.Values{"name": {"x"}, "artist_id": {"-1"}, "venue_id": {"abc"}, "start_time": {"2024-06-21T20:00"}}

		rec := do(h, http.MethodPost, "/shows/create", bad)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "is not a valid ID.")
	})
}

func TestHealthAndMetrics(t *testing.T) {
	healthy := newTestServer(t, newFakeBookings(), nil)
	rec := do(healthy, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	down := newTestServer(t, newFakeBookings(), func(context.Context) error { return errors.New("db down") })
	rec = do(down, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	do(healthy, http.MethodGet, "/venues/1", nil)
	rec = do(healthy, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `gigbook_http_request_duration_seconds_count{method="GET",route="/venues/`)
}
