package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/justestif/gigbook/internal/db"
	"github.com/justestif/gigbook/internal/forms"
)

// Artists lists every artist (GET /artists).
func (h *Handlers) Artists(w http.ResponseWriter, r *http.Request) {
	artists, err := h.bookings.ListArtists(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "artists", ArtistsPageData{
		PageData: h.page(r, "Artists"),
		Artists:  artists,
	})
}

// SearchArtists handles POST /artists/search.
func (h *Handlers) SearchArtists(w http.ResponseWriter, r *http.Request) {
	term := r.PostFormValue("search_term")
	results, err := h.bookings.SearchArtists(r.Context(), term)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "search", SearchPageData{
		PageData:   h.page(r, "Artist Search"),
		SearchTerm: term,
		Results:    results,
		BasePath:   "/artists",
	})
}

// Artist shows one artist (GET /artists/{id}).
func (h *Handlers) Artist(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	detail, err := h.bookings.ArtistDetail(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		h.notFound(w, r, "artist", id, "/artists")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "artist", ArtistPageData{
		PageData:     h.page(r, detail.Artist.Name),
		ArtistDetail: detail,
	})
}

func (h *Handlers) renderArtistForm(w http.ResponseWriter, r *http.Request, status int, title, action string, f forms.ArtistForm, errs forms.Errors) {
	h.render(w, r, status, "artist_form", FormPageData[forms.ArtistForm]{
		PageData: h.page(r, title),
		Form:     f,
		Errors:   errs,
		Action:   action,
		Genres:   forms.Genres,
		States:   forms.States,
	})
}

// NewArtist renders the empty artist form (GET /artists/create).
func (h *Handlers) NewArtist(w http.ResponseWriter, r *http.Request) {
	h.renderArtistForm(w, r, http.StatusOK, "List an Artist", "/artists/create", forms.NewArtistForm(), nil)
}

// CreateArtist handles POST /artists/create.
func (h *Handlers) CreateArtist(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form submission", http.StatusBadRequest)
		return
	}
	var f forms.ArtistForm
	f.Decode(r.PostForm)

	artist, err := h.bookings.CreateArtist(r.Context(), &f)
	if errs, ok := validationErrors(err); ok {
		h.renderArtistForm(w, r, http.StatusUnprocessableEntity, "List an Artist", "/artists/create", f, errs)
		return
	}
	if err != nil {
		h.writeFailed(w, r, err, "An error occurred. Artist "+f.Name+" could not be listed.", "/")
		return
	}
	h.flash(w, r, "success", "Artist "+artist.Name+" was successfully listed!")
	redirect(w, r, "/")
}

// EditArtist renders the prefilled artist form (GET /artists/{id}/edit).
func (h *Handlers) EditArtist(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	f, err := h.bookings.ArtistForm(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		h.notFound(w, r, "artist", id, "/artists")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderArtistForm(w, r, http.StatusOK, "Edit "+f.Name, artistPath(id)+"/edit", f, nil)
}

// UpdateArtist handles POST /artists/{id}/edit.
func (h *Handlers) UpdateArtist(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form submission", http.StatusBadRequest)
		return
	}
	var f forms.ArtistForm
	f.Decode(r.PostForm)

	err := h.bookings.UpdateArtist(r.Context(), id, &f)
	if errs, ok := validationErrors(err); ok {
		h.renderArtistForm(w, r, http.StatusUnprocessableEntity, "Edit "+f.Name, artistPath(id)+"/edit", f, errs)
		return
	}
	switch {
	case errors.Is(err, db.ErrNotFound):
		h.notFound(w, r, "artist", id, "/artists")
	case err != nil:
		h.writeFailed(w, r, err, "An error occurred. Artist "+f.Name+" could not be updated.", artistPath(id))
	default:
		h.flash(w, r, "success", "Artist "+f.Name+" was successfully updated!")
		redirect(w, r, artistPath(id))
	}
}

// DeleteArtist removes an artist with everything that belongs to them
// (DELETE /artists/{id} or POST /artists/{id}/delete).
func (h *Handlers) DeleteArtist(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	err := h.bookings.DeleteArtist(r.Context(), id)
	switch {
	case errors.Is(err, db.ErrNotFound):
		h.notFound(w, r, "artist", id, "/artists")
	case err != nil:
		h.writeFailed(w, r, err, "An error occurred. Artist #"+strconv.Itoa(id)+" could not be deleted.", artistPath(id))
	default:
		h.flash(w, r, "success", "Artist #"+strconv.Itoa(id)+" was successfully deleted.")
		redirect(w, r, "/artists")
	}
}

func (h *Handlers) renderAlbumForm(w http.ResponseWriter, r *http.Request, status int, artistID int, name string, f forms.AlbumForm, errs forms.Errors) {
	h.render(w, r, status, "album_form", FormPageData[forms.AlbumForm]{
		PageData: h.page(r, "Add an album for "+name),
		Form:     f,
		Errors:   errs,
		Action:   artistPath(artistID) + "/albums/create",
	})
}

// NewAlbum renders the album form (GET /artists/{id}/albums/create).
func (h *Handlers) NewAlbum(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	name, err := h.bookings.ArtistName(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		h.notFound(w, r, "artist", id, "/artists")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderAlbumForm(w, r, http.StatusOK, id, name, forms.AlbumForm{}, nil)
}

// CreateAlbum handles POST /artists/{id}/albums/create.
func (h *Handlers) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form submission", http.StatusBadRequest)
		return
	}
	var f forms.AlbumForm
	f.Decode(r.PostForm)

	album, err := h.bookings.CreateAlbum(r.Context(), id, &f)
	if errs, ok := validationErrors(err); ok {
		name, nameErr := h.bookings.ArtistName(r.Context(), id)
		if nameErr != nil {
			name = "#" + strconv.Itoa(id)
		}
		h.renderAlbumForm(w, r, http.StatusUnprocessableEntity, id, name, f, errs)
		return
	}
	switch {
	case errors.Is(err, db.ErrNotFound):
		h.notFound(w, r, "artist", id, "/artists")
	case err != nil:
		h.writeFailed(w, r, err, "An error occurred. Album "+f.Title+" could not be added.", artistPath(id))
	default:
		h.flash(w, r, "success", "Album "+album.Title+" was successfully added!")
		redirect(w, r, artistPath(id))
	}
}

func artistPath(id int) string {
	return "/artists/" + strconv.Itoa(id)
}
