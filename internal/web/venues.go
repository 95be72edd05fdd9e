package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/justestif/gigbook/internal/db"
	"github.com/justestif/gigbook/internal/forms"
)

// Venues lists venues grouped by area (GET /venues).
func (h *Handlers) Venues(w http.ResponseWriter, r *http.Request) {
	areas, err := h.bookings.ListVenues(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "venues", VenuesPageData{
		PageData: h.page(r, "Venues"),
		Areas:    areas,
	})
}

// SearchVenues handles POST /venues/search.
func (h *Handlers) SearchVenues(w http.ResponseWriter, r *http.Request) {
	term := r.PostFormValue("search_term")
	results, err := h.bookings.SearchVenues(r.Context(), term)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "search", SearchPageData{
		PageData:   h.page(r, "Venue Search"),
		SearchTerm: term,
		Results:    results,
		BasePath:   "/venues",
	})
}

// Venue shows one venue with its past and upcoming shows (GET /venues/{id}).
func (h *Handlers) Venue(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	detail, err := h.bookings.VenueDetail(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		h.notFound(w, r, "venue", id, "/venues")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "venue", VenuePageData{
		PageData:    h.page(r, detail.Venue.Name),
		VenueDetail: detail,
	})
}

func (h *Handlers) renderVenueForm(w http.ResponseWriter, r *http.Request, status int, title, action string, f forms.VenueForm, errs forms.Errors) {
	h.render(w, r, status, "venue_form", FormPageData[forms.VenueForm]{
		PageData: h.page(r, title),
		Form:     f,
		Errors:   errs,
		Action:   action,
		Genres:   forms.Genres,
		States:   forms.States,
	})
}

// NewVenue renders the empty venue form (GET /venues/create).
func (h *Handlers) NewVenue(w http.ResponseWriter, r *http.Request) {
	h.renderVenueForm(w, r, http.StatusOK, "List a Venue", "/venues/create", forms.VenueForm{}, nil)
}

// CreateVenue handles POST /venues/create.
func (h *Handlers) CreateVenue(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form submission", http.StatusBadRequest)
		return
	}
	var f forms.VenueForm
	f.Decode(r.PostForm)

	venue, err := h.bookings.CreateVenue(r.Context(), &f)
	if errs, ok := validationErrors(err); ok {
		h.renderVenueForm(w, r, http.StatusUnprocessableEntity, "List a Venue", "/venues/create", f, errs)
		return
	}
	if err != nil {
		h.writeFailed(w, r, err, "An error occurred. Venue "+f.Name+" could not be listed.", "/")
		return
	}
	h.flash(w, r, "success", "Venue "+venue.Name+" was successfully listed!")
	redirect(w, r, "/")
}

// EditVenue renders the prefilled venue form (GET /venues/{id}/edit).
func (h *Handlers) EditVenue(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	f, err := h.bookings.VenueForm(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		h.notFound(w, r, "venue", id, "/venues")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderVenueForm(w, r, http.StatusOK, "Edit "+f.Name, venuePath(id)+"/edit", f, nil)
}

// UpdateVenue handles POST /venues/{id}/edit.
func (h *Handlers) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form submission", http.StatusBadRequest)
		return
	}
	var f forms.VenueForm
	f.Decode(r.PostForm)

	err := h.bookings.UpdateVenue(r.Context(), id, &f)
	if errs, ok := validationErrors(err); ok {
		h.renderVenueForm(w, r, http.StatusUnprocessableEntity, "Edit "+f.Name, venuePath(id)+"/edit", f, errs)
		return
	}
	switch {
	case errors.Is(err, db.ErrNotFound):
		h.notFound(w, r, "venue", id, "/venues")
	case err != nil:
		h.writeFailed(w, r, err, "An error occurred. Venue "+f.Name+" could not be updated.", venuePath(id))
	default:
		h.flash(w, r, "success", "Venue "+f.Name+" was successfully updated!")
		redirect(w, r, venuePath(id))
	}
}

// DeleteVenue removes a venue and its shows (DELETE /venues/{id} or
// POST /venues/{id}/delete).
func (h *Handlers) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	err := h.bookings.DeleteVenue(r.Context(), id)
	switch {
	case errors.Is(err, db.ErrNotFound):
		h.notFound(w, r, "venue", id, "/venues")
	case err != nil:
		h.writeFailed(w, r, err, "An error occurred. Venue #"+strconv.Itoa(id)+" could not be deleted.", venuePath(id))
	default:
		h.flash(w, r, "success", "Venue #"+strconv.Itoa(id)+" was successfully deleted.")
		redirect(w, r, "/venues")
	}
}

func venuePath(id int) string {
	return "/venues/" + strconv.Itoa(id)
}
