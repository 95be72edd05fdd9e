package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/justestif/gigbook/internal/availability"
	"github.com/justestif/gigbook/internal/db"
	"github.com/justestif/gigbook/internal/forms"
)

// Shows lists every show (GET /shows).
func (h *Handlers) Shows(w http.ResponseWriter, r *http.Request) {
	shows, err := h.bookings.ListShows(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "shows", ShowsPageData{
		PageData: h.page(r, "Shows"),
		Shows:    shows,
	})
}

func (h *Handlers) renderShowForm(w http.ResponseWriter, r *http.Request, status int, f forms.ShowForm, errs forms.Errors, flashes ...FlashMessage) {
	choices, err := h.bookings.ShowChoices(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page := h.page(r, "List a Show")
	page.Flashes = append(page.Flashes, flashes...)
	h.render(w, r, status, "show_form", FormPageData[forms.ShowForm]{
		PageData: page,
		Form:     f,
		Errors:   errs,
		Action:   "/shows/create",
		Choices:  choices,
	})
}

// NewShow renders the show form (GET /shows/create).
func (h *Handlers) NewShow(w http.ResponseWriter, r *http.Request) {
	h.renderShowForm(w, r, http.StatusOK, h.bookings.NewShowForm(), nil)
}

// CreateShow books a show (POST /shows/create).
func (h *Handlers) CreateShow(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form submission", http.StatusBadRequest)
		return
	}
	var f forms.ShowForm
	f.Decode(r.PostForm)

	_, err := h.bookings.CreateShow(r.Context(), &f)
	if errs, ok := validationErrors(err); ok {
		h.renderShowForm(w, r, http.StatusUnprocessableEntity, f, errs)
		return
	}
	switch {
	case errors.Is(err, availability.ErrUnavailable):
		h.renderShowForm(w, r, http.StatusUnprocessableEntity, f, nil, FlashMessage{
			Type:    "error",
			Message: "This artist is not available during the specified time",
		})
	case err != nil:
		h.writeFailed(w, r, err, "An error occurred. Show could not be listed.", "/")
	default:
		h.flash(w, r, "success", "Show was successfully listed!")
		redirect(w, r, "/")
	}
}

// DeleteShow cancels a show (DELETE /shows/{id} or POST /shows/{id}/delete).
func (h *Handlers) DeleteShow(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	err := h.bookings.DeleteShow(r.Context(), id)
	switch {
	case errors.Is(err, db.ErrNotFound):
		h.notFound(w, r, "show", id, "/shows")
	case err != nil:
		h.writeFailed(w, r, err, "An error occurred. Show #"+strconv.Itoa(id)+" could not be deleted.", "/shows")
	default:
		h.flash(w, r, "success", "Show #"+strconv.Itoa(id)+" was successfully deleted.")
		redirect(w, r, "/shows")
	}
}
