package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/justestif/gigbook/internal/availability"
	"github.com/justestif/gigbook/internal/db"
	"github.com/justestif/gigbook/internal/forms"
	"github.com/justestif/gigbook/internal/metrics"
)

// Partition splits shows around now. A show starting exactly at now is in
// both halves.
func Partition(shows []db.ShowListing, now time.Time) (past, upcoming []db.ShowListing) {
	for _, show := range shows {
		if !show.StartTime.After(now) {
			past = append(past, show)
		}
		if !show.StartTime.Before(now) {
			upcoming = append(upcoming, show)
		}
	}
	return past, upcoming
}

// ListShows returns every show, soonest first.
func (s *Service) ListShows(ctx context.Context) ([]db.ShowListing, error) {
	return s.db.Store().Shows().List(ctx)
}

// NewShowForm returns a blank show form.
func (s *Service) NewShowForm() forms.ShowForm {
	return forms.NewShowForm(s.Now())
}

// ShowChoices are the options of the show form's artist and venue selects.
type ShowChoices struct {
	Artists []db.Summary
	Venues  []db.Summary
}

// ShowChoices loads the artists and venues a show can be booked for.
func (s *Service) ShowChoices(ctx context.Context) (*ShowChoices, error) {
	store := s.db.Store()
	artists, err := store.Artists().List(ctx)
	if err != nil {
		return nil, err
	}
	venues, err := store.Venues().List(ctx)
	if err != nil {
		return nil, err
	}
	choices := &ShowChoices{Artists: artists, Venues: make([]db.Summary, len(venues))}
	for i, v := range venues {
		choices.Venues[i] = db.Summary{ID: v.ID, Name: v.Name}
	}
	return choices, nil
}

// CreateShow validates f and books the show. It returns a *ValidationError
// for bad input or a missing artist or venue, and
// availability.ErrUnavailable when the artist's schedule does not cover the
// start time. The existence and schedule checks run in the insert's
// transaction.
func (s *Service) CreateShow(ctx context.Context, f *forms.ShowForm) (*db.Show, error) {
	if errs := f.Validate(s.Now()); len(errs) > 0 {
		return nil, invalid(errs)
	}
	show := f.Show()

	err := s.write(ctx, "show", "create", func(store *db.Store) error {
		var errs forms.Errors
		if _, err := store.Artists().Get(ctx, show.ArtistID); errors.Is(err, db.ErrNotFound) {
			errs.Add("artist_id", fmt.Sprintf("Could not find an artist with the ID #%d.", show.ArtistID))
		} else if err != nil {
			return err
		}
		if _, err := store.Venues().Get(ctx, show.VenueID); errors.Is(err, db.ErrNotFound) {
			errs.Add("venue_id", fmt.Sprintf("Could not find a venue with the ID #%d.", show.VenueID))
		} else if err != nil {
			return err
		}
		if len(errs) > 0 {
			return invalid(errs)
		}

		if err := s.checker.Check(ctx, store.Schedules(), show.ArtistID, show.StartTime); err != nil {
			return err
		}
		return store.Shows().Create(ctx, show)
	})

	switch {
	case err == nil:
		s.recorder.ObserveBooking(metrics.BookingBooked)
		return show, nil
	case errors.Is(err, availability.ErrUnavailable):
		s.recorder.ObserveBooking(metrics.BookingUnavailable)
	default:
		s.recorder.ObserveBooking(metrics.BookingFailed)
	}
	return nil, err
}

// DeleteShow removes a show. It returns db.ErrNotFound for an unknown id.
func (s *Service) DeleteShow(ctx context.Context, id int) error {
	return s.write(ctx, "show", "delete", func(store *db.Store) error {
		return store.Shows().Delete(ctx, id)
	})
}
