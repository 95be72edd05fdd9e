package booking

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/justestif/gigbook/internal/db"
	"github.com/justestif/gigbook/internal/forms"
)

// Area is a (city, state) group on the venues page.
type Area struct {
	City   string
	State  string
	Venues []VenueSummary
}

// VenueSummary is one venue entry of an Area.
type VenueSummary struct {
	ID               int
	Name             string
	NumUpcomingShows int
}

// GroupByArea groups venues by city and state, ignoring case and surrounding
// space. Areas and their venues keep the order of first appearance, and each
// area is spelled the way its first venue spells it.
func GroupByArea(venues []db.Venue, upcoming map[int]int) []Area {
	fold := cases.Fold()
	index := make(map[string]int)

	var areas []Area
	for _, v := range venues {
		city, state := strings.TrimSpace(v.City), strings.TrimSpace(v.State)
		key := fold.String(city) + "\x00" + fold.String(state)

		i, ok := index[key]
		if !ok {
			i = len(areas)
			index[key] = i
			areas = append(areas, Area{City: city, State: state})
		}
		areas[i].Venues = append(areas[i].Venues, VenueSummary{
			ID:               v.ID,
			Name:             v.Name,
			NumUpcomingShows: upcoming[v.ID],
		})
	}
	return areas
}

// ListVenues returns venues grouped by area with their upcoming show counts.
func (s *Service) ListVenues(ctx context.Context) ([]Area, error) {
	store := s.db.Store()
	venues, err := store.Venues().List(ctx)
	if err != nil {
		return nil, err
	}
	shows, err := store.Shows().List(ctx)
	if err != nil {
		return nil, err
	}

	_, upcoming := Partition(shows, s.Now())
	counts := make(map[int]int)
	for _, show := range upcoming {
		counts[show.VenueID]++
	}
	return GroupByArea(venues, counts), nil
}

// VenueDetail is a venue with its shows split around now.
type VenueDetail struct {
	Venue         *db.Venue
	PastShows     []db.ShowListing
	UpcomingShows []db.ShowListing
}

// VenueDetail loads the venue page. It returns db.ErrNotFound for an unknown id.
func (s *Service) VenueDetail(ctx context.Context, id int) (*VenueDetail, error) {
	store := s.db.Store()
	venue, err := store.Venues().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	shows, err := store.Shows().ForVenue(ctx, id)
	if err != nil {
		return nil, err
	}
	past, upcoming := Partition(shows, s.Now())
	return &VenueDetail{Venue: venue, PastShows: past, UpcomingShows: upcoming}, nil
}

// SearchVenues finds venues whose name, city or state contains term.
func (s *Service) SearchVenues(ctx context.Context, term string) (*db.SearchResult, error) {
	return s.db.Store().Venues().Search(ctx, strings.TrimSpace(term))
}

// VenueForm prefills the edit form of a venue.
func (s *Service) VenueForm(ctx context.Context, id int) (forms.VenueForm, error) {
	venue, err := s.db.Store().Venues().Get(ctx, id)
	if err != nil {
		return forms.VenueForm{}, err
	}
	return forms.VenueFormFrom(venue), nil
}

// CreateVenue validates f and inserts the venue.
func (s *Service) CreateVenue(ctx context.Context, f *forms.VenueForm) (*db.Venue, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return nil, invalid(errs)
	}
	venue := f.Venue()
	err := s.write(ctx, "venue", "create", func(store *db.Store) error {
		return store.Venues().Create(ctx, venue)
	})
	if err != nil {
		return nil, err
	}
	return venue, nil
}

// UpdateVenue validates f and overwrites venue id with it.
func (s *Service) UpdateVenue(ctx context.Context, id int, f *forms.VenueForm) error {
	if errs := f.Validate(); len(errs) > 0 {
		return invalid(errs)
	}
	return s.write(ctx, "venue", "update", func(store *db.Store) error {
		venue, err := store.Venues().Get(ctx, id)
		if err != nil {
			return err
		}
		f.Apply(venue)
		return store.Venues().Update(ctx, venue)
	})
}

// DeleteVenue removes a venue and every show booked there.
func (s *Service) DeleteVenue(ctx context.Context, id int) error {
	return s.write(ctx, "venue", "delete", func(store *db.Store) error {
		if _, err := store.Shows().DeleteForVenue(ctx, id); err != nil {
			return err
		}
		return store.Venues().Delete(ctx, id)
	})
}
