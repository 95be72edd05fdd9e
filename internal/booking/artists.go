package booking

import (
	"context"
	"strings"

	"github.com/justestif/gigbook/internal/db"
	"github.com/justestif/gigbook/internal/forms"
)

// ListArtists returns every artist by name.
func (s *Service) ListArtists(ctx context.Context) ([]db.Summary, error) {
	return s.db.Store().Artists().List(ctx)
}

// ArtistDetail is an artist with their schedule, albums and shows.
type ArtistDetail struct {
	Artist        *db.Artist
	Schedules     []db.ArtistSchedule
	Albums        []db.Album
	PastShows     []db.ShowListing
	UpcomingShows []db.ShowListing
}

// ArtistDetail loads the artist page. It returns db.ErrNotFound for an
// unknown id.
func (s *Service) ArtistDetail(ctx context.Context, id int) (*ArtistDetail, error) {
	store := s.db.Store()
	artist, err := store.Artists().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	schedules, err := store.Schedules().ForArtist(ctx, id)
	if err != nil {
		return nil, err
	}
	albums, err := store.Albums().ForArtist(ctx, id)
	if err != nil {
		return nil, err
	}
	shows, err := store.Shows().ForArtist(ctx, id)
	if err != nil {
		return nil, err
	}
	past, upcoming := Partition(shows, s.Now())
	return &ArtistDetail{
		Artist:        artist,
		Schedules:     schedules,
		Albums:        albums,
		PastShows:     past,
		UpcomingShows: upcoming,
	}, nil
}

// SearchArtists finds artists whose name, city or state contains term.
func (s *Service) SearchArtists(ctx context.Context, term string) (*db.SearchResult, error) {
	return s.db.Store().Artists().Search(ctx, strings.TrimSpace(term))
}

// ArtistForm prefills the edit form of an artist, schedule included.
func (s *Service) ArtistForm(ctx context.Context, id int) (forms.ArtistForm, error) {
	store := s.db.Store()
	artist, err := store.Artists().Get(ctx, id)
	if err != nil {
		return forms.ArtistForm{}, err
	}
	schedules, err := store.Schedules().ForArtist(ctx, id)
	if err != nil {
		return forms.ArtistForm{}, err
	}
	return forms.ArtistFormFrom(artist, schedules), nil
}

// ArtistName returns the name of an artist, or db.ErrNotFound.
func (s *Service) ArtistName(ctx context.Context, id int) (string, error) {
	artist, err := s.db.Store().Artists().Get(ctx, id)
	if err != nil {
		return "", err
	}
	return artist.Name, nil
}

// CreateArtist validates f and inserts the artist with one schedule row per
// selected day.
func (s *Service) CreateArtist(ctx context.Context, f *forms.ArtistForm) (*db.Artist, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return nil, invalid(errs)
	}
	artist := f.Artist()
	err := s.write(ctx, "artist", "create", func(store *db.Store) error {
		if err := store.Artists().Create(ctx, artist); err != nil {
			return err
		}
		return store.Schedules().CreateForArtist(ctx, artist.ID, f.Schedules())
	})
	if err != nil {
		return nil, err
	}
	return artist, nil
}

// UpdateArtist validates f and overwrites artist id and their schedule.
// Days left unselected are kept as unavailable rows without a window.
func (s *Service) UpdateArtist(ctx context.Context, id int, f *forms.ArtistForm) error {
	if errs := f.Validate(); len(errs) > 0 {
		return invalid(errs)
	}
	return s.write(ctx, "artist", "update", func(store *db.Store) error {
		artist, err := store.Artists().Get(ctx, id)
		if err != nil {
			return err
		}
		f.Apply(artist)
		if err := store.Artists().Update(ctx, artist); err != nil {
			return err
		}
		return store.Schedules().Replace(ctx, id, f.Schedules())
	})
}

// DeleteArtist removes an artist with their shows, schedule, albums and songs.
func (s *Service) DeleteArtist(ctx context.Context, id int) error {
	return s.write(ctx, "artist", "delete", func(store *db.Store) error {
		if _, err := store.Shows().DeleteForArtist(ctx, id); err != nil {
			return err
		}
		if err := store.Schedules().DeleteForArtist(ctx, id); err != nil {
			return err
		}
		if err := store.Albums().DeleteForArtist(ctx, id); err != nil {
			return err
		}
		return store.Artists().Delete(ctx, id)
	})
}

// CreateAlbum validates f and adds the album and its songs to artist id.
func (s *Service) CreateAlbum(ctx context.Context, artistID int, f *forms.AlbumForm) (*db.Album, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return nil, invalid(errs)
	}
	album := f.Album(artistID)
	err := s.write(ctx, "album", "create", func(store *db.Store) error {
		if _, err := store.Artists().Get(ctx, artistID); err != nil {
			return err
		}
		return store.Albums().Create(ctx, album, f.SongTitles())
	})
	if err != nil {
		return nil, err
	}
	return album, nil
}
