package db

import (
	"context"
	"fmt"
	"time"
)

func ptr(s string) *string { return &s }

// Seed populates an empty database with a small set of demo venues, artists,
// albums and shows. It does nothing when any venue or artist already exists.
// Shows are placed relative to now so both past and upcoming lists have rows.
func (db *DB) Seed(ctx context.Context, now time.Time) (bool, error) {
	var existing int
	err := db.pool.QueryRow(ctx, `SELECT (SELECT COUNT(*) FROM venue) + (SELECT COUNT(*) FROM artist)`).Scan(&existing)
	if err != nil {
		return false, fmt.Errorf("counting existing rows: %w", err)
	}
	if existing > 0 {
		return false, nil
	}

	venues := []Venue{
		{
			Name:               "The Musical Hop",
			Address:            "1015 Folsom Street",
			City:               "San Francisco",
			State:              "CA",
			Phone:              "123-123-1234",
			Genres:             []string{"Jazz", "Reggae", "Classical", "Folk"},
			Website:            ptr("https://www.themusicalhop.com"),
			FacebookLink:       ptr("https://www.facebook.com/TheMusicalHop"),
			SeekingTalent:      true,
			SeekingDescription: ptr("We are on the lookout for a local artist to play every two weeks."),
		},
		{
			Name:    "The Dueling Pianos Bar",
			Address: "335 Delancey Street",
			City:    "New York",
			State:   "NY",
			Phone:   "914-003-1132",
			Genres:  []string{"Classical", "R&B", "Hip-Hop"},
			Website: ptr("https://www.theduelingpianos.com"),
		},
		{
			Name:    "Park Square Live Music & Coffee",
			Address: "34 Whiskey Moore Ave",
			City:    "San Francisco",
			State:   "CA",
			Phone:   "415-000-1234",
			Genres:  []string{"Rock n Roll", "Jazz", "Classical", "Folk"},
		},
	}
	artists := []struct {
		artist Artist
		days   []DaySchedule
		album  *Album
		songs  []string
	}{
		{
			artist: Artist{
				Name:               "Guns N Petals",
				City:               "San Francisco",
				State:              "CA",
				Phone:              "326-123-5000",
				Genres:             []string{"Rock n Roll"},
				SeekingVenue:       true,
				SeekingDescription: ptr("Looking for shows to perform at in the San Francisco Bay Area!"),
			},
			days:  everyDay(),
			album: &Album{Title: "Petal Pusher", Cover: "https://picsum.photos/seed/petal/400/600"},
			songs: []string{"Thorns", "Bloom", "Wilted"},
		},
		{
			artist: Artist{
				Name:   "Matt Quevedo",
				City:   "New York",
				State:  "NY",
				Phone:  "300-400-5000",
				Genres: []string{"Jazz"},
			},
			days: []DaySchedule{
				{Day: Friday, Start: ClockTime(18, 0, 0), End: DefaultEndTime},
				{Day: Saturday, Start: ClockTime(18, 0, 0), End: DefaultEndTime},
			},
		},
		{
			artist: Artist{
				Name:   "The Wild Sax Band",
				City:   "San Francisco",
				State:  "CA",
				Phone:  "432-325-5432",
				Genres: []string{"Jazz", "Classical"},
			},
		},
	}

	err = db.WithTx(ctx, func(s *Store) error {
		for i := range venues {
			if err := s.Venues().Create(ctx, &venues[i]); err != nil {
				return err
			}
		}
		for i := range artists {
			a := &artists[i]
			if err := s.Artists().Create(ctx, &a.artist); err != nil {
				return err
			}
			if err := s.Schedules().CreateForArtist(ctx, a.artist.ID, a.days); err != nil {
				return err
			}
			if a.album != nil {
				a.album.ArtistID = a.artist.ID
				if err := s.Albums().Create(ctx, a.album, a.songs); err != nil {
					return err
				}
			}
		}

		at := func(days, hour int) time.Time {
			d := now.AddDate(0, 0, days)
			return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, d.Location())
		}
		shows := []Show{
			{ArtistID: artists[0].artist.ID, VenueID: venues[0].ID, Name: "Petals at the Hop", StartTime: at(-30, 21)},
			{ArtistID: artists[0].artist.ID, VenueID: venues[2].ID, Name: "Park Square Unplugged", StartTime: at(14, 20)},
			{ArtistID: artists[1].artist.ID, VenueID: venues[1].ID, Name: "Quevedo Late Set", StartTime: at(-7, 22)},
		}
		for i := range shows {
			if err := s.Shows().Create(ctx, &shows[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seeding: %w", err)
	}
	return true, nil
}

func everyDay() []DaySchedule {
	days := make([]DaySchedule, len(Days))
	for i, d := range Days {
		days[i] = DaySchedule{Day: d, Start: DefaultStartTime, End: DefaultEndTime}
	}
	return days
}
