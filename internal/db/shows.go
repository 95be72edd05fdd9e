package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ShowRepository handles show database operations.
type ShowRepository struct {
	q Querier
}

const showListingQuery = `
	SELECT s.id, s.artist_id, s.venue_id, s.name, s.start_time,
		a.name, a.image_link, v.name, v.image_link
	FROM show s
	JOIN artist a ON a.id = s.artist_id
	JOIN venue v ON v.id = s.venue_id
`

// Create inserts a new show and fills in its ID.
func (r *ShowRepository) Create(ctx context.Context, s *Show) error {
	query := `
		INSERT INTO show (artist_id, venue_id, name, start_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.q.QueryRow(ctx, query, s.ArtistID, s.VenueID, s.Name, s.StartTime).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("inserting show: %w", err)
	}
	return nil
}

// Get retrieves a show by ID.
func (r *ShowRepository) Get(ctx context.Context, id int) (*Show, error) {
	query := `SELECT id, artist_id, venue_id, name, start_time FROM show WHERE id = $1`
	var s Show
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.ArtistID, &s.VenueID, &s.Name, &s.StartTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying show: %w", err)
	}
	return &s, nil
}

// Delete removes a show by ID.
func (r *ShowRepository) Delete(ctx context.Context, id int) error {
	result, err := r.q.Exec(ctx, `DELETE FROM show WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting show: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List retrieves every show with artist and venue details, soonest first.
func (r *ShowRepository) List(ctx context.Context) ([]ShowListing, error) {
	return r.queryListings(ctx, showListingQuery+` ORDER BY s.start_time, s.id`)
}

// ForVenue retrieves the shows booked at a venue.
func (r *ShowRepository) ForVenue(ctx context.Context, venueID int) ([]ShowListing, error) {
	return r.queryListings(ctx, showListingQuery+` WHERE s.venue_id = $1 ORDER BY s.start_time, s.id`, venueID)
}

// ForArtist retrieves the shows booked for an artist.
func (r *ShowRepository) ForArtist(ctx context.Context, artistID int) ([]ShowListing, error) {
	return r.queryListings(ctx, showListingQuery+` WHERE s.artist_id = $1 ORDER BY s.start_time, s.id`, artistID)
}

// DeleteForVenue removes every show booked at a venue.
func (r *ShowRepository) DeleteForVenue(ctx context.Context, venueID int) (int64, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM show WHERE venue_id = $1`, venueID)
	if err != nil {
		return 0, fmt.Errorf("deleting venue shows: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteForArtist removes every show booked for an artist.
func (r *ShowRepository) DeleteForArtist(ctx context.Context, artistID int) (int64, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM show WHERE artist_id = $1`, artistID)
	if err != nil {
		return 0, fmt.Errorf("deleting artist shows: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *ShowRepository) queryListings(ctx context.Context, query string, args ...any) ([]ShowListing, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying shows: %w", err)
	}
	defer rows.Close()

	var shows []ShowListing
	for rows.Next() {
		var s ShowListing
		if err := rows.Scan(
			&s.ID,
			&s.ArtistID,
			&s.VenueID,
			&s.Name,
			&s.StartTime,
			&s.ArtistName,
			&s.ArtistImageLink,
			&s.VenueName,
			&s.VenueImageLink,
		); err != nil {
			return nil, fmt.Errorf("scanning show: %w", err)
		}
		shows = append(shows, s)
	}
	return shows, rows.Err()
}
