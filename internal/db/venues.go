package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const venueColumns = `id, name, address, city, state, phone, genres, image_link,
	facebook_link, website, seeking_talent, seeking_description, created_at`

// VenueRepository handles venue database operations.
type VenueRepository struct {
	q Querier
}

func scanVenue(row pgx.Row) (*Venue, error) {
	var v Venue
	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Address,
		&v.City,
		&v.State,
		&v.Phone,
		&v.Genres,
		&v.ImageLink,
		&v.FacebookLink,
		&v.Website,
		&v.SeekingTalent,
		&v.SeekingDescription,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a new venue and fills in its ID and CreatedAt.
func (r *VenueRepository) Create(ctx context.Context, v *Venue) error {
	query := `
		INSERT INTO venue (name, address, city, state, phone, genres, image_link,
			facebook_link, website, seeking_talent, seeking_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query,
		v.Name,
		v.Address,
		v.City,
		v.State,
		v.Phone,
		v.Genres,
		v.ImageLink,
		v.FacebookLink,
		v.Website,
		v.SeekingTalent,
		v.SeekingDescription,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting venue: %w", err)
	}
	return nil
}

// Get retrieves a venue by ID.
func (r *VenueRepository) Get(ctx context.Context, id int) (*Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venue WHERE id = $1`
	v, err := scanVenue(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying venue: %w", err)
	}
	return v, nil
}

// Update overwrites the editable fields of a venue.
func (r *VenueRepository) Update(ctx context.Context, v *Venue) error {
	query := `
		UPDATE venue
		SET name = $2, address = $3, city = $4, state = $5, phone = $6, genres = $7,
			image_link = $8, facebook_link = $9, website = $10, seeking_talent = $11,
			seeking_description = $12
		WHERE id = $1
	`
	result, err := r.q.Exec(ctx, query,
		v.ID,
		v.Name,
		v.Address,
		v.City,
		v.State,
		v.Phone,
		v.Genres,
		v.ImageLink,
		v.FacebookLink,
		v.Website,
		v.SeekingTalent,
		v.SeekingDescription,
	)
	if err != nil {
		return fmt.Errorf("updating venue: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a venue by ID. Shows must be removed first.
func (r *VenueRepository) Delete(ctx context.Context, id int) error {
	result, err := r.q.Exec(ctx, `DELETE FROM venue WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting venue: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List retrieves every venue ordered by state, city and name.
func (r *VenueRepository) List(ctx context.Context) ([]Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venue ORDER BY state, city, name, id`
	return r.queryVenues(ctx, query)
}

// Recent retrieves the most recently created venues.
func (r *VenueRepository) Recent(ctx context.Context, limit int) ([]Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venue ORDER BY created_at DESC, id DESC LIMIT $1`
	return r.queryVenues(ctx, query, limit)
}

// Search returns venues whose name, city or state contains term, ignoring case.
func (r *VenueRepository) Search(ctx context.Context, term string) (*SearchResult, error) {
	query := `
		SELECT id, name
		FROM venue
		WHERE name ILIKE $1 OR city ILIKE $1 OR state ILIKE $1
		ORDER BY name, id
	`
	return searchSummaries(ctx, r.q, query, term)
}

func (r *VenueRepository) queryVenues(ctx context.Context, query string, args ...any) ([]Venue, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying venues: %w", err)
	}
	defer rows.Close()

	var venues []Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning venue: %w", err)
		}
		venues = append(venues, *v)
	}
	return venues, rows.Err()
}

// searchSummaries runs a substring search query taking a single ILIKE pattern.
func searchSummaries(ctx context.Context, q Querier, query, term string) (*SearchResult, error) {
	rows, err := q.Query(ctx, query, likePattern(term))
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	result := &SearchResult{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		result.Items = append(result.Items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result.Count = len(result.Items)
	return result, nil
}
