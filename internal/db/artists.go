package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const artistColumns = `id, name, city, state, phone, genres, image_link,
	facebook_link, website, seeking_venue, seeking_description, created_at`

// ArtistRepository handles artist database operations.
type ArtistRepository struct {
	q Querier
}

func scanArtist(row pgx.Row) (*Artist, error) {
	var a Artist
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.City,
		&a.State,
		&a.Phone,
		&a.Genres,
		&a.ImageLink,
		&a.FacebookLink,
		&a.Website,
		&a.SeekingVenue,
		&a.SeekingDescription,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new artist and fills in its ID and CreatedAt.
func (r *ArtistRepository) Create(ctx context.Context, a *Artist) error {
	query := `
		INSERT INTO artist (name, city, state, phone, genres, image_link,
			facebook_link, website, seeking_venue, seeking_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query,
		a.Name,
		a.City,
		a.State,
		a.Phone,
		a.Genres,
		a.ImageLink,
		a.FacebookLink,
		a.Website,
		a.SeekingVenue,
		a.SeekingDescription,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting artist: %w", err)
	}
	return nil
}

// Get retrieves an artist by ID.
func (r *ArtistRepository) Get(ctx context.Context, id int) (*Artist, error) {
	query := `SELECT ` + artistColumns + ` FROM artist WHERE id = $1`
	a, err := scanArtist(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying artist: %w", err)
	}
	return a, nil
}

// Update overwrites the editable fields of an artist.
func (r *ArtistRepository) Update(ctx context.Context, a *Artist) error {
	query := `
		UPDATE artist
		SET name = $2, city = $3, state = $4, phone = $5, genres = $6, image_link = $7,
			facebook_link = $8, website = $9, seeking_venue = $10, seeking_description = $11
		WHERE id = $1
	`
	result, err := r.q.Exec(ctx, query,
		a.ID,
		a.Name,
		a.City,
		a.State,
		a.Phone,
		a.Genres,
		a.ImageLink,
		a.FacebookLink,
		a.Website,
		a.SeekingVenue,
		a.SeekingDescription,
	)
	if err != nil {
		return fmt.Errorf("updating artist: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an artist by ID. Dependent rows must be removed first.
func (r *ArtistRepository) Delete(ctx context.Context, id int) error {
	result, err := r.q.Exec(ctx, `DELETE FROM artist WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting artist: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List retrieves the id and name of every artist.
func (r *ArtistRepository) List(ctx context.Context) ([]Summary, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM artist ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying artists: %w", err)
	}
	defer rows.Close()

	var artists []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scanning artist: %w", err)
		}
		artists = append(artists, s)
	}
	return artists, rows.Err()
}

// Recent retrieves the most recently created artists.
func (r *ArtistRepository) Recent(ctx context.Context, limit int) ([]Artist, error) {
	query := `SELECT ` + artistColumns + ` FROM artist ORDER BY created_at DESC, id DESC LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent artists: %w", err)
	}
	defer rows.Close()

	var artists []Artist
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning artist: %w", err)
		}
		artists = append(artists, *a)
	}
	return artists, rows.Err()
}

// Search returns artists whose name, city or state contains term, ignoring case.
func (r *ArtistRepository) Search(ctx context.Context, term string) (*SearchResult, error) {
	query := `
		SELECT id, name
		FROM artist
		WHERE name ILIKE $1 OR city ILIKE $1 OR state ILIKE $1
		ORDER BY name, id
	`
	return searchSummaries(ctx, r.q, query, term)
}
