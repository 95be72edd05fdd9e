package db

import (
	"context"
	"fmt"
)

// AlbumRepository handles album and song database operations.
type AlbumRepository struct {
	q Querier
}

// Create inserts an album together with its songs.
func (r *AlbumRepository) Create(ctx context.Context, album *Album, songTitles []string) error {
	query := `
		INSERT INTO album (artist_id, title, cover)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := r.q.QueryRow(ctx, query, album.ArtistID, album.Title, album.Cover).Scan(&album.ID); err != nil {
		return fmt.Errorf("inserting album: %w", err)
	}

	album.Songs = album.Songs[:0]
	for _, title := range songTitles {
		song := Song{AlbumID: album.ID, Title: title}
		err := r.q.QueryRow(ctx,
			`INSERT INTO song (album_id, title) VALUES ($1, $2) RETURNING id`,
			album.ID, title,
		).Scan(&song.ID)
		if err != nil {
			return fmt.Errorf("inserting song %q: %w", title, err)
		}
		album.Songs = append(album.Songs, song)
	}
	return nil
}

// ForArtist retrieves an artist's albums with their songs.
func (r *AlbumRepository) ForArtist(ctx context.Context, artistID int) ([]Album, error) {
	query := `
		SELECT al.id, al.artist_id, al.title, al.cover, so.id, so.title
		FROM album al
		LEFT JOIN song so ON so.album_id = al.id
		WHERE al.artist_id = $1
		ORDER BY al.id, so.id
	`
	rows, err := r.q.Query(ctx, query, artistID)
	if err != nil {
		return nil, fmt.Errorf("querying artist albums: %w", err)
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		var (
			album     Album
			songID    *int
			songTitle *string
		)
		if err := rows.Scan(&album.ID, &album.ArtistID, &album.Title, &album.Cover, &songID, &songTitle); err != nil {
			return nil, fmt.Errorf("scanning album: %w", err)
		}
		if n := len(albums); n == 0 || albums[n-1].ID != album.ID {
			albums = append(albums, album)
		}
		if songID != nil {
			last := &albums[len(albums)-1]
			last.Songs = append(last.Songs, Song{ID: *songID, AlbumID: album.ID, Title: *songTitle})
		}
	}
	return albums, rows.Err()
}

// DeleteForArtist removes an artist's albums and their songs.
func (r *AlbumRepository) DeleteForArtist(ctx context.Context, artistID int) error {
	songs := `DELETE FROM song WHERE album_id IN (SELECT id FROM album WHERE artist_id = $1)`
	if _, err := r.q.Exec(ctx, songs, artistID); err != nil {
		return fmt.Errorf("deleting artist songs: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM album WHERE artist_id = $1`, artistID); err != nil {
		return fmt.Errorf("deleting artist albums: %w", err)
	}
	return nil
}
