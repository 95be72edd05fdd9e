package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ScheduleRepository handles artist_schedule database operations.
type ScheduleRepository struct {
	q Querier
}

func scanSchedule(row pgx.Row) (*ArtistSchedule, error) {
	var s ArtistSchedule
	var day string
	err := row.Scan(
		&s.ID,
		&s.ArtistID,
		&day,
		&s.Available,
		&s.StartTime,
		&s.EndTime,
	)
	if err != nil {
		return nil, err
	}
	s.DayOfWeek = DayOfWeek(day)
	return &s, nil
}

// CreateForArtist inserts one available row per given day. An empty slice
// inserts nothing.
func (r *ScheduleRepository) CreateForArtist(ctx context.Context, artistID int, days []DaySchedule) error {
	query := `
		INSERT INTO artist_schedule (artist_id, day_of_week, available, start_time, end_time)
		VALUES ($1, $2::days_of_week, TRUE, $3, $4)
	`
	for _, d := range days {
		if _, err := r.q.Exec(ctx, query, artistID, string(d.Day), d.Start, d.End); err != nil {
			return fmt.Errorf("inserting %s schedule: %w", d.Day, err)
		}
	}
	return nil
}

// ForArtist retrieves every schedule row of an artist in day order.
func (r *ScheduleRepository) ForArtist(ctx context.Context, artistID int) ([]ArtistSchedule, error) {
	query := `
		SELECT id, artist_id, day_of_week::text, available, start_time, end_time
		FROM artist_schedule
		WHERE artist_id = $1
		ORDER BY day_of_week
	`
	rows, err := r.q.Query(ctx, query, artistID)
	if err != nil {
		return nil, fmt.Errorf("querying artist schedules: %w", err)
	}
	defer rows.Close()

	var schedules []ArtistSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning artist schedule: %w", err)
		}
		schedules = append(schedules, *s)
	}
	return schedules, rows.Err()
}

// ForDay retrieves the schedule row of an artist for one day.
func (r *ScheduleRepository) ForDay(ctx context.Context, artistID int, day DayOfWeek) (*ArtistSchedule, error) {
	query := `
		SELECT id, artist_id, day_of_week::text, available, start_time, end_time
		FROM artist_schedule
		WHERE artist_id = $1 AND day_of_week = $2::days_of_week
	`
	s, err := scanSchedule(r.q.QueryRow(ctx, query, artistID, string(day)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s schedule: %w", day, err)
	}
	return s, nil
}

// Replace makes the given days available with their windows, creating rows
// as needed. Existing rows for days not given are switched off and their
// bounds cleared.
func (r *ScheduleRepository) Replace(ctx context.Context, artistID int, days []DaySchedule) error {
	upsert := `
		INSERT INTO artist_schedule (artist_id, day_of_week, available, start_time, end_time)
		VALUES ($1, $2::days_of_week, TRUE, $3, $4)
		ON CONFLICT (artist_id, day_of_week) DO UPDATE SET
			available = TRUE,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time
	`
	selected := make([]string, 0, len(days))
	for _, d := range days {
		if _, err := r.q.Exec(ctx, upsert, artistID, string(d.Day), d.Start, d.End); err != nil {
			return fmt.Errorf("upserting %s schedule: %w", d.Day, err)
		}
		selected = append(selected, string(d.Day))
	}

	disable := `
		UPDATE artist_schedule
		SET available = FALSE, start_time = NULL, end_time = NULL
		WHERE artist_id = $1 AND NOT (day_of_week::text = ANY($2::text[]))
	`
	if _, err := r.q.Exec(ctx, disable, artistID, selected); err != nil {
		return fmt.Errorf("disabling unselected schedules: %w", err)
	}
	return nil
}

// DeleteForArtist removes every schedule row of an artist.
func (r *ScheduleRepository) DeleteForArtist(ctx context.Context, artistID int) error {
	_, err := r.q.Exec(ctx, `DELETE FROM artist_schedule WHERE artist_id = $1`, artistID)
	if err != nil {
		return fmt.Errorf("deleting artist schedules: %w", err)
	}
	return nil
}
