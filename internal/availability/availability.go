// Package availability decides whether an artist can be booked at a given time
// based on their weekly schedule.
package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/justestif/gigbook/internal/db"
)

// ErrUnavailable is returned when no schedule window covers the proposed time.
var ErrUnavailable = errors.New("artist is not available during the specified time")

// ScheduleFinder looks up an artist's schedule row for one day of the week.
// It returns db.ErrNotFound when the artist has no row for that day.
type ScheduleFinder interface {
	ForDay(ctx context.Context, artistID int, day db.DayOfWeek) (*db.ArtistSchedule, error)
}

// Checker applies the booking rule.
type Checker struct {
	requireAvailable bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithRequireAvailable makes the schedule row's available flag part of the
// rule. By default only the time window is compared.
func WithRequireAvailable(require bool) Option {
	return func(c *Checker) {
		c.requireAvailable = require
	}
}

// New creates a Checker.
func New(opts ...Option) *Checker {
	c := &Checker{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check returns nil when artistID may be booked at start, ErrUnavailable when
// the schedule does not allow it, or a lookup error.
func (c *Checker) Check(ctx context.Context, finder ScheduleFinder, artistID int, start time.Time) error {
	day := db.DayOf(start)
	schedule, err := finder.ForDay(ctx, artistID, day)
	if errors.Is(err, db.ErrNotFound) {
		return ErrUnavailable
	}
	if err != nil {
		return fmt.Errorf("loading %s schedule: %w", day, err)
	}
	if !c.Permits(*schedule, start) {
		return ErrUnavailable
	}
	return nil
}

// Permits reports whether a single schedule row covers start.
func (c *Checker) Permits(schedule db.ArtistSchedule, start time.Time) bool {
	if schedule.DayOfWeek != db.DayOf(start) {
		return false
	}
	if c.requireAvailable && !schedule.Available {
		return false
	}
	return Within(db.TimeOfDay(start), schedule.StartTime, schedule.EndTime)
}

// Within reports whether start <= t <= end. NULL bounds never match.
func Within(t, start, end pgtype.Time) bool {
	if !t.Valid || !start.Valid || !end.Valid {
		return false
	}
	return start.Microseconds <= t.Microseconds && t.Microseconds <= end.Microseconds
}
