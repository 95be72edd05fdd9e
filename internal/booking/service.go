// Package booking orchestrates reads and transactional writes for venues,
// artists, shows and albums.
package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/justestif/gigbook/internal/availability"
	"github.com/justestif/gigbook/internal/db"
	"github.com/justestif/gigbook/internal/forms"
	"github.com/justestif/gigbook/internal/metrics"
)

// DefaultRecentLimit is how many artists and venues the home page lists.
const DefaultRecentLimit = 10

// Common errors.
var (
	// ErrInvalid is matched by every *ValidationError.
	ErrInvalid = errors.New("invalid input")
)

// ValidationError carries the failing fields of a rejected form.
type ValidationError struct {
	Fields forms.Errors
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Fields.Error()
}

// Is makes errors.Is(err, ErrInvalid) hold.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func invalid(errs forms.Errors) error {
	return &ValidationError{Fields: errs}
}

// Recorder receives write and booking outcomes.
type Recorder interface {
	ObserveWrite(entity, operation, outcome string)
	ObserveBooking(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveWrite(string, string, string) {}
func (nopRecorder) ObserveBooking(string)               {}

// Service implements the booking pages' use cases on top of the database.
type Service struct {
	db          *db.DB
	checker     *availability.Checker
	recorder    Recorder
	logger      *slog.Logger
	location    *time.Location
	recentLimit int
	clock       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithChecker sets the availability rule used when booking shows.
func WithChecker(c *availability.Checker) Option {
	return func(s *Service) {
		s.checker = c
	}
}

// WithRecorder sets where write outcomes are reported.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithLogger sets the logger for failed writes.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithLocation sets the time zone whose wall clock is "now".
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.location = loc
	}
}

// WithRecentLimit sets how many recent artists and venues Home returns.
func WithRecentLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recentLimit = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.clock = now
	}
}

// New creates a booking service.
func New(database *db.DB, opts ...Option) *Service {
	s := &Service{
		db:          database,
		checker:     availability.New(),
		recorder:    nopRecorder{},
		logger:      slog.Default(),
		location:    time.UTC,
		recentLimit: DefaultRecentLimit,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the current wall clock time of the configured zone, in the
// form show start times are stored and compared in.
func (s *Service) Now() time.Time {
	return WallClock(s.clock(), s.location)
}

// WallClock reads t on a clock in loc and returns that reading labelled UTC.
func WallClock(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// write runs fn in one transaction and reports the outcome.
func (s *Service) write(ctx context.Context, entity, operation string, fn func(*db.Store) error) error {
	err := s.db.WithTx(ctx, fn)
	switch {
	case err == nil:
		s.recorder.ObserveWrite(entity, operation, metrics.OutcomeOK)
	case errors.Is(err, db.ErrNotFound):
		s.recorder.ObserveWrite(entity, operation, metrics.OutcomeNotFound)
	case errors.Is(err, ErrInvalid), errors.Is(err, availability.ErrUnavailable):
		s.recorder.ObserveWrite(entity, operation, metrics.OutcomeRejected)
	default:
		s.recorder.ObserveWrite(entity, operation, metrics.OutcomeError)
		s.logger.ErrorContext(ctx, "write failed",
			"entity", entity,
			"operation", operation,
			"error", err,
		)
	}
	return err
}

// HomePage lists the most recently created artists and venues.
type HomePage struct {
	Artists []db.Artist
	Venues  []db.Venue
}

// Home loads the home page.
func (s *Service) Home(ctx context.Context) (*HomePage, error) {
	store := s.db.Store()
	artists, err := store.Artists().Recent(ctx, s.recentLimit)
	if err != nil {
		return nil, err
	}
	venues, err := store.Venues().Recent(ctx, s.recentLimit)
	if err != nil {
		return nil, err
	}
	return &HomePage{Artists: artists, Venues: venues}, nil
}
