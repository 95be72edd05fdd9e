// Package db provides PostgreSQL database access for gigbook.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Common errors.
var (
	ErrNotFound = errors.New("not found")
)

// Querier is satisfied by both the connection pool and a transaction, so
// repositories can be bound to either.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

// Pool returns the underlying connection pool for advanced operations.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Store returns repositories bound to the pool (no transaction).
func (db *DB) Store() *Store {
	return &Store{q: db.pool}
}

// WithTx runs fn inside a single transaction. The transaction commits when fn
// returns nil and rolls back otherwise. A panic inside fn is rolled back and
// returned as an error.
func (db *DB) WithTx(ctx context.Context, fn func(*Store) error) (err error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				panic(fmt.Sprintf("transaction rollback failed: %v (original panic: %v)", rbErr, r))
			}
			err = fmt.Errorf("panic during transaction: %v", r)
		}
	}()

	if err := fn(&Store{q: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rolling back transaction: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Store groups the repositories that share one Querier.
type Store struct {
	q Querier
}

// NewStore binds repositories to an arbitrary Querier.
func NewStore(q Querier) *Store {
	return &Store{q: q}
}

// Venues returns a VenueRepository.
func (s *Store) Venues() *VenueRepository {
	return &VenueRepository{q: s.q}
}

// Artists returns an ArtistRepository.
func (s *Store) Artists() *ArtistRepository {
	return &ArtistRepository{q: s.q}
}

// Schedules returns a ScheduleRepository.
func (s *Store) Schedules() *ScheduleRepository {
	return &ScheduleRepository{q: s.q}
}

// Shows returns a ShowRepository.
func (s *Store) Shows() *ShowRepository {
	return &ShowRepository{q: s.q}
}

// Albums returns an AlbumRepository.
func (s *Store) Albums() *AlbumRepository {
	return &AlbumRepository{q: s.q}
}
