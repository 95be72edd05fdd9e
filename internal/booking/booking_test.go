package booking

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justestif/gigbook/internal/db"
	"github.com/justestif/gigbook/internal/forms"
)

func listing(id int, start time.Time) db.ShowListing {
	return db.ShowListing{Show: db.Show{ID: id, StartTime: start}}
}

func ids(shows []db.ShowListing) []int {
	out := []int{}
	for _, s := range shows {
		out = append(out, s.ID)
	}
	return out
}

func TestPartition(t *testing.T) {
	now := time.Date(2024, 6, 14, 20, 0, 0, 0, time.UTC)
	shows := []db.ShowListing{
		listing(1, now.Add(-24*time.Hour)),
		listing(2, now.Add(-time.Microsecond)),
		listing(3, now),
		listing(4, now.Add(time.Microsecond)),
		listing(5, now.AddDate(0, 1, 0)),
	}

	past, upcoming := Partition(shows, now)

	assert.Equal(t, []int{1, 2, 3}, ids(past))
	assert.Equal(t, []int{3, 4, 5}, ids(upcoming))
}

func TestPartition_Empty(t *testing.T) {
	past, upcoming := Partition(nil, time.Now())
	assert.Empty(t, past)
	assert.Empty(t, upcoming)
}

func TestGroupByArea(t *testing.T) {
	venues := []db.Venue{
		{ID: 1, Name: "The Musical Hop", City: "San Francisco", State: "CA"},
		{ID: 2, Name: "The Dueling Pianos Bar", City: "New York", State: "NY"},
		{ID: 3, Name: "Park Square", City: "san francisco ", State: "ca"},
		{ID: 4, Name: "Blue Room", City: "PORTLAND", State: "OR"},
		{ID: 5, Name: "Green Room", City: "Portland", State: "Or"},
	}

	areas := GroupByArea(venues, map[int]int{1: 2, 3: 1})

	require.Len(t, areas, 3)

	assert.Equal(t, "San Francisco", areas[0].City)
	assert.Equal(t, "CA", areas[0].State)
	assert.Equal(t, []VenueSummary{
		{ID: 1, Name: "The Musical Hop", NumUpcomingShows: 2},
		{ID: 3, Name: "Park Square", NumUpcomingShows: 1},
	}, areas[0].Venues)

	assert.Equal(t, "New York", areas[1].City)
	assert.Len(t, areas[1].Venues, 1)

	assert.Equal(t, "PORTLAND", areas[2].City)
	assert.Equal(t, "OR", areas[2].State)
	assert.Len(t, areas[2].Venues, 2)
}

func TestWallClock(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	instant := time.Date(2024, 6, 15, 1, 30, 0, 0, time.UTC)
	got := WallClock(instant, ny)

	assert.Equal(t, time.Date(2024, 6, 14, 21, 30, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestServiceNow_UsesLocationAndClock(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	fixed := time.Date(2024, 6, 14, 20, 0, 0, 0, time.UTC)
	s := New(nil, WithLocation(tokyo), WithClock(func() time.Time { return fixed }))

	assert.Equal(t, time.Date(2024, 6, 15, 5, 0, 0, 0, time.UTC), s.Now())
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("creating venue: %w", invalid(forms.Errors{{Field: "name", Message: "This field is required."}}))

	assert.True(t, errors.Is(err, ErrInvalid))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"This field is required."}, verr.Fields.For("name"))
}

func TestWithRecentLimit_IgnoresNonPositive(t *testing.T) {
	s := New(nil, WithRecentLimit(0))
	assert.Equal(t, DefaultRecentLimit, s.recentLimit)

	s = New(nil, WithRecentLimit(3))
	assert.Equal(t, 3, s.recentLimit)
}
