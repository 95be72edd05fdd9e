package db

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DayOfWeek mirrors the days_of_week enum. Values match time.Weekday.String().
type DayOfWeek string

// Days of the week, in the order of the days_of_week enum.
const (
	Sunday    DayOfWeek = "Sunday"
	Monday    DayOfWeek = "Monday"
	Tuesday   DayOfWeek = "Tuesday"
	Wednesday DayOfWeek = "Wednesday"
	Thursday  DayOfWeek = "Thursday"
	Friday    DayOfWeek = "Friday"
	Saturday  DayOfWeek = "Saturday"
)

// Days lists every DayOfWeek in enum order.
var Days = []DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// DayOf returns the DayOfWeek a timestamp falls on.
func DayOf(t time.Time) DayOfWeek {
	return DayOfWeek(t.Weekday().String())
}

// Valid reports whether d is one of the seven enum values.
func (d DayOfWeek) Valid() bool {
	for _, day := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// Venue represents a bookable physical location.
type Venue struct {
	ID                 int
	Name               string
	Address            string
	City               string
	State              string
	Phone              string
	Genres             []string
	ImageLink          *string // nullable
	FacebookLink       *string // nullable
	Website            *string // nullable
	SeekingTalent      bool
	SeekingDescription *string // nullable
	CreatedAt          time.Time
}

// Artist represents a performer.
type Artist struct {
	ID                 int
	Name               string
	City               string
	State              string
	Phone              string
	Genres             []string
	ImageLink          *string // nullable
	FacebookLink       *string // nullable
	Website            *string // nullable
	SeekingVenue       bool
	SeekingDescription *string // nullable
	CreatedAt          time.Time
}

// ArtistSchedule is an artist's availability window for one day of the week.
// StartTime and EndTime are NULL when the day was switched off on edit.
type ArtistSchedule struct {
	ID        int
	ArtistID  int
	DayOfWeek DayOfWeek
	Available bool
	StartTime pgtype.Time
	EndTime   pgtype.Time
}

// DaySchedule is the input for creating or replacing one schedule row.
type DaySchedule struct {
	Day   DayOfWeek
	Start pgtype.Time
	End   pgtype.Time
}

// Album belongs to an artist.
type Album struct {
	ID       int
	ArtistID int
	Title    string
	Cover    string
	Songs    []Song
}

// Song belongs to an album.
type Song struct {
	ID      int
	AlbumID int
	Title   string
}

// Show is a scheduled performance of one artist at one venue.
type Show struct {
	ID        int
	ArtistID  int
	VenueID   int
	Name      string
	StartTime time.Time
}

// ShowListing is a show joined with the names and images of its artist and venue.
type ShowListing struct {
	Show
	ArtistName      string
	ArtistImageLink *string
	VenueName       string
	VenueImageLink  *string
}

// Summary is the id/name pair used by list and search pages.
type Summary struct {
	ID   int
	Name string
}

// SearchResult is the outcome of a substring search.
type SearchResult struct {
	Count int
	Items []Summary
}

// Default schedule bounds, matching the column defaults.
var (
	DefaultStartTime = ClockTime(9, 0, 0)
	DefaultEndTime   = ClockTime(23, 59, 59)
)

// ClockTime builds a valid TIME value.
func ClockTime(hour, minute, second int) pgtype.Time {
	us := (int64(hour)*3600 + int64(minute)*60 + int64(second)) * int64(time.Second/time.Microsecond)
	return pgtype.Time{Microseconds: us, Valid: true}
}

// TimeOfDay returns the TIME value for the wall clock of t.
func TimeOfDay(t time.Time) pgtype.Time {
	us := ClockTime(t.Hour(), t.Minute(), t.Second()).Microseconds
	return pgtype.Time{Microseconds: us + int64(t.Nanosecond()/1000), Valid: true}
}

// FormatClock renders a TIME value as HH:MM:SS, or "" when NULL.
func FormatClock(t pgtype.Time) string {
	if !t.Valid {
		return ""
	}
	secs := t.Microseconds / int64(time.Second/time.Microsecond)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
