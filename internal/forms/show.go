package forms

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/justestif/gigbook/internal/db"
)

// StartTimeLayout is the datetime-local input format.
const StartTimeLayout = "2006-01-02T15:04"

var startTimeLayouts = []string{
	StartTimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// datePrefix marks input meant as an absolute date, which never falls back
// to natural language.
var datePrefix = regexp.MustCompile(`^\d{4}-`)

var naturalTime = newNaturalParser()

func newNaturalParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ShowForm is the create show form.
type ShowForm struct {
	Name      string `form:"name" validate:"required"`
	ArtistID  string `form:"artist_id" validate:"required"`
	VenueID   string `form:"venue_id" validate:"required"`
	StartTime string `form:"start_time" validate:"required"`

	artistID, venueID int
	start             time.Time
}

// NewShowForm returns a form whose start time defaults to this time tomorrow.
func NewShowForm(now time.Time) ShowForm {
	return ShowForm{StartTime: now.AddDate(0, 0, 1).Format(StartTimeLayout)}
}

// Decode fills the form from submitted values.
func (f *ShowForm) Decode(values url.Values) {
	f.Name = text(values, "name")
	f.ArtistID = text(values, "artist_id")
	f.VenueID = text(values, "venue_id")
	f.StartTime = text(values, "start_time")
}

// Validate returns every failing field. now anchors relative start times
// such as "tomorrow at 8pm".
func (f *ShowForm) Validate(now time.Time) Errors {
	errs := check(f)

	if f.ArtistID != "" {
		id, err := positiveID(f.ArtistID)
		if err != nil {
			errs.Add("artist_id", err.Error())
		}
		f.artistID = id
	}
	if f.VenueID != "" {
		id, err := positiveID(f.VenueID)
		if err != nil {
			errs.Add("venue_id", err.Error())
		}
		f.venueID = id
	}
	if f.StartTime != "" {
		start, err := ParseStartTime(f.StartTime, now)
		if err != nil {
			errs.Add("start_time", err.Error())
		}
		f.start = start
	}
	return errs
}

// Show builds the show to book. Call after a clean Validate.
func (f *ShowForm) Show() *db.Show {
	return &db.Show{
		ArtistID:  f.artistID,
		VenueID:   f.venueID,
		Name:      f.Name,
		StartTime: f.start,
	}
}

func positiveID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("'%s' is not a valid ID.", s)
	}
	return id, nil
}

// ParseStartTime reads a show start time. Absolute dates are read as wall
// clock times in now's location. Anything not shaped like a date is tried
// as a natural language expression relative to now, which must account for
// the whole input.
func ParseStartTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	invalid := fmt.Errorf("'%s' is not a valid date and time.", s)

	for _, layout := range startTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, nil
		}
	}
	if datePrefix.MatchString(s) {
		return time.Time{}, invalid
	}

	r, err := naturalTime.Parse(s, now)
	if err != nil || r == nil || r.Index != 0 || len(r.Text) != len(s) {
		return time.Time{}, invalid
	}
	return r.Time.Truncate(time.Second), nil
}
