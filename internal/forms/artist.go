package forms

import (
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/justestif/gigbook/internal/db"
)

// DayInput is one row of the weekly availability fieldset.
type DayInput struct {
	Day      db.DayOfWeek
	Selected bool
	Start    string // HH:MM or HH:MM:SS, blank for the default
	End      string

	start, end pgtype.Time
}

// StartName is the input name of the day's start time.
func (d DayInput) StartName() string { return string(d.Day) + "_schedule_start_time" }

// EndName is the input name of the day's end time.
func (d DayInput) EndName() string { return string(d.Day) + "_schedule_end_time" }

// ArtistForm is the create/edit artist form.
type ArtistForm struct {
	Name               string     `form:"name" validate:"required"`
	City               string     `form:"city" validate:"required,max=120"`
	State              string     `form:"state" validate:"required,state"`
	Phone              string     `form:"phone" validate:"required,phone"`
	ImageLink          string     `form:"image_link" validate:"omitempty,max=500,url"`
	Genres             []string   `form:"genres" validate:"required,min=1,dive,genre"`
	FacebookLink       string     `form:"facebook_link" validate:"omitempty,max=120,url"`
	WebsiteLink        string     `form:"website_link" validate:"omitempty,max=120,url"`
	SeekingVenue       bool       `form:"seeking_venue"`
	SeekingDescription string     `form:"seeking_description"`
	Days               []DayInput `form:"-" validate:"-"`
}

// NewArtistForm returns an empty form with one unselected row per day.
func NewArtistForm() ArtistForm {
	return ArtistForm{Days: blankDays()}
}

func blankDays() []DayInput {
	days := make([]DayInput, len(db.Days))
	for i, d := range db.Days {
		days[i] = DayInput{Day: d}
	}
	return days
}

// Decode fills the form from submitted values.
func (f *ArtistForm) Decode(values url.Values) {
	f.Name = text(values, "name")
	f.City = text(values, "city")
	f.State = text(values, "state")
	f.Phone = text(values, "phone")
	f.ImageLink = text(values, "image_link")
	f.Genres = multi(values, "genres")
	f.FacebookLink = text(values, "facebook_link")
	f.WebsiteLink = text(values, "website_link")
	f.SeekingVenue = checked(values, "seeking_venue")
	f.SeekingDescription = text(values, "seeking_description")

	f.Days = blankDays()
	for i := range f.Days {
		d := &f.Days[i]
		d.Selected = checked(values, string(d.Day))
		d.Start = text(values, d.StartName())
		d.End = text(values, d.EndName())
	}
}

// Validate returns every failing field, including the availability rows of
// the selected days.
func (f *ArtistForm) Validate() Errors {
	errs := check(f)
	for i := range f.Days {
		d := &f.Days[i]
		if !d.Selected {
			continue
		}

		var err error
		d.start, err = clockOrDefault(d.Start, db.DefaultStartTime)
		if err != nil {
			errs.Add(d.StartName(), err.Error())
		}
		d.end, err = clockOrDefault(d.End, db.DefaultEndTime)
		if err != nil {
			errs.Add(d.EndName(), err.Error())
		}
		if d.start.Valid && d.end.Valid && d.start.Microseconds > d.end.Microseconds {
			errs.Add(d.EndName(), fmt.Sprintf("%s must end after it starts.", d.Day))
		}
	}
	return errs
}

// Schedules returns one row per selected day. Call after a clean Validate.
func (f *ArtistForm) Schedules() []db.DaySchedule {
	var out []db.DaySchedule
	for _, d := range f.Days {
		if d.Selected {
			out = append(out, db.DaySchedule{Day: d.Day, Start: d.start, End: d.end})
		}
	}
	return out
}

// Artist builds an artist from the form. ID and CreatedAt are left zero.
func (f *ArtistForm) Artist() *db.Artist {
	a := &db.Artist{}
	f.Apply(a)
	return a
}

// Apply copies the form fields onto a.
func (f *ArtistForm) Apply(a *db.Artist) {
	a.Name = f.Name
	a.City = f.City
	a.State = f.State
	a.Phone = f.Phone
	a.Genres = f.Genres
	a.ImageLink = optional(f.ImageLink)
	a.FacebookLink = optional(f.FacebookLink)
	a.Website = optional(f.WebsiteLink)
	a.SeekingVenue = f.SeekingVenue
	a.SeekingDescription = optional(f.SeekingDescription)
}

// ArtistFormFrom prefills the edit form from a stored artist and schedule.
// Days switched off on a previous edit come back unselected.
func ArtistFormFrom(a *db.Artist, schedules []db.ArtistSchedule) ArtistForm {
	f := ArtistForm{
		Name:               a.Name,
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		ImageLink:          deref(a.ImageLink),
		Genres:             a.Genres,
		FacebookLink:       deref(a.FacebookLink),
		WebsiteLink:        deref(a.Website),
		SeekingVenue:       a.SeekingVenue,
		SeekingDescription: deref(a.SeekingDescription),
		Days:               blankDays(),
	}
	for _, s := range schedules {
		for i := range f.Days {
			d := &f.Days[i]
			if d.Day != s.DayOfWeek {
				continue
			}
			d.Selected = s.Available && s.StartTime.Valid && s.EndTime.Valid
			d.Start = db.FormatClock(s.StartTime)
			d.End = db.FormatClock(s.EndTime)
		}
	}
	return f
}

var clockLayouts = []string{"15:04:05", "15:04"}

// clockOrDefault parses HH:MM[:SS]; a blank value yields def.
func clockOrDefault(s string, def pgtype.Time) (pgtype.Time, error) {
	if s == "" {
		return def, nil
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return db.ClockTime(t.Hour(), t.Minute(), t.Second()), nil
		}
	}
	return pgtype.Time{}, fmt.Errorf("'%s' is not a valid time (HH:MM).", s)
}
