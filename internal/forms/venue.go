package forms

import (
	"net/url"

	"github.com/justestif/gigbook/internal/db"
)

// VenueForm is the create/edit venue form.
type VenueForm struct {
	Name               string   `form:"name" validate:"required"`
	City               string   `form:"city" validate:"required,max=120"`
	State              string   `form:"state" validate:"required,state"`
	Address            string   `form:"address" validate:"required,max=120"`
	Phone              string   `form:"phone" validate:"required,phone"`
	ImageLink          string   `form:"image_link" validate:"omitempty,max=500,url"`
	Genres             []string `form:"genres" validate:"required,min=1,dive,genre"`
	FacebookLink       string   `form:"facebook_link" validate:"omitempty,max=120,url"`
	WebsiteLink        string   `form:"website_link" validate:"omitempty,max=120,url"`
	SeekingTalent      bool     `form:"seeking_talent"`
	SeekingDescription string   `form:"seeking_description"`
}

// Decode fills the form from submitted values.
func (f *VenueForm) Decode(values url.Values) {
	f.Name = text(values, "name")
	f.City = text(values, "city")
	f.State = text(values, "state")
	f.Address = text(values, "address")
	f.Phone = text(values, "phone")
	f.ImageLink = text(values, "image_link")
	f.Genres = multi(values, "genres")
	f.FacebookLink = text(values, "facebook_link")
	f.WebsiteLink = text(values, "website_link")
	f.SeekingTalent = checked(values, "seeking_talent")
	f.SeekingDescription = text(values, "seeking_description")
}

// Validate returns every failing field.
func (f *VenueForm) Validate() Errors {
	return check(f)
}

// Venue builds a venue from the form. ID and CreatedAt are left zero.
func (f *VenueForm) Venue() *db.Venue {
	v := &db.Venue{}
	f.Apply(v)
	return v
}

// Apply copies the form fields onto v.
func (f *VenueForm) Apply(v *db.Venue) {
	v.Name = f.Name
	v.City = f.City
	v.State = f.State
	v.Address = f.Address
	v.Phone = f.Phone
	v.Genres = f.Genres
	v.ImageLink = optional(f.ImageLink)
	v.FacebookLink = optional(f.FacebookLink)
	v.Website = optional(f.WebsiteLink)
	v.SeekingTalent = f.SeekingTalent
	v.SeekingDescription = optional(f.SeekingDescription)
}

// VenueFormFrom prefills the edit form from a stored venue.
func VenueFormFrom(v *db.Venue) VenueForm {
	return VenueForm{
		Name:               v.Name,
		City:               v.City,
		State:              v.State,
		Address:            v.Address,
		Phone:              v.Phone,
		ImageLink:          deref(v.ImageLink),
		Genres:             v.Genres,
		FacebookLink:       deref(v.FacebookLink),
		WebsiteLink:        deref(v.Website),
		SeekingTalent:      v.SeekingTalent,
		SeekingDescription: deref(v.SeekingDescription),
	}
}
