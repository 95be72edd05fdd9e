package forms

import (
	"net/url"
	"strings"

	"github.com/justestif/gigbook/internal/db"
)

// AlbumForm is the add album form. Songs holds one title per line.
type AlbumForm struct {
	Title string `form:"title" validate:"required"`
	Cover string `form:"cover" validate:"required,url"`
	Songs string `form:"songs"`
}

// Decode fills the form from submitted values.
func (f *AlbumForm) Decode(values url.Values) {
	f.Title = text(values, "title")
	f.Cover = text(values, "cover")
	f.Songs = strings.TrimSpace(values.Get("songs"))
}

// Validate returns every failing field.
func (f *AlbumForm) Validate() Errors {
	return check(f)
}

// Album builds the album for artistID.
func (f *AlbumForm) Album(artistID int) *db.Album {
	return &db.Album{ArtistID: artistID, Title: f.Title, Cover: f.Cover}
}

// SongTitles returns the non-blank song lines.
func (f *AlbumForm) SongTitles() []string {
	var titles []string
	for _, line := range strings.Split(f.Songs, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			titles = append(titles, line)
		}
	}
	return titles
}
