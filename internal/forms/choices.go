package forms

import "slices"

// Genres is the closed set of genre choices.
var Genres = []string{
	"Alternative",
	"Blues",
	"Classical",
	"Country",
	"Electronic",
	"Folk",
	"Funk",
	"Heavy Metal",
	"Hip-Hop",
	"Instrumental",
	"Jazz",
	"Musical Theatre",
	"Pop",
	"Punk",
	"Reggae",
	"R&B",
	"Rock n Roll",
	"Soul",
	"Other",
}

// States is the closed set of US state codes.
var States = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL",
	"GA", "HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME",
	"MT", "NE", "NV", "NH", "NJ", "NM", "NY", "NC", "ND", "OH",
	"OK", "OR", "MD", "MA", "MI", "MN", "MS", "MO", "PA", "RI",
	"SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI",
	"WY",
}

// IsGenre reports whether g is one of Genres.
func IsGenre(g string) bool {
	return slices.Contains(Genres, g)
}
