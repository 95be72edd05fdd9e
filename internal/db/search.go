package db

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns a search term into an ILIKE substring pattern. Wildcard
// characters typed by the user match literally.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
