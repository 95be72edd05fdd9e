package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikePattern(t *testing.T) {
	tests := []struct {
		name string
		term string
		want string
	}{
		{name: "plain", term: "san", want: "%san%"},
		{name: "empty matches everything", term: "", want: "%%"},
		{name: "percent is literal", term: "100%", want: `%100\%%`},
		{name: "underscore is literal", term: "a_b", want: `%a\_b%`},
		{name: "backslash is literal", term: `a\b`, want: `%a\\b%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, likePattern(tt.term))
		})
	}
}
