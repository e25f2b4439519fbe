package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Science Fiction", "science-fiction"},
		{"Film Noir/Crime", "film-noir-crime"},
		{"Café Culture", "cafe-culture"},
		{"  Trim  Me  ", "trim-me"},
		{"already-slugged", "already-slugged"},
		{"UPPER", "upper"},
		{"100 Years", "100-years"},
		{"---", ""},
		{"日本語", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Make(tt.input), "Make(%q)", tt.input)
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("science-fiction"))
	assert.True(t, IsValid("sci_fi"))
	assert.True(t, IsValid("Books2020"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("no spaces"))
	assert.False(t, IsValid("no/slash"))
	assert.False(t, IsValid("ünïcode"))
}
