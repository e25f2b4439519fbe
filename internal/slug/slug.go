// Package slug derives URL-safe identifiers for categories and genres.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches any non-alphanumeric character.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches multiple hyphens.
	multipleHyphens = regexp.MustCompile(`-+`)
	// Valid matches a well-formed slug supplied by a client.
	valid = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// Make converts a string to a URL-safe slug.
// "Science Fiction" -> "science-fiction".
// "Film Noir/Crime" -> "film-noir-crime".
func Make(s string) string {
	// Normalize unicode (decompose accented characters).
	s = norm.NFKD.String(s)

	// Remove non-ASCII characters.
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)

	// Replace non-alphanumeric with hyphens.
	s = nonAlphanumeric.ReplaceAllString(s, "-")

	// Collapse multiple hyphens.
	s = multipleHyphens.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// IsValid reports whether s is an acceptable client-supplied slug.
func IsValid(s string) bool {
	return s != "" && valid.MatchString(s)
}
