package domain

import "time"

// Category groups titles by broad kind of work (book, film, music, ...).
// The slug is the external lookup key and never changes after creation.
type Category struct {
	ID        string    `json:"-"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Genre tags titles with a style or theme. Titles carry any number of genres.
type Genre struct {
	ID        string    `json:"-"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Title is a catalogued work of art.
//
// Rating is never stored: it is the arithmetic mean of the title's review
// scores, computed at read time, and nil when the title has no reviews.
// Zero and "no rating" are distinct states.
type Title struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	Description string    `json:"description,omitempty"`
	Category    *Category `json:"category"`
	Genres      []*Genre  `json:"genre"`
	Rating      *float64  `json:"rating"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// ValidYear reports whether year is a plausible publication year at the
// given moment. Validity is only ever checked at write time.
func ValidYear(year int, now time.Time) bool {
	return year > 0 && year <= now.Year()
}
