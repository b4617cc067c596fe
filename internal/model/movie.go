package model

import "strings"

// Genre is one of the fixed movie genres a record can be filed under.
type Genre string

const (
	GenreAction   Genre = "Action"
	GenreRomance  Genre = "Romance"
	GenreComedy   Genre = "Comedy"
	GenreThriller Genre = "Thriller"
	GenreSciFi    Genre = "SciFi"
	GenreDrama    Genre = "Drama"
)

var genres = []Genre{GenreAction, GenreRomance, GenreComedy, GenreThriller, GenreSciFi, GenreDrama}

// Genres returns every genre in display order.
func Genres() []Genre {
	out := make([]Genre, len(genres))
	copy(out, genres)
	return out
}

// ParseGenre matches s against the genre set ignoring case and surrounding
// spaces.
func ParseGenre(s string) (Genre, bool) {
	s = strings.TrimSpace(s)
	for _, g := range genres {
		if strings.EqualFold(string(g), s) {
			return g, true
		}
	}
	return "", false
}

// Rank is the position of g in display order, or len(Genres()) for unknown
// values so they sort last.
func (g Genre) Rank() int {
	for i, v := range genres {
		if v == g {
			return i
		}
	}
	return len(genres)
}

// Preference bounds as offered by the entry form slider.
const (
	MinPreference     = 1
	MaxPreference     = 5
	DefaultPreference = 3
)

// Movie is one row of the movie_prefs table. The store assigns ID on
// insert and never reuses it.
type Movie struct {
	ID         int64  `json:"id"`         // movie_prefs.id
	Title      string `json:"title"`      // movie_prefs.title
	Genre      Genre  `json:"genre"`      // movie_prefs.genre
	Preference int    `json:"preference"` // movie_prefs.preference
	Review     string `json:"review"`     // movie_prefs.review
}
