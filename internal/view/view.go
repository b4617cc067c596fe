// Package view derives what a page shows from a snapshot of the record
// store. Everything here is pure: the same inputs always produce the same
// output and nothing is retained between calls.
package view

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/iliyamo/movie-prefs/internal/model"
)

// Derive filters records by title substring and genre, then orders them.
// The input slice is not modified.
func Derive(records []model.Movie, f model.Filter) []model.Movie {
	term := fold(f.Search)

	out := make([]model.Movie, 0, len(records))
	for _, m := range records {
		if term != "" && !strings.Contains(fold(m.Title), term) {
			continue
		}
		if f.Genre != "" && m.Genre != f.Genre {
			continue
		}
		out = append(out, m)
	}

	switch f.Sort {
	case model.SortPrefDesc:
		slices.SortStableFunc(out, func(a, b model.Movie) int { return b.Preference - a.Preference })
	case model.SortPrefAsc:
		slices.SortStableFunc(out, func(a, b model.Movie) int { return a.Preference - b.Preference })
	}
	return out
}

// fold uses Unicode case folding so matching works beyond ASCII. A Caser
// is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Summarize reduces the full record set to mean, max and min preference.
// ok is false when there are no records.
func Summarize(records []model.Movie) (s model.Summary, ok bool) {
	if len(records) == 0 {
		return model.Summary{}, false
	}
	sum := 0
	s.Max, s.Min = records[0].Preference, records[0].Preference
	for _, m := range records {
		sum += m.Preference
		s.Max = max(s.Max, m.Preference)
		s.Min = min(s.Min, m.Preference)
	}
	s.Count = len(records)
	s.Mean = float64(sum) / float64(len(records))
	return s, true
}
