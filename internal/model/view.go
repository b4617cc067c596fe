package model

import "strings"

// SortOrder selects how the movie list is ordered.
type SortOrder string

const (
	SortInsertion SortOrder = "insertion" // store order
	SortPrefDesc  SortOrder = "pref_desc" // highest preference first
	SortPrefAsc   SortOrder = "pref_asc"  // lowest preference first
)

// SortOrders lists the supported orders in the order the UI offers them.
func SortOrders() []SortOrder {
	return []SortOrder{SortInsertion, SortPrefDesc, SortPrefAsc}
}

// ParseSortOrder falls back to SortInsertion for anything it does not know.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortPrefDesc:
		return SortPrefDesc
	case SortPrefAsc:
		return SortPrefAsc
	default:
		return SortInsertion
	}
}

// Label is the text shown next to the sort control.
func (s SortOrder) Label() string {
	switch s {
	case SortPrefDesc:
		return "Highest preference"
	case SortPrefAsc:
		return "Lowest preference"
	default:
		return "Order added"
	}
}

// Filter carries the search, genre and sort controls of one request.
// An empty Genre means "show all".
type Filter struct {
	Search string
	Genre  Genre
	Sort   SortOrder
}

// GenreAverage is the mean preference of every record filed under Genre.
type GenreAverage struct {
	Genre   Genre   `json:"genre"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Summary holds the scalar statistics over the whole record set.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Max   int     `json:"max"`
	Min   int     `json:"min"`
}
