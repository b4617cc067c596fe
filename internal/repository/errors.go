package repository

import "errors"

// ErrMovieNotFound is returned by Get when no row has the requested id.
// Delete does not return it: removing an absent id is a no-op.
var ErrMovieNotFound = errors.New("movie not found")
