// Package queue defines movie event payloads and moves them over RabbitMQ.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/movie-prefs/internal/model"
)

// Event types carried in MovieEvent.Type.
const (
	EventMovieCreated = "movie.created"
	EventMovieDeleted = "movie.deleted"
)

// MovieEvent is published after a record is saved or deleted. It carries
// enough of the record for consumers to log or index it without querying
// the store.
type MovieEvent struct {
	EventID    string `json:"event_id"`
	Type       string `json:"type"`
	MovieID    int64  `json:"movie_id"`
	Title      string `json:"title"`
	Genre      string `json:"genre"`
	Preference int    `json:"preference"`
	OccurredAt string `json:"occurred_at"`
}

// NewMovieEvent stamps an event for m with a fresh id and the current UTC time.
func NewMovieEvent(typ string, m model.Movie) MovieEvent {
	return MovieEvent{
		EventID:    uuid.NewString(),
		Type:       typ,
		MovieID:    m.ID,
		Title:      m.Title,
		Genre:      string(m.Genre),
		Preference: m.Preference,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
