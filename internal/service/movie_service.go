// Package service runs one user interaction end to end: mutate the record
// store, re-read it in full, derive the view and publish movie events.
package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-prefs/internal/logging"
	"github.com/iliyamo/movie-prefs/internal/metrics"
	"github.com/iliyamo/movie-prefs/internal/model"
	"github.com/iliyamo/movie-prefs/internal/queue"
	"github.com/iliyamo/movie-prefs/internal/repository"
	"github.com/iliyamo/movie-prefs/internal/validation"
	"github.com/iliyamo/movie-prefs/internal/view"
)

// ErrEmptyTitle is returned by Register when the title is blank. Callers
// treat it as a silent no-op, not as a failure.
var ErrEmptyTitle = errors.New("empty title")

// Store is the subset of repository.MovieRepo the service needs.
type Store interface {
	Insert(ctx context.Context, m *model.Movie) (int64, error)
	Get(ctx context.Context, id int64) (*model.Movie, error)
	ListAll(ctx context.Context) ([]model.Movie, error)
	DistinctGenres(ctx context.Context) ([]model.Genre, error)
	AverageByGenre(ctx context.Context) ([]model.GenreAverage, error)
	Delete(ctx context.Context, id int64) error
}

// NewMovie is the entry form / API payload.
type NewMovie struct {
	Title      string `json:"title" form:"title"`
	Genre      string `json:"genre" form:"genre" validate:"genre"`
	Preference int    `json:"preference" form:"preference" validate:"min=1,max=5"`
	Review     string `json:"review" form:"review"`
}

// Page is everything one render of the single page needs.
type Page struct {
	Filter     model.Filter
	Movies     []model.Movie        // filtered and sorted
	Total      int                  // records in the store
	Genres     []model.Genre        // genres present plus the active filter, for the filter control
	Summary    model.Summary        // over the unfiltered set
	HasSummary bool                 // false when the store is empty
	Averages   []model.GenreAverage // per genre, for the chart
	Chart      view.ChartData
}

// MovieService is safe for concurrent use as long as Store and Publisher are.
type MovieService struct {
	store  Store
	events queue.Publisher
	log    zerolog.Logger
}

// NewMovieService wires a service. A nil publisher disables events.
func NewMovieService(store Store, events queue.Publisher) *MovieService {
	if store == nil {
		panic("nil store passed to NewMovieService")
	}
	if events == nil {
		events = queue.NopPublisher{}
	}
	return &MovieService{
		store:  store,
		events: events,
		log:    logging.With().Str("component", "movie-service").Logger(),
	}
}

// Register saves a new movie with the title and review exactly as
// submitted. A blank title yields ErrEmptyTitle and nothing is stored; a
// genre or preference outside the fixed sets yields a validation error.
func (s *MovieService) Register(ctx context.Context, in NewMovie) (*model.Movie, error) {
	if strings.TrimSpace(in.Title) == "" {
		metrics.EmptyTitleSubmissions.Inc()
		return nil, ErrEmptyTitle
	}
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	genre, _ := model.ParseGenre(in.Genre)

	m := &model.Movie{
		Title:      in.Title,
		Genre:      genre,
		Preference: in.Preference,
		Review:     in.Review,
	}
	if _, err := s.store.Insert(ctx, m); err != nil {
		metrics.StoreErrors.WithLabelValues("insert").Inc()
		return nil, err
	}
	metrics.MoviesCreated.Inc()
	s.log.Info().Int64("id", m.ID).Str("title", m.Title).Str("genre", string(m.Genre)).Msg("movie saved")
	s.publish(ctx, queue.NewMovieEvent(queue.EventMovieCreated, *m))
	return m, nil
}

// Remove deletes the movie with id and returns what was deleted, or nil
// when no such movie existed. Deleting a missing id is not an error.
func (s *MovieService) Remove(ctx context.Context, id int64) (*model.Movie, error) {
	m, err := s.store.Get(ctx, id)
	if errors.Is(err, repository.ErrMovieNotFound) {
		return nil, nil
	}
	if err != nil {
		metrics.StoreErrors.WithLabelValues("get").Inc()
		return nil, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		metrics.StoreErrors.WithLabelValues("delete").Inc()
		return nil, err
	}
	metrics.MoviesDeleted.Inc()
	s.log.Info().Int64("id", id).Str("title", m.Title).Msg("movie deleted")
	s.publish(ctx, queue.NewMovieEvent(queue.EventMovieDeleted, *m))
	return m, nil
}

// List returns the derived view for f.
func (s *MovieService) List(ctx context.Context, f model.Filter) ([]model.Movie, int, error) {
	all, err := s.listAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	return view.Derive(all, f), len(all), nil
}

// Genres returns the genres currently present in the store.
func (s *MovieService) Genres(ctx context.Context) ([]model.Genre, error) {
	gs, err := s.store.DistinctGenres(ctx)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("distinct_genres").Inc()
		return nil, err
	}
	return gs, nil
}

// Stats returns the summary over every record (nil when the store is
// empty) and the per-genre averages.
func (s *MovieService) Stats(ctx context.Context) (*model.Summary, []model.GenreAverage, error) {
	all, err := s.listAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	avgs, err := s.averages(ctx)
	if err != nil {
		return nil, nil, err
	}
	if sum, ok := view.Summarize(all); ok {
		return &sum, avgs, nil
	}
	return nil, avgs, nil
}

// Page re-reads the whole store and derives everything the page shows.
func (s *MovieService) Page(ctx context.Context, f model.Filter) (*Page, error) {
	all, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}
	genres, err := s.Genres(ctx)
	if err != nil {
		return nil, err
	}
	avgs, err := s.averages(ctx)
	if err != nil {
		return nil, err
	}
	// The active genre stays selectable after its last record is deleted.
	if f.Genre != "" && !slices.Contains(genres, f.Genre) {
		genres = append(genres, f.Genre)
		slices.SortStableFunc(genres, func(a, b model.Genre) int { return a.Rank() - b.Rank() })
	}
	p := &Page{
		Filter:   f,
		Movies:   view.Derive(all, f),
		Total:    len(all),
		Genres:   genres,
		Averages: avgs,
		Chart:    view.Chart(avgs),
	}
	p.Summary, p.HasSummary = view.Summarize(all)
	return p, nil
}

func (s *MovieService) listAll(ctx context.Context) ([]model.Movie, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list").Inc()
		return nil, err
	}
	return all, nil
}

func (s *MovieService) averages(ctx context.Context) ([]model.GenreAverage, error) {
	avgs, err := s.store.AverageByGenre(ctx)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("average_by_genre").Inc()
		return nil, err
	}
	return avgs, nil
}

// publish never fails the interaction; the record is already stored.
func (s *MovieService) publish(ctx context.Context, ev queue.MovieEvent) {
	if err := s.events.Publish(ctx, ev); err != nil {
		metrics.EventPublishErrors.Inc()
		s.log.Warn().Err(err).Str("type", ev.Type).Int64("movie_id", ev.MovieID).Msg("publish movie event")
	}
}
