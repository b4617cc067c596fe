package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-prefs/internal/config"
	"github.com/iliyamo/movie-prefs/internal/database"
	"github.com/iliyamo/movie-prefs/internal/metrics"
	"github.com/iliyamo/movie-prefs/internal/model"
	"github.com/iliyamo/movie-prefs/internal/queue"
	"github.com/iliyamo/movie-prefs/internal/repository"
	"github.com/iliyamo/movie-prefs/internal/validation"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.MovieEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.MovieEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func newTestService(t *testing.T) (*MovieService, *recordingPublisher) {
	t.Helper()
	db, err := database.Open(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "movies.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	pub := &recordingPublisher{}
	return NewMovieService(repository.NewMovieRepo(db), pub), pub
}

func seedScenario(t *testing.T, s *MovieService) map[string]int64 {
	t.Helper()
	ids := map[string]int64{}
	for _, in := range []NewMovie{
		{Title: "Matrix", Genre: "SciFi", Preference: 5, Review: "great"},
		{Title: "Titanic", Genre: "Romance", Preference: 3, Review: "ok"},
		{Title: "Alien", Genre: "SciFi", Preference: 4, Review: "scary"},
	} {
		m, err := s.Register(context.Background(), in)
		require.NoError(t, err)
		ids[m.Title] = m.ID
	}
	return ids
}

func TestRegister_SavesAndPublishes(t *testing.T) {
	s, pub := newTestService(t)

	m, err := s.Register(context.Background(), NewMovie{Title: "Matrix", Genre: "scifi", Preference: 5, Review: "great"})
	require.NoError(t, err)
	assert.Equal(t, "Matrix", m.Title)
	assert.Equal(t, model.GenreSciFi, m.Genre)
	assert.NotZero(t, m.ID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, queue.EventMovieCreated, pub.events[0].Type)
	assert.Equal(t, m.ID, pub.events[0].MovieID)
}

func TestRegister_StoresFieldsAsSubmitted(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	m, err := s.Register(ctx, NewMovie{Title: "  Matrix  ", Genre: "SciFi", Preference: 5, Review: " great "})
	require.NoError(t, err)

	all, _, err := s.List(ctx, model.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, m.ID, all[0].ID)
	assert.Equal(t, "  Matrix  ", all[0].Title)
	assert.Equal(t, " great ", all[0].Review)
}

func TestRegister_EmptyTitleIsIgnored(t *testing.T) {
	s, pub := newTestService(t)
	ctx := context.Background()

	for _, title := range []string{"", "   "} {
		m, err := s.Register(ctx, NewMovie{Title: title, Genre: "Drama", Preference: 3})
		assert.ErrorIs(t, err, ErrEmptyTitle)
		assert.Nil(t, m)
	}

	all, _, err := s.List(ctx, model.Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, pub.events)
}

func TestRegister_RejectsOutOfRange(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.Register(context.Background(), NewMovie{Title: "X", Genre: "Western", Preference: 3})
	assert.ErrorIs(t, err, validation.ErrInvalid)

	_, err = s.Register(context.Background(), NewMovie{Title: "X", Genre: "Drama", Preference: 9})
	assert.ErrorIs(t, err, validation.ErrInvalid)
}

func TestRegister_PublishFailureDoesNotFail(t *testing.T) {
	s, pub := newTestService(t)
	pub.err = errors.New("broker down")

	m, err := s.Register(context.Background(), NewMovie{Title: "Heat", Genre: "Action", Preference: 4})
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestStats_Scenario(t *testing.T) {
	s, _ := newTestService(t)
	seedScenario(t, s)

	sum, avgs, err := s.Stats(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sum)
	assert.InDelta(t, 4.0, sum.Mean, 1e-9)
	assert.Equal(t, 5, sum.Max)
	assert.Equal(t, 3, sum.Min)

	byGenre := map[model.Genre]float64{}
	for _, a := range avgs {
		byGenre[a.Genre] = a.Average
	}
	assert.InDelta(t, 4.5, byGenre[model.GenreSciFi], 1e-9)
	assert.InDelta(t, 3.0, byGenre[model.GenreRomance], 1e-9)
	_, ok := byGenre[model.GenreDrama]
	assert.False(t, ok)
}

func TestStats_EmptyStore(t *testing.T) {
	s, _ := newTestService(t)

	sum, avgs, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sum)
	assert.Empty(t, avgs)
}

func TestRemove_Scenario(t *testing.T) {
	s, pub := newTestService(t)
	ids := seedScenario(t, s)
	ctx := context.Background()

	start := testutil.ToFloat64(metrics.MoviesDeleted)
	m, err := s.Remove(ctx, ids["Titanic"])
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "Titanic", m.Title)
	assert.Equal(t, start+1, testutil.ToFloat64(metrics.MoviesDeleted))

	all, total, err := s.List(ctx, model.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, r := range all {
		assert.Equal(t, model.GenreSciFi, r.Genre)
	}

	deleted := testutil.ToFloat64(metrics.MoviesDeleted)
	again, err := s.Remove(ctx, ids["Titanic"])
	require.NoError(t, err)
	assert.Nil(t, again)
	assert.Equal(t, deleted, testutil.ToFloat64(metrics.MoviesDeleted), "absent ids are not counted")

	last := pub.events[len(pub.events)-1]
	assert.Equal(t, queue.EventMovieDeleted, last.Type)
	assert.Equal(t, ids["Titanic"], last.MovieID)
}

func TestPage(t *testing.T) {
	s, _ := newTestService(t)
	seedScenario(t, s)

	p, err := s.Page(context.Background(), model.Filter{Genre: model.GenreSciFi, Sort: model.SortPrefAsc})
	require.NoError(t, err)

	require.Len(t, p.Movies, 2)
	assert.Equal(t, "Alien", p.Movies[0].Title)
	assert.Equal(t, "Matrix", p.Movies[1].Title)
	assert.Equal(t, 3, p.Total)
	assert.Equal(t, []model.Genre{model.GenreRomance, model.GenreSciFi}, p.Genres)
	assert.True(t, p.HasSummary, "summary covers the unfiltered set")
	assert.Equal(t, 3, p.Summary.Min)
	assert.Len(t, p.Chart.Bars, 2)
}

func TestPage_KeepsActiveGenreWithoutRecords(t *testing.T) {
	s, _ := newTestService(t)
	seedScenario(t, s)

	p, err := s.Page(context.Background(), model.Filter{Genre: model.GenreDrama})
	require.NoError(t, err)
	assert.Empty(t, p.Movies)
	assert.Equal(t, []model.Genre{model.GenreRomance, model.GenreSciFi, model.GenreDrama}, p.Genres)
}

type failingStore struct{ Store }

func (failingStore) ListAll(context.Context) ([]model.Movie, error) {
	return nil, errors.New("disk I/O error")
}

func (failingStore) Insert(context.Context, *model.Movie) (int64, error) {
	return 0, errors.New("disk I/O error")
}

func TestStoreErrorsPropagate(t *testing.T) {
	s := NewMovieService(failingStore{}, nil)
	ctx := context.Background()

	_, err := s.Page(ctx, model.Filter{})
	assert.Error(t, err)

	_, err = s.Register(ctx, NewMovie{Title: "X", Genre: "Drama", Preference: 2})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyTitle)
}

func (failingStore) Get(_ context.Context, id int64) (*model.Movie, error) {
	return &model.Movie{ID: id, Title: "Heat"}, nil
}

func (failingStore) Delete(context.Context, int64) error {
	return errors.New("database is locked")
}

func TestRemove_StoreErrorIsNotCounted(t *testing.T) {
	s := NewMovieService(failingStore{}, nil)
	before := testutil.ToFloat64(metrics.MoviesDeleted)

	m, err := s.Remove(context.Background(), 7)
	assert.Error(t, err)
	assert.Nil(t, m)
	assert.Equal(t, before, testutil.ToFloat64(metrics.MoviesDeleted))
}
