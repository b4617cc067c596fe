// Package repository contains data access logic separated from HTTP handlers.
// MovieRepo is the record store: a flat movie_prefs table supporting insert,
// full scan, distinct genres, grouped averages and delete by id.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/iliyamo/movie-prefs/internal/model"
)

// MovieRepo encapsulates all queries on movie_prefs. The *sql.DB is opened
// and closed by the caller.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Insert appends m and returns the id the store assigned to it. m.ID is
// set as well.
func (r *MovieRepo) Insert(ctx context.Context, m *model.Movie) (int64, error) {
	const q = "INSERT INTO movie_prefs (title, genre, preference, review) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, m.Title, string(m.Genre), m.Preference, m.Review)
	if err != nil {
		return 0, fmt.Errorf("insert movie: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert movie: last id: %w", err)
	}
	m.ID = id
	return id, nil
}

// Get fetches a single movie by id.
func (r *MovieRepo) Get(ctx context.Context, id int64) (*model.Movie, error) {
	const q = "SELECT id, title, genre, preference, review FROM movie_prefs WHERE id = ?"
	m, err := scanMovie(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	return m, nil
}

// ListAll returns every record in insertion order.
func (r *MovieRepo) ListAll(ctx context.Context) ([]model.Movie, error) {
	const q = "SELECT id, title, genre, preference, review FROM movie_prefs ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	out := []model.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("list movies: scan: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return out, nil
}

// DistinctGenres returns the genres present among stored records in
// display order.
func (r *MovieRepo) DistinctGenres(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT genre FROM movie_prefs")
	if err != nil {
		return nil, fmt.Errorf("distinct genres: %w", err)
	}
	defer rows.Close()

	out := []model.Genre{}
	for rows.Next() {
		var g sql.NullString
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("distinct genres: scan: %w", err)
		}
		if g.Valid {
			out = append(out, model.Genre(g.String))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("distinct genres: %w", err)
	}
	sortByGenre(out, func(g model.Genre) model.Genre { return g })
	return out, nil
}

// AverageByGenre computes the mean preference per genre. Genres without
// records do not appear.
func (r *MovieRepo) AverageByGenre(ctx context.Context) ([]model.GenreAverage, error) {
	const q = `SELECT genre, AVG(preference), COUNT(*)
	           FROM movie_prefs WHERE genre IS NOT NULL GROUP BY genre`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("average by genre: %w", err)
	}
	defer rows.Close()

	out := []model.GenreAverage{}
	for rows.Next() {
		var (
			ga  model.GenreAverage
			avg sql.NullFloat64
		)
		if err := rows.Scan(&ga.Genre, &avg, &ga.Count); err != nil {
			return nil, fmt.Errorf("average by genre: scan: %w", err)
		}
		ga.Average = avg.Float64
		out = append(out, ga)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("average by genre: %w", err)
	}
	sortByGenre(out, func(ga model.GenreAverage) model.Genre { return ga.Genre })
	return out, nil
}

// Delete removes the record with the given id. Deleting an id that does not
// exist is a no-op.
func (r *MovieRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM movie_prefs WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete movie %d: %w", id, err)
	}
	return nil
}

// Ping verifies the store is reachable; used by the health check.
func (r *MovieRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanMovie tolerates NULL columns, which the table definition allows.
func scanMovie(s rowScanner) (*model.Movie, error) {
	var (
		m                    model.Movie
		title, genre, review sql.NullString
		pref                 sql.NullInt64
	)
	if err := s.Scan(&m.ID, &title, &genre, &pref, &review); err != nil {
		return nil, err
	}
	m.Title = title.String
	m.Genre = model.Genre(genre.String)
	m.Preference = int(pref.Int64)
	m.Review = review.String
	return &m, nil
}

// sortByGenre orders items by the display order of their genre; unknown
// genres go last, alphabetically.
func sortByGenre[T any](items []T, key func(T) model.Genre) {
	slices.SortStableFunc(items, func(a, b T) int {
		ga, gb := key(a), key(b)
		if ra, rb := ga.Rank(), gb.Rank(); ra != rb {
			return ra - rb
		}
		switch {
		case ga < gb:
			return -1
		case ga > gb:
			return 1
		}
		return 0
	})
}
