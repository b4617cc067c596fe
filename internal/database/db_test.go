package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-prefs/internal/config"
)

func TestOpen_SQLiteCreatesFileAndTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "movies.db")

	db, err := Open(context.Background(), config.DBConfig{Driver: config.DriverSQLite, Path: path})
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(path)
	require.NoError(t, err, "database file should exist")

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, TableMovies).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, TableMovies, name)
}

func TestMigrate_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.db")
	db, err := Open(context.Background(), config.DBConfig{Driver: config.DriverSQLite, Path: path})
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO movie_prefs (title, genre, preference, review) VALUES ('Matrix', 'SciFi', 5, 'great')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(context.Background(), db, config.DriverSQLite))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM movie_prefs`).Scan(&n))
	assert.Equal(t, 1, n, "migrating again must keep existing rows")
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DBConfig{Driver: "oracle"})
	require.Error(t, err)
}
