package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/movie-prefs/internal/config"
)

// TableMovies is the single table holding every record.
const TableMovies = "movie_prefs"

const sqliteSchema = `CREATE TABLE IF NOT EXISTS movie_prefs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT,
	genre TEXT,
	preference INTEGER,
	review TEXT
)`

// Ids are never reused on MySQL 8.0 and later, where InnoDB persists the
// AUTO_INCREMENT counter. Older servers reset it to max(id)+1 on restart,
// so an id freed by deleting the newest row can come back.
const mysqlSchema = `CREATE TABLE IF NOT EXISTS movie_prefs (
	id BIGINT PRIMARY KEY AUTO_INCREMENT,
	title TEXT,
	genre VARCHAR(32),
	preference INT,
	review TEXT
) DEFAULT CHARSET=utf8mb4`

// Migrate creates the movie_prefs table for the given driver if absent.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	ddl := sqliteSchema
	if driver == config.DriverMySQL {
		ddl = mysqlSchema
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s table: %w", TableMovies, err)
	}
	return nil
}
