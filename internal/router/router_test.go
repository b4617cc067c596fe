package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-prefs/internal/config"
	"github.com/iliyamo/movie-prefs/internal/database"
	"github.com/iliyamo/movie-prefs/internal/repository"
	"github.com/iliyamo/movie-prefs/internal/service"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := database.Open(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "movies.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.NewMovieRepo(db)
	e, err := New(Deps{Movies: service.NewMovieService(repo, nil), Store: repo})
	require.NoError(t, err)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_Operational(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = do(e, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "movieprefs_http_request_duration_seconds")

	rec = do(e, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No movies match the current filters.")
}

func TestRoutes_APIFlow(t *testing.T) {
	e := newTestServer(t)

	for _, body := range []string{
		`{"title":"Matrix","genre":"SciFi","preference":5,"review":"great"}`,
		`{"title":"Titanic","genre":"Romance","preference":3,"review":"ok"}`,
		`{"title":"Alien","genre":"SciFi","preference":4,"review":"scary"}`,
	} {
		rec := do(e, http.MethodPost, "/api/v1/movies", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := do(e, http.MethodGet, "/api/v1/movies?genre=SciFi&sort=pref_asc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Items []struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		} `json:"items"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Alien", list.Items[0].Title)
	assert.Equal(t, 3, list.Total)

	rec = do(e, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"summary": {"count": 3, "mean": 4, "max": 5, "min": 3},
		"by_genre": [
			{"genre": "Romance", "average": 3, "count": 1},
			{"genre": "SciFi", "average": 4.5, "count": 2}
		]
	}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/v1/genres", "")
	assert.JSONEq(t, `{"items":["Romance","SciFi"]}`, rec.Body.String())
}

func TestRoutes_SerializerReportsSyntaxErrors(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/v1/movies", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
