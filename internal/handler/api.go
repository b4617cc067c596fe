package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-prefs/internal/logging"
	"github.com/iliyamo/movie-prefs/internal/model"
	"github.com/iliyamo/movie-prefs/internal/service"
	"github.com/iliyamo/movie-prefs/internal/validation"
	"github.com/iliyamo/movie-prefs/internal/web"
)

// APIHandler serves the JSON API under /api/v1.
type APIHandler struct {
	Movies *service.MovieService
}

// StatsResponse is the body of GET /api/v1/stats. Summary is null while the
// store is empty.
type StatsResponse struct {
	Summary *model.Summary       `json:"summary"`
	ByGenre []model.GenreAverage `json:"by_genre"`
}

// ListMovies returns the filtered and sorted records plus the store size.
// Accepts ?q=, ?genre= and ?sort=insertion|pref_desc|pref_asc.
func (h *APIHandler) ListMovies(c echo.Context) error {
	items, total, err := h.Movies.List(c.Request().Context(), web.ParseFilter(c.QueryParams()))
	if err != nil {
		logging.Error().Err(err).Msg("list movies")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": total})
}

// CreateMovie saves a record. An empty title is ignored with 204.
func (h *APIHandler) CreateMovie(c echo.Context) error {
	var in service.NewMovie
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	m, err := h.Movies.Register(c.Request().Context(), in)
	if errors.Is(err, service.ErrEmptyTitle) {
		return c.NoContent(http.StatusNoContent)
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"code":   "VALIDATION_ERROR",
			"error":  verr.Error(),
			"fields": verr.Fields,
		})
	}
	if err != nil {
		logging.Error().Err(err).Msg("create movie")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save movie"})
	}
	return c.JSON(http.StatusCreated, m)
}

// DeleteMovie removes a record. Absent ids still answer 204.
func (h *APIHandler) DeleteMovie(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Movies.Remove(c.Request().Context(), id); err != nil {
		logging.Error().Err(err).Int64("id", id).Msg("delete movie")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete movie"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *APIHandler) ListGenres(c echo.Context) error {
	gs, err := h.Movies.Genres(c.Request().Context())
	if err != nil {
		logging.Error().Err(err).Msg("list genres")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": gs})
}

func (h *APIHandler) Stats(c echo.Context) error {
	sum, avgs, err := h.Movies.Stats(c.Request().Context())
	if err != nil {
		logging.Error().Err(err).Msg("stats")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if avgs == nil {
		avgs = []model.GenreAverage{}
	}
	return c.JSON(http.StatusOK, StatsResponse{Summary: sum, ByGenre: avgs})
}
