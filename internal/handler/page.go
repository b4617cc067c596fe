// Package handler exposes the HTTP handlers: the server-rendered single page,
// the JSON API under /api/v1 and the health check.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-prefs/internal/logging"
	"github.com/iliyamo/movie-prefs/internal/service"
	"github.com/iliyamo/movie-prefs/internal/validation"
	"github.com/iliyamo/movie-prefs/internal/web"
)

// PageHandler serves the single page and its two form posts. Every post
// ends in a 303 redirect back to the page with the filters it was sent from.
type PageHandler struct {
	Movies *service.MovieService
}

// Index renders the page for the filters in the query string.
func (h *PageHandler) Index(c echo.Context) error {
	f := web.ParseFilter(c.QueryParams())
	p, err := h.Movies.Page(c.Request().Context(), f)
	if err != nil {
		logging.Error().Err(err).Msg("load page")
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load movies")
	}
	return c.Render(http.StatusOK, web.PageIndex, web.NewIndexData(p, popFlash(c)))
}

// Create handles the entry form. An empty title redirects without saving.
func (h *PageHandler) Create(c echo.Context) error {
	var in service.NewMovie
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	m, err := h.Movies.Register(c.Request().Context(), in)
	switch {
	case errors.Is(err, service.ErrEmptyTitle):
		return redirectBack(c)
	case errors.Is(err, validation.ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case err != nil:
		logging.Error().Err(err).Msg("save movie")
		return echo.NewHTTPError(http.StatusInternalServerError, "could not save movie")
	}
	setFlash(c, fmt.Sprintf("'%s' saved", m.Title))
	return redirectBack(c)
}

// Delete handles the per-record delete button. Unknown ids are a no-op.
func (h *PageHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.Movies.Remove(c.Request().Context(), id)
	if err != nil {
		logging.Error().Err(err).Int64("id", id).Msg("delete movie")
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete movie")
	}
	if m != nil {
		setFlash(c, fmt.Sprintf("'%s' deleted", m.Title))
	}
	return redirectBack(c)
}

// redirectBack rebuilds the page URL from the posted return_query. Only the
// known filter parameters survive, so the target is always "/".
func redirectBack(c echo.Context) error {
	target := "/"
	if raw := c.FormValue("return_query"); raw != "" {
		if v, err := url.ParseQuery(raw); err == nil {
			if q := web.FilterQuery(web.ParseFilter(v)).Encode(); q != "" {
				target += "?" + q
			}
		}
	}
	return c.Redirect(http.StatusSeeOther, target)
}
