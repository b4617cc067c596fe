package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/movie-prefs/internal/metrics"
	"github.com/iliyamo/movie-prefs/internal/middleware"
	"github.com/iliyamo/movie-prefs/internal/web"
)

// New builds the echo instance with renderer, serializer, the global
// middleware chain and every route.
func New(d Deps) (*echo.Echo, error) {
	r, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = r
	e.JSONSerializer = JSONSerializer{}

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(metrics.Middleware())

	RegisterRoutes(e, d)
	return e, nil
}
