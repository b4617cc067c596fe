// Package router wires handlers and middleware onto an echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-prefs/internal/config"
	"github.com/iliyamo/movie-prefs/internal/handler"
	"github.com/iliyamo/movie-prefs/internal/middleware"
	"github.com/iliyamo/movie-prefs/internal/service"
)

// Deps is what RegisterRoutes needs. Redis may be nil, which turns the
// cache and the rate limiter into pass-throughs.
type Deps struct {
	Movies    *service.MovieService
	Store     handler.Pinger
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
}

// RegisterRoutes mounts the page, the JSON API and the operational endpoints.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health(d.Store))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis)
	invalidate := middleware.InvalidateOnWrite(d.Cache, d.Redis)

	page := &handler.PageHandler{Movies: d.Movies}
	e.GET("/", page.Index)
	e.POST("/movies", page.Create, limit, invalidate)
	e.POST("/movies/:id/delete", page.Delete, limit, invalidate)

	api := &handler.APIHandler{Movies: d.Movies}
	g := e.Group("/api/v1", middleware.NewRedisCache(d.Cache, d.Redis))
	g.GET("/movies", api.ListMovies)
	g.POST("/movies", api.CreateMovie, limit, invalidate)
	g.DELETE("/movies/:id", api.DeleteMovie, limit, invalidate)
	g.GET("/genres", api.ListGenres)
	g.GET("/stats", api.Stats)
}
