// Package metrics holds the Prometheus collectors for the record store and
// the HTTP layer, plus the echo middleware that feeds the latter.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MoviesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movieprefs_movies_created_total",
		Help: "Movies saved through the entry form or the API",
	})

	MoviesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movieprefs_movies_deleted_total",
		Help: "Movies removed from the store",
	})

	EmptyTitleSubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movieprefs_empty_title_submissions_total",
		Help: "Submissions ignored because the title was empty",
	})

	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movieprefs_store_errors_total",
		Help: "Record store operations that returned an error",
	}, []string{"operation"})

	EventPublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movieprefs_event_publish_errors_total",
		Help: "Movie events that could not be published",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "movieprefs_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Middleware records the latency of every request under its route pattern.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			HTTPRequestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}
