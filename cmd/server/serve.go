package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/movie-prefs/internal/config"
	"github.com/iliyamo/movie-prefs/internal/database"
	"github.com/iliyamo/movie-prefs/internal/logging"
	"github.com/iliyamo/movie-prefs/internal/queue"
	"github.com/iliyamo/movie-prefs/internal/repository"
	"github.com/iliyamo/movie-prefs/internal/router"
	"github.com/iliyamo/movie-prefs/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	repo := repository.NewMovieRepo(db)

	var events queue.Publisher = queue.NopPublisher{}
	if cfg.Events.Enabled {
		events = queue.NewAMQPPublisher(cfg.Events.URL, cfg.Events.Queue)
		c := &queue.Consumer{URL: cfg.Events.URL, Queue: cfg.Events.Queue, LogDir: cfg.Events.LogDir}
		go func() {
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logging.Error().Err(err).Msg("event consumer stopped")
			}
		}()
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	e, err := router.New(router.Deps{
		Movies:    service.NewMovieService(repo, events),
		Store:     repo,
		Redis:     rdb,
		Cache:     cfg.Cache,
		RateLimit: cfg.RateLimit,
	})
	if err != nil {
		return err
	}

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Str("env", cfg.Env).Str("db", cfg.DB.Driver).
			Bool("redis", rdb != nil).Bool("events", cfg.Events.Enabled).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
