package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/movie-prefs/internal/database"
	"github.com/iliyamo/movie-prefs/internal/logging"
	"github.com/iliyamo/movie-prefs/internal/queue"
	"github.com/iliyamo/movie-prefs/internal/repository"
	"github.com/iliyamo/movie-prefs/internal/service"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the movie table if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cmd.Context(), cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		logging.Info().Str("driver", cfg.DB.Driver).Msg("schema up to date")
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the preference summary and the mean per genre",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cmd.Context(), cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		sum, avgs, err := service.NewMovieService(repository.NewMovieRepo(db), nil).Stats(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if sum == nil {
			fmt.Fprintln(out, "no movies recorded")
			return nil
		}
		fmt.Fprintf(out, "movies:  %d\naverage: %.2f\nhighest: %d\nlowest:  %d\n", sum.Count, sum.Mean, sum.Max, sum.Min)
		for _, a := range avgs {
			fmt.Fprintf(out, "  %-9s %.2f (%d)\n", a.Genre, a.Average, a.Count)
		}
		return nil
	},
}

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Consume movie events and append them to the event log",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c := &queue.Consumer{URL: cfg.Events.URL, Queue: cfg.Events.Queue, LogDir: cfg.Events.LogDir}
		if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
