package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/scheduler"
	"github.com/jonathan/job-tracker/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tracker: HTTP triggers plus the poll and digest schedules",
	Long: `Start the long-running tracker process. Email processing runs immediately and
then on every poll interval; the daily digest fires at the configured wall-clock
hour. Both pipelines are also exposed as HTTP endpoints.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.DigestTimeZone)
	if err != nil {
		return fmt.Errorf("invalid DIGEST_TIMEZONE %q: %w", cfg.DigestTimeZone, err)
	}

	processor := &pollRunner{cfg: cfg}
	digester := &digestRunner{cfg: cfg}

	srv := server.New(server.Config{Port: servePort}, processor, digester)

	log.Printf("[serve] email processing: every %s", cfg.PollInterval)
	log.Printf("[serve] daily digest: %02d:00 %s", cfg.DigestHour, cfg.DigestTimeZone)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(ctx)
	})
	g.Go(func() error {
		return scheduler.Every(ctx, cfg.PollInterval, "poll", func(ctx context.Context) error {
			_, err := processor.Process(ctx)
			return err
		})
	})
	g.Go(func() error {
		return scheduler.DailyAt(ctx, cfg.DigestHour, loc, "digest", func(ctx context.Context) error {
			_, err := digester.Run(ctx)
			return err
		})
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Println("[serve] stopped")
	return nil
}
