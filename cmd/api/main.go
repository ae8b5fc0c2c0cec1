package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lunchlog/internal/app"
	"lunchlog/internal/server"

	logger "github.com/Bparsons0904/goLogger"
	"golang.org/x/sync/errgroup"
)

const shutdownGrace = 10 * time.Second

func run(log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lunchlog, err := app.New()
	if err != nil {
		return err
	}
	defer func() {
		if err := lunchlog.Close(); err != nil {
			log.Er("failed to close app", err)
		}
	}()

	if err := lunchlog.Start(); err != nil {
		return log.Err("failed to start background workers", err)
	}

	api, err := server.New(lunchlog)
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return api.Listen(lunchlog.Config.ServerPort)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("Shutting down, press Ctrl+C again to force")
		stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return api.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

func main() {
	log := logger.New("main").Function("main")

	if err := run(log); err != nil {
		log.Er("lunchlog api exited with error", err)
		os.Exit(1)
	}
	log.Info("Shutdown complete")
}
