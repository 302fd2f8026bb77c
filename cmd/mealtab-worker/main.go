package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"mealtab/internal/amqp"
	"mealtab/internal/archive"
	"mealtab/internal/cli"
	"mealtab/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting mealtab-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	store, closeStore := cli.InitStore(logger, cfg)
	defer closeStore()

	// Archive to Google Sheets when configured, otherwise keep an
	// in-process archive (useful for local runs and smoke tests).
	var sink archive.Writer
	if cfg.GoogleSpreadsheetID != "" {
		sheets, err := archive.NewSheetsFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets archive", "error", err)
			os.Exit(1)
		}
		sink = sheets
		logger.Info("Google Sheets archive initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		sink = archive.NewMemoryWriter()
		logger.Info("Google Sheets disabled - archiving in memory only")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	w := worker.NewArchiveWorker(store, sink)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := amqpClient.ConsumeLedgerChanges(gctx, w.HandleLedgerChanged); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	// Periodic sweep catches messages lost while the worker was down.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.ArchiveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := w.ArchiveCurrent(gctx); err != nil {
					logger.Error("Periodic archive failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
