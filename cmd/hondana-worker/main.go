package main

import (
	"context"
	"errors"
	"os"
	"time"

	"hondana/internal/amqp"
	"hondana/internal/cli"
	"hondana/internal/export"
	gsheet "hondana/internal/export/google"
	applog "hondana/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)

	logger.Info("Starting hondana-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("Missing GOOGLE_SPREADSHEET_ID - worker has nothing to export to")
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("Missing AMQP_URL - worker has nothing to consume from")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	sheetsClient, err := gsheet.New(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := export.NewSyncWorker(repo, sheetsClient)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	consumeErr := make(chan error, 1)
	go func() {
		consumeErr <- amqpClient.ConsumePurchaseEvents(ctx, syncWorker.HandleEvent)
	}()

	select {
	case err := <-consumeErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Event consumption failed", applog.FieldError, err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
