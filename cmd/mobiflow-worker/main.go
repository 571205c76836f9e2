package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"mobiflow/internal/amqp"
	"mobiflow/internal/backend"
	"mobiflow/internal/config"
	"mobiflow/internal/ledger"
	gledger "mobiflow/internal/ledger/google"
	"mobiflow/internal/log"
	"mobiflow/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.New(log.DefaultConfig()).Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	logger := log.New(log.Config{Level: log.ParseLevel(cfg.LogLevel), Component: log.ComponentWorker})
	log.SetDefault(logger)

	logger.Info("Starting mobiflow-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	// Store shared with the API server. SMS-derived transactions land here
	// and exported transactions are read back from here.
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer result.Store.Close()

	// Google Sheets ledger export (optional)
	var exporter ledger.Exporter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gledger.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Google Sheets ledger export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets ledger export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPTxQueue, cfg.AMQPSMSQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ingestWorker := worker.NewIngestWorker(result.Store, exporter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One consumer loop per queue; if either fails the worker restarts.
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return amqpClient.ConsumeTransactionChanges(groupCtx, func(msg *amqp.TransactionChangedMessage) error {
			return ingestWorker.HandleTransactionChanged(groupCtx, msg)
		})
	})

	group.Go(func() error {
		return amqpClient.ConsumeSMS(groupCtx, func(msg *amqp.SMSMessage) error {
			return ingestWorker.HandleSMS(groupCtx, msg)
		})
	})

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-groupCtx.Done():
		}
	}()

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}

	// Give in-flight handlers a moment to finish before connections drop.
	time.Sleep(time.Second)
	logger.Info("Worker shutdown complete")
}
