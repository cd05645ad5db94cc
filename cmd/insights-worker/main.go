package main

import (
	"context"
	"os"
	"time"

	"expensetracker/internal/amqp"
	"expensetracker/internal/cli"
	"expensetracker/internal/log"
	"expensetracker/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	logger.Info("Starting insights-worker", log.FieldOperation, log.OpStartup)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the insights worker")
		os.Exit(1)
	}

	res := cli.InitBackend(context.Background(), logger, cfg)
	if res.Cleanup != nil {
		defer res.Cleanup()
	}
	engine := cli.NewEngine(logger, cfg, res.Backend)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	digests := worker.NewDigestWorker(res.Backend, engine, amqpClient, worker.DigestWorkerConfig{
		Interval:    cfg.DigestInterval,
		Concurrency: cfg.DigestConcurrency,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := digests.Stop(ctx); err != nil {
			logger.Error("Digest worker stop error", log.FieldError, err)
		}
	})

	if err := digests.Start(ctx); err != nil {
		logger.Error("Failed to start digest worker", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Insights worker running",
		"interval", cfg.DigestInterval,
		"concurrency", cfg.DigestConcurrency,
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	cli.WaitForShutdown(ctx, done)
	logger.Info("Insights worker stopped")
}
