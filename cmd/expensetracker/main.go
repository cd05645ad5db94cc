package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"expensetracker/internal/cli"
	apphttp "expensetracker/internal/http"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	res := cli.InitBackend(context.Background(), logger, cfg)
	store := res.Backend
	engine := cli.NewEngine(logger, cfg, store)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Engine:    engine,
		Budgets:   services.NewBudgetService(store, engine, logger.WithComponent(log.ComponentBudget).Slog()),
		Dashboard: services.NewDashboardService(store, engine, logger.WithComponent(log.ComponentInsights).Slog()),
		Reports:   services.NewReportService(store, engine, logger.WithComponent(log.ComponentInsights).Slog()),
		Logger:    logger.WithComponent(log.ComponentHTTP),
		Ready:     store.Ping,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 15 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if res.Cleanup != nil {
			if err := res.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", log.FieldError, err)
			}
		}
	})

	logger.Info("Starting expensetracker server",
		log.FieldOperation, log.OpStartup,
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"currency", cfg.CurrencyLabel)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
