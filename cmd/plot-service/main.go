// cmd/plot-service/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plot-query-service/internal/api/handler"
	"plot-query-service/internal/api/router"
	"plot-query-service/internal/cache"
	"plot-query-service/internal/catalog"
	"plot-query-service/internal/catalog/sources"
	"plot-query-service/internal/common/camunda"
	"plot-query-service/internal/common/config"
	"plot-query-service/internal/common/database"
	apperrors "plot-query-service/internal/common/errors"
	"plot-query-service/internal/common/logger"
	"plot-query-service/internal/common/observability"
	"plot-query-service/internal/service"

	qp "plot-query-service/internal/workers/plots/query-plots"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
// A StandardError whose code has no retry budget stops the loop at once.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) && !apperrors.IsRetryableErrorCode(stdErr.Code) {
			return fmt.Errorf("%s failed: %w", operationName, err)
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "json")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}
	bootLog.Sync()

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	zapLog.Info("Starting plot query service...",
		zap.String("environment", cfg.App.Environment),
		zap.String("catalogSource", cfg.Catalog.Source),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- HTTP server first, so /health and /metrics answer while loading ---
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	plotHandler := handler.NewPlotHandler(log)
	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      router.New(plotHandler, cfg.HTTP, log),
		ReadTimeout:  config.GetDuration(cfg.HTTP.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.HTTP.WriteTimeout),
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.HTTP.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Load catalog with retry ---
	var (
		plots       *catalog.Catalog
		closeSource = func() error { return nil }
	)
	err = retryWithBackoff(func() error {
		src, closeFn, err := sources.Open(ctx, cfg)
		if err != nil {
			return err
		}
		c, err := catalog.Load(ctx, src, log)
		if err != nil {
			closeFn()
			return err
		}
		plots, closeSource = c, closeFn
		return nil
	}, cfg.Catalog.LoadRetries, 2*time.Second, zapLog, "Catalog load")
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	// the catalog is in memory now; source connections are no longer needed
	if err := closeSource(); err != nil {
		zapLog.Warn("closing catalog source failed", zap.Error(err))
	}

	// --- Optional result cache ---
	opts := service.Options{
		StrictValidation: cfg.Query.StrictValidation,
		Observability:    obs,
	}
	if cfg.Query.CacheEnabled {
		rc := database.NewRedis(cfg.Database.Redis)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			zapLog.Warn("Redis unavailable, queries will bypass the cache until it recovers", zap.Error(err))
		} else {
			zapLog.Info("Redis connected successfully")
		}
		opts.Cache = cache.NewResultCache(rc.Client, cfg.Query.CacheTTLDuration())
	}

	svc := service.NewPlotService(plots, opts, log)
	plotHandler.Attach(svc)
	zapLog.Info("Plot queries enabled", zap.Int("plots", plots.Len()))

	// --- Optional Zeebe worker ---
	var (
		zeebeClient *camunda.Client
		jobWorker   worker.JobWorker
	)
	if cfg.Camunda.BrokerAddress != "" && config.IsWorkerEnabled(cfg, qp.TaskType) {
		err = retryWithBackoff(func() error {
			var err error
			zeebeClient, err = camunda.NewClient(ctx, cfg.Camunda)
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		wcfg := config.GetWorkerConfig(cfg, qp.TaskType)
		qpCfg := qp.LoadConfig()
		if wcfg.Timeout > 0 {
			qpCfg.Timeout = config.GetDuration(wcfg.Timeout)
		}
		h := qp.NewHandler(qpCfg, svc, log)
		jobWorker = camunda.StartWorker(zeebeClient.GetClient(), qp.TaskType, wcfg, h.Handle, log)
	}

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping...")

	grace := config.GetDuration(cfg.HTTP.ShutdownGracePeriod)
	if grace <= 0 {
		grace = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if jobWorker != nil {
		jobWorker.Close()
		jobWorker.AwaitClose()
	}
	if zeebeClient != nil {
		if err := zeebeClient.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Plot query service stopped gracefully")
}
