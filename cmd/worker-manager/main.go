// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"assessment-workers/internal/common/camunda"
	"assessment-workers/internal/common/config"
	"assessment-workers/internal/common/database"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/observability"
	"assessment-workers/internal/scoring"
	"assessment-workers/pkg/kpilibrary"
	"assessment-workers/pkg/registry"

	// Assessment Workers (3)
	aso "assessment-workers/internal/workers/assessment/apply-score-override"
	cps "assessment-workers/internal/workers/assessment/calculate-priority-score"
	vai "assessment-workers/internal/workers/assessment/validate-assessment-input"

	// Valuation Workers (2)
	apv "assessment-workers/internal/workers/valuation/aggregate-portfolio-value"
	dve "assessment-workers/internal/workers/valuation/derive-value-estimates"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Camunda Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Camunda client initialization")

	if err != nil {
		zapLog.Fatal("camunda client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Camunda client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Load KPI Library ---
	kpiLibrary, err := kpilibrary.Load(cfg.Valuation.KpiLibraryPath)
	if err != nil {
		zapLog.Fatal("kpi library load failed",
			zap.String("path", cfg.Valuation.KpiLibraryPath),
			zap.Error(err),
		)
	}
	zapLog.Info("KPI library loaded",
		zap.String("path", cfg.Valuation.KpiLibraryPath),
		zap.Int("kpis", len(kpiLibrary.Kpis)),
		zap.Int("benchmarks", len(kpiLibrary.Benchmarks)),
	)

	// --- Load Activity Registry ---
	activityRegistry, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed",
			zap.String("path", cfg.Registry.Path),
			zap.Error(err),
		)
	}
	zapLog.Info("Activity registry loaded",
		zap.String("version", activityRegistry.Version),
		zap.Int("activities", len(activityRegistry.Activities)),
	)

	// --- START: Register ALL 5 Workers ---

	// --- 1. Assessment Workers (3) ---
	if cfg.Workers[vai.TaskType].Enabled {
		handler := vai.NewHandler(
			&vai.Config{
				Timeout: time.Duration(cfg.Workers[vai.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, activityRegistry, vai.TaskType, cfg.Workers[vai.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[cps.TaskType].Enabled {
		handler := cps.NewHandler(
			&cps.Config{
				CacheTTL:          10 * time.Minute,
				Timeout:           time.Duration(cfg.Workers[cps.TaskType].Timeout) * time.Millisecond,
				ImpactWeights:     scoring.LeverWeights(cfg.Scoring.ImpactWeights),
				EffortWeights:     scoring.LeverWeights(cfg.Scoring.EffortWeights),
				QuadrantThreshold: cfg.Scoring.QuadrantThreshold,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, activityRegistry, cps.TaskType, cfg.Workers[cps.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[aso.TaskType].Enabled {
		handler := aso.NewHandler(
			&aso.Config{
				Timeout:           time.Duration(cfg.Workers[aso.TaskType].Timeout) * time.Millisecond,
				ImpactWeights:     scoring.LeverWeights(cfg.Scoring.ImpactWeights),
				EffortWeights:     scoring.LeverWeights(cfg.Scoring.EffortWeights),
				QuadrantThreshold: cfg.Scoring.QuadrantThreshold,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, activityRegistry, aso.TaskType, cfg.Workers[aso.TaskType], handler.Handle, zapLog)
	}

	// --- 2. Valuation Workers (2) ---
	if cfg.Workers[dve.TaskType].Enabled {
		handler := dve.NewHandler(
			&dve.Config{
				Library:          kpiLibrary,
				HourlyRate:       cfg.Valuation.HourlyRate,
				CurrencyCode:     cfg.Valuation.CurrencyCode,
				VolumeMultiplier: cfg.Valuation.DefaultMultiplier,
				CacheTTL:         30 * time.Minute,
				Timeout:          time.Duration(cfg.Workers[dve.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, activityRegistry, dve.TaskType, cfg.Workers[dve.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[apv.TaskType].Enabled {
		handler := apv.NewHandler(
			&apv.Config{
				CacheTTL: 5 * time.Minute,
				Timeout:  time.Duration(cfg.Workers[apv.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, activityRegistry, apv.TaskType, cfg.Workers[apv.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All 5 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			checkCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			status := "ready"
			code := http.StatusOK
			checks := map[string]string{
				"camunda":  "ok",
				"postgres": "ok",
				"redis":    "ok",
			}

			if err := camundaClient.HealthCheck(checkCtx); err != nil {
				checks["camunda"] = err.Error()
				status, code = "not ready", http.StatusServiceUnavailable
			}
			if err := pg.Ping(checkCtx); err != nil {
				checks["postgres"] = err.Error()
				status, code = "not ready", http.StatusServiceUnavailable
			}
			if err := redis.Ping(checkCtx); err != nil {
				checks["redis"] = err.Error()
				status, code = "not ready", http.StatusServiceUnavailable
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": status,
				"checks": checks,
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_ = shutdownCtx

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Camunda client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, reg *registry.ActivityRegistry, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	activity, err := reg.FindByTaskType(taskType)
	if err != nil {
		log.Warn("task type missing from activity registry",
			zap.String("taskType", taskType),
			zap.Error(err),
		)
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	fields := []zap.Field{
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	}
	if activity != nil {
		fields = append(fields, zap.String("activity", activity.DisplayName))
	}
	log.Info("worker started", fields...)
}
