// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"interpretation-workers/internal/common/camunda"
	"interpretation-workers/internal/common/config"
	"interpretation-workers/internal/common/database"
	"interpretation-workers/internal/common/logger"
	"interpretation-workers/internal/common/observability"
	"interpretation-workers/internal/geo"
	"interpretation-workers/internal/matching"
	"interpretation-workers/internal/pricing"
	"interpretation-workers/internal/scheduling"
	"interpretation-workers/pkg/registry"

	cip "interpretation-workers/internal/workers/interpretation/calculate-interpretation-price"
	ml "interpretation-workers/internal/workers/interpretation/match-linguists"
)

var startupRetry = &camunda.RetryConfig{
	MaxRetries: 15,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

// healthCheck reports whether one dependency is usable.
type healthCheck func(ctx context.Context) error

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"app":     cfg.App.Name,
		"version": cfg.App.Version,
	})

	log.Info("starting worker manager", map[string]interface{}{"environment": cfg.App.Environment})

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}

	// --- Zeebe ---
	zeebe, err := camunda.Dial(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: cfg.Camunda.Plaintext,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		RetryConfig:            startupRetry,
	}, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	log.Info("zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	// --- PostgreSQL ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres config invalid", zap.Error(err))
	}
	defer pg.Close()
	if err := camunda.Retry(ctx, startupRetry, log, "postgres connection", pg.Ping); err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	log.Info("postgres connected", nil)

	checks := map[string]healthCheck{
		"zeebe":    zeebe.HealthCheck,
		"postgres": pg.Ping,
	}

	// --- Rate repository, optionally behind Redis ---
	var rateRepo pricing.RateRepository = pricing.NewPostgresRateRepository(pg.DB)
	if !cfg.Pricing.DisableRateCache {
		rdb := database.NewRedis(cfg.Database.Redis)
		defer rdb.Close()
		if err := camunda.Retry(ctx, startupRetry, log, "redis connection", rdb.Ping); err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		rateRepo = pricing.NewCachedRateRepository(rateRepo, rdb.Client, cfg.Pricing.RateCacheTTL(), log)
		checks["redis"] = rdb.Ping
		log.Info("redis rate cache enabled", map[string]interface{}{"ttl": cfg.Pricing.RateCacheTTL().String()})
	}

	// --- Linguist repository ---
	var linguistRepo matching.LinguistRepository
	switch cfg.Matching.LinguistSource {
	case config.LinguistSourceElasticsearch:
		esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch config invalid", zap.Error(err))
		}
		if err := camunda.Retry(ctx, startupRetry, log, "elasticsearch connection", esClient.Ping); err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		linguistRepo = matching.NewElasticsearchLinguistRepository(esClient.Client, cfg.Matching.LinguistIndex, cfg.Matching.SearchSize)
		checks["elasticsearch"] = esClient.Ping
	default:
		linguistRepo = matching.NewPostgresLinguistRepository(pg.DB)
	}
	log.Info("linguist source selected", map[string]interface{}{"source": cfg.Matching.LinguistSource})

	// --- Domain services ---
	calc := scheduling.NewCalculator(scheduling.WithLogger(log))
	engine := pricing.NewEngine(calc, pricing.NewRateResolver(rateRepo, log), log)
	matcher := matching.NewMatcher(linguistRepo, geo.NewResolver(), log)

	// --- Workers ---
	workers := camunda.NewWorkers(zeebe.GetClient(), log)

	priceCfg, err := cip.LoadConfig(reg)
	if err != nil {
		zapLog.Fatal("calculate-interpretation-price config failed", zap.Error(err))
	}
	priceHandler := cip.NewHandler(priceCfg, engine, obs, log)
	workers.Start(cip.TaskType, config.GetWorkerConfig(cfg, cip.TaskType), priceHandler.Handle)

	matchCfg, err := ml.LoadConfig(reg, cfg.Matching)
	if err != nil {
		zapLog.Fatal("match-linguists config failed", zap.Error(err))
	}
	matchHandler := ml.NewHandler(matchCfg, matcher, obs, log)
	workers.Start(ml.TaskType, config.GetWorkerConfig(cfg, ml.TaskType), matchHandler.Handle)

	running := workers.Running()
	sort.Strings(running)
	log.Info("workers registered", map[string]interface{}{"workers": running})

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           newHealthMux(checks),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workers.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("error stopping health server", map[string]interface{}{"error": err.Error()})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("error closing zeebe client", map[string]interface{}{"error": err.Error()})
	}

	log.Info("worker manager stopped gracefully", nil)
}

// newHealthMux serves liveness, readiness and Prometheus metrics. Readiness
// fails while any dependency check fails.
func newHealthMux(checks map[string]healthCheck) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status, code := "ready", http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status, code = "not ready", http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		writeJSON(w, code, map[string]interface{}{
			"status": status,
			"checks": results,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
