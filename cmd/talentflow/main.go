// cmd/talentflow/main.go
package main

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"talentflow-backend/internal/common/config"
	"talentflow-backend/internal/common/logger"
	"talentflow-backend/internal/common/observability"
	"talentflow-backend/internal/coordinator"
	"talentflow-backend/internal/models"
	"talentflow-backend/internal/store"
	"talentflow-backend/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// config failed before the logger exists
		panic(err)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting talentflow backend...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	// --- Seed the store ---
	var src rand.Source
	if cfg.Seed.RandomSeed != 0 {
		src = rand.NewSource(cfg.Seed.RandomSeed)
	} else {
		src = rand.NewSource(time.Now().UnixNano())
	}
	st := store.New()
	st.Seed(rand.New(src), cfg.Seed.Jobs, cfg.Seed.Candidates)

	counts := st.Counts()
	zapLog.Info("Store seeded",
		zap.Int("jobs", counts["jobs"]),
		zap.Int("candidates", counts["candidates"]),
	)

	// --- Transport and coordinator ---
	client := transport.NewClient(transport.Config{
		MinLatency:       cfg.Transport.MinLatencyDuration(),
		MaxLatency:       cfg.Transport.MaxLatencyDuration(),
		WriteFailureRate: cfg.Transport.WriteFailureRate,
	}, st, nil, log)

	coord := coordinator.New(coordinator.Config{
		NoticeTTL: cfg.Notices.TTLDuration(),
	}, client, log, obs)

	ctx := context.Background()
	if err := coord.Load(ctx); err != nil {
		zapLog.Fatal("initial load failed", zap.Error(err))
	}
	zapLog.Info("Board state loaded")

	// Demo traffic keeps the mutation flows exercised so /metrics shows live
	// counters. Only runs outside production.
	if cfg.App.Environment != "production" {
		go runDemoTraffic(ctx, coord, rand.New(rand.NewSource(time.Now().UnixNano())), zapLog)
	}

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
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("addr", cfg.Metrics.Addr))
		if err := http.ListenAndServe(cfg.Metrics.Addr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received")
	zapLog.Info("Talentflow backend stopped gracefully")
}

// runDemoTraffic issues one random mutation every few seconds: a reorder, an
// archive toggle, or a stage move. Failures are expected; the coordinator
// rolls them back and records a notice.
func runDemoTraffic(ctx context.Context, coord *coordinator.Coordinator, rng *rand.Rand, zapLog *zap.Logger) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		jobs := coord.Jobs()
		candidates := coord.Candidates()
		if len(jobs) == 0 {
			continue
		}

		var err error
		switch rng.Intn(3) {
		case 0:
			job := jobs[rng.Intn(len(jobs))]
			err = coord.ReorderJob(ctx, job.ID, rng.Intn(len(jobs)))
		case 1:
			job := jobs[rng.Intn(len(jobs))]
			err = coord.ToggleArchive(ctx, job.ID)
		case 2:
			if len(candidates) == 0 {
				continue
			}
			cand := candidates[rng.Intn(len(candidates))]
			stage := models.Stages[rng.Intn(len(models.Stages))]
			err = coord.MoveStage(ctx, cand.ID, stage)
		}

		if err != nil {
			zapLog.Info("demo mutation rolled back", zap.Error(err))
		}
	}
}
