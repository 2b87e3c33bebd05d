package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/pocketlist/push-fanout/internal/api"
	"github.com/pocketlist/push-fanout/internal/config"
	"github.com/pocketlist/push-fanout/internal/domain"
	"github.com/pocketlist/push-fanout/internal/metrics"
	"github.com/pocketlist/push-fanout/internal/pipeline"
	"github.com/pocketlist/push-fanout/internal/preference"
	"github.com/pocketlist/push-fanout/internal/push"
	"github.com/pocketlist/push-fanout/internal/queue"
	"github.com/pocketlist/push-fanout/internal/store"
	"github.com/pocketlist/push-fanout/internal/token"
	"github.com/pocketlist/push-fanout/internal/worker"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ---- firebase clients ----
	ctx := context.Background()
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		logger.Fatal("failed to initialise firebase app", zap.Error(err))
	}
	fsClient, err := app.Firestore(ctx)
	if err != nil {
		logger.Fatal("failed to create firestore client", zap.Error(err))
	}
	defer fsClient.Close()
	msgClient, err := app.Messaging(ctx)
	if err != nil {
		logger.Fatal("failed to create messaging client", zap.Error(err))
	}

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	q := queue.New()
	st := store.NewFirestoreStore(fsClient)
	prefs := preference.NewResolver(logger)
	tokens := token.NewResolver(st, prefs, cfg.ChunkSize, logger)
	batcher := push.NewBatcher(cfg.BatchSize)
	dispatcher := push.NewDispatcher(msgClient, cfg.SendRate, logger)

	onDelivered, onDropped := m.PipelineHooks()
	router := pipeline.NewRouter(st, tokens, batcher, dispatcher, logger, pipeline.Hooks{
		OnDelivered: onDelivered,
		OnDropped:   onDropped,
	})

	// ---- worker pool ----
	// Context for all background goroutines; cancelled on shutdown signal.
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	pool := worker.NewPool(cfg.Workers, q, router, logger)
	pool.Start(workerCtx)

	// Queue-depth gauges are sampled rather than event-driven; a short
	// interval is plenty for dashboards.
	go sampleQueueDepths(workerCtx, q, m)

	// ---- HTTP server ----
	onAccept := func(kind domain.Kind) { m.EventsReceived.WithLabelValues(string(kind)).Inc() }
	httpRouter := api.NewRouter(q, dispatcher, reg, logger, onAccept)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      httpRouter,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start server in a goroutine so it does not block the shutdown listener.
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// 1. Stop accepting new HTTP requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// 2. Signal all workers to stop pulling new events.
	cancelWorkers()

	// 3. Wait for in-flight pipelines to finish.
	pool.Wait()

	logger.Info("server stopped cleanly")
}

func sampleQueueDepths(ctx context.Context, q *queue.PriorityQueue, m *metrics.Metrics) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			high, normal, low := q.Depths()
			m.QueueDepthHigh.Set(float64(high))
			m.QueueDepthNormal.Set(float64(normal))
			m.QueueDepthLow.Set(float64(low))
		}
	}
}
