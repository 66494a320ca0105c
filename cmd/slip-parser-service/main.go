package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/bet-slip-parser/internal/shared/cache"
	"github.com/radieske/bet-slip-parser/internal/shared/config"
	"github.com/radieske/bet-slip-parser/internal/shared/logger"
	"github.com/radieske/bet-slip-parser/internal/shared/metrics"
	httpapi "github.com/radieske/bet-slip-parser/internal/slip-parser/http"
	"github.com/radieske/bet-slip-parser/internal/slip-parser/ws"
)

func main() {
	cfg := config.Load("slip-parser-service")

	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Redis alimenta o feed WS com os resultados do worker
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("redis connected")

	hub := ws.NewHub(func(r *http.Request) bool { return true }, log)
	ws.StartRedisSubscriber(ctx, redisClient, cfg.RedisPubSubChannel, hub, log)

	api := &httpapi.API{
		Log:     log,
		Hub:     hub,
		Metrics: metrics.NewSlipMetrics(prometheus.DefaultRegisterer, "slip_api"),
	}

	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, log, func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("http listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("slip-parser-service stopped")
}
