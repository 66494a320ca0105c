package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	sharedcache "github.com/radieske/bet-slip-parser/internal/shared/cache"
	"github.com/radieske/bet-slip-parser/internal/shared/config"
	"github.com/radieske/bet-slip-parser/internal/shared/kafka"
	"github.com/radieske/bet-slip-parser/internal/shared/logger"
	"github.com/radieske/bet-slip-parser/internal/shared/metrics"
	"github.com/radieske/bet-slip-parser/internal/slip-parser/consumer"
	"github.com/radieske/bet-slip-parser/internal/slip-parser/producer"
	"github.com/radieske/bet-slip-parser/internal/slip-parser/pubsub"
	"github.com/radieske/bet-slip-parser/pkg/contracts/events"
)

func main() {
	cfg := config.Load("slip-parser-worker")

	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// consumer group compartilhado: escala com mais instâncias do worker
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicSlipOCRText, cfg.ConsumerGroup)
	defer reader.Close()

	parsedWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicSlipParsed)
	defer parsedWriter.Close()

	dlqWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicSlipOCRTextDLQ)
	defer dlqWriter.Close()

	m := metrics.NewSlipMetrics(prometheus.DefaultRegisterer, "slip_worker")
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "slip_worker_messages_consumed_total", Help: "mensagens consumidas"})
	prometheus.MustRegister(consumed)

	proc := &consumer.Processor{
		Log:         log,
		Reader:      reader,
		Publisher:   producer.NewKafkaPublisher(parsedWriter, log),
		DLQ:         dlqWriter,
		Broadcaster: pubsub.NewRedisBroadcaster(redisClient),
		Channel:     cfg.RedisPubSubChannel,
		OnConsumed:  func() { consumed.Inc() },
		OnParsed: func(ev events.SlipParsed, took time.Duration) {
			markets := make([]string, 0, len(ev.Legs))
			for _, l := range ev.Legs {
				markets = append(markets, l.Market)
			}
			m.ObserveLegs(markets)
			m.ParseSeconds.Observe(took.Seconds())
		},
		OnError: func(stage string) { m.ErrorsByStage.WithLabelValues(stage).Inc() },
	}

	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, log, func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("slip-parser-worker started",
		zap.String("topic_in", cfg.TopicSlipOCRText),
		zap.String("topic_out", cfg.TopicSlipParsed),
		zap.String("group", cfg.ConsumerGroup),
	)
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("processor stopped with error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("slip-parser-worker stopped")
}
