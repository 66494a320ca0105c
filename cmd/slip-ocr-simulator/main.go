package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/bet-slip-parser/internal/shared/config"
	"github.com/radieske/bet-slip-parser/internal/shared/kafka"
	"github.com/radieske/bet-slip-parser/internal/shared/logger"
	"github.com/radieske/bet-slip-parser/internal/shared/metrics"
	"github.com/radieske/bet-slip-parser/internal/slip-ingest/publisher"
	"github.com/radieske/bet-slip-parser/internal/slip-ingest/simulator"
)

var (
	slipsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "slip_simulator_slips_sent_total",
		Help: "Bilhetes simulados publicados por amostra",
	}, []string{"sample"})
	sendErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "slip_simulator_errors_total",
		Help: "Falhas ao publicar bilhetes simulados",
	})
)

func main() {
	cfg := config.Load("slip-ocr-simulator")

	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	prometheus.MustRegister(slipsSent, sendErrors)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	brokers := kafka.Brokers(cfg.KafkaBrokers)
	log.Info("kafka brokers", zap.Strings("brokers", brokers))

	// tópico criado só em local/dev; nos demais ambientes vem do provisionamento
	if cfg.Env == "local" || cfg.Env == "dev" {
		tctx, tcancel := context.WithTimeout(ctx, 10*time.Second)
		for _, topic := range []string{cfg.TopicSlipOCRText, cfg.TopicSlipParsed, cfg.TopicSlipOCRTextDLQ} {
			if err := publisher.EnsureTopic(tctx, brokers, topic, log); err != nil {
				log.Warn("failed to ensure kafka topic", zap.String("topic", topic), zap.Error(err))
			}
		}
		tcancel()
	}

	writer := publisher.NewWriter(brokers, cfg.TopicSlipOCRText)
	defer writer.Close()

	sim := &simulator.Simulator{
		Publisher:   publisher.NewKafkaPublisher(writer, log),
		Log:         log,
		Interval:    cfg.SimulatorInterval,
		Source:      cfg.ServiceName,
		OnPublished: func(sample string) { slipsSent.WithLabelValues(sample).Inc() },
		OnError:     func() { sendErrors.Inc() },
	}

	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, log, nil)

	log.Info("slip-ocr-simulator started", zap.Duration("interval", cfg.SimulatorInterval))
	_ = sim.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("slip-ocr-simulator stopped")
}
