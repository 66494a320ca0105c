package publisher

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	skafka "github.com/radieske/bet-slip-parser/internal/shared/kafka"
	"github.com/radieske/bet-slip-parser/pkg/contracts/events"
)

// KafkaPublisher publica textos OCR no tópico de entrada do worker de parse.
type KafkaPublisher struct {
	writer skafka.MessageWriter
	log    *zap.Logger
}

func NewKafkaPublisher(w skafka.MessageWriter, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, log: log}
}

// NewWriter inicializa o writer com timeouts e confirmação de todas as réplicas.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		ReadTimeout:            10 * time.Second,
		WriteTimeout:           10 * time.Second,
	}
}

// EnsureTopic cria o tópico via controller do cluster.
// Só deve ser chamado em local/dev; tópico já existente não é erro.
func EnsureTopic(ctx context.Context, brokers []string, topic string, log *zap.Logger) error {
	if len(brokers) == 0 {
		return fmt.Errorf("kafka brokers not provided")
	}

	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("dial kafka %s: %w", brokers[0], err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("get kafka controller: %w", err)
	}

	addr := net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port))
	cconn, err := kafka.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial kafka controller %s: %w", addr, err)
	}
	defer cconn.Close()

	// single-broker: 1 partição, fator de replicação 1
	err = cconn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	if err == nil {
		log.Info("kafka topic created", zap.String("topic", topic))
	}
	return nil
}

// Publish envia o texto OCR com SlipID como chave, mantendo o bilhete numa partição só.
func (p *KafkaPublisher) Publish(ctx context.Context, e events.SlipOCRText) error {
	if e.SlipID == "" {
		return fmt.Errorf("publish slip_ocr_text: missing slip_id")
	}
	if err := skafka.WriteJSON(ctx, p.writer, e.SlipID, e); err != nil {
		p.log.Error("failed to publish slip ocr text", zap.String("slip_id", e.SlipID), zap.Error(err))
		return err
	}

	p.log.Debug("published slip ocr text", zap.String("slip_id", e.SlipID))
	return nil
}
