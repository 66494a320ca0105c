package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/bet-slip-parser/internal/slip-parser/parser"
	"github.com/radieske/bet-slip-parser/internal/slip-parser/pubsub"
	"github.com/radieske/bet-slip-parser/internal/slip-parser/review"
	skafka "github.com/radieske/bet-slip-parser/internal/shared/kafka"
	"github.com/radieske/bet-slip-parser/pkg/contracts/events"
)

var errMissingSlipID = errors.New("missing slip_id")

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type SlipPublisher interface {
	PublishSlipParsed(ctx context.Context, e events.SlipParsed) error
}

type Broadcaster interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Processor consome textos OCR do Kafka, interpreta o bilhete e publica o resultado.
// DLQ e Broadcaster são opcionais. Callbacks de métricas podem ser nil.
type Processor struct {
	Log         *zap.Logger
	Reader      MessageReader
	Publisher   SlipPublisher
	DLQ         skafka.MessageWriter
	Broadcaster Broadcaster
	Channel     string

	// Hooks de métricas
	OnConsumed func()
	OnParsed   func(ev events.SlipParsed, took time.Duration)
	OnError    func(stage string)

	RetryDelay time.Duration // base do backoff; 0 usa 300ms
}

const publishRetries = 3

// Run inicia o loop principal de consumo; retorna quando o contexto é cancelado
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.fail("read")
			if !sleep(ctx, 500*time.Millisecond) {
				return ctx.Err()
			}
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}
		p.handle(ctx, m)
	}
}

func (p *Processor) handle(ctx context.Context, m kafka.Message) {
	var in events.SlipOCRText
	if err := json.Unmarshal(m.Value, &in); err != nil {
		p.Log.Warn("invalid message", zap.Error(err), zap.Int64("offset", m.Offset))
		p.fail("decode")
		p.toDLQ(ctx, m, err)
		return
	}
	if in.SlipID == "" {
		p.Log.Warn("invalid message", zap.Error(errMissingSlipID), zap.Int64("offset", m.Offset))
		p.fail("validate")
		p.toDLQ(ctx, m, errMissingSlipID)
		return
	}

	start := time.Now()
	res := parser.Parse(in.OCRText)
	out := review.NewSlipParsed(in, res)
	took := time.Since(start)

	if err := p.publish(ctx, out); err != nil {
		p.Log.Error("publish slip_parsed failed", zap.String("slip_id", in.SlipID), zap.Error(err))
		p.fail("publish")
		p.toDLQ(ctx, m, err)
		return
	}
	if p.OnParsed != nil {
		p.OnParsed(out, took)
	}
	p.Log.Info("slip parsed",
		zap.String("slip_id", out.SlipID),
		zap.Int("legs", out.LegsCount),
		zap.Bool("needs_review", out.NeedsReview),
	)

	// broadcast para o WS não bloqueia o fluxo
	p.broadcast(out)
}

// publish tenta algumas vezes com backoff linear antes de desistir
func (p *Processor) publish(ctx context.Context, out events.SlipParsed) error {
	delay := p.RetryDelay
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	err := p.Publisher.PublishSlipParsed(ctx, out)
	for i := 0; err != nil && i < publishRetries; i++ {
		if !sleep(ctx, time.Duration(i+1)*delay) {
			return ctx.Err()
		}
		err = p.Publisher.PublishSlipParsed(ctx, out)
	}
	return err
}

func (p *Processor) broadcast(out events.SlipParsed) {
	if p.Broadcaster == nil {
		return
	}
	b, err := json.Marshal(pubsub.SlipUpdate{SlipID: out.SlipID, Payload: out})
	if err != nil {
		p.fail("broadcast")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := p.Broadcaster.Publish(ctx, p.Channel, b); err != nil {
		p.Log.Warn("ws broadcast publish failed", zap.Error(err))
		p.fail("broadcast")
	}
}

// toDLQ encaminha a mensagem original com o motivo no header "error"
func (p *Processor) toDLQ(ctx context.Context, m kafka.Message, cause error) {
	if p.DLQ == nil {
		return
	}
	msg := kafka.Message{
		Key:     m.Key,
		Value:   m.Value,
		Headers: []kafka.Header{{Key: "error", Value: []byte(cause.Error())}},
		Time:    time.Now(),
	}
	if err := p.DLQ.WriteMessages(ctx, msg); err != nil {
		p.Log.Error("dlq write failed", zap.Error(err))
		p.fail("dlq")
	}
}

func (p *Processor) fail(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}

// sleep espera d ou até o contexto acabar; false indica cancelamento
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
