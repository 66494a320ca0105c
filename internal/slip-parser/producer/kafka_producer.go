package producer

import (
	"context"

	"go.uber.org/zap"

	skafka "github.com/radieske/bet-slip-parser/internal/shared/kafka"
	"github.com/radieske/bet-slip-parser/pkg/contracts/events"
)

// KafkaPublisher publica bilhetes interpretados no tópico slip_parsed
type KafkaPublisher struct {
	Writer skafka.MessageWriter
	Log    *zap.Logger
}

func NewKafkaPublisher(w skafka.MessageWriter, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{Writer: w, Log: log}
}

// PublishSlipParsed usa o slip_id como chave para manter a ordem por bilhete na partição
func (p *KafkaPublisher) PublishSlipParsed(ctx context.Context, e events.SlipParsed) error {
	if err := skafka.WriteJSON(ctx, p.Writer, e.SlipID, e); err != nil {
		return err
	}
	p.Log.Debug("published slip_parsed", zap.String("slip_id", e.SlipID), zap.Int("legs", e.LegsCount))
	return nil
}
