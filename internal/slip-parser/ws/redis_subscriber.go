package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StartRedisSubscriber escuta o canal Redis Pub/Sub numa goroutine e repassa
// cada SlipUpdate recebido para o Hub. Encerra a inscrição quando ctx acaba.
func StartRedisSubscriber(ctx context.Context, r *redis.Client, channel string, hub *Hub, log *zap.Logger) {
	sub := r.Subscribe(ctx, channel)
	go relay(ctx, sub.Channel(), hub, log, func() { _ = sub.Close() })
}

func relay(ctx context.Context, ch <-chan *redis.Message, hub *Hub, log *zap.Logger, closeFn func()) {
	defer closeFn()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if msg == nil {
				continue
			}
			var upd SlipUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &upd); err != nil {
				log.Warn("ws subscriber unmarshal error", zap.Error(err))
				continue
			}
			if upd.SlipID == "" {
				continue
			}
			hub.Broadcast(upd)
		}
	}
}
