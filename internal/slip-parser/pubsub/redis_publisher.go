package pubsub

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const ChannelSlipParsedBroadcast = "slip_parsed_broadcast"

// redisPublisher é a parte do *redis.Client usada aqui
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type RedisBroadcaster struct {
	r redisPublisher
}

func NewRedisBroadcaster(r redisPublisher) *RedisBroadcaster {
	return &RedisBroadcaster{r: r}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.r.Publish(ctx, channel, payload).Err()
}

// Payload padrão para o WS de revisão de bilhetes
type SlipUpdate struct {
	SlipID  string      `json:"slipId"`
	Payload interface{} `json:"payload"`
}
