package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/bet-slip-parser/internal/slip-parser/pubsub"
	"github.com/radieske/bet-slip-parser/pkg/contracts/events"
)

// fakeReader entrega as mensagens em ordem e cancela o contexto quando acabam
type fakeReader struct {
	msgs   []kafka.Message
	errs   []error
	cancel context.CancelFunc
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		return kafka.Message{}, err
	}
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

type fakePublisher struct {
	fails int
	calls int
	out   []events.SlipParsed
}

func (p *fakePublisher) PublishSlipParsed(_ context.Context, e events.SlipParsed) error {
	p.calls++
	if p.calls <= p.fails {
		return errors.New("broker down")
	}
	p.out = append(p.out, e)
	return nil
}

type captureWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
}

func (c *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msgs...)
	return nil
}

type fakeBroadcaster struct {
	channel string
	got     [][]byte
	err     error
}

func (b *fakeBroadcaster) Publish(_ context.Context, channel string, payload []byte) error {
	b.channel = channel
	b.got = append(b.got, payload)
	return b.err
}

func ocrMessage(t *testing.T, in events.SlipOCRText) kafka.Message {
	t.Helper()
	b, err := json.Marshal(in)
	require.NoError(t, err)
	return kafka.Message{Key: []byte(in.SlipID), Value: b}
}

func newProcessor(reader *fakeReader, pub *fakePublisher) (*Processor, map[string]int) {
	stages := map[string]int{}
	return &Processor{
		Log:        zap.NewNop(),
		Reader:     reader,
		Publisher:  pub,
		OnError:    func(stage string) { stages[stage]++ },
		RetryDelay: time.Millisecond,
	}, stages
}

func TestProcessor_ParsesAndPublishes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, msgs: []kafka.Message{
		ocrMessage(t, events.SlipOCRText{SlipID: "s-1", UserID: "u-1", OCRText: "KC +150\nStake: $10.00\nTo Win: $15.00"}),
	}}
	pub := &fakePublisher{}
	bc := &fakeBroadcaster{}
	p, stages := newProcessor(reader, pub)
	p.Broadcaster = bc
	p.Channel = pubsub.ChannelSlipParsedBroadcast

	consumed := 0
	var parsed []events.SlipParsed
	p.OnConsumed = func() { consumed++ }
	p.OnParsed = func(ev events.SlipParsed, _ time.Duration) { parsed = append(parsed, ev) }

	err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 1, consumed)
	assert.Empty(t, stages)
	require.Len(t, pub.out, 1)
	require.Len(t, parsed, 1)

	out := pub.out[0]
	assert.Equal(t, "s-1", out.SlipID)
	assert.Equal(t, "u-1", out.UserID)
	assert.Equal(t, events.SlipStatusParsed, out.Status)
	assert.Equal(t, 1, out.LegsCount)
	assert.False(t, out.NeedsReview)
	require.Len(t, out.Legs, 1)
	assert.Equal(t, "moneyline", out.Legs[0].Market)
	assert.Equal(t, "KC", out.Legs[0].Selection)

	require.Len(t, bc.got, 1)
	assert.Equal(t, pubsub.ChannelSlipParsedBroadcast, bc.channel)
	var upd struct {
		SlipID  string            `json:"slipId"`
		Payload events.SlipParsed `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(bc.got[0], &upd))
	assert.Equal(t, "s-1", upd.SlipID)
	assert.Equal(t, 1, upd.Payload.LegsCount)
}

func TestProcessor_InvalidMessagesGoToDLQ(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, msgs: []kafka.Message{
		{Key: []byte("x"), Value: []byte("{not json")},
		ocrMessage(t, events.SlipOCRText{OCRText: "KC +150"}),
	}}
	pub := &fakePublisher{}
	dlq := &captureWriter{}
	p, stages := newProcessor(reader, pub)
	p.DLQ = dlq

	_ = p.Run(ctx)

	assert.Empty(t, pub.out)
	assert.Equal(t, 1, stages["decode"])
	assert.Equal(t, 1, stages["validate"])
	require.Len(t, dlq.msgs, 2)
	assert.Equal(t, []byte("{not json"), dlq.msgs[0].Value)
	require.Len(t, dlq.msgs[1].Headers, 1)
	assert.Equal(t, "error", dlq.msgs[1].Headers[0].Key)
	assert.Equal(t, "missing slip_id", string(dlq.msgs[1].Headers[0].Value))
}

func TestProcessor_PublishRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, msgs: []kafka.Message{
		ocrMessage(t, events.SlipOCRText{SlipID: "s-2", OCRText: "Over 44.5\n-110"}),
	}}
	pub := &fakePublisher{fails: 2}
	dlq := &captureWriter{}
	p, stages := newProcessor(reader, pub)
	p.DLQ = dlq

	_ = p.Run(ctx)

	assert.Equal(t, 3, pub.calls)
	require.Len(t, pub.out, 1)
	assert.Empty(t, dlq.msgs)
	assert.Empty(t, stages)
}

func TestProcessor_PublishGivesUpToDLQ(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, msgs: []kafka.Message{
		ocrMessage(t, events.SlipOCRText{SlipID: "s-3", OCRText: "KC +150"}),
	}}
	pub := &fakePublisher{fails: 100}
	dlq := &captureWriter{}
	p, stages := newProcessor(reader, pub)
	p.DLQ = dlq

	_ = p.Run(ctx)

	assert.Equal(t, 1+publishRetries, pub.calls)
	assert.Equal(t, 1, stages["publish"])
	require.Len(t, dlq.msgs, 1)
	assert.Equal(t, "s-3", string(dlq.msgs[0].Key))
}

func TestProcessor_ReadErrorsAreRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		errs:   []error{errors.New("temporary")},
		msgs:   []kafka.Message{ocrMessage(t, events.SlipOCRText{SlipID: "s-4", OCRText: ""})},
	}
	pub := &fakePublisher{}
	p, stages := newProcessor(reader, pub)

	_ = p.Run(ctx)

	assert.Equal(t, 1, stages["read"])
	require.Len(t, pub.out, 1)
	assert.True(t, pub.out[0].NeedsReview)
	assert.Equal(t, 0, pub.out[0].LegsCount)
}

func TestProcessor_BroadcastFailureDoesNotStopFlow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, msgs: []kafka.Message{
		ocrMessage(t, events.SlipOCRText{SlipID: "a", OCRText: "KC +150"}),
		ocrMessage(t, events.SlipOCRText{SlipID: "b", OCRText: "PHI -2.5\n-110"}),
	}}
	pub := &fakePublisher{}
	p, stages := newProcessor(reader, pub)
	p.Broadcaster = &fakeBroadcaster{err: errors.New("redis down")}

	_ = p.Run(ctx)

	assert.Len(t, pub.out, 2)
	assert.Equal(t, 2, stages["broadcast"])
}
