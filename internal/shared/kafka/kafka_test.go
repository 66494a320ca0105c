package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	msgs []kafka.Message
	err  error
}

func (c *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, msgs...)
	return nil
}

func TestBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, Brokers(" a:9092, ,b:9092,"))
	assert.Empty(t, Brokers(""))
}

func TestWriteJSON(t *testing.T) {
	w := &captureWriter{}
	require.NoError(t, WriteJSON(context.Background(), w, "slip-1", map[string]int{"legs_count": 2}))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "slip-1", string(w.msgs[0].Key))
	var got map[string]int
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, 2, got["legs_count"])
}

func TestWriteJSON_Errors(t *testing.T) {
	w := &captureWriter{err: errors.New("broker down")}
	assert.ErrorContains(t, WriteJSON(context.Background(), w, "k", "v"), "broker down")
	assert.Error(t, WriteJSON(context.Background(), &captureWriter{}, "k", make(chan int)))
}
