package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func allowAll(*http.Request) bool { return true }

func newTestServer(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(allowAll, zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// send envia a mensagem e espera o pong, garantindo que o hub já a processou
func send(t *testing.T, conn *websocket.Conn, msg ClientMsg) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "ping"}))
	var pong map[string]string
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, "pong", pong["type"])
}

func TestHub_DeliversOnlyToSubscribers(t *testing.T) {
	hub, url := newTestServer(t)

	a := dial(t, url)
	b := dial(t, url)
	send(t, a, ClientMsg{Type: "subscribe", SlipID: "slip-1"})
	send(t, b, ClientMsg{Type: "subscribe", SlipID: "slip-2"})
	require.Equal(t, 1, hub.Subscribers("slip-1"))

	hub.Broadcast(SlipUpdate{SlipID: "slip-1", Payload: json.RawMessage(`{"legs_count":2}`)})

	require.NoError(t, a.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got SlipUpdate
	require.NoError(t, a.ReadJSON(&got))
	assert.Equal(t, "slip-1", got.SlipID)
	assert.JSONEq(t, `{"legs_count":2}`, string(got.Payload))

	// b não recebe nada além do próprio pong
	require.NoError(t, b.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := b.ReadMessage()
	assert.Error(t, err)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub, url := newTestServer(t)

	a := dial(t, url)
	send(t, a, ClientMsg{Type: "subscribe", SlipID: "slip-1"})
	send(t, a, ClientMsg{Type: "unsubscribe", SlipID: "slip-1"})

	assert.Equal(t, 0, hub.Subscribers("slip-1"))
}

func TestHub_DisconnectDropsSubscriptions(t *testing.T) {
	hub, url := newTestServer(t)

	a := dial(t, url)
	send(t, a, ClientMsg{Type: "subscribe", SlipID: "slip-1"})
	require.Equal(t, 1, hub.Subscribers("slip-1"))

	require.NoError(t, a.Close())
	assert.Eventually(t, func() bool { return hub.Subscribers("slip-1") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestRelay_ForwardsValidUpdates(t *testing.T) {
	hub, url := newTestServer(t)
	a := dial(t, url)
	send(t, a, ClientMsg{Type: "subscribe", SlipID: "slip-7"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan *redis.Message, 3)
	ch <- &redis.Message{Payload: "not json"}
	ch <- &redis.Message{Payload: `{"payload":{}}`}
	ch <- &redis.Message{Payload: `{"slipId":"slip-7","payload":{"status":"parsed"}}`}

	closed := make(chan struct{})
	go relay(ctx, ch, hub, zap.NewNop(), func() { close(closed) })

	require.NoError(t, a.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got SlipUpdate
	require.NoError(t, a.ReadJSON(&got))
	assert.Equal(t, "slip-7", got.SlipID)
	assert.JSONEq(t, `{"status":"parsed"}`, string(got.Payload))

	cancel()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop after cancel")
	}
}
