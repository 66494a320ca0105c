package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// client serializa escritas na conexão; o gorilla só aceita um writer por vez
type client struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (c *client) write(msgType int, b []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	return c.conn.WriteMessage(msgType, b)
}

// Hub gerencia conexões WebSocket e assinaturas por bilhete
// subs: slipID -> conjunto de clientes inscritos
type Hub struct {
	upgrader websocket.Upgrader
	log      *zap.Logger
	mu       sync.RWMutex
	subs     map[string]map[*client]struct{}
}

// NewHub cria o Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool, log *zap.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		log:      log,
		subs:     make(map[string]map[*client]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão.
// Cada cliente pode se inscrever em vários bilhetes.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("ws upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn}
	defer conn.Close()
	defer h.drop(c)

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "subscribe":
			if msg.SlipID != "" {
				h.subscribe(msg.SlipID, c)
			}
		case "unsubscribe":
			h.unsubscribe(msg.SlipID, c)
		case "ping":
			_ = c.write(websocket.TextMessage, []byte(`{"type":"pong"}`))
		}
	}
}

func (h *Hub) subscribe(slipID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[slipID]; !ok {
		h.subs[slipID] = make(map[*client]struct{})
	}
	h.subs[slipID][c] = struct{}{}
}

func (h *Hub) unsubscribe(slipID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[slipID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, slipID)
		}
	}
}

// drop remove o cliente de todas as assinaturas ao desconectar
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, set := range h.subs {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, id)
		}
	}
}

// Subscribers retorna quantos clientes acompanham o bilhete
func (h *Hub) Subscribers(slipID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[slipID])
}

// Broadcast envia o resultado para todos os clientes inscritos no slipID
func (h *Hub) Broadcast(update SlipUpdate) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.subs[update.SlipID]))
	for c := range h.subs[update.SlipID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	if len(targets) == 0 {
		return
	}

	b, err := json.Marshal(update)
	if err != nil {
		h.log.Warn("ws marshal update failed", zap.String("slip_id", update.SlipID), zap.Error(err))
		return
	}
	for _, c := range targets {
		if err := c.write(websocket.TextMessage, b); err != nil {
			h.log.Debug("ws write failed", zap.String("slip_id", update.SlipID), zap.Error(err))
		}
	}
}
