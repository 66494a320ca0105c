package ws

import "encoding/json"

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// SlipID: obrigatório para subscribe/unsubscribe
type ClientMsg struct {
	Type   string `json:"type"`   // subscribe | unsubscribe | ping
	SlipID string `json:"slipId"` // requerido em subscribe/unsubscribe
}

// SlipUpdate é o resultado de parse repassado aos clientes inscritos no bilhete.
// Payload segue como veio do Redis, sem reserializar.
type SlipUpdate struct {
	SlipID  string          `json:"slipId"`
	Payload json.RawMessage `json:"payload"`
}
