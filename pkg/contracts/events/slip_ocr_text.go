package events

// Evento publicado no tópico "slip_ocr_text" depois que o OCR do bilhete terminou.
type SlipOCRText struct {
	SlipID   string `json:"slip_id"`
	LeagueID string `json:"league_id"`
	UserID   string `json:"user_id"`
	Provider string `json:"provider"` // ex: "ocrspace"
	OCRText  string `json:"ocr_text"`
	TsUnixMs int64  `json:"ts_unix_ms"`
}
