package dto

// ParseSlipRequest é o corpo de POST /v1/slips/parse.
// OCRText ausente ou null é tratado como texto vazio.
type ParseSlipRequest struct {
	SlipID   string  `json:"slipId"` // gerado pelo serviço quando vazio
	LeagueID string  `json:"leagueId"`
	UserID   string  `json:"userId"`
	OCRText  *string `json:"ocrText"`
}

// Text devolve o texto OCR, vazio quando não informado
func (r ParseSlipRequest) Text() string {
	if r.OCRText == nil {
		return ""
	}
	return *r.OCRText
}

type ErrorResponse struct {
	Error string `json:"error"`
}
