package events

const SlipStatusParsed = "parsed"

// SlipLeg é o registro de revisão de uma perna, na ordem em que apareceu no bilhete.
// Confidence é fixo; PotentialPayout não é calculado.
type SlipLeg struct {
	LegIndex        int      `json:"leg_index"`
	Market          string   `json:"market"`
	Selection       string   `json:"selection"`
	Side            string   `json:"side"`
	Line            *float64 `json:"line"`
	OddsAmerican    *int     `json:"odds_american"`
	UnitsStaked     *float64 `json:"units_staked"`
	PotentialPayout *float64 `json:"potential_payout"`
	Confidence      float64  `json:"confidence"`
}

// Evento publicado no tópico "slip_parsed"
type SlipParsed struct {
	SlipID            string    `json:"slip_id"`
	LeagueID          string    `json:"league_id,omitempty"`
	UserID            string    `json:"user_id,omitempty"`
	Status            string    `json:"status"` // "parsed"
	OCRText           string    `json:"ocr_text"`
	ParlayUnitsStaked *float64  `json:"parlay_units_staked"`
	ParlayPayout      *float64  `json:"parlay_payout"`
	Legs              []SlipLeg `json:"legs"`
	LegsCount         int       `json:"legs_count"`
	ConfirmableCount  int       `json:"confirmable_count"`
	NeedsReview       bool      `json:"needs_review"` // nenhuma perna ou alguma sem odd
	TsUnixMs          int64     `json:"ts_unix_ms"`
}
