package parser

// Market identifica o tipo de aposta de uma perna
type Market string

const (
	MarketMoneyline Market = "moneyline"
	MarketSpread    Market = "spread"
	MarketTotal     Market = "total"
)

// Side é o lado semântico da perna.
// SideTeam indica que a seleção já identifica o participante (moneyline).
type Side string

const (
	SideHome  Side = "home"
	SideAway  Side = "away"
	SideOver  Side = "over"
	SideUnder Side = "under"
	SideTeam  Side = "team"
)

// ParsedLeg é uma aposta individual extraída do texto do bilhete.
// Line só existe para spread/total; UnitsStaked só em bilhetes de uma perna.
type ParsedLeg struct {
	Market       Market   `json:"market"`
	Side         Side     `json:"side"`
	Line         *float64 `json:"line"`
	OddsAmerican *int     `json:"odds_american"`
	Selection    string   `json:"selection"`
	UnitsStaked  *float64 `json:"units_staked,omitempty"`
}

// ParseResult é o resultado de uma chamada a Parse
// Legs segue a ordem de aparição no texto
type ParseResult struct {
	Legs   []ParsedLeg `json:"legs"`
	Stake  *float64    `json:"stake"`
	Payout *float64    `json:"payout"`
}
