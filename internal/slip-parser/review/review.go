package review

import (
	"time"

	"github.com/radieske/bet-slip-parser/internal/slip-parser/parser"
	"github.com/radieske/bet-slip-parser/pkg/contracts/events"
)

// DefaultConfidence é a confiança atribuída a toda perna lida via OCR.
// O parser não estima confiança; o valor só sinaliza "revisar antes de confirmar".
const DefaultConfidence = 0.6

// BuildLegs converte as pernas do parser nos registros de revisão, preservando a ordem
func BuildLegs(res parser.ParseResult) []events.SlipLeg {
	out := make([]events.SlipLeg, 0, len(res.Legs))
	for i, leg := range res.Legs {
		out = append(out, events.SlipLeg{
			LegIndex:     i,
			Market:       string(leg.Market),
			Selection:    leg.Selection,
			Side:         string(leg.Side),
			Line:         leg.Line,
			OddsAmerican: leg.OddsAmerican,
			UnitsStaked:  leg.UnitsStaked,
			Confidence:   DefaultConfidence,
		})
	}
	return out
}

// Confirmable indica se a perna pode virar pick sem correção manual (mercado e odd presentes)
func Confirmable(leg events.SlipLeg) bool {
	return leg.Market != "" && leg.OddsAmerican != nil
}

// NewSlipParsed monta o evento de saída para um texto OCR já interpretado
func NewSlipParsed(in events.SlipOCRText, res parser.ParseResult) events.SlipParsed {
	legs := BuildLegs(res)

	confirmable := 0
	for _, l := range legs {
		if Confirmable(l) {
			confirmable++
		}
	}

	return events.SlipParsed{
		SlipID:            in.SlipID,
		LeagueID:          in.LeagueID,
		UserID:            in.UserID,
		Status:            events.SlipStatusParsed,
		OCRText:           in.OCRText,
		ParlayUnitsStaked: res.Stake,
		ParlayPayout:      res.Payout,
		Legs:              legs,
		LegsCount:         len(legs),
		ConfirmableCount:  confirmable,
		NeedsReview:       len(legs) == 0 || confirmable < len(legs),
		TsUnixMs:          time.Now().UnixMilli(),
	}
}
