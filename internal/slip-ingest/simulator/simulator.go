package simulator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/bet-slip-parser/pkg/contracts/events"
)

// Sample é um texto OCR de exemplo com o formato típico de um sportsbook
type Sample struct {
	Name     string
	LeagueID string
	Text     string
}

// Catalog fixo de bilhetes simulados: simples, parlay e OCR ruidoso
var Catalog = []Sample{
	{
		Name:     "single_moneyline",
		LeagueID: "nfl",
		Text:     "STRAIGHT BET\nKC +150\nChiefs @ Bills\nStake: $25.00\nTo Win: $37.50",
	},
	{
		Name:     "single_spread",
		LeagueID: "nba",
		Text:     "PHI -2.5\n-110\n76ers vs Celtics\nRisk $110.00\nTo Win $100.00",
	},
	{
		Name:     "parlay_3_legs",
		LeagueID: "nfl",
		Text:     "3 Leg Parlay\nOver 44.5\n-110\nDAL +3.5\n-105\nSF -130\nWager: $20.00\nPayout: $126.40",
	},
	{
		Name:     "noisy_ocr",
		LeagueID: "nfl",
		Text:     "  BetSlip#88 \r\n\r\nUnder\t38   +105\r\n~~ NE +3 ~~\r\n\r\n-115\r\nstake 10\r\nPotential Return USD 1,020.00",
	},
	{
		Name:     "unreadable",
		LeagueID: "",
		Text:     "### ### \n ~ ~ \n",
	},
}

type Publisher interface {
	Publish(ctx context.Context, e events.SlipOCRText) error
}

// Simulator publica o catálogo em rodízio, um bilhete por tick, com slip_id novo a cada envio
type Simulator struct {
	Publisher Publisher
	Log       *zap.Logger
	Interval  time.Duration
	Source    string // provider gravado no evento

	OnPublished func(sample string)
	OnError     func()
}

// Next monta o evento do n-ésimo envio
func (s *Simulator) Next(n int) events.SlipOCRText {
	sample := Catalog[n%len(Catalog)]
	return events.SlipOCRText{
		SlipID:   uuid.NewString(),
		LeagueID: sample.LeagueID,
		Provider: s.Source,
		OCRText:  sample.Text,
		TsUnixMs: time.Now().UnixMilli(),
	}
}

// Run bloqueia até ctx ser cancelado
func (s *Simulator) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for n := 0; ; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		ev := s.Next(n)
		name := Catalog[n%len(Catalog)].Name
		if err := s.Publisher.Publish(ctx, ev); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.Log.Warn("simulated slip publish failed", zap.String("sample", name), zap.Error(err))
			if s.OnError != nil {
				s.OnError()
			}
			continue
		}
		s.Log.Info("simulated slip published", zap.String("slip_id", ev.SlipID), zap.String("sample", name))
		if s.OnPublished != nil {
			s.OnPublished(name)
		}
	}
}
