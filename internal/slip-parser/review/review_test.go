package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/bet-slip-parser/internal/slip-parser/parser"
	"github.com/radieske/bet-slip-parser/pkg/contracts/events"
)

func TestBuildLegs(t *testing.T) {
	res := parser.Parse("Over 44.5\n-110\nPHI -2.5\n-115\nKC +150\nStake $10.00")
	legs := BuildLegs(res)

	require.Len(t, legs, 3)
	for i, l := range legs {
		assert.Equal(t, i, l.LegIndex)
		assert.Equal(t, DefaultConfidence, l.Confidence)
		assert.Nil(t, l.PotentialPayout)
		assert.Nil(t, l.UnitsStaked)
	}
	assert.Equal(t, "total", legs[0].Market)
	assert.Equal(t, "over", legs[0].Side)
	assert.Equal(t, "PHI", legs[1].Selection)
	assert.Equal(t, "home", legs[1].Side)
	assert.Equal(t, "moneyline", legs[2].Market)
	assert.Nil(t, legs[2].Line)
}

func TestBuildLegs_Empty(t *testing.T) {
	legs := BuildLegs(parser.Parse(""))
	require.NotNil(t, legs)
	assert.Empty(t, legs)
}

func TestConfirmable(t *testing.T) {
	odds := -110
	assert.True(t, Confirmable(events.SlipLeg{Market: "spread", OddsAmerican: &odds}))
	assert.False(t, Confirmable(events.SlipLeg{Market: "total"}))
	assert.False(t, Confirmable(events.SlipLeg{OddsAmerican: &odds}))
}

func TestNewSlipParsed(t *testing.T) {
	tests := []struct {
		name            string
		text            string
		wantLegs        int
		wantConfirmable int
		wantReview      bool
	}{
		{"single leg with odds", "KC +150\nStake: $25.00\nTo Win: $37.50", 1, 1, false},
		{"total without odds", "Over 44.5\nPHI -2.5\n-110", 2, 1, true},
		{"nothing recognized", "thanks for playing", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := events.SlipOCRText{SlipID: "slip-1", LeagueID: "lg-1", UserID: "u-1", OCRText: tt.text}
			out := NewSlipParsed(in, parser.Parse(tt.text))

			assert.Equal(t, "slip-1", out.SlipID)
			assert.Equal(t, "lg-1", out.LeagueID)
			assert.Equal(t, "u-1", out.UserID)
			assert.Equal(t, events.SlipStatusParsed, out.Status)
			assert.Equal(t, tt.text, out.OCRText)
			assert.Equal(t, tt.wantLegs, out.LegsCount)
			assert.Len(t, out.Legs, tt.wantLegs)
			assert.Equal(t, tt.wantConfirmable, out.ConfirmableCount)
			assert.Equal(t, tt.wantReview, out.NeedsReview)
			assert.NotZero(t, out.TsUnixMs)
		})
	}
}

func TestNewSlipParsed_Totals(t *testing.T) {
	text := "KC +150\nStake: $25.00\nTo Win: $37.50"
	out := NewSlipParsed(events.SlipOCRText{SlipID: "s"}, parser.Parse(text))

	require.NotNil(t, out.ParlayUnitsStaked)
	require.NotNil(t, out.ParlayPayout)
	assert.Equal(t, 25.0, *out.ParlayUnitsStaked)
	assert.Equal(t, 37.5, *out.ParlayPayout)
	require.Len(t, out.Legs, 1)
	require.NotNil(t, out.Legs[0].UnitsStaked)
	assert.Equal(t, 25.0, *out.Legs[0].UnitsStaked)
}
