package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	moneyRE  = regexp.MustCompile(`(?i)(?:\$|USD\s*)?([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{2})?)`)
	stakeRE  = regexp.MustCompile(`(?i)stake|risk|wager`)
	payoutRE = regexp.MustCompile(`(?i)to\s*win|payout|return`)

	americanOddsRE = regexp.MustCompile(`([+-]\s?\d{2,4})`)
	totalOverRE    = regexp.MustCompile(`(?i)\bOver\s*(\d{1,2}(?:\.5)?)\b`)
	totalUnderRE   = regexp.MustCompile(`(?i)\bUnder\s*(\d{1,2}(?:\.5)?)\b`)
	// o número não pode continuar em outro dígito: "KC +150" é moneyline, não spread +15
	spreadRE      = regexp.MustCompile(`([A-Z]{2,3}).{0,12}([+-]\d{1,2}(?:\.5)?)(?:\D|$)`)
	teamCodeRE    = regexp.MustCompile(`\b([A-Z]{2,3})\b`)
	overUnderWord = regexp.MustCompile(`(?i)over|under`)
)

// findMoney retorna o primeiro valor monetário da linha, sem separadores de milhar
func findMoney(line string) (float64, bool) {
	m := moneyRE.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// findOdds extrai o primeiro token de odd americana ("-110", "+ 150")
func findOdds(line string) (int, bool) {
	m := americanOddsRE.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(strings.Join(strings.Fields(m[1]), ""))
	if err != nil {
		return 0, false
	}
	return v, true
}

// lookAheadOdds procura a odd primeiro na linha seguinte e depois na própria linha
func lookAheadOdds(lines []string, i int) *int {
	if i+1 < len(lines) {
		if v, ok := findOdds(lines[i+1]); ok {
			return &v
		}
	}
	if v, ok := findOdds(lines[i]); ok {
		return &v
	}
	return nil
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
