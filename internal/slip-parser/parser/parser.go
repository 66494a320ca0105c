// Package parser transforma o texto OCR de um bilhete de aposta em pernas estruturadas.
//
// Parse é uma função pura: não faz I/O, não guarda estado entre chamadas e pode
// ser usada concorrentemente. Texto sem correspondências gera um resultado vazio,
// nunca um erro.
package parser

import (
	"regexp"
	"strings"
)

// legRule testa a linha i e devolve a perna montada quando casa.
// A linha é consumida por inteiro pela primeira regra que casar.
type legRule func(lines []string, i int) (ParsedLeg, bool)

// ordem de prioridade: over, under, spread, moneyline
var legRules = []legRule{
	totalRule(totalOverRE, SideOver, "Over"),
	totalRule(totalUnderRE, SideUnder, "Under"),
	matchSpread,
	matchMoneyline,
}

var newlineRunRE = regexp.MustCompile(`\n+`)

// Parse extrai pernas, stake e payout do texto OCR de um bilhete.
func Parse(ocrText string) ParseResult {
	lines := splitLines(ocrText)

	res := ParseResult{Legs: make([]ParsedLeg, 0)}
	res.Stake, res.Payout = scanTotals(lines)

	for i := range lines {
		for _, rule := range legRules {
			if leg, ok := rule(lines, i); ok {
				res.Legs = append(res.Legs, leg)
				break
			}
		}
	}

	// bilhete simples mostra o stake por perna; parlay fica só no total
	if len(res.Legs) == 1 && res.Stake != nil {
		v := *res.Stake
		res.Legs[0].UnitsStaked = &v
	}
	return res
}

// splitLines normaliza quebras e tabs e devolve as linhas não vazias já aparadas
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, "\t", " ")

	var out []string
	for _, l := range newlineRunRE.Split(text, -1) {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// scanTotals varre todas as linhas; a última linha que casar vence
func scanTotals(lines []string) (stake, payout *float64) {
	for _, l := range lines {
		if stakeRE.MatchString(l) {
			if v, ok := findMoney(l); ok {
				stake = &v
			}
		}
		if payoutRE.MatchString(l) {
			if v, ok := findMoney(l); ok {
				payout = &v
			}
		}
	}
	return stake, payout
}

func totalRule(re *regexp.Regexp, side Side, label string) legRule {
	return func(lines []string, i int) (ParsedLeg, bool) {
		m := re.FindStringSubmatch(lines[i])
		if m == nil {
			return ParsedLeg{}, false
		}
		line, ok := parseNumber(m[1])
		if !ok {
			return ParsedLeg{}, false
		}
		return ParsedLeg{
			Market:       MarketTotal,
			Side:         side,
			Line:         &line,
			OddsAmerican: lookAheadOdds(lines, i),
			Selection:    label + " " + m[1],
		}, true
	}
}

// matchSpread usa o sinal da linha para decidir o lado: negativo = home
func matchSpread(lines []string, i int) (ParsedLeg, bool) {
	m := spreadRE.FindStringSubmatch(lines[i])
	if m == nil {
		return ParsedLeg{}, false
	}
	line, ok := parseNumber(m[2])
	if !ok {
		return ParsedLeg{}, false
	}
	side := SideAway
	if strings.HasPrefix(m[2], "-") {
		side = SideHome
	}
	return ParsedLeg{
		Market:       MarketSpread,
		Side:         side,
		Line:         &line,
		OddsAmerican: lookAheadOdds(lines, i),
		Selection:    m[1],
	}, true
}

func matchMoneyline(lines []string, i int) (ParsedLeg, bool) {
	l := lines[i]
	team := teamCodeRE.FindStringSubmatch(l)
	if team == nil || overUnderWord.MatchString(l) {
		return ParsedLeg{}, false
	}
	odds, ok := findOdds(l)
	if !ok {
		return ParsedLeg{}, false
	}
	return ParsedLeg{
		Market:       MarketMoneyline,
		Side:         SideTeam,
		OddsAmerican: &odds,
		Selection:    team[1],
	}, true
}
