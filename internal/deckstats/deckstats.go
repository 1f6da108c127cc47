// Package deckstats summarises the composition of a deck from card database
// metadata.
package deckstats

import (
	"fmt"
	"math"
	"strings"

	"commander-league/internal/domain"
)

// Colors is the canonical pip order.
var Colors = [5]byte{'W', 'U', 'B', 'R', 'G'}

type Summary struct {
	AverageManaValue float64
	PopularityScore  int
	ColorPips        [5]int
	CardCount        int
	LandCount        int
	Price            float64
}

// Pips returns the pip counts keyed by color letter.
func (s Summary) Pips() map[string]int {
	m := make(map[string]int, len(Colors))
	for i, c := range Colors {
		m[string(c)] = s.ColorPips[i]
	}
	return m
}

// Analyze computes deck statistics. Basic lands count toward the card, land
// and price totals but are left out of the averages and pip counts.
func Analyze(cards []domain.Card) (Summary, error) {
	var (
		s          Summary
		eligible   int
		manaTotal  float64
		popularity int
		price      float64
	)
	for _, c := range cards {
		s.CardCount++
		if isLand(c) {
			s.LandCount++
		}
		if p, ok := c.CheapestPrice(); ok {
			price += p
		}
		if c.IsBasicLand() {
			continue
		}
		eligible++
		manaTotal += c.ManaValue
		popularity += c.PopularityRank
		countPips(c.ManaCost, &s.ColorPips)
	}
	if eligible == 0 {
		return Summary{}, fmt.Errorf("%w: deck of %d cards has no non-land cards", domain.ErrNoEligibleCards, len(cards))
	}

	s.AverageManaValue = round2(manaTotal / float64(eligible))
	s.PopularityScore = popularity / eligible
	s.Price = round2(price)
	return s, nil
}

// countPips adds every colored mana symbol in cost. Hybrid symbols such as
// {W/U} count once for each color.
func countPips(cost string, pips *[5]int) {
	inSymbol := false
	for i := 0; i < len(cost); i++ {
		switch ch := cost[i]; ch {
		case '{':
			inSymbol = true
		case '}':
			inSymbol = false
		default:
			if !inSymbol {
				continue
			}
			for j, c := range Colors {
				if ch == c {
					pips[j]++
				}
			}
		}
	}
}

func isLand(c domain.Card) bool {
	front, _, _ := strings.Cut(c.TypeLine, "—")
	for _, f := range strings.Fields(front) {
		if f == "Land" {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
