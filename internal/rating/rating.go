// Package rating implements a free-for-all generalisation of Elo.
//
// Every participant is scored against the whole field: its pairwise win
// probabilities against each opponent are summed and divided by the number of
// distinct one-on-one matchups in the field, n*(n-1)/2. Because
// p(i,j)+p(j,i) = 1 for every pair, the expected scores of the field sum to
// exactly 1, which keeps the update zero-sum before rounding.
package rating

import (
	"fmt"
	"math"

	"commander-league/internal/domain"
)

// WinProbability is the chance that a player rated r beats one rated opp.
func WinProbability(r, opp float64, dFactor int) float64 {
	return 1 / (1 + math.Pow(10, (opp-r)/float64(dFactor)))
}

// ExpectedScores returns each participant's expected score against the field.
func ExpectedScores(ratings []int, dFactor int) ([]float64, error) {
	if len(ratings) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 ratings, got %d", domain.ErrInvalidInput, len(ratings))
	}
	if dFactor <= 0 {
		return nil, fmt.Errorf("%w: d factor must be positive, got %d", domain.ErrInvalidInput, dFactor)
	}

	n := len(ratings)
	matchups := float64(n*(n-1)) / 2

	expected := make([]float64, n)
	for i, r := range ratings {
		var sum float64
		for j, opp := range ratings {
			if i == j {
				continue
			}
			sum += WinProbability(float64(r), float64(opp), dFactor)
		}
		expected[i] = sum / matchups
	}
	return expected, nil
}

// Deltas returns the unrounded rating change of every participant.
func Deltas(ratings []int, winner, kFactor, dFactor int) ([]float64, error) {
	if winner < 0 || winner >= len(ratings) {
		return nil, fmt.Errorf("%w: winner index %d out of range [0,%d)", domain.ErrInvalidInput, winner, len(ratings))
	}
	expected, err := ExpectedScores(ratings, dFactor)
	if err != nil {
		return nil, err
	}

	deltas := make([]float64, len(ratings))
	for i, ev := range expected {
		actual := 0.0
		if i == winner {
			actual = 1
		}
		deltas[i] = float64(kFactor) * (actual - ev)
	}
	return deltas, nil
}

// Update returns the new ratings after the participant at index winner won.
// Each rating is rounded to the nearest integer independently, so the total
// may drift from zero by at most len(ratings)/2.
func Update(ratings []int, winner, kFactor, dFactor int) ([]int, error) {
	deltas, err := Deltas(ratings, winner, kFactor, dFactor)
	if err != nil {
		return nil, err
	}

	updated := make([]int, len(ratings))
	for i, r := range ratings {
		updated[i] = int(math.Round(float64(r) + deltas[i]))
	}
	return updated, nil
}
