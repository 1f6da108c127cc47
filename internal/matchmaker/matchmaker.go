// Package matchmaker picks decks for casual pairings and runs null-model
// simulations of the league.
package matchmaker

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"commander-league/internal/domain"
	"commander-league/internal/ledger"
)

// Sampler is not safe for concurrent use.
type Sampler struct {
	rng  *rand.Rand
	size int
}

// New returns a sampler that fills a field of size players when none are
// named.
func New(rng *rand.Rand, size int) *Sampler {
	return &Sampler{rng: rng, size: size}
}

// NewSeeded builds a sampler on a PCG source.
func NewSeeded(seed uint64, size int) *Sampler {
	return New(rand.New(rand.NewPCG(seed, seed>>1|1)), size)
}

// Sample picks one deck uniformly from each named player's decks. With no
// players it first draws distinct deck owners without replacement.
func (s *Sampler) Sample(league *domain.League, players []string) ([]domain.DeckID, error) {
	byOwner := make(map[domain.PlayerID][]domain.DeckID)
	var owners []domain.PlayerID
	for i, d := range league.Decks {
		if _, ok := byOwner[d.Owner]; !ok {
			owners = append(owners, d.Owner)
		}
		byOwner[d.Owner] = append(byOwner[d.Owner], domain.DeckID(i))
	}

	var picked []domain.PlayerID
	if len(players) == 0 {
		if len(owners) < s.size {
			return nil, fmt.Errorf("%w: need %d deck owners, league has %d", domain.ErrInvalidInput, s.size, len(owners))
		}
		for _, i := range s.rng.Perm(len(owners))[:s.size] {
			picked = append(picked, owners[i])
		}
	} else {
		names := make(map[string]domain.PlayerID, len(league.Players))
		for i, p := range league.Players {
			names[p.Name] = domain.PlayerID(i)
		}
		seen := make(map[string]bool, len(players))
		for _, name := range players {
			if seen[name] {
				return nil, fmt.Errorf("%w: player %q named twice", domain.ErrInvalidInput, name)
			}
			seen[name] = true
			id, ok := names[name]
			if !ok {
				return nil, fmt.Errorf("%w: no player %q", domain.ErrUnresolvedReference, name)
			}
			if len(byOwner[id]) == 0 {
				return nil, fmt.Errorf("%w: player %q has no decks", domain.ErrInvalidInput, name)
			}
			picked = append(picked, id)
		}
	}

	decks := make([]domain.DeckID, len(picked))
	for i, owner := range picked {
		choices := byOwner[owner]
		decks[i] = choices[s.rng.IntN(len(choices))]
	}
	return decks, nil
}

// Pairing renders sampled decks as "A  vs  B  vs  C".
func Pairing(league *domain.League, decks []domain.DeckID) string {
	keys := make([]string, len(decks))
	for i, id := range decks {
		keys[i] = league.Key(id)
	}
	return strings.Join(keys, "  vs  ")
}

// Simulate plays rounds of sampled games with a uniformly random winner on a
// copy of the league and returns the resulting standings. The league passed
// in is not modified.
func (s *Sampler) Simulate(league *domain.League, rounds int, l *ledger.Ledger) (ledger.Leaderboard, error) {
	if rounds < 0 {
		return ledger.Leaderboard{}, fmt.Errorf("%w: rounds must not be negative, got %d", domain.ErrInvalidInput, rounds)
	}

	sim := league.Clone()
	sim.Games = make([]domain.Game, 0, rounds)
	for range rounds {
		decks, err := s.Sample(sim, nil)
		if err != nil {
			return ledger.Leaderboard{}, err
		}
		g := domain.Game{Participants: make([]domain.DeckRef, len(decks))}
		for i, id := range decks {
			g.Participants[i] = domain.Ref(id)
		}
		g.Winner = g.Participants[s.rng.IntN(len(decks))]
		sim.Games = append(sim.Games, g)
	}

	l.Replay(sim)
	return ledger.Standings(sim), nil
}
