package matchmaker

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commander-league/internal/domain"
	"commander-league/internal/ledger"
)

func testLeague() *domain.League {
	l := &domain.League{}
	for _, name := range []string{"ostertoaster10", "bonaparte jones", "DrSull", "Spenda4life", "Deckless"} {
		l.Players = append(l.Players, domain.Player{Name: name, Rating: 1000})
	}
	add := func(owner domain.PlayerID, commanders ...string) {
		for _, c := range commanders {
			l.Decks = append(l.Decks, domain.Deck{Owner: owner, Commander: c, Rating: 1000})
		}
	}
	add(0, "Atraxa, Praetors' Voice", "Yuriko, the Tiger's Shadow")
	add(1, "Krenko, Mob Boss")
	add(2, "Edgar Markov", "Kinnan, Bonder Prodigy", "Urza, Lord High Artificer")
	add(3, "Thrasios / Tymna")
	return l
}

func TestSampleNamedPlayers(t *testing.T) {
	league := testLeague()
	s := NewSeeded(7, 4)

	counts := make(map[domain.DeckID]int)
	for range 3000 {
		decks, err := s.Sample(league, []string{"DrSull", "bonaparte jones"})
		require.NoError(t, err)
		require.Len(t, decks, 2)
		assert.Equal(t, domain.PlayerID(2), league.Decks[decks[0]].Owner)
		assert.Equal(t, domain.DeckID(2), decks[1])
		counts[decks[0]]++
	}

	for _, id := range []domain.DeckID{3, 4, 5} {
		assert.InDelta(t, 1000, counts[id], 150, "deck %d", id)
	}
}

func TestSampleDrawsDistinctOwners(t *testing.T) {
	league := testLeague()
	s := NewSeeded(11, 4)

	for range 200 {
		decks, err := s.Sample(league, nil)
		require.NoError(t, err)
		require.Len(t, decks, 4)

		owners := make(map[domain.PlayerID]bool)
		for _, id := range decks {
			owners[league.Decks[id].Owner] = true
		}
		assert.Len(t, owners, 4)
		assert.NotContains(t, owners, domain.PlayerID(4))
	}
}

func TestSampleErrors(t *testing.T) {
	league := testLeague()
	s := NewSeeded(1, 4)

	_, err := s.Sample(league, []string{"nobody"})
	assert.ErrorIs(t, err, domain.ErrUnresolvedReference)

	_, err = s.Sample(league, []string{"Deckless"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.Sample(league, []string{"DrSull", "DrSull"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewSeeded(1, 5).Sample(league, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSampleIsDeterministicForASeed(t *testing.T) {
	league := testLeague()
	a, b := NewSeeded(42, 4), NewSeeded(42, 4)
	for range 50 {
		x, err := a.Sample(league, nil)
		require.NoError(t, err)
		y, err := b.Sample(league, nil)
		require.NoError(t, err)
		assert.Equal(t, x, y)
	}
}

func TestPairing(t *testing.T) {
	league := testLeague()
	got := Pairing(league, []domain.DeckID{2, 6})
	assert.Equal(t, "Krenko, Mob Boss (bonaparte jones)  vs  Thrasios / Tymna (Spenda4life)", got)
}

func TestSimulate(t *testing.T) {
	league := testLeague()
	before := league.Clone()
	l := ledger.New(domain.DefaultRules(), zerolog.Nop())

	board, err := NewSeeded(3, 4).Simulate(league, 500, l)
	require.NoError(t, err)
	assert.Equal(t, before, league)

	var wins, appearances, gold int
	for _, d := range board.Decks {
		wins += d.Wins
		appearances += d.Wins + d.Losses
	}
	for _, p := range board.Players {
		gold += p.Gold
	}
	assert.Equal(t, 500, wins)
	assert.Equal(t, 2000, appearances)
	assert.Zero(t, gold)

	for i := 1; i < len(board.Decks); i++ {
		assert.GreaterOrEqual(t, board.Decks[i-1].Rating, board.Decks[i].Rating)
	}
}

func TestSimulateRejectsNegativeRounds(t *testing.T) {
	l := ledger.New(domain.DefaultRules(), zerolog.Nop())
	_, err := NewSeeded(3, 4).Simulate(testLeague(), -1, l)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
