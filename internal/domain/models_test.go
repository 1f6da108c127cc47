package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCardIsBasicLand(t *testing.T) {
	tests := []struct {
		typeLine string
		want     bool
	}{
		{"Basic Land — Forest", true},
		{"Basic Snow Land — Island", true},
		{"Land", false},
		{"Legendary Land", false},
		{"Land — Forest Island", false},
		{"Artifact", false},
		{"Legendary Creature — Human Wizard", false},
	}
	for _, tt := range tests {
		t.Run(tt.typeLine, func(t *testing.T) {
			assert.Equal(t, tt.want, Card{TypeLine: tt.typeLine}.IsBasicLand())
		})
	}
}

func TestCardCheapestPrice(t *testing.T) {
	_, ok := Card{}.CheapestPrice()
	assert.False(t, ok)

	p, ok := Card{Prices: map[string]float64{"usd": 2.5, "usd_foil": 7, "usd_etched": 1.25}}.CheapestPrice()
	assert.True(t, ok)
	assert.Equal(t, 1.25, p)
}

func TestGameValidate(t *testing.T) {
	tests := []struct {
		name    string
		game    Game
		wantErr error
	}{
		{
			name: "valid",
			game: Game{Winner: Ref(1), Participants: []DeckRef{Ref(0), Ref(1), Ref(2), Ref(3)}},
		},
		{
			name:    "too few",
			game:    Game{Winner: Ref(0), Participants: []DeckRef{Ref(0)}},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "duplicate",
			game:    Game{Winner: Ref(0), Participants: []DeckRef{Ref(0), Ref(0)}},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "winner absent",
			game:    Game{Winner: Ref(5), Participants: []DeckRef{Ref(0), Ref(1)}},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unresolved winner",
			game:    Game{Winner: DeckRef{ID: Unresolved, Missing: "Gone (bob)"}, Participants: []DeckRef{Ref(0), Ref(1)}},
			wantErr: ErrUnresolvedReference,
		},
		{
			name:    "unresolved participant",
			game:    Game{Winner: Ref(0), Participants: []DeckRef{Ref(0), {ID: Unresolved, Missing: "Gone (bob)"}}},
			wantErr: ErrUnresolvedReference,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.game.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLeagueCloneIsDeep(t *testing.T) {
	l := &League{
		Players: []Player{{Name: "alice"}},
		Decks:   []Deck{{Owner: 0, Commander: "Atraxa"}},
		Games:   []Game{{Date: "01-02-2024", Winner: Ref(0), Participants: []DeckRef{Ref(0)}}},
	}
	c := l.Clone()
	c.Players[0].Gold = 10
	c.Decks[0].Rating = 10
	c.Games[0].Participants[0] = Ref(3)

	assert.Equal(t, 0, l.Players[0].Gold)
	assert.Equal(t, 0, l.Decks[0].Rating)
	assert.Equal(t, DeckID(0), l.Games[0].Participants[0].ID)
	assert.Equal(t, "Atraxa (alice)", l.Key(0))
}
