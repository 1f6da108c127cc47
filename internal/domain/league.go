package domain

import "slices"

// League is the arena all entities live in. PlayerID and DeckID values are
// indexes into Players and Decks.
type League struct {
	Players []Player
	Decks   []Deck
	Games   []Game
}

func (l *League) Player(id PlayerID) (*Player, bool) {
	if id < 0 || int(id) >= len(l.Players) {
		return nil, false
	}
	return &l.Players[id], true
}

func (l *League) Deck(id DeckID) (*Deck, bool) {
	if id < 0 || int(id) >= len(l.Decks) {
		return nil, false
	}
	return &l.Decks[id], true
}

// Key derives the composite key of a deck from its live owner.
func (l *League) Key(id DeckID) string {
	d, ok := l.Deck(id)
	if !ok {
		return ""
	}
	owner := ""
	if p, ok := l.Player(d.Owner); ok {
		owner = p.Name
	}
	return DeckKey(d.Commander, owner)
}

// RefKey returns the stored text for a reference, resolved or not.
func (l *League) RefKey(r DeckRef) string {
	if !r.Resolved() {
		return r.Missing
	}
	return l.Key(r.ID)
}

// OwnerName returns the name of the player owning the deck.
func (l *League) OwnerName(id DeckID) string {
	d, ok := l.Deck(id)
	if !ok {
		return ""
	}
	if p, ok := l.Player(d.Owner); ok {
		return p.Name
	}
	return ""
}

// DecksOf returns the decks owned by a player in arena order.
func (l *League) DecksOf(owner PlayerID) []DeckID {
	var ids []DeckID
	for i, d := range l.Decks {
		if d.Owner == owner {
			ids = append(ids, DeckID(i))
		}
	}
	return ids
}

func (l *League) Clone() *League {
	c := &League{
		Players: slices.Clone(l.Players),
		Decks:   slices.Clone(l.Decks),
		Games:   slices.Clone(l.Games),
	}
	for i := range c.Games {
		c.Games[i].Participants = slices.Clone(c.Games[i].Participants)
	}
	return c
}
