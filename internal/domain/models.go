package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the layout of Game.Date stamps.
const DateLayout = "01-02-2006"

type PlayerID int

type DeckID int

// Unresolved marks a reference whose stored key matches no live entity.
const Unresolved = -1

type Player struct {
	Name   string
	Rating int
	Gold   int
	Wins   int
	Losses int
}

type Deck struct {
	Owner     PlayerID
	Commander string
	Decklist  string // source URL or raw list
	Rating    int
	Wins      int
	Losses    int
}

func (d Deck) Played() int { return d.Wins + d.Losses }

// DeckRef points at a deck in the arena. Missing holds the stored key text
// when ID is Unresolved so it can be written back unchanged.
type DeckRef struct {
	ID      DeckID
	Missing string
}

func Ref(id DeckID) DeckRef { return DeckRef{ID: id} }

func (r DeckRef) Resolved() bool { return r.ID != Unresolved }

type Game struct {
	Date         string
	Winner       DeckRef
	Participants []DeckRef
}

func (g Game) PlayedOn() (time.Time, error) {
	return time.Parse(DateLayout, g.Date)
}

// WinnerIndex returns the position of the winner among the participants,
// or -1 when it is not one of them or any reference is unresolved.
func (g Game) WinnerIndex() int {
	if !g.Winner.Resolved() {
		return -1
	}
	for i, p := range g.Participants {
		if p.Resolved() && p.ID == g.Winner.ID {
			return i
		}
	}
	return -1
}

// Validate checks the participant invariants of a single game.
func (g Game) Validate() error {
	if len(g.Participants) < 2 {
		return fmt.Errorf("%w: game needs at least 2 participants, got %d", ErrInvalidInput, len(g.Participants))
	}
	seen := make(map[DeckID]bool, len(g.Participants))
	for _, p := range g.Participants {
		if !p.Resolved() {
			return fmt.Errorf("%w: participant %q", ErrUnresolvedReference, p.Missing)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: deck %d appears twice", ErrInvalidInput, p.ID)
		}
		seen[p.ID] = true
	}
	if !g.Winner.Resolved() {
		return fmt.Errorf("%w: winner %q", ErrUnresolvedReference, g.Winner.Missing)
	}
	if g.WinnerIndex() < 0 {
		return fmt.Errorf("%w: winner is not a participant", ErrInvalidInput)
	}
	return nil
}

// Card is read from the external card database.
type Card struct {
	Name           string
	ManaValue      float64
	ManaCost       string
	TypeLine       string
	PopularityRank int
	Prices         map[string]float64 // variant -> USD
}

// IsBasicLand reports whether the type line carries both the Basic supertype
// and the Land type, e.g. "Basic Land — Forest" or "Basic Snow Land — Island".
func (c Card) IsBasicLand() bool {
	front, _, _ := strings.Cut(c.TypeLine, "—")
	var basic, land bool
	for _, f := range strings.Fields(front) {
		switch f {
		case "Basic":
			basic = true
		case "Land":
			land = true
		}
	}
	return basic && land
}

// CheapestPrice returns the lowest known price variant.
func (c Card) CheapestPrice() (float64, bool) {
	var (
		best float64
		ok   bool
	)
	for _, p := range c.Prices {
		if !ok || p < best {
			best, ok = p, true
		}
	}
	return best, ok
}

// DeckEntry is one line of a deck list.
type DeckEntry struct {
	Quantity int
	Name     string
}

type Rules struct {
	KFactor        int `toml:"k_factor"`
	DFactor        int `toml:"d_factor"`
	GoldAnte       int `toml:"gold_ante"`
	StartingRating int `toml:"starting_rating"`
	StartingGold   int `toml:"starting_gold"`
	PlayersPerGame int `toml:"players_per_game"`
}

func DefaultRules() Rules {
	return Rules{
		KFactor:        60,
		DFactor:        400,
		GoldAnte:       25,
		StartingRating: 1000,
		StartingGold:   0,
		PlayersPerGame: 4,
	}
}

func (r Rules) Validate() error {
	if r.KFactor <= 0 {
		return fmt.Errorf("%w: k_factor must be positive, got %d", ErrInvalidInput, r.KFactor)
	}
	if r.DFactor <= 0 {
		return fmt.Errorf("%w: d_factor must be positive, got %d", ErrInvalidInput, r.DFactor)
	}
	if r.GoldAnte < 0 {
		return fmt.Errorf("%w: gold_ante must not be negative, got %d", ErrInvalidInput, r.GoldAnte)
	}
	if r.PlayersPerGame < 2 {
		return fmt.Errorf("%w: players_per_game must be at least 2, got %d", ErrInvalidInput, r.PlayersPerGame)
	}
	return nil
}
