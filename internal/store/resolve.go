package store

import (
	"fmt"

	"commander-league/internal/domain"
)

// Issue describes a stored cross reference that could not be resolved.
type Issue struct {
	Game  int
	Field string // "winner" or "decks[i]"
	Key   string
	Err   error
}

func (i Issue) Error() string {
	return fmt.Sprintf("game %d %s %q: %v", i.Game, i.Field, i.Key, i.Err)
}

type LoadReport struct {
	Issues         []Issue
	CreatedPlayers []string
}

type index struct {
	players map[string]domain.PlayerID
	decks   map[string]domain.DeckID
	sources map[string]domain.DeckID
}

func buildIndex(league *domain.League) index {
	idx := index{
		players: make(map[string]domain.PlayerID, len(league.Players)),
		decks:   make(map[string]domain.DeckID, len(league.Decks)),
		sources: make(map[string]domain.DeckID, len(league.Decks)),
	}
	for i, p := range league.Players {
		idx.players[p.Name] = domain.PlayerID(i)
	}
	for i, d := range league.Decks {
		id := domain.DeckID(i)
		idx.decks[league.Key(id)] = id
		if d.Decklist == "" {
			continue
		}
		if _, ok := idx.sources[d.Decklist]; !ok {
			idx.sources[d.Decklist] = id
		}
	}
	return idx
}

// lookup resolves a composite key against the deck index.
func (idx index) lookup(key string) (domain.DeckID, error) {
	if _, _, err := domain.ParseDeckKey(key); err != nil {
		return domain.Unresolved, err
	}
	id, ok := idx.decks[key]
	if !ok {
		return domain.Unresolved, fmt.Errorf("%w: no deck %q", domain.ErrUnresolvedReference, key)
	}
	return id, nil
}

func (idx index) ref(key string) (domain.DeckRef, error) {
	id, err := idx.lookup(key)
	if err != nil {
		return domain.DeckRef{ID: domain.Unresolved, Missing: key}, err
	}
	return domain.Ref(id), nil
}

// Resolve turns flat records into a league. Identity violations in player and
// deck records fail the whole load; game references that do not resolve are
// kept as unresolved refs and reported. Deck owners without a player record
// are created with the given defaults.
func Resolve(snap *domain.Snapshot, defaults domain.Player) (*domain.League, LoadReport, error) {
	var report LoadReport
	league := &domain.League{
		Players: make([]domain.Player, 0, len(snap.Players)),
		Decks:   make([]domain.Deck, 0, len(snap.Decks)),
		Games:   make([]domain.Game, 0, len(snap.Games)),
	}

	players := make(map[string]domain.PlayerID, len(snap.Players))
	for i, rec := range snap.Players {
		if rec.Name == "" {
			return nil, report, fmt.Errorf("%w: player %d has no name", domain.ErrInvalidRecord, i)
		}
		if _, dup := players[rec.Name]; dup {
			return nil, report, fmt.Errorf("%w: player %q appears twice", domain.ErrInvalidRecord, rec.Name)
		}
		players[rec.Name] = domain.PlayerID(len(league.Players))
		league.Players = append(league.Players, domain.Player{
			Name:   rec.Name,
			Rating: rec.Rating,
			Gold:   rec.Gold,
			Wins:   rec.Wins,
			Losses: rec.Losses,
		})
	}

	keys := make(map[string]bool, len(snap.Decks))
	for i, rec := range snap.Decks {
		if rec.Owner == "" || rec.Commander == "" {
			return nil, report, fmt.Errorf("%w: deck %d needs owner and commander", domain.ErrInvalidRecord, i)
		}
		key := domain.DeckKey(rec.Commander, rec.Owner)
		if keys[key] {
			return nil, report, fmt.Errorf("%w: deck %q appears twice", domain.ErrInvalidRecord, key)
		}
		keys[key] = true

		owner, ok := players[rec.Owner]
		if !ok {
			owner = domain.PlayerID(len(league.Players))
			players[rec.Owner] = owner
			p := defaults
			p.Name = rec.Owner
			league.Players = append(league.Players, p)
			report.CreatedPlayers = append(report.CreatedPlayers, rec.Owner)
		}
		league.Decks = append(league.Decks, domain.Deck{
			Owner:     owner,
			Commander: rec.Commander,
			Decklist:  rec.Decklist,
			Rating:    rec.Rating,
			Wins:      rec.Wins,
			Losses:    rec.Losses,
		})
	}

	idx := buildIndex(league)
	for i, rec := range snap.Games {
		g := domain.Game{Date: rec.Date}

		var err error
		if g.Winner, err = idx.ref(rec.Winner); err != nil {
			report.Issues = append(report.Issues, Issue{Game: i, Field: "winner", Key: rec.Winner, Err: err})
		}
		if rec.Decks != nil {
			g.Participants = make([]domain.DeckRef, len(rec.Decks))
		}
		for j, key := range rec.Decks {
			if g.Participants[j], err = idx.ref(key); err != nil {
				report.Issues = append(report.Issues, Issue{Game: i, Field: fmt.Sprintf("decks[%d]", j), Key: key, Err: err})
			}
		}
		league.Games = append(league.Games, g)
	}

	return league, report, nil
}

// Flatten is the inverse of Resolve: it writes references back by name.
func Flatten(league *domain.League) *domain.Snapshot {
	snap := &domain.Snapshot{
		Players: make([]domain.PlayerRecord, len(league.Players)),
		Decks:   make([]domain.DeckRecord, len(league.Decks)),
		Games:   make([]domain.GameRecord, len(league.Games)),
	}
	for i, p := range league.Players {
		snap.Players[i] = domain.PlayerRecord{
			Name:   p.Name,
			Rating: p.Rating,
			Gold:   p.Gold,
			Wins:   p.Wins,
			Losses: p.Losses,
		}
	}
	for i, d := range league.Decks {
		snap.Decks[i] = domain.DeckRecord{
			Owner:     league.OwnerName(domain.DeckID(i)),
			Commander: d.Commander,
			Decklist:  d.Decklist,
			Rating:    d.Rating,
			Wins:      d.Wins,
			Losses:    d.Losses,
		}
	}
	for i, g := range league.Games {
		rec := domain.GameRecord{Date: g.Date, Winner: league.RefKey(g.Winner)}
		if g.Participants != nil {
			rec.Decks = make([]string, len(g.Participants))
		}
		for j, p := range g.Participants {
			rec.Decks[j] = league.RefKey(p)
		}
		snap.Games[i] = rec
	}
	return snap
}
