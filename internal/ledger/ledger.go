// Package ledger replays recorded games through the rating engine and
// derives league standings.
package ledger

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"commander-league/internal/domain"
	"commander-league/internal/rating"
)

type Ledger struct {
	rules  domain.Rules
	logger zerolog.Logger
}

func New(rules domain.Rules, logger zerolog.Logger) *Ledger {
	return &Ledger{rules: rules, logger: logger}
}

func (l *Ledger) Rules() domain.Rules { return l.rules }

// SkippedGame is a ledger entry that could not be applied.
type SkippedGame struct {
	Index int
	Date  string
	Err   error
}

type ReplayReport struct {
	Applied int
	Skipped []SkippedGame
}

// Reset restores every player and deck to the league's starting values.
func (l *Ledger) Reset(league *domain.League) {
	for i := range league.Players {
		p := &league.Players[i]
		p.Rating = l.rules.StartingRating
		p.Gold = l.rules.StartingGold
		p.Wins, p.Losses = 0, 0
	}
	for i := range league.Decks {
		d := &league.Decks[i]
		d.Rating = l.rules.StartingRating
		d.Wins, d.Losses = 0, 0
	}
}

// Replay recomputes all standings from the starting values by applying the
// ledger in order. Games that cannot be applied are skipped and reported.
func (l *Ledger) Replay(league *domain.League) ReplayReport {
	l.Reset(league)

	var report ReplayReport
	for i, g := range league.Games {
		if err := l.Apply(league, g); err != nil {
			l.logger.Warn().
				Err(err).
				Int("game", i).
				Str("date", g.Date).
				Msg("skipping game during replay")
			report.Skipped = append(report.Skipped, SkippedGame{Index: i, Date: g.Date, Err: err})
			continue
		}
		report.Applied++
	}

	l.logger.Info().
		Int("applied", report.Applied).
		Int("skipped", len(report.Skipped)).
		Int("decks", len(league.Decks)).
		Int("players", len(league.Players)).
		Msg("ledger replayed")
	return report
}

// Apply updates ratings, results and gold for a single game. Nothing is
// mutated when the game is invalid.
func (l *Ledger) Apply(league *domain.League, g domain.Game) error {
	if err := g.Validate(); err != nil {
		return err
	}
	winner := g.WinnerIndex()

	deckRatings := make([]int, len(g.Participants))
	owners := make([]domain.PlayerID, len(g.Participants))
	playerRatings := make([]int, len(g.Participants))
	for i, ref := range g.Participants {
		d, ok := league.Deck(ref.ID)
		if !ok {
			return fmt.Errorf("%w: deck %d", domain.ErrUnresolvedReference, ref.ID)
		}
		p, ok := league.Player(d.Owner)
		if !ok {
			return fmt.Errorf("%w: owner %d of deck %q", domain.ErrUnresolvedReference, d.Owner, d.Commander)
		}
		deckRatings[i] = d.Rating
		owners[i] = d.Owner
		playerRatings[i] = p.Rating
	}

	newDeckRatings, err := rating.Update(deckRatings, winner, l.rules.KFactor, l.rules.DFactor)
	if err != nil {
		return fmt.Errorf("failed to rate decks: %w", err)
	}
	newPlayerRatings, err := rating.Update(playerRatings, winner, l.rules.KFactor, l.rules.DFactor)
	if err != nil {
		return fmt.Errorf("failed to rate players: %w", err)
	}

	for i, ref := range g.Participants {
		d := &league.Decks[ref.ID]
		p := &league.Players[owners[i]]

		d.Rating = newDeckRatings[i]
		// Deltas rather than assignment: one player may pilot two decks.
		p.Rating += newPlayerRatings[i] - playerRatings[i]

		if i == winner {
			d.Wins++
			p.Wins++
			p.Gold += 3 * l.rules.GoldAnte
		} else {
			d.Losses++
			p.Losses++
			p.Gold -= l.rules.GoldAnte
		}
	}
	return nil
}

type DeckStanding struct {
	ID     domain.DeckID
	Key    string
	Rating int
	Wins   int
	Losses int
}

type PlayerStanding struct {
	ID     domain.PlayerID
	Name   string
	Rating int
	Gold   int
	Wins   int
	Losses int
}

type Leaderboard struct {
	Decks   []DeckStanding
	Players []PlayerStanding
}

// Standings ranks played decks by rating and players by gold. Ties keep
// arena order.
func Standings(league *domain.League) Leaderboard {
	var board Leaderboard
	for i, d := range league.Decks {
		if d.Played() == 0 {
			continue
		}
		id := domain.DeckID(i)
		board.Decks = append(board.Decks, DeckStanding{
			ID:     id,
			Key:    league.Key(id),
			Rating: d.Rating,
			Wins:   d.Wins,
			Losses: d.Losses,
		})
	}
	slices.SortStableFunc(board.Decks, func(a, b DeckStanding) int {
		return b.Rating - a.Rating
	})

	for i, p := range league.Players {
		board.Players = append(board.Players, PlayerStanding{
			ID:     domain.PlayerID(i),
			Name:   p.Name,
			Rating: p.Rating,
			Gold:   p.Gold,
			Wins:   p.Wins,
			Losses: p.Losses,
		})
	}
	slices.SortStableFunc(board.Players, func(a, b PlayerStanding) int {
		return b.Gold - a.Gold
	})
	return board
}
