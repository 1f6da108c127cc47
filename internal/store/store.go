// Package store owns the league's players, decks and games and keeps them
// in step with their persisted records.
//
// The store assumes a single writer: callers must serialize mutations.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"commander-league/internal/domain"
)

// Repository persists flat league records. Save always receives the full
// collection and overwrites what was stored before.
type Repository interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snap *domain.Snapshot) error
}

type Store struct {
	repo     Repository
	defaults domain.Player
	logger   zerolog.Logger

	league *domain.League
	idx    index
}

func New(repo Repository, rules domain.Rules, logger zerolog.Logger) *Store {
	league := &domain.League{}
	return &Store{
		repo:     repo,
		defaults: domain.Player{Rating: rules.StartingRating, Gold: rules.StartingGold},
		logger:   logger,
		league:   league,
		idx:      buildIndex(league),
	}
}

// Load replaces the in-memory league with the persisted one.
func (s *Store) Load(ctx context.Context) (LoadReport, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load league records")
		return LoadReport{}, fmt.Errorf("failed to load league records: %w", err)
	}

	league, report, err := Resolve(snap, s.defaults)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to resolve league records")
		return report, err
	}

	for _, name := range report.CreatedPlayers {
		s.logger.Info().Str("player", name).Msg("created player for deck owner")
	}
	for _, issue := range report.Issues {
		s.logger.Warn().
			Err(issue.Err).
			Int("game", issue.Game).
			Str("field", issue.Field).
			Str("key", issue.Key).
			Msg("unresolved game reference")
	}

	s.league = league
	s.idx = buildIndex(league)

	s.logger.Info().
		Int("players", len(league.Players)).
		Int("decks", len(league.Decks)).
		Int("games", len(league.Games)).
		Int("issues", len(report.Issues)).
		Msg("league loaded")
	return report, nil
}

// League exposes the live arena. It must not be mutated outside Update.
func (s *Store) League() *domain.League { return s.league }

// Snapshot returns a deep copy of the league.
func (s *Store) Snapshot() *domain.League { return s.league.Clone() }

// Save persists the current league.
func (s *Store) Save(ctx context.Context) error {
	return s.persist(ctx, s.league)
}

func (s *Store) persist(ctx context.Context, league *domain.League) error {
	if err := s.repo.Save(ctx, Flatten(league)); err != nil {
		s.logger.Error().Err(err).Msg("failed to save league records")
		return fmt.Errorf("failed to save league records: %w", err)
	}
	s.logger.Debug().
		Int("players", len(league.Players)).
		Int("decks", len(league.Decks)).
		Int("games", len(league.Games)).
		Msg("league saved")
	return nil
}

// Update runs fn against a copy of the league and persists the result. The
// live league only changes when both fn and the save succeed.
func (s *Store) Update(ctx context.Context, fn func(*domain.League) error) error {
	next := s.league.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.league = next
	s.idx = buildIndex(next)
	return nil
}

func (s *Store) FindPlayer(name string) (domain.PlayerID, bool) {
	id, ok := s.idx.players[name]
	return id, ok
}

// FindDeck resolves a composite "commander (owner)" key.
func (s *Store) FindDeck(key string) (domain.DeckID, error) {
	return s.idx.lookup(key)
}

func (s *Store) HasSource(source string) bool {
	_, ok := s.idx.sources[source]
	return ok
}

// AppendGame records a game between the decks named by composite keys and
// persists the whole ledger. Unknown decks are rejected.
func (s *Store) AppendGame(ctx context.Context, date, winner string, participants []string) (domain.Game, error) {
	g := domain.Game{Date: date, Participants: make([]domain.DeckRef, 0, len(participants))}

	id, err := s.idx.lookup(winner)
	if err != nil {
		return domain.Game{}, fmt.Errorf("winner: %w", err)
	}
	g.Winner = domain.Ref(id)
	for _, key := range participants {
		id, err := s.idx.lookup(key)
		if err != nil {
			return domain.Game{}, fmt.Errorf("participant: %w", err)
		}
		g.Participants = append(g.Participants, domain.Ref(id))
	}
	if err := g.Validate(); err != nil {
		return domain.Game{}, err
	}

	s.league.Games = append(s.league.Games, g)
	if err := s.persist(ctx, s.league); err != nil {
		s.league.Games = s.league.Games[:len(s.league.Games)-1]
		return domain.Game{}, err
	}

	s.logger.Info().
		Str("date", date).
		Str("winner", winner).
		Strs("decks", participants).
		Int("ledger_size", len(s.league.Games)).
		Msg("game recorded")
	return g, nil
}

// AddDeck registers a new deck, creating its owner when needed.
func (s *Store) AddDeck(ctx context.Context, owner, commander, source string) (domain.DeckID, error) {
	if owner == "" || commander == "" {
		return domain.Unresolved, fmt.Errorf("%w: deck needs owner and commander", domain.ErrInvalidInput)
	}
	key := domain.DeckKey(commander, owner)
	if _, _, err := domain.ParseDeckKey(key); err != nil {
		return domain.Unresolved, err
	}
	if _, ok := s.idx.decks[key]; ok {
		return domain.Unresolved, fmt.Errorf("%w: deck %q", domain.ErrDuplicate, key)
	}
	if source != "" && s.HasSource(source) {
		return domain.Unresolved, fmt.Errorf("%w: deck source %q", domain.ErrDuplicate, source)
	}

	var id domain.DeckID
	err := s.Update(ctx, func(l *domain.League) error {
		ownerID, ok := s.idx.players[owner]
		if !ok {
			ownerID = domain.PlayerID(len(l.Players))
			p := s.defaults
			p.Name = owner
			l.Players = append(l.Players, p)
			s.logger.Info().Str("player", owner).Msg("created player for new deck")
		}
		id = domain.DeckID(len(l.Decks))
		l.Decks = append(l.Decks, domain.Deck{
			Owner:     ownerID,
			Commander: commander,
			Decklist:  source,
			Rating:    s.defaults.Rating,
		})
		return nil
	})
	if err != nil {
		return domain.Unresolved, err
	}

	s.logger.Info().Str("deck", key).Str("source", source).Msg("deck added")
	return id, nil
}
