package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"commander-league/internal/constants"
	"commander-league/internal/domain"
	"commander-league/internal/ledger"
	"commander-league/internal/matchmaker"
	"commander-league/internal/store"
)

// CommanderResolver turns a deck list link into a commander name.
type CommanderResolver interface {
	CommanderName(ctx context.Context, link string) (string, error)
}

// CardDatabase supplies a bulk snapshot of card metadata.
type CardDatabase interface {
	Cards(ctx context.Context) ([]domain.Card, error)
}

// DecklistSource fetches the card list behind a deck link.
type DecklistSource interface {
	Decklist(ctx context.Context, link string) ([]domain.DeckEntry, error)
}

// LeagueService runs league commands one at a time against the store.
type LeagueService struct {
	mu sync.Mutex

	store      *store.Store
	ledger     *ledger.Ledger
	sampler    *matchmaker.Sampler
	commanders CommanderResolver
	cards      CardDatabase
	decklists  DecklistSource
	logger     zerolog.Logger
	now        func() time.Time
}

func NewLeagueService(
	st *store.Store,
	l *ledger.Ledger,
	sampler *matchmaker.Sampler,
	commanders CommanderResolver,
	cards CardDatabase,
	decklists DecklistSource,
	logger zerolog.Logger,
) *LeagueService {
	return &LeagueService{
		store:      st,
		ledger:     l,
		sampler:    sampler,
		commanders: commanders,
		cards:      cards,
		decklists:  decklists,
		logger:     logger,
		now:        time.Now,
	}
}

// Open loads the league and recomputes every standing from the ledger.
func (s *LeagueService) Open(ctx context.Context) (store.LoadReport, ledger.ReplayReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.store.Load(ctx)
	if err != nil {
		return loaded, ledger.ReplayReport{}, err
	}
	replayed, err := s.replay(ctx)
	return loaded, replayed, err
}

// Replay recomputes standings from the ledger and persists them.
func (s *LeagueService) Replay(ctx context.Context) (ledger.ReplayReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replay(ctx)
}

func (s *LeagueService) replay(ctx context.Context) (ledger.ReplayReport, error) {
	var report ledger.ReplayReport
	err := s.store.Update(ctx, func(l *domain.League) error {
		report = s.ledger.Replay(l)
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("failed to replay ledger: %w", err)
	}
	return report, nil
}

func (s *LeagueService) Leaderboard() ledger.Leaderboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.Standings(s.store.League())
}

// RegisterGame records a game and applies it to the standings. An empty date
// means today.
func (s *LeagueService) RegisterGame(ctx context.Context, date, winner string, participants []string) (domain.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if date == "" {
		date = s.now().Format(domain.DateLayout)
	} else if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return domain.Game{}, fmt.Errorf("%w: date %q is not MM-DD-YYYY", domain.ErrInvalidInput, date)
	}

	g, err := s.store.AppendGame(ctx, date, winner, participants)
	if err != nil {
		s.logger.Warn().Err(err).Str("winner", winner).Strs("decks", participants).Msg("game rejected")
		return domain.Game{}, err
	}
	err = s.store.Update(ctx, func(l *domain.League) error {
		return s.ledger.Apply(l, g)
	})
	if err != nil {
		// The game is on the ledger; the next replay will pick it up.
		s.logger.Error().Err(err).Str("date", date).Msg("failed to apply recorded game")
		return g, fmt.Errorf("failed to apply game: %w", err)
	}
	return g, nil
}

var linkPattern = regexp.MustCompile(`https?://[^\s]+`)

// LinkFailure is a deck link that could not be added.
type LinkFailure struct {
	Link string
	Err  error
}

type AddDecksResult struct {
	Added   []string
	Failed  []LinkFailure
	Skipped int
}

// AddDecks registers a deck for every link in text that is not already a
// known deck source. Links whose commander cannot be resolved are reported
// and can be retried later.
func (s *LeagueService) AddDecks(ctx context.Context, owner, text string) (AddDecksResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res AddDecksResult
	if owner == "" {
		return res, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}

	seen := make(map[string]bool)
	for _, link := range linkPattern.FindAllString(text, -1) {
		if seen[link] || s.store.HasSource(link) {
			res.Skipped++
			continue
		}
		seen[link] = true

		apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
		commander, err := s.commanders.CommanderName(apiCtx, link)
		cancel()
		if err != nil {
			s.logger.Warn().Err(err).Str("link", link).Msg("could not resolve commander")
			res.Failed = append(res.Failed, LinkFailure{Link: link, Err: err})
			continue
		}

		if _, err := s.store.AddDeck(ctx, owner, commander, link); err != nil {
			if errors.Is(err, domain.ErrDuplicate) || errors.Is(err, domain.ErrMalformedKey) {
				res.Failed = append(res.Failed, LinkFailure{Link: link, Err: err})
				continue
			}
			return res, err
		}
		res.Added = append(res.Added, domain.DeckKey(commander, owner))
	}

	s.logger.Info().
		Str("owner", owner).
		Int("added", len(res.Added)).
		Int("failed", len(res.Failed)).
		Int("skipped", res.Skipped).
		Msg("decks pulled")
	return res, nil
}

type Pairing struct {
	Decks []domain.DeckID
	Keys  []string
	Text  string
}

// RandomDecks suggests one deck per player, or a full table of distinct
// owners when no players are named.
func (s *LeagueService) RandomDecks(players []string) (Pairing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	league := s.store.League()
	decks, err := s.sampler.Sample(league, players)
	if err != nil {
		return Pairing{}, err
	}
	p := Pairing{Decks: decks, Keys: make([]string, len(decks)), Text: matchmaker.Pairing(league, decks)}
	for i, id := range decks {
		p.Keys[i] = league.Key(id)
	}
	return p, nil
}

// Simulate plays random games on a copy of the league.
func (s *LeagueService) Simulate(rounds int) (ledger.Leaderboard, error) {
	if rounds < 0 || rounds > constants.MaxSimulatedRounds {
		return ledger.Leaderboard{}, fmt.Errorf("%w: rounds must be between 0 and %d", domain.ErrInvalidInput, constants.MaxSimulatedRounds)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	board, err := s.sampler.Simulate(s.store.League(), rounds, ledger.New(s.ledger.Rules(), zerolog.Nop()))
	if err != nil {
		return board, err
	}
	s.logger.Info().Int("rounds", rounds).Dur("duration", time.Since(start)).Msg("simulation finished")
	return board, nil
}
