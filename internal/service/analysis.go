package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"commander-league/internal/constants"
	"commander-league/internal/deckstats"
	"commander-league/internal/domain"
)

type DeckAnalysis struct {
	Key     string
	Summary deckstats.Summary
	Missing []string
	Err     error
}

// AnalyzeDeck fetches the deck list behind a deck's source link and summarises
// it against the card database.
func (s *LeagueService) AnalyzeDeck(ctx context.Context, key string) (DeckAnalysis, error) {
	s.mu.Lock()
	id, err := s.store.FindDeck(key)
	var source string
	if err == nil {
		d, _ := s.store.League().Deck(id)
		source = d.Decklist
	}
	s.mu.Unlock()
	if err != nil {
		return DeckAnalysis{}, err
	}
	if source == "" {
		return DeckAnalysis{}, fmt.Errorf("%w: deck %q has no deck list link", domain.ErrInvalidInput, key)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.BulkDownloadTimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	var (
		cards   []domain.Card
		entries []domain.DeckEntry
	)
	g.Go(func() error {
		var err error
		cards, err = s.cards.Cards(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.decklists.Decklist(gCtx, source)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("deck", key).Msg("failed to fetch deck data")
		return DeckAnalysis{}, fmt.Errorf("failed to fetch deck data: %w", err)
	}

	a := analyze(deckstats.NewCardIndex(cards), key, entries)
	return a, a.Err
}

// AnalyzeAll summarises every deck with a source link. A deck that cannot be
// fetched or analysed carries its own error; the batch only fails when the
// card database is unavailable.
func (s *LeagueService) AnalyzeAll(ctx context.Context) ([]DeckAnalysis, error) {
	type target struct{ key, source string }

	s.mu.Lock()
	league := s.store.League()
	var targets []target
	for i, d := range league.Decks {
		if d.Decklist != "" {
			targets = append(targets, target{key: league.Key(domain.DeckID(i)), source: d.Decklist})
		}
	}
	s.mu.Unlock()

	cards, err := s.cards.Cards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load card database: %w", err)
	}
	idx := deckstats.NewCardIndex(cards)

	results := make([]DeckAnalysis, len(targets))
	var g errgroup.Group
	g.SetLimit(constants.AnalyzeConcurrency)
	for i, t := range targets {
		g.Go(func() error {
			apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
			defer cancel()

			entries, err := s.decklists.Decklist(apiCtx, t.source)
			if err != nil {
				results[i] = DeckAnalysis{Key: t.key, Err: fmt.Errorf("failed to fetch deck list: %w", err)}
				return nil
			}
			results[i] = analyze(idx, t.key, entries)
			return nil
		})
	}
	g.Wait()

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			s.logger.Warn().Err(r.Err).Str("deck", r.Key).Msg("deck analysis failed")
		}
	}
	s.logger.Info().Int("decks", len(results)).Int("failed", failed).Msg("deck analysis finished")
	return results, nil
}

func analyze(idx deckstats.CardIndex, key string, entries []domain.DeckEntry) DeckAnalysis {
	cards, missing := deckstats.Resolve(idx, entries)
	summary, err := deckstats.Analyze(cards)
	return DeckAnalysis{Key: key, Summary: summary, Missing: missing, Err: err}
}
