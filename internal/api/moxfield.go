package api

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"commander-league/internal/config"
	"commander-league/internal/constants"
	"commander-league/internal/domain"
)

// MoxfieldClient reads public decks through the deck site's JSON API.
type MoxfieldClient struct {
	http    *httpClient
	baseURL string
	logger  zerolog.Logger
}

func NewMoxfieldClient(cfg *config.Config, logger zerolog.Logger) *MoxfieldClient {
	logger = logger.With().Str("client", "moxfield").Logger()
	return &MoxfieldClient{
		http:    newHTTPClient(constants.MoxfieldRequestsPerSecond, constants.ExternalAPITimeout, logger),
		baseURL: strings.TrimRight(cfg.MoxfieldURL, "/"),
		logger:  logger,
	}
}

type BoardEntry struct {
	Quantity int `json:"quantity"`
	Card     struct {
		Name string `json:"name"`
	} `json:"card"`
}

type DeckResponse struct {
	PublicID   string                `json:"publicId"`
	Name       string                `json:"name"`
	Commanders map[string]BoardEntry `json:"commanders"`
	Mainboard  map[string]BoardEntry `json:"mainboard"`
}

// DeckID extracts the public deck id from a deck page link such as
// https://www.moxfield.com/decks/zD3I9kSPaUmDmPIrIk_Mtg.
func DeckID(link string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !strings.HasSuffix(u.Hostname(), "moxfield.com") {
		return "", fmt.Errorf("%w: %q is not a moxfield link", domain.ErrInvalidInput, link)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 2 || parts[0] != "decks" || parts[1] == "" {
		return "", fmt.Errorf("%w: %q is not a deck link", domain.ErrInvalidInput, link)
	}
	return parts[1], nil
}

func (c *MoxfieldClient) deck(ctx context.Context, link string) (*DeckResponse, error) {
	id, err := DeckID(link)
	if err != nil {
		return nil, err
	}
	deck, err := doRequest[DeckResponse](ctx, c.http, c.baseURL+"/v2/decks/all/"+url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get deck %s: %w", id, err)
	}
	return deck, nil
}

// CommanderName resolves a deck link to its commander. Partner pairs are
// joined as "A / B" in name order.
func (c *MoxfieldClient) CommanderName(ctx context.Context, link string) (string, error) {
	deck, err := c.deck(ctx, link)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(deck.Commanders))
	for _, e := range deck.Commanders {
		names = append(names, e.Card.Name)
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: deck %s has no commander", domain.ErrInvalidInput, deck.PublicID)
	}
	slices.Sort(names)
	return strings.Join(names, " / "), nil
}

// Decklist returns the commanders and main deck as deck list entries.
func (c *MoxfieldClient) Decklist(ctx context.Context, link string) ([]domain.DeckEntry, error) {
	deck, err := c.deck(ctx, link)
	if err != nil {
		return nil, err
	}
	entries := append(boardEntries(deck.Commanders), boardEntries(deck.Mainboard)...)
	c.logger.Debug().Str("deck", deck.PublicID).Int("entries", len(entries)).Msg("deck list fetched")
	return entries, nil
}

func boardEntries(board map[string]BoardEntry) []domain.DeckEntry {
	entries := make([]domain.DeckEntry, 0, len(board))
	for _, e := range board {
		entries = append(entries, domain.DeckEntry{Quantity: e.Quantity, Name: e.Card.Name})
	}
	slices.SortFunc(entries, func(a, b domain.DeckEntry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return entries
}
