package api

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"commander-league/internal/config"
	"commander-league/internal/constants"
	"commander-league/internal/domain"
)

// ScryfallClient serves the oracle card bulk file, re-downloading it once the
// cached copy is older than the configured TTL.
type ScryfallClient struct {
	http    *httpClient
	baseURL string
	ttl     time.Duration
	logger  zerolog.Logger
	now     func() time.Time

	mu        sync.Mutex
	cards     []domain.Card
	fetchedAt time.Time
}

func NewScryfallClient(cfg *config.Config, logger zerolog.Logger) *ScryfallClient {
	logger = logger.With().Str("client", "scryfall").Logger()
	return &ScryfallClient{
		http:    newHTTPClient(constants.ScryfallRequestsPerSecond, constants.BulkDownloadTimeout, logger),
		baseURL: strings.TrimRight(cfg.ScryfallURL, "/"),
		ttl:     cfg.CardCacheTTL,
		logger:  logger,
		now:     time.Now,
	}
}

type BulkDataResponse struct {
	Object      string    `json:"object"`
	Type        string    `json:"type"`
	UpdatedAt   time.Time `json:"updated_at"`
	DownloadURI string    `json:"download_uri"`
	Size        int64     `json:"size"`
}

type CardFace struct {
	Name     string `json:"name"`
	ManaCost string `json:"mana_cost"`
	TypeLine string `json:"type_line"`
}

type ScryfallCard struct {
	Name       string             `json:"name"`
	CMC        float64            `json:"cmc"`
	ManaCost   string             `json:"mana_cost"`
	TypeLine   string             `json:"type_line"`
	EDHRecRank int                `json:"edhrec_rank"`
	Prices     map[string]*string `json:"prices"`
	CardFaces  []CardFace         `json:"card_faces"`
}

// Card converts the wire form. Multi-faced cards carry their costs on the
// faces; they are joined the way Scryfall joins names.
func (c ScryfallCard) Card() domain.Card {
	card := domain.Card{
		Name:           c.Name,
		ManaValue:      c.CMC,
		ManaCost:       c.ManaCost,
		TypeLine:       c.TypeLine,
		PopularityRank: c.EDHRecRank,
	}
	if card.ManaCost == "" && len(c.CardFaces) > 0 {
		costs := make([]string, 0, len(c.CardFaces))
		for _, f := range c.CardFaces {
			if f.ManaCost != "" {
				costs = append(costs, f.ManaCost)
			}
		}
		card.ManaCost = strings.Join(costs, " // ")
	}
	if card.TypeLine == "" && len(c.CardFaces) > 0 {
		card.TypeLine = c.CardFaces[0].TypeLine
	}
	for variant, raw := range c.Prices {
		if raw == nil {
			continue
		}
		// Only dollar prices are comparable.
		if !strings.HasPrefix(variant, "usd") {
			continue
		}
		if v, err := strconv.ParseFloat(*raw, 64); err == nil {
			if card.Prices == nil {
				card.Prices = make(map[string]float64)
			}
			card.Prices[variant] = v
		}
	}
	return card
}

// Cards returns the oracle card database.
func (c *ScryfallClient) Cards(ctx context.Context) ([]domain.Card, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cards != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.cards, nil
	}

	bulk, err := doRequest[BulkDataResponse](ctx, c.http, c.baseURL+"/bulk-data/oracle-cards")
	if err != nil {
		return nil, fmt.Errorf("failed to get bulk data: %w", err)
	}
	raw, err := doRequest[[]ScryfallCard](ctx, c.http, bulk.DownloadURI)
	if err != nil {
		return nil, fmt.Errorf("failed to download oracle cards: %w", err)
	}

	cards := make([]domain.Card, len(*raw))
	for i, rc := range *raw {
		cards[i] = rc.Card()
	}
	c.cards = cards
	c.fetchedAt = c.now()

	c.logger.Info().
		Int("cards", len(cards)).
		Time("updated_at", bulk.UpdatedAt).
		Msg("card database refreshed")
	return cards, nil
}
