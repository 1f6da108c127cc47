package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"commander-league/internal/config"
	"commander-league/internal/domain"
)

func testConfig(url string) *config.Config {
	return &config.Config{ScryfallURL: url, MoxfieldURL: url, CardCacheTTL: time.Hour}
}

func unthrottled(c *httpClient) {
	c.limiter = rate.NewLimiter(rate.Inf, 1)
}

const oracleCards = `[
  {"name": "Sol Ring", "cmc": 1, "mana_cost": "{1}", "type_line": "Artifact", "edhrec_rank": 1,
   "prices": {"usd": "1.50", "usd_foil": "3.25", "usd_etched": null, "eur": "1.10", "tix": "0.02"}},
  {"name": "Fire // Ice", "cmc": 4, "mana_cost": "", "type_line": "Instant // Instant", "edhrec_rank": 812,
   "card_faces": [{"name": "Fire", "mana_cost": "{1}{R}"}, {"name": "Ice", "mana_cost": "{1}{U}"}],
   "prices": {"usd": null}},
  {"name": "Forest", "cmc": 0, "mana_cost": "", "type_line": "Basic Land — Forest", "prices": {"usd": "0.20"}}
]`

func newScryfallServer(t *testing.T, downloads *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/bulk-data/oracle-cards", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"object": "bulk_data", "type": "oracle_cards", "updated_at": "2024-01-02T10:00:00+00:00", "download_uri": "%s/files/oracle.json"}`, srv.URL)
	})
	mux.HandleFunc("/files/oracle.json", func(w http.ResponseWriter, r *http.Request) {
		downloads.Add(1)
		w.Write([]byte(oracleCards))
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestScryfallCards(t *testing.T) {
	var downloads atomic.Int32
	srv := newScryfallServer(t, &downloads)

	c := NewScryfallClient(testConfig(srv.URL), zerolog.Nop())
	unthrottled(c.http)

	cards, err := c.Cards(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 3)

	assert.Equal(t, domain.Card{
		Name:           "Sol Ring",
		ManaValue:      1,
		ManaCost:       "{1}",
		TypeLine:       "Artifact",
		PopularityRank: 1,
		Prices:         map[string]float64{"usd": 1.5, "usd_foil": 3.25},
	}, cards[0])
	assert.Equal(t, "{1}{R} // {1}{U}", cards[1].ManaCost)
	assert.Nil(t, cards[1].Prices)
	assert.True(t, cards[2].IsBasicLand())
}

func TestScryfallCachesUntilTTL(t *testing.T) {
	var downloads atomic.Int32
	srv := newScryfallServer(t, &downloads)

	c := NewScryfallClient(testConfig(srv.URL), zerolog.Nop())
	unthrottled(c.http)
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	for range 3 {
		_, err := c.Cards(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), downloads.Load())

	now = now.Add(2 * time.Hour)
	_, err := c.Cards(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), downloads.Load())
}

func TestScryfallErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewScryfallClient(testConfig(srv.URL), zerolog.Nop())
	unthrottled(c.http)
	_, err := c.Cards(context.Background())
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestDeckID(t *testing.T) {
	tests := []struct {
		link    string
		want    string
		wantErr bool
	}{
		{link: "https://www.moxfield.com/decks/zD3I9kSPaUmDmPIrIk_Mtg", want: "zD3I9kSPaUmDmPIrIk_Mtg"},
		{link: "https://moxfield.com/decks/abc/", want: "abc"},
		{link: "https://www.moxfield.com/users/DrSull", wantErr: true},
		{link: "https://archidekt.com/decks/123", wantErr: true},
		{link: "not a url at all", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			got, err := DeckID(tt.link)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

const partnerDeck = `{
  "publicId": "abc",
  "name": "Blue Farm",
  "commanders": {
    "Tymna the Weaver": {"quantity": 1, "card": {"name": "Tymna the Weaver"}},
    "Kraum, Ludevic's Opus": {"quantity": 1, "card": {"name": "Kraum, Ludevic's Opus"}}
  },
  "mainboard": {
    "Sol Ring": {"quantity": 1, "card": {"name": "Sol Ring"}},
    "Island": {"quantity": 3, "card": {"name": "Island"}}
  }
}`

func newMoxfieldServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/decks/all/abc", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(partnerDeck))
	})
	mux.HandleFunc("/v2/decks/all/nocommander", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"publicId": "nocommander", "commanders": {}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestMoxfieldCommanderName(t *testing.T) {
	c := NewMoxfieldClient(testConfig(newMoxfieldServer(t).URL), zerolog.Nop())
	unthrottled(c.http)

	name, err := c.CommanderName(context.Background(), "https://www.moxfield.com/decks/abc")
	require.NoError(t, err)
	assert.Equal(t, "Kraum, Ludevic's Opus / Tymna the Weaver", name)

	_, err = c.CommanderName(context.Background(), "https://www.moxfield.com/decks/nocommander")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.CommanderName(context.Background(), "https://www.moxfield.com/decks/missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMoxfieldDecklist(t *testing.T) {
	c := NewMoxfieldClient(testConfig(newMoxfieldServer(t).URL), zerolog.Nop())
	unthrottled(c.http)

	entries, err := c.Decklist(context.Background(), "https://www.moxfield.com/decks/abc")
	require.NoError(t, err)
	assert.Equal(t, []domain.DeckEntry{
		{Quantity: 1, Name: "Kraum, Ludevic's Opus"},
		{Quantity: 1, Name: "Tymna the Weaver"},
		{Quantity: 3, Name: "Island"},
		{Quantity: 1, Name: "Sol Ring"},
	}, entries)
}

func TestRequestsArePaced(t *testing.T) {
	srv := newMoxfieldServer(t)
	c := NewMoxfieldClient(testConfig(srv.URL), zerolog.Nop())
	c.http.limiter = rate.NewLimiter(rate.Every(50*time.Millisecond), 1)

	start := time.Now()
	for range 3 {
		_, err := c.CommanderName(context.Background(), "https://www.moxfield.com/decks/abc")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}
