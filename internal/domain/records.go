package domain

// Flat persisted records. Cross references are stored by name: a deck by its
// owner's name, a game by composite deck keys.

type PlayerRecord struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
	Gold   int    `json:"gold"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

type DeckRecord struct {
	Owner     string `json:"owner"`
	Commander string `json:"commander"`
	Decklist  string `json:"decklist"`
	Rating    int    `json:"rating"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
}

type GameRecord struct {
	Date   string   `json:"date"`
	Winner string   `json:"winner"`
	Decks  []string `json:"decks"`
}

type Snapshot struct {
	Players []PlayerRecord
	Decks   []DeckRecord
	Games   []GameRecord
}
