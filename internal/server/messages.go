package server

// Wire messages for league.v1.LeagueService. They travel as JSON.

type DeckStanding struct {
	Rank   int    `json:"rank"`
	Key    string `json:"key"`
	Rating int    `json:"rating"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

type PlayerStanding struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Rating int    `json:"rating"`
	Gold   int    `json:"gold"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

type GetLeaderboardRequest struct{}

type LeaderboardResponse struct {
	Decks   []DeckStanding   `json:"decks"`
	Players []PlayerStanding `json:"players"`
}

type RegisterGameRequest struct {
	Date   string   `json:"date,omitempty"`
	Winner string   `json:"winner"`
	Decks  []string `json:"decks"`
}

type RegisterGameResponse struct {
	Date        string               `json:"date"`
	Leaderboard *LeaderboardResponse `json:"leaderboard"`
}

type AddDecksRequest struct {
	Owner string `json:"owner"`
	Text  string `json:"text"`
}

type FailedLink struct {
	Link  string `json:"link"`
	Error string `json:"error"`
}

type AddDecksResponse struct {
	Added   []string     `json:"added"`
	Failed  []FailedLink `json:"failed,omitempty"`
	Skipped int          `json:"skipped"`
}

type RandomDecksRequest struct {
	Players []string `json:"players,omitempty"`
}

type RandomDecksResponse struct {
	Decks   []string `json:"decks"`
	Pairing string   `json:"pairing"`
}

type AnalyzeDeckRequest struct {
	Deck string `json:"deck"`
}

type AnalyzeDeckResponse struct {
	Deck             string         `json:"deck"`
	AverageManaValue float64        `json:"average_mana_value"`
	PopularityScore  int            `json:"popularity_score"`
	ColorPips        map[string]int `json:"color_pips"`
	CardCount        int            `json:"card_count"`
	LandCount        int            `json:"land_count"`
	Price            float64        `json:"price"`
	MissingCards     []string       `json:"missing_cards,omitempty"`
}

type SimulateRequest struct {
	Rounds int `json:"rounds"`
}
