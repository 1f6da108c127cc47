package constants

import "time"

const (
	ExternalAPITimeout  = 30 * time.Second
	BulkDownloadTimeout = 5 * time.Minute
	DatabaseTimeout     = 5 * time.Second
	RequestTimeout      = 30 * time.Second
)

const (
	DBMaxOpenConns    = 1
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 1 * time.Hour
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	PlayersFile = "players.json"
	DecksFile   = "decks.json"
	GamesFile   = "games.json"
)

// Outbound request pacing. Scryfall asks for no more than ten requests a
// second; Moxfield is stricter.
const (
	ScryfallRequestsPerSecond = 10
	MoxfieldRequestsPerSecond = 1
	UserAgent                 = "commander-league/1.0"
)

const (
	AnalyzeConcurrency = 4
	MaxSimulatedRounds = 100000
)
