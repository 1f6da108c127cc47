package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"commander-league/internal/domain"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

type Config struct {
	DataDir      string
	StoreBackend string
	DBPath       string
	ServerPort   string
	LogLevel     string
	RulesPath    string
	ScryfallURL  string
	MoxfieldURL  string
	CardCacheTTL time.Duration
	Rules        domain.Rules
}

// rulesFile is the layout of the optional LEAGUE_RULES file.
type rulesFile struct {
	Rules domain.Rules `toml:"rules"`
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DataDir:      getEnv("DATA_DIR", "data"),
		StoreBackend: getEnv("STORE_BACKEND", BackendJSON),
		DBPath:       getEnv("DB_PATH", "league.db"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		RulesPath:    getEnv("LEAGUE_RULES", ""),
		ScryfallURL:  getEnv("SCRYFALL_URL", "https://api.scryfall.com"),
		MoxfieldURL:  getEnv("MOXFIELD_URL", "https://api2.moxfield.com"),
		Rules:        domain.DefaultRules(),
	}

	ttl, err := time.ParseDuration(getEnv("CARD_CACHE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CARD_CACHE_TTL: %w", err)
	}
	cfg.CardCacheTTL = ttl

	if cfg.StoreBackend != BackendJSON && cfg.StoreBackend != BackendSQLite {
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendJSON, BackendSQLite, cfg.StoreBackend)
	}

	if cfg.RulesPath != "" {
		rules, err := LoadRules(cfg.RulesPath)
		if err != nil {
			return nil, err
		}
		cfg.Rules = rules
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid league rules: %w", err)
	}

	logger.Info().
		Str("data_dir", cfg.DataDir).
		Str("store_backend", cfg.StoreBackend).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("card_cache_ttl", cfg.CardCacheTTL).
		Int("k_factor", cfg.Rules.KFactor).
		Int("d_factor", cfg.Rules.DFactor).
		Int("gold_ante", cfg.Rules.GoldAnte).
		Msg("configuration loaded")

	return cfg, nil
}

// LoadRules reads a TOML rules file. Keys it leaves out keep their defaults.
func LoadRules(path string) (domain.Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Rules{}, fmt.Errorf("read rules file: %w", err)
	}

	file := rulesFile{Rules: domain.DefaultRules()}
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.Rules{}, fmt.Errorf("parse rules file: %w", err)
	}
	if err := file.Rules.Validate(); err != nil {
		return domain.Rules{}, fmt.Errorf("invalid league rules: %w", err)
	}
	return file.Rules, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
