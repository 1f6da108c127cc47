package fx

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"commander-league/internal/api"
	"commander-league/internal/config"
	"commander-league/internal/domain"
	"commander-league/internal/ledger"
	"commander-league/internal/logger"
	"commander-league/internal/matchmaker"
	"commander-league/internal/repository"
	"commander-league/internal/server"
	"commander-league/internal/service"
	"commander-league/internal/store"
)

func ProvideRules(cfg *config.Config) domain.Rules {
	return cfg.Rules
}

// ProvideRepository picks the storage backend named by STORE_BACKEND.
func ProvideRepository(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (store.Repository, error) {
	repo, closeRepo, err := repository.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := closeRepo(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			return nil
		},
	})
	return repo, nil
}

func ProvideSampler(rules domain.Rules, logger zerolog.Logger) (*matchmaker.Sampler, error) {
	seed, err := matchmaker.NewSeed()
	if err != nil {
		return nil, err
	}
	logger.Debug().Uint64("seed", seed).Msg("sampler seeded")
	return matchmaker.NewSeeded(seed, rules.PlayersPerGame), nil
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(ProvideRules),
	// storage
	fx.Provide(ProvideRepository),
	fx.Provide(store.New),
	// league engine
	fx.Provide(ledger.New),
	fx.Provide(ProvideSampler),
	// api clients
	fx.Provide(api.NewMoxfieldClient),
	fx.Provide(func(c *api.MoxfieldClient) service.CommanderResolver { return c }),
	fx.Provide(func(c *api.MoxfieldClient) service.DecklistSource { return c }),
	fx.Provide(fx.Annotate(
		api.NewScryfallClient,
		fx.As(new(service.CardDatabase)),
	)),
	// svc
	fx.Provide(service.NewLeagueService),
	// server
	fx.Provide(server.NewLeagueServer),
)
