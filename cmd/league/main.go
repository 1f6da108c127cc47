package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"commander-league/internal/api"
	"commander-league/internal/config"
	"commander-league/internal/deckstats"
	"commander-league/internal/domain"
	"commander-league/internal/ledger"
	"commander-league/internal/logger"
	"commander-league/internal/matchmaker"
	"commander-league/internal/repository"
	"commander-league/internal/store"
)

var CLI struct {
	Debug bool `help:"Enable debug logging."`

	Leaderboard struct {
	} `cmd:"" help:"Print deck and player standings recomputed from the game ledger."`

	Replay struct {
	} `cmd:"" help:"Recompute standings from the game ledger and save them."`

	Simulate struct {
		Rounds int    `help:"Number of random games to play." default:"100"`
		Seed   uint64 `help:"Random seed; 0 picks one."`
	} `cmd:"" help:"Play random games on a copy of the league and print the standings."`

	Pair struct {
		Players []string `arg:"" optional:"" help:"Players at the table; four random owners when omitted."`
		Seed    uint64   `help:"Random seed; 0 picks one."`
	} `cmd:"" help:"Suggest a random deck for each player."`

	Analyze struct {
		Decklist string `arg:"" help:"Exported deck list file." type:"existingfile"`
		Cards    string `help:"Scryfall oracle cards bulk file." required:"" type:"existingfile"`
	} `cmd:"" help:"Summarise a deck list against a card database file."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("league"),
		kong.Description("commander league standings and deck tools"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	level := logger.ParseLevel(os.Getenv("LOG_LEVEL"))
	if CLI.Debug {
		level = zerolog.DebugLevel
	}
	log := logger.NewConsole(os.Stderr, level)

	var err error
	switch ctx.Command() {
	case "leaderboard":
		err = leaderboardCommand(os.Stdout, log)
	case "replay":
		err = replayCommand(os.Stdout, log)
	case "simulate":
		err = simulateCommand(os.Stdout, log, CLI.Simulate.Rounds, CLI.Simulate.Seed)
	case "pair", "pair <players>":
		err = pairCommand(os.Stdout, log, CLI.Pair.Players, CLI.Pair.Seed)
	case "analyze <decklist>":
		err = analyzeCommand(os.Stdout, CLI.Analyze.Decklist, CLI.Analyze.Cards)
	}
	if err != nil {
		writeError(err)
	}
}

// openStore loads the league from the configured backend.
func openStore(log zerolog.Logger) (*config.Config, *store.Store, func() error, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return nil, nil, nil, err
	}
	repo, closeRepo, err := repository.Open(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	st := store.New(repo, cfg.Rules, log)
	if _, err := st.Load(context.Background()); err != nil {
		closeRepo()
		return nil, nil, nil, err
	}
	return cfg, st, closeRepo, nil
}

func leaderboardCommand(w io.Writer, log zerolog.Logger) error {
	cfg, st, closeRepo, err := openStore(log)
	if err != nil {
		return err
	}
	defer closeRepo()

	league := st.Snapshot()
	ledger.New(cfg.Rules, log).Replay(league)
	return printLeaderboard(w, ledger.Standings(league))
}

func replayCommand(w io.Writer, log zerolog.Logger) error {
	cfg, st, closeRepo, err := openStore(log)
	if err != nil {
		return err
	}
	defer closeRepo()

	l := ledger.New(cfg.Rules, log)
	var report ledger.ReplayReport
	err = st.Update(context.Background(), func(league *domain.League) error {
		report = l.Replay(league)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "applied %d games, skipped %d\n", report.Applied, len(report.Skipped))
	for _, s := range report.Skipped {
		fmt.Fprintf(w, "  game %d (%s): %v\n", s.Index+1, s.Date, s.Err)
	}
	return nil
}

func newSampler(seed uint64, size int) (*matchmaker.Sampler, error) {
	if seed == 0 {
		var err error
		if seed, err = matchmaker.NewSeed(); err != nil {
			return nil, err
		}
	}
	return matchmaker.NewSeeded(seed, size), nil
}

func simulateCommand(w io.Writer, log zerolog.Logger, rounds int, seed uint64) error {
	cfg, st, closeRepo, err := openStore(log)
	if err != nil {
		return err
	}
	defer closeRepo()

	sampler, err := newSampler(seed, cfg.Rules.PlayersPerGame)
	if err != nil {
		return err
	}
	board, err := sampler.Simulate(st.League(), rounds, ledger.New(cfg.Rules, zerolog.Nop()))
	if err != nil {
		return err
	}
	return printLeaderboard(w, board)
}

func pairCommand(w io.Writer, log zerolog.Logger, players []string, seed uint64) error {
	cfg, st, closeRepo, err := openStore(log)
	if err != nil {
		return err
	}
	defer closeRepo()

	sampler, err := newSampler(seed, cfg.Rules.PlayersPerGame)
	if err != nil {
		return err
	}
	decks, err := sampler.Sample(st.League(), players)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, matchmaker.Pairing(st.League(), decks))
	return nil
}

func analyzeCommand(w io.Writer, decklistPath, cardsPath string) error {
	text, err := os.ReadFile(decklistPath)
	if err != nil {
		return fmt.Errorf("read deck list: %w", err)
	}
	entries, err := deckstats.ParseDecklist(string(text))
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cardsPath)
	if err != nil {
		return fmt.Errorf("read card database: %w", err)
	}
	var raw []api.ScryfallCard
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse card database: %w", err)
	}
	cards := make([]domain.Card, len(raw))
	for i, c := range raw {
		cards[i] = c.Card()
	}

	resolved, missing := deckstats.Resolve(deckstats.NewCardIndex(cards), entries)
	summary, err := deckstats.Analyze(resolved)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "cards\t%d\n", summary.CardCount)
	fmt.Fprintf(tw, "lands\t%d\n", summary.LandCount)
	fmt.Fprintf(tw, "average mana value\t%.2f\n", summary.AverageManaValue)
	fmt.Fprintf(tw, "popularity score\t%d\n", summary.PopularityScore)
	pips := make([]string, len(deckstats.Colors))
	for i, c := range deckstats.Colors {
		pips[i] = fmt.Sprintf("%c:%d", c, summary.ColorPips[i])
	}
	fmt.Fprintf(tw, "color pips\t%s\n", strings.Join(pips, " "))
	fmt.Fprintf(tw, "price\t$%.2f\n", summary.Price)
	if len(missing) > 0 {
		fmt.Fprintf(tw, "not found\t%s\n", strings.Join(missing, "; "))
	}
	return tw.Flush()
}

func printLeaderboard(w io.Writer, board ledger.Leaderboard) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDECK\tRATING\tW\tL")
	for i, d := range board.Decks {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\n", i+1, d.Key, d.Rating, d.Wins, d.Losses)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "#\tPLAYER\tGOLD\tRATING\tW\tL")
	for i, p := range board.Players {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\n", i+1, p.Name, p.Gold, p.Rating, p.Wins, p.Losses)
	}
	return tw.Flush()
}
