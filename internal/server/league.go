package server

import (
	"context"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"

	"commander-league/internal/ledger"
	"commander-league/internal/service"
)

type LeagueServer struct {
	svc    *service.LeagueService
	logger zerolog.Logger
}

func NewLeagueServer(svc *service.LeagueService, logger zerolog.Logger) *LeagueServer {
	return &LeagueServer{svc: svc, logger: logger}
}

func (s *LeagueServer) GetLeaderboard(ctx context.Context, req *connect.Request[GetLeaderboardRequest]) (*connect.Response[LeaderboardResponse], error) {
	return connect.NewResponse(toLeaderboard(s.svc.Leaderboard())), nil
}

func (s *LeagueServer) RegisterGame(ctx context.Context, req *connect.Request[RegisterGameRequest]) (*connect.Response[RegisterGameResponse], error) {
	g, err := s.svc.RegisterGame(ctx, req.Msg.Date, req.Msg.Winner, req.Msg.Decks)
	if err != nil {
		return nil, s.fail("RegisterGame", err)
	}
	return connect.NewResponse(&RegisterGameResponse{
		Date:        g.Date,
		Leaderboard: toLeaderboard(s.svc.Leaderboard()),
	}), nil
}

func (s *LeagueServer) AddDecks(ctx context.Context, req *connect.Request[AddDecksRequest]) (*connect.Response[AddDecksResponse], error) {
	res, err := s.svc.AddDecks(ctx, req.Msg.Owner, req.Msg.Text)
	if err != nil {
		return nil, s.fail("AddDecks", err)
	}
	resp := &AddDecksResponse{Added: res.Added, Skipped: res.Skipped}
	if resp.Added == nil {
		resp.Added = []string{}
	}
	for _, f := range res.Failed {
		resp.Failed = append(resp.Failed, FailedLink{Link: f.Link, Error: f.Err.Error()})
	}
	return connect.NewResponse(resp), nil
}

func (s *LeagueServer) RandomDecks(ctx context.Context, req *connect.Request[RandomDecksRequest]) (*connect.Response[RandomDecksResponse], error) {
	p, err := s.svc.RandomDecks(req.Msg.Players)
	if err != nil {
		return nil, s.fail("RandomDecks", err)
	}
	return connect.NewResponse(&RandomDecksResponse{Decks: p.Keys, Pairing: p.Text}), nil
}

func (s *LeagueServer) AnalyzeDeck(ctx context.Context, req *connect.Request[AnalyzeDeckRequest]) (*connect.Response[AnalyzeDeckResponse], error) {
	a, err := s.svc.AnalyzeDeck(ctx, req.Msg.Deck)
	if err != nil {
		return nil, s.fail("AnalyzeDeck", err)
	}
	return connect.NewResponse(&AnalyzeDeckResponse{
		Deck:             a.Key,
		AverageManaValue: a.Summary.AverageManaValue,
		PopularityScore:  a.Summary.PopularityScore,
		ColorPips:        a.Summary.Pips(),
		CardCount:        a.Summary.CardCount,
		LandCount:        a.Summary.LandCount,
		Price:            a.Summary.Price,
		MissingCards:     a.Missing,
	}), nil
}

func (s *LeagueServer) Simulate(ctx context.Context, req *connect.Request[SimulateRequest]) (*connect.Response[LeaderboardResponse], error) {
	board, err := s.svc.Simulate(req.Msg.Rounds)
	if err != nil {
		return nil, s.fail("Simulate", err)
	}
	return connect.NewResponse(toLeaderboard(board)), nil
}

func (s *LeagueServer) fail(procedure string, err error) error {
	ce := toConnectError(err)
	if ce.Code() == connect.CodeInternal {
		s.logger.Error().Err(err).Str("procedure", procedure).Msg("request failed")
	} else {
		s.logger.Debug().Err(err).Str("procedure", procedure).Str("code", ce.Code().String()).Msg("request rejected")
	}
	return ce
}

func toLeaderboard(board ledger.Leaderboard) *LeaderboardResponse {
	resp := &LeaderboardResponse{
		Decks:   make([]DeckStanding, len(board.Decks)),
		Players: make([]PlayerStanding, len(board.Players)),
	}
	for i, d := range board.Decks {
		resp.Decks[i] = DeckStanding{Rank: i + 1, Key: d.Key, Rating: d.Rating, Wins: d.Wins, Losses: d.Losses}
	}
	for i, p := range board.Players {
		resp.Players[i] = PlayerStanding{Rank: i + 1, Name: p.Name, Rating: p.Rating, Gold: p.Gold, Wins: p.Wins, Losses: p.Losses}
	}
	return resp
}
