package server

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	LeagueServiceName = "league.v1.LeagueService"

	GetLeaderboardProcedure = "/league.v1.LeagueService/GetLeaderboard"
	RegisterGameProcedure   = "/league.v1.LeagueService/RegisterGame"
	AddDecksProcedure       = "/league.v1.LeagueService/AddDecks"
	RandomDecksProcedure    = "/league.v1.LeagueService/RandomDecks"
	AnalyzeDeckProcedure    = "/league.v1.LeagueService/AnalyzeDeck"
	SimulateProcedure       = "/league.v1.LeagueService/Simulate"
)

// NewLeagueServiceHandler builds the HTTP handler for the service and returns
// the path to mount it on.
func NewLeagueServiceHandler(s *LeagueServer, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	handlers := map[string]http.Handler{
		GetLeaderboardProcedure: connect.NewUnaryHandler(GetLeaderboardProcedure, s.GetLeaderboard, opts...),
		RegisterGameProcedure:   connect.NewUnaryHandler(RegisterGameProcedure, s.RegisterGame, opts...),
		AddDecksProcedure:       connect.NewUnaryHandler(AddDecksProcedure, s.AddDecks, opts...),
		RandomDecksProcedure:    connect.NewUnaryHandler(RandomDecksProcedure, s.RandomDecks, opts...),
		AnalyzeDeckProcedure:    connect.NewUnaryHandler(AnalyzeDeckProcedure, s.AnalyzeDeck, opts...),
		SimulateProcedure:       connect.NewUnaryHandler(SimulateProcedure, s.Simulate, opts...),
	}

	return "/" + LeagueServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// LeagueServiceClient calls the service over HTTP with the same JSON codec.
type LeagueServiceClient struct {
	getLeaderboard *connect.Client[GetLeaderboardRequest, LeaderboardResponse]
	registerGame   *connect.Client[RegisterGameRequest, RegisterGameResponse]
	addDecks       *connect.Client[AddDecksRequest, AddDecksResponse]
	randomDecks    *connect.Client[RandomDecksRequest, RandomDecksResponse]
	analyzeDeck    *connect.Client[AnalyzeDeckRequest, AnalyzeDeckResponse]
	simulate       *connect.Client[SimulateRequest, LeaderboardResponse]
}

func NewLeagueServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LeagueServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &LeagueServiceClient{
		getLeaderboard: connect.NewClient[GetLeaderboardRequest, LeaderboardResponse](httpClient, baseURL+GetLeaderboardProcedure, opts...),
		registerGame:   connect.NewClient[RegisterGameRequest, RegisterGameResponse](httpClient, baseURL+RegisterGameProcedure, opts...),
		addDecks:       connect.NewClient[AddDecksRequest, AddDecksResponse](httpClient, baseURL+AddDecksProcedure, opts...),
		randomDecks:    connect.NewClient[RandomDecksRequest, RandomDecksResponse](httpClient, baseURL+RandomDecksProcedure, opts...),
		analyzeDeck:    connect.NewClient[AnalyzeDeckRequest, AnalyzeDeckResponse](httpClient, baseURL+AnalyzeDeckProcedure, opts...),
		simulate:       connect.NewClient[SimulateRequest, LeaderboardResponse](httpClient, baseURL+SimulateProcedure, opts...),
	}
}

func (c *LeagueServiceClient) GetLeaderboard(ctx context.Context, req *GetLeaderboardRequest) (*LeaderboardResponse, error) {
	return call(ctx, c.getLeaderboard, req)
}

func (c *LeagueServiceClient) RegisterGame(ctx context.Context, req *RegisterGameRequest) (*RegisterGameResponse, error) {
	return call(ctx, c.registerGame, req)
}

func (c *LeagueServiceClient) AddDecks(ctx context.Context, req *AddDecksRequest) (*AddDecksResponse, error) {
	return call(ctx, c.addDecks, req)
}

func (c *LeagueServiceClient) RandomDecks(ctx context.Context, req *RandomDecksRequest) (*RandomDecksResponse, error) {
	return call(ctx, c.randomDecks, req)
}

func (c *LeagueServiceClient) AnalyzeDeck(ctx context.Context, req *AnalyzeDeckRequest) (*AnalyzeDeckResponse, error) {
	return call(ctx, c.analyzeDeck, req)
}

func (c *LeagueServiceClient) Simulate(ctx context.Context, req *SimulateRequest) (*LeaderboardResponse, error) {
	return call(ctx, c.simulate, req)
}

func call[Req, Res any](ctx context.Context, c *connect.Client[Req, Res], req *Req) (*Res, error) {
	resp, err := c.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}
