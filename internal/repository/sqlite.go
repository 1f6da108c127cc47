package repository

import (
	"context"
	"database/sql"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"commander-league/internal/domain"
)

// SQLiteRepository stores the league in the tables created by the database
// migrations. Rows keep their position so a load returns records in the
// order they were saved.
type SQLiteRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSQLiteRepository(sqlDB *sql.DB, logger zerolog.Logger) *SQLiteRepository {
	return &SQLiteRepository{
		db:     sqlDB,
		logger: logger.With().Str("repository", "sqlite").Logger(),
	}
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{}

	players, err := r.db.QueryContext(ctx,
		`SELECT name, rating, gold, wins, losses FROM players ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer players.Close()
	for players.Next() {
		var p domain.PlayerRecord
		if err := players.Scan(&p.Name, &p.Rating, &p.Gold, &p.Wins, &p.Losses); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		snap.Players = append(snap.Players, p)
	}
	if err := players.Err(); err != nil {
		return nil, fmt.Errorf("failed to read players: %w", err)
	}

	decks, err := r.db.QueryContext(ctx,
		`SELECT owner, commander, decklist, rating, wins, losses FROM decks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query decks: %w", err)
	}
	defer decks.Close()
	for decks.Next() {
		var d domain.DeckRecord
		if err := decks.Scan(&d.Owner, &d.Commander, &d.Decklist, &d.Rating, &d.Wins, &d.Losses); err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		snap.Decks = append(snap.Decks, d)
	}
	if err := decks.Err(); err != nil {
		return nil, fmt.Errorf("failed to read decks: %w", err)
	}

	if snap.Games, err = r.loadGames(ctx); err != nil {
		return nil, err
	}

	r.logger.Debug().
		Int("players", len(snap.Players)).
		Int("decks", len(snap.Decks)).
		Int("games", len(snap.Games)).
		Msg("records read")
	return snap, nil
}

func (r *SQLiteRepository) loadGames(ctx context.Context) ([]domain.GameRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.id, g.date, g.winner, g.has_decks, gd.deck_key
		FROM games g
		LEFT JOIN game_decks gd ON gd.game_id = g.id
		ORDER BY g.position, gd.seat`)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var (
		games  []domain.GameRecord
		lastID string
	)
	for rows.Next() {
		var (
			id, date, winner string
			hasDecks         bool
			key              sql.NullString
		)
		if err := rows.Scan(&id, &date, &winner, &hasDecks, &key); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		if id != lastID {
			g := domain.GameRecord{Date: date, Winner: winner}
			if hasDecks {
				g.Decks = []string{}
			}
			games = append(games, g)
			lastID = id
		}
		if key.Valid {
			last := &games[len(games)-1]
			last.Decks = append(last.Decks, key.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read games: %w", err)
	}
	return games, nil
}

// Save replaces every stored row inside one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, snap *domain.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"game_decks", "games", "decks", "players"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, p := range snap.Players {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO players (position, name, rating, gold, wins, losses) VALUES (?, ?, ?, ?, ?, ?)`,
			i, p.Name, p.Rating, p.Gold, p.Wins, p.Losses)
		if err != nil {
			return fmt.Errorf("failed to insert player %q: %w", p.Name, err)
		}
	}

	for i, d := range snap.Decks {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO decks (position, owner, commander, decklist, rating, wins, losses) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i, d.Owner, d.Commander, d.Decklist, d.Rating, d.Wins, d.Losses)
		if err != nil {
			return fmt.Errorf("failed to insert deck %q: %w", domain.DeckKey(d.Commander, d.Owner), err)
		}
	}

	for i, g := range snap.Games {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO games (id, position, date, winner, has_decks) VALUES (?, ?, ?, ?, ?)`,
			id, i, g.Date, g.Winner, g.Decks != nil)
		if err != nil {
			return fmt.Errorf("failed to insert game %d: %w", i, err)
		}
		for seat, key := range g.Decks {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO game_decks (game_id, seat, deck_key) VALUES (?, ?, ?)`,
				id, seat, key)
			if err != nil {
				return fmt.Errorf("failed to insert game %d seat %d: %w", i, seat, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit league: %w", err)
	}

	r.logger.Debug().
		Int("players", len(snap.Players)).
		Int("decks", len(snap.Decks)).
		Int("games", len(snap.Games)).
		Msg("records written")
	return nil
}
