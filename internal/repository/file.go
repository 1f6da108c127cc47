package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"commander-league/internal/config"
	"commander-league/internal/constants"
	"commander-league/internal/domain"
)

// FileRepository keeps each collection in its own JSON file under a data
// directory. Every save rewrites all three files.
type FileRepository struct {
	dir    string
	logger zerolog.Logger
}

func NewFileRepository(dir string, logger zerolog.Logger) *FileRepository {
	return &FileRepository{
		dir:    dir,
		logger: logger.With().Str("repository", "file").Logger(),
	}
}

func NewFileRepositoryFromConfig(cfg *config.Config, logger zerolog.Logger) *FileRepository {
	return NewFileRepository(cfg.DataDir, logger)
}

func (r *FileRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{}
	if err := r.read(constants.PlayersFile, &snap.Players); err != nil {
		return nil, err
	}
	if err := r.read(constants.DecksFile, &snap.Decks); err != nil {
		return nil, err
	}
	if err := r.read(constants.GamesFile, &snap.Games); err != nil {
		return nil, err
	}

	r.logger.Debug().
		Str("dir", r.dir).
		Int("players", len(snap.Players)).
		Int("decks", len(snap.Decks)).
		Int("games", len(snap.Games)).
		Msg("records read")
	return snap, nil
}

func (r *FileRepository) Save(ctx context.Context, snap *domain.Snapshot) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := r.write(constants.PlayersFile, emptyIfNil(snap.Players)); err != nil {
		return err
	}
	if err := r.write(constants.DecksFile, emptyIfNil(snap.Decks)); err != nil {
		return err
	}
	if err := r.write(constants.GamesFile, emptyIfNil(snap.Games)); err != nil {
		return err
	}
	return nil
}

func (r *FileRepository) read(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.Debug().Str("file", name).Msg("records file not found, starting empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidRecord, name, err)
	}
	return nil
}

// write replaces name atomically by renaming a fully written sibling over it.
func (r *FileRepository) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(r.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(r.dir, name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
