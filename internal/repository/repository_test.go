package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commander-league/internal/database"
	"commander-league/internal/domain"
	"commander-league/internal/store"
)

var (
	_ store.Repository = (*FileRepository)(nil)
	_ store.Repository = (*SQLiteRepository)(nil)
)

func fixture() *domain.Snapshot {
	return &domain.Snapshot{
		Players: []domain.PlayerRecord{
			{Name: "DrSull", Rating: 1045, Gold: 75, Wins: 1},
			{Name: "ostertoaster10", Rating: 985, Gold: -25, Losses: 1},
		},
		Decks: []domain.DeckRecord{
			{Owner: "DrSull", Commander: "Edgar Markov", Decklist: "https://www.moxfield.com/decks/a", Rating: 1045, Wins: 1},
			{Owner: "ostertoaster10", Commander: "Rograkh, Son of Rohgahh / Silas Renn, Seeker Adept", Decklist: "https://www.moxfield.com/decks/b", Rating: 985, Losses: 1},
		},
		Games: []domain.GameRecord{
			{
				Date:   "03-04-2023",
				Winner: "Edgar Markov (DrSull)",
				Decks:  []string{"Edgar Markov (DrSull)", "Rograkh, Son of Rohgahh / Silas Renn, Seeker Adept (ostertoaster10)"},
			},
			{Date: "03-05-2023", Winner: "Gone (nobody)", Decks: []string{}},
			{Date: "", Winner: ""},
		},
	}
}

func TestFileRepositoryMissingFilesLoadEmpty(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "absent"), zerolog.Nop())

	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Players)
	assert.Empty(t, snap.Decks)
	assert.Empty(t, snap.Games)
}

func TestFileRepositoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileRepository(dir, zerolog.Nop())

	require.NoError(t, repo.Save(context.Background(), fixture()))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixture(), got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"players.json", "decks.json", "games.json"}, names)
}

func TestFileRepositoryOverwrites(t *testing.T) {
	repo := NewFileRepository(t.TempDir(), zerolog.Nop())
	require.NoError(t, repo.Save(context.Background(), fixture()))

	smaller := &domain.Snapshot{Players: []domain.PlayerRecord{{Name: "solo", Rating: 1000}}}
	require.NoError(t, repo.Save(context.Background(), smaller))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, smaller.Players, got.Players)
	assert.Empty(t, got.Decks)
	assert.Empty(t, got.Games)
}

func TestFileRepositoryReadsHandWrittenRecords(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "decks.json"),
		[]byte(`[{"owner": "DrSull", "commander": "Kinnan, Bonder Prodigy"}]`), 0o644))

	got, err := NewFileRepository(dir, zerolog.Nop()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Decks, 1)
	assert.Equal(t, domain.DeckRecord{Owner: "DrSull", Commander: "Kinnan, Bonder Prodigy"}, got.Decks[0])
}

func TestFileRepositoryRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "games.json"), []byte(`{not json`), 0o644))

	_, err := NewFileRepository(dir, zerolog.Nop()).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)
}

func newSQLiteRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "league.db"), zerolog.Nop())
	require.NoError(t, err)
	repo := NewSQLiteRepository(db, zerolog.Nop())
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepositoryEmpty(t *testing.T) {
	snap, err := newSQLiteRepository(t).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Players)
	assert.Empty(t, snap.Decks)
	assert.Empty(t, snap.Games)
}

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	repo := newSQLiteRepository(t)

	require.NoError(t, repo.Save(context.Background(), fixture()))
	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixture(), got)

	// A second save replaces rather than appends.
	require.NoError(t, repo.Save(context.Background(), fixture()))
	got, err = repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixture(), got)
}

func TestSQLiteRepositoryFailedSaveKeepsPreviousRows(t *testing.T) {
	repo := newSQLiteRepository(t)
	require.NoError(t, repo.Save(context.Background(), fixture()))

	dup := &domain.Snapshot{Players: []domain.PlayerRecord{{Name: "a"}, {Name: "a"}}}
	require.Error(t, repo.Save(context.Background(), dup))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixture(), got)
}

func TestRepositoriesFeedTheStore(t *testing.T) {
	for name, repo := range map[string]store.Repository{
		"file":   NewFileRepository(t.TempDir(), zerolog.Nop()),
		"sqlite": newSQLiteRepository(t),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.Save(ctx, fixture()))

			s := store.New(repo, domain.DefaultRules(), zerolog.Nop())
			report, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Len(t, report.Issues, 2)

			require.NoError(t, s.Save(ctx))
			got, err := repo.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, fixture(), got)
		})
	}
}
