package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/tally-pad/internal/config"
	"github.com/riskibarqy/tally-pad/internal/domain/game"
	"github.com/riskibarqy/tally-pad/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		AppEnv:           config.EnvDev,
		StoreDriver:      config.StoreDriverSQLite,
		StorePath:        filepath.Join(t.TempDir(), "games.db"),
		StoreBusyTimeout: time.Second,
		MigrationWorkers: 2,
	}
}

func TestOpen_MemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	a, err := Open(ctx, config.Config{StoreDriver: config.StoreDriverMemory, MigrationWorkers: 1}, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.Migration().Initialized)
	assert.Equal(t, usecase.CurrentSchemaVersion, a.Migration().ToVersion)

	created, err := a.Games.CreateGame(ctx, usecase.CreateGameInput{Variant: game.VariantSimple, Players: []string{"Ann", "Bob"}})
	require.NoError(t, err)

	got, err := a.Games.GetGame(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Revision, got.Revision)
}

func TestOpen_SQLitePersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)

	first, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	created, err := first.Games.CreateGame(ctx, usecase.CreateGameInput{Variant: game.VariantGolf, Players: []string{"Ann"}, HoleCount: 18})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer second.Close()

	assert.False(t, second.Migration().Initialized)
	got, err := second.Games.GetGame(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.GolfEntries().Holes, 18)
	assert.Equal(t, created.Revision, got.Revision)
}

func TestApp_ClearAllReconstructsStore(t *testing.T) {
	ctx := context.Background()
	a, err := Open(ctx, sqliteConfig(t), nil)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Games.CreateGame(ctx, usecase.CreateGameInput{Variant: game.VariantYahtzee, Players: []string{"Ann"}})
	require.NoError(t, err)
	_, err = a.Courses.SaveCourseTemplate(ctx, usecase.SaveCourseTemplateInput{Name: "Pine", GameType: game.VariantGolf, Pars: []int{4, 4}})
	require.NoError(t, err)

	require.NoError(t, a.ClearAll(ctx))

	games, err := a.Games.ListGames(ctx)
	require.NoError(t, err)
	assert.Empty(t, games)
	courses, err := a.Courses.ListCourseTemplates(ctx, game.VariantGolf)
	require.NoError(t, err)
	assert.Empty(t, courses)

	_, err = a.Games.CreateGame(ctx, usecase.CreateGameInput{Variant: game.VariantPhase10, Players: []string{"Ann"}})
	require.NoError(t, err, "fresh store should accept writes")
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.Config{StoreDriver: "couch"}, nil)
	require.Error(t, err)
}
