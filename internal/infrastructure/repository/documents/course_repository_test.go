package documents

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/tally-pad/internal/domain/docstore"
	"github.com/riskibarqy/tally-pad/internal/domain/game"
	"github.com/riskibarqy/tally-pad/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository(memory.NewDocumentStore())

	pebble := game.CourseTemplate{Name: "Pebble Beach", GameType: game.VariantGolf, HoleCount: 3, Pars: []int{4, 5, 3}}
	apple := game.CourseTemplate{Name: "apple hill", GameType: game.VariantGolf, HoleCount: 2, Pars: []int{4, 4}}
	mini := game.CourseTemplate{Name: "Pebble Beach", GameType: game.VariantPuttPutt, HoleCount: 1, Pars: []int{2}}

	for _, c := range []game.CourseTemplate{pebble, apple, mini} {
		created, err := repo.Create(ctx, c)
		require.NoError(t, err)
		require.NotEmpty(t, created.Revision)
	}

	_, err := repo.Create(ctx, game.CourseTemplate{Name: " Pebble Beach ", GameType: game.VariantGolf, HoleCount: 1, Pars: []int{3}})
	assert.True(t, errors.Is(err, docstore.ErrConflict), "same name must conflict, got %v", err)

	golf, err := repo.ListByGameType(ctx, game.VariantGolf)
	require.NoError(t, err)
	require.Len(t, golf, 2)
	assert.Equal(t, "apple hill", golf[0].Name)
	assert.Equal(t, []int{4, 5, 3}, golf[1].Pars)

	putt, err := repo.ListByGameType(ctx, game.VariantPuttPutt)
	require.NoError(t, err)
	require.Len(t, putt, 1)

	got, ok, err := repo.Get(ctx, game.VariantGolf, "Pebble Beach")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 12, got.TotalPar())

	require.NoError(t, repo.Delete(ctx, game.VariantGolf, "Pebble Beach"))
	_, ok, err = repo.Get(ctx, game.VariantGolf, "Pebble Beach")
	require.NoError(t, err)
	assert.False(t, ok)

	err = repo.Delete(ctx, game.VariantGolf, "Pebble Beach")
	assert.True(t, errors.Is(err, docstore.ErrNotFound))
}

func TestCourseKey(t *testing.T) {
	assert.Equal(t, "course:golf:Pebble%20Beach", CourseKey(game.VariantGolf, " Pebble Beach "))
	assert.Equal(t, "course:puttputt:Harbour%20Mini", CourseKey(game.VariantPuttPutt, "Harbour Mini"))

	distinct := []string{"東京", "大阪", "Par 3", "Par+3", "par 3", "!!"}
	seen := make(map[string]string, len(distinct))
	for _, name := range distinct {
		key := CourseKey(game.VariantGolf, name)
		if other, ok := seen[key]; ok {
			t.Fatalf("%q and %q share key %q", name, other, key)
		}
		seen[key] = name
	}
}

func TestCourseRepository_DistinctNonASCIINames(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository(memory.NewDocumentStore())

	_, err := repo.Create(ctx, game.CourseTemplate{Name: "東京", GameType: game.VariantGolf, HoleCount: 2, Pars: []int{4, 3}})
	require.NoError(t, err)
	_, err = repo.Create(ctx, game.CourseTemplate{Name: "大阪", GameType: game.VariantGolf, HoleCount: 3, Pars: []int{4, 4, 5}})
	require.NoError(t, err)

	osaka, ok, err := repo.Get(ctx, game.VariantGolf, "大阪")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "大阪", osaka.Name)
	assert.Equal(t, 3, osaka.HoleCount)

	_, ok, err = repo.Get(ctx, game.VariantGolf, "名古屋")
	require.NoError(t, err)
	assert.False(t, ok)
	err = repo.Delete(ctx, game.VariantGolf, "名古屋")
	assert.True(t, errors.Is(err, docstore.ErrNotFound), "got %v", err)

	require.NoError(t, repo.Delete(ctx, game.VariantGolf, "大阪"))
	left, err := repo.ListByGameType(ctx, game.VariantGolf)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "東京", left[0].Name)
}

func TestCourseRepository_GetRejectsNameMismatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	body := []byte(`{"type":"courseTemplate","name":"Somewhere Else","gameType":"golf","holeCount":1,"pars":[4]}`)
	_, err := store.Put(ctx, docstore.Document{Key: CourseKey(game.VariantGolf, "Pine"), Body: body})
	require.NoError(t, err)

	_, ok, err := NewCourseRepository(store).Get(ctx, game.VariantGolf, "Pine")
	require.NoError(t, err)
	assert.False(t, ok)
}
