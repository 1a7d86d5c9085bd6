package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/tally-pad/internal/domain/docstore"
	"github.com/riskibarqy/tally-pad/internal/domain/game"
	"github.com/riskibarqy/tally-pad/internal/domain/scoring"
	"github.com/riskibarqy/tally-pad/internal/infrastructure/repository/documents"
	"github.com/riskibarqy/tally-pad/internal/infrastructure/repository/memory"
	docstoremock "github.com/riskibarqy/tally-pad/internal/mocks/domain/docstore"
	"github.com/riskibarqy/tally-pad/internal/platform/jsoncodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func putRaw(t *testing.T, store docstore.Store, key, body string) {
	t.Helper()
	_, err := store.Put(context.Background(), docstore.Document{Key: key, Body: []byte(body)})
	require.NoError(t, err)
}

func storedVersion(t *testing.T, store docstore.Store) int {
	t.Helper()
	doc, err := store.Get(context.Background(), docstore.VersionKey)
	require.NoError(t, err)
	var v versionDocument
	require.NoError(t, jsoncodec.Unmarshal(doc.Body, &v))
	return v.Version
}

func TestSchemaMigrator_InitialisesEmptyStore(t *testing.T) {
	store := memory.NewDocumentStore()

	result, err := NewSchemaMigrator(store, 2, nil).Migrate(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Initialized)
	assert.Equal(t, CurrentSchemaVersion, result.ToVersion)
	assert.Equal(t, CurrentSchemaVersion, storedVersion(t, store))

	again, err := NewSchemaMigrator(store, 2, nil).Migrate(context.Background())
	require.NoError(t, err)
	assert.False(t, again.Initialized)
	assert.Zero(t, again.Migrated)
}

func TestSchemaMigrator_UpgradesLegacyDocuments(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()

	putRaw(t, store, docstore.VersionKey, `{"version":1}`)
	putRaw(t, store, "g-yahtzee", `{"name":"Yahtzee","status":"In Progress","date":"March 14, 2026","players":["Ann"],"scores":{"Ann":{"Aces":3,"Yahtzee":50,"Yahtzee Bonus":100}}}`)
	putRaw(t, store, "g-simple", `{"name":"Simple Score","date":"not a date","players":["Bob"],"scores":{"Bob":{"rounds":[4,5]}}}`)
	putRaw(t, store, "g-mystery", `{"name":"Darts","date":"2026-01-02","lastPlayed":5,"players":["Cy"],"scores":{"Cy":{"rounds":[1]}}}`)
	putRaw(t, store, "course:golf:pine", `{"type":"courseTemplate","name":"Pine","gameType":"golf","holeCount":1,"pars":[4]}`)

	result, err := NewSchemaMigrator(store, 3, nil).Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FromVersion)
	assert.Equal(t, CurrentSchemaVersion, result.ToVersion)
	assert.Equal(t, CurrentSchemaVersion, storedVersion(t, store))
	assert.Equal(t, 7, result.Migrated)

	repo := documents.NewGameRepository(store)

	yahtzee, ok, err := repo.GetByID(ctx, "g-yahtzee")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, game.VariantYahtzee, yahtzee.Variant)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), yahtzee.LastPlayedAt)
	ann := yahtzee.YahtzeeEntries().Card("Ann")
	assert.Equal(t, 3, ann.Get(game.Aces).Points())
	assert.Equal(t, 1, ann.Bonus)
	assert.Equal(t, 153, scoring.ScoreYahtzeeCard(ann).Grand)

	simple, ok, err := repo.GetByID(ctx, "g-simple")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, game.VariantSimple, simple.Variant)
	assert.True(t, simple.LastPlayedAt.IsZero())

	mystery, ok, err := repo.GetByID(ctx, "g-mystery")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, game.VariantSimple, mystery.Variant)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), mystery.LastPlayedAt)

	fields, err := jsoncodec.UnmarshalObject(mustGet(t, store, "course:golf:pine").Body)
	require.NoError(t, err)
	assert.Equal(t, "courseTemplate", fields["type"])
	assert.NotContains(t, fields, "variant")

	rerun, err := NewSchemaMigrator(store, 3, nil).Migrate(ctx)
	require.NoError(t, err)
	assert.Zero(t, rerun.Migrated)
}

func mustGet(t *testing.T, store docstore.Store, key string) docstore.Document {
	t.Helper()
	doc, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	return doc
}

func TestSchemaMigrator_LeavesNewerSchemaAlone(t *testing.T) {
	store := memory.NewDocumentStore()
	putRaw(t, store, docstore.VersionKey, `{"version":9}`)
	putRaw(t, store, "g1", `{"name":"Yahtzee","players":["Ann"]}`)

	result, err := NewSchemaMigrator(store, 1, nil).Migrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, result.ToVersion)
	assert.Equal(t, 9, storedVersion(t, store))
	assert.Equal(t, 1, docstore.RevisionGeneration(mustGet(t, store, "g1").Revision))
}

func TestSchemaMigrator_FailedWriteKeepsVersion(t *testing.T) {
	ctx := context.Background()
	store := docstoremock.NewStore(t)
	unavailable := errors.Mark(errors.New("disk full"), docstore.ErrUnavailable)

	store.On("Get", mock.Anything, docstore.VersionKey).
		Return(docstore.Document{Key: docstore.VersionKey, Revision: "1-aa", Body: []byte(`{"version":2}`)}, nil).
		Once()
	store.On("List", mock.Anything).
		Return([]docstore.Document{{Key: "g1", Revision: "1-bb", Body: []byte(`{"name":"Phase 10","players":["Ann"]}`)}}, nil).
		Once()
	store.On("BulkPut", mock.Anything, mock.MatchedBy(func(docs []docstore.Document) bool {
		return len(docs) == 1 && docs[0].Key == "g1" && docs[0].Revision == "1-bb"
	})).
		Return(nil, unavailable).
		Once()

	_, err := NewSchemaMigrator(store, 2, nil).Migrate(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStoreUnavailable), "got %v", err)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestMigrationSteps_AreIdempotent(t *testing.T) {
	doc := map[string]any{
		"name":   "Yahtzee",
		"date":   "Jan 5, 2026",
		"scores": map[string]any{"Ann": map[string]any{"Yahtzee Bonus": "300"}},
	}

	for _, step := range migrationSteps {
		changed, err := step.apply(doc)
		require.NoError(t, err)
		assert.True(t, changed, step.name)
	}
	assert.Equal(t, "game", doc["type"])
	assert.Equal(t, "yahtzee", doc["variant"])
	assert.Equal(t, "count", doc["bonusUnit"])
	assert.Equal(t, int64(3), doc["scores"].(map[string]any)["Ann"].(map[string]any)["Yahtzee Bonus"])

	body, err := jsoncodec.Marshal(doc)
	require.NoError(t, err)
	reloaded, err := jsoncodec.UnmarshalObject(body)
	require.NoError(t, err)

	for _, step := range migrationSteps {
		changed, err := step.apply(reloaded)
		require.NoError(t, err)
		assert.False(t, changed, step.name)
	}
}

func TestMigrateYahtzeeBonus(t *testing.T) {
	cases := []struct {
		name    string
		doc     map[string]any
		changed bool
		bonus   any
	}{
		{
			name:    "points become a count",
			doc:     map[string]any{"variant": "yahtzee", "scores": map[string]any{"Ann": map[string]any{"Yahtzee": json.Number("50"), "Yahtzee Bonus": json.Number("200")}}},
			changed: true,
			bonus:   int64(2),
		},
		{
			name:    "less than one bonus is dropped",
			doc:     map[string]any{"variant": "yahtzee", "scores": map[string]any{"Ann": map[string]any{"Yahtzee Bonus": json.Number("60")}}},
			changed: true,
			bonus:   nil,
		},
		{
			name:    "scratched bonus is dropped",
			doc:     map[string]any{"variant": "yahtzee", "scores": map[string]any{"Ann": map[string]any{"Yahtzee Bonus": "X"}}},
			changed: true,
			bonus:   nil,
		},
		{
			name:    "already a count",
			doc:     map[string]any{"variant": "yahtzee", "bonusUnit": "count", "scores": map[string]any{"Ann": map[string]any{"Yahtzee Bonus": json.Number("2")}}},
			changed: false,
			bonus:   json.Number("2"),
		},
		{
			name:    "other variants are untouched",
			doc:     map[string]any{"variant": "simple", "scores": map[string]any{"Ann": map[string]any{"Yahtzee Bonus": json.Number("200")}}},
			changed: false,
			bonus:   json.Number("200"),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			changed, err := migrateYahtzeeBonus(tc.doc)
			require.NoError(t, err)
			assert.Equal(t, tc.changed, changed)
			assert.Equal(t, tc.bonus, tc.doc["scores"].(map[string]any)["Ann"].(map[string]any)["Yahtzee Bonus"])
		})
	}
}
