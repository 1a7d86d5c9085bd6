package usecase

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/tally-pad/internal/domain/docstore"
	"github.com/riskibarqy/tally-pad/internal/domain/game"
	"github.com/riskibarqy/tally-pad/internal/platform/jsoncodec"
	"github.com/riskibarqy/tally-pad/internal/platform/logging"
)

// CurrentSchemaVersion is the document layout this build reads and writes.
const CurrentSchemaVersion = 4

var legacyDateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	time.RFC3339,
	"2006-01-02",
	"1/2/2006",
}

type MigrationResult struct {
	FromVersion int
	ToVersion   int
	// Initialized is set when no version record existed and one was created.
	Initialized bool
	// Migrated counts document writes across all steps.
	Migrated int
}

type versionDocument struct {
	Version int `json:"version"`
}

// migrationStep upgrades one document body to version to. apply reports
// whether it changed the document and must give the same result when run
// again on its own output.
type migrationStep struct {
	to    int
	name  string
	apply func(doc map[string]any) (bool, error)
}

var migrationSteps = []migrationStep{
	{to: 2, name: "derive lastPlayed from date", apply: migrateLastPlayed},
	{to: 3, name: "stamp type and variant", apply: migrateTypeAndVariant},
	{to: 4, name: "store yahtzee bonus as a count", apply: migrateYahtzeeBonus},
}

// SchemaMigrator upgrades stored documents to CurrentSchemaVersion. It must
// run before any game is read or written.
type SchemaMigrator struct {
	store   docstore.Store
	workers int
	logger  *logging.Logger
}

func NewSchemaMigrator(store docstore.Store, workers int, logger *logging.Logger) *SchemaMigrator {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = 1
	}
	return &SchemaMigrator{store: store, workers: workers, logger: logger}
}

func (m *SchemaMigrator) CurrentVersion() int {
	return CurrentSchemaVersion
}

// Migrate reads the version record and runs every pending step in order. A
// failing step leaves the version record untouched so the next start retries.
func (m *SchemaMigrator) Migrate(ctx context.Context) (MigrationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SchemaMigrator.Migrate")
	defer span.End()

	versionDoc, err := m.store.Get(ctx, docstore.VersionKey)
	if errors.Is(err, docstore.ErrNotFound) {
		if _, err := m.writeVersion(ctx, ""); err != nil {
			return MigrationResult{}, err
		}
		m.logger.InfoContext(ctx, "schema version initialised", "version", CurrentSchemaVersion)
		return MigrationResult{FromVersion: CurrentSchemaVersion, ToVersion: CurrentSchemaVersion, Initialized: true}, nil
	}
	if err != nil {
		return MigrationResult{}, storeError(err, "read schema version")
	}

	var stored versionDocument
	if err := jsoncodec.Unmarshal(versionDoc.Body, &stored); err != nil {
		return MigrationResult{}, errors.Wrap(err, "decode schema version")
	}

	result := MigrationResult{FromVersion: stored.Version, ToVersion: stored.Version}
	switch {
	case stored.Version == CurrentSchemaVersion:
		return result, nil
	case stored.Version > CurrentSchemaVersion:
		m.logger.WarnContext(ctx, "stored schema is newer than this build",
			"stored_version", stored.Version,
			"supported_version", CurrentSchemaVersion,
		)
		return result, nil
	}

	for _, step := range migrationSteps {
		if stored.Version >= step.to {
			continue
		}
		written, err := m.runStep(ctx, step)
		if err != nil {
			return result, errors.Wrapf(err, "migrate schema to v%d (%s)", step.to, step.name)
		}
		result.Migrated += written
		m.logger.InfoContext(ctx, "schema migration step applied", "to_version", step.to, "step", step.name, "documents", written)
	}

	if _, err := m.writeVersion(ctx, versionDoc.Revision); err != nil {
		return result, err
	}
	result.ToVersion = CurrentSchemaVersion
	m.logger.InfoContext(ctx, "schema migrated", "from_version", result.FromVersion, "to_version", result.ToVersion, "documents", result.Migrated)
	return result, nil
}

func (m *SchemaMigrator) writeVersion(ctx context.Context, revision string) (string, error) {
	body, err := jsoncodec.Marshal(versionDocument{Version: CurrentSchemaVersion})
	if err != nil {
		return "", errors.Wrap(err, "encode schema version")
	}
	rev, err := m.store.Put(ctx, docstore.Document{Key: docstore.VersionKey, Revision: revision, Body: body})
	if err != nil {
		return "", storeError(err, "write schema version")
	}
	return rev, nil
}

// runStep transforms all documents on a worker pool and writes the changed
// ones in a single batch.
func (m *SchemaMigrator) runStep(ctx context.Context, step migrationStep) (int, error) {
	docs, err := m.store.List(ctx)
	if err != nil {
		return 0, storeError(err, "list documents")
	}
	if len(docs) == 0 {
		return 0, nil
	}

	pool, err := ants.NewPool(m.workers)
	if err != nil {
		return 0, errors.Wrap(err, "create migration worker pool")
	}
	defer pool.Release()

	var (
		workers  sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	changed := make([]*docstore.Document, len(docs))
	for i, doc := range docs {
		i, doc := i, doc
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			out, ok, err := migrateDocument(doc, step)
			if err != nil {
				mu.Lock()
				firstErr = errors.CombineErrors(firstErr, err)
				mu.Unlock()
				return
			}
			if ok {
				changed[i] = &out
			}
		}); err != nil {
			workers.Done()
			workers.Wait()
			return 0, errors.Wrap(err, "submit migration task")
		}
	}
	workers.Wait()
	if firstErr != nil {
		return 0, firstErr
	}

	batch := make([]docstore.Document, 0, len(docs))
	for _, doc := range changed {
		if doc != nil {
			batch = append(batch, *doc)
		}
	}
	if len(batch) == 0 {
		return 0, nil
	}
	if _, err := m.store.BulkPut(ctx, batch); err != nil {
		return 0, storeError(err, "write migrated documents")
	}
	return len(batch), nil
}

func migrateDocument(doc docstore.Document, step migrationStep) (docstore.Document, bool, error) {
	fields, err := jsoncodec.UnmarshalObject(doc.Body)
	if err != nil {
		return docstore.Document{}, false, errors.Wrapf(err, "document %s", doc.Key)
	}
	if kind, _ := fields["type"].(string); kind != "" && kind != "game" {
		return docstore.Document{}, false, nil
	}

	changed, err := step.apply(fields)
	if err != nil || !changed {
		return docstore.Document{}, false, errors.Wrapf(err, "document %s", doc.Key)
	}

	body, err := jsoncodec.Marshal(fields)
	if err != nil {
		return docstore.Document{}, false, errors.Wrapf(err, "document %s", doc.Key)
	}
	return docstore.Document{Key: doc.Key, Revision: doc.Revision, Body: body}, true, nil
}

// migrateLastPlayed sets lastPlayed to the creation date in epoch
// milliseconds. Documents whose date cannot be parsed keep their value, or
// get 0 when they have none.
func migrateLastPlayed(doc map[string]any) (bool, error) {
	prev, hasPrev := doc["lastPlayed"]

	date, _ := doc["date"].(string)
	ms, ok := parseLegacyDate(date)
	if !ok {
		if hasPrev {
			return false, nil
		}
		doc["lastPlayed"] = int64(0)
		return true, nil
	}

	if hasPrev && numberString(prev) == strconv.FormatInt(ms, 10) {
		return false, nil
	}
	doc["lastPlayed"] = ms
	return true, nil
}

func parseLegacyDate(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	for _, layout := range legacyDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}

func numberString(v any) string {
	switch n := v.(type) {
	case json.Number:
		return n.String()
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return ""
	}
}

// migrateTypeAndVariant stamps the "game" discriminator and derives the
// variant from the legacy display name when it is missing.
func migrateTypeAndVariant(doc map[string]any) (bool, error) {
	changed := false
	if kind, _ := doc["type"].(string); kind == "" {
		doc["type"] = "game"
		changed = true
	}

	current, _ := doc["variant"].(string)
	if v, ok := game.ParseVariant(current); ok {
		if string(v) != current {
			doc["variant"] = string(v)
			changed = true
		}
		return changed, nil
	}

	variant := game.VariantSimple
	for _, field := range []string{"gameType", "name"} {
		raw, _ := doc[field].(string)
		if v, ok := game.ParseVariant(raw); ok {
			variant = v
			break
		}
	}
	doc["variant"] = string(variant)
	return true, nil
}

// migrateYahtzeeBonus turns the bonus points of a yahtzee card into the number
// of extra Yahtzees, rounding down, and marks the document as converted.
func migrateYahtzeeBonus(doc map[string]any) (bool, error) {
	variant, _ := doc["variant"].(string)
	if v, ok := game.ParseVariant(variant); !ok || v != game.VariantYahtzee {
		return false, nil
	}
	if unit, _ := doc["bonusUnit"].(string); unit == "count" {
		return false, nil
	}

	scores, _ := doc["scores"].(map[string]any)
	for _, raw := range scores {
		card, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		stored, ok := card[game.BonusKey]
		if !ok {
			continue
		}
		if count := legacyPoints(stored) / game.BonusPoints; count > 0 {
			card[game.BonusKey] = int64(count)
		} else {
			delete(card, game.BonusKey)
		}
	}
	doc["bonusUnit"] = "count"
	return true, nil
}

func legacyPoints(v any) int {
	raw := numberString(v)
	if s, ok := v.(string); ok {
		raw = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return int(math.Round(f))
}
