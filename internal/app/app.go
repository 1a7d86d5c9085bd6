package app

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/tally-pad/internal/config"
	"github.com/riskibarqy/tally-pad/internal/domain/docstore"
	"github.com/riskibarqy/tally-pad/internal/infrastructure/repository/documents"
	"github.com/riskibarqy/tally-pad/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tally-pad/internal/infrastructure/repository/sqlite"
	idgen "github.com/riskibarqy/tally-pad/internal/platform/id"
	"github.com/riskibarqy/tally-pad/internal/platform/logging"
	"github.com/riskibarqy/tally-pad/internal/usecase"
)

// App owns the document store and the services built on top of it.
type App struct {
	Games   *usecase.GameService
	Courses *usecase.CourseService

	cfg       config.Config
	logger    *logging.Logger
	handle    *storeHandle
	migration usecase.MigrationResult
}

// Open connects the configured store and brings its schema up to date. No
// service is usable before the migration has finished.
func Open(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	a := &App{cfg: cfg, logger: logger}

	store, result, err := a.openMigrated(ctx)
	if err != nil {
		return nil, err
	}
	a.migration = result
	a.handle = newStoreHandle(store)

	gameRepo := documents.NewGameRepository(a.handle)
	courseRepo := documents.NewCourseRepository(a.handle)
	a.Games = usecase.NewGameService(gameRepo, courseRepo, a, idgen.NewUUIDGenerator(), logger)
	a.Courses = usecase.NewCourseService(courseRepo, logger)

	logger.InfoContext(ctx, "store ready",
		"driver", cfg.StoreDriver,
		"path", cfg.StorePath,
		"schema_version", result.ToVersion,
	)
	return a, nil
}

// Migration reports what the startup migration did.
func (a *App) Migration() usecase.MigrationResult {
	return a.migration
}

// ClearAll destroys every stored document and leaves a fresh, migrated store
// in place.
func (a *App) ClearAll(ctx context.Context) error {
	return a.Games.ClearAll(ctx)
}

// Reset implements usecase.StoreResetter.
func (a *App) Reset(ctx context.Context) error {
	return a.handle.replace(func(old docstore.Store) (docstore.Store, error) {
		if err := old.Destroy(ctx); err != nil {
			return nil, errors.Wrap(err, "destroy store")
		}
		store, _, err := a.openMigrated(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "recreate store")
		}
		return store, nil
	})
}

func (a *App) Close() error {
	if a.handle == nil {
		return nil
	}
	return a.handle.Close()
}

func (a *App) openMigrated(ctx context.Context) (docstore.Store, usecase.MigrationResult, error) {
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, usecase.MigrationResult{}, err
	}

	result, err := usecase.NewSchemaMigrator(store, a.cfg.MigrationWorkers, a.logger).Migrate(ctx)
	if err != nil {
		_ = store.Close()
		return nil, usecase.MigrationResult{}, errors.Wrap(err, "migrate document schema")
	}
	return store, result, nil
}

func (a *App) openStore(ctx context.Context) (docstore.Store, error) {
	switch a.cfg.StoreDriver {
	case config.StoreDriverMemory:
		return memory.NewDocumentStore(), nil
	case config.StoreDriverSQLite, "":
		store, err := sqlite.Open(ctx, sqlite.Options{
			Path:         a.cfg.StorePath,
			BusyTimeout:  a.cfg.StoreBusyTimeout,
			TraceQueries: a.cfg.StoreTraceQueries,
		}, a.logger)
		if err != nil {
			return nil, errors.Wrap(err, "open sqlite document store")
		}
		return store, nil
	default:
		return nil, errors.Newf("unsupported store driver %q", a.cfg.StoreDriver)
	}
}
