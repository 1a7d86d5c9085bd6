package sqlite

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tally-pad/internal/domain/docstore"
	"github.com/riskibarqy/tally-pad/internal/platform/logging"
	"github.com/riskibarqy/tally-pad/internal/platform/querybuilder"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	_ "modernc.org/sqlite"
)

const (
	driverName     = "sqlite"
	documentsTable = "documents"
)

type Options struct {
	Path         string
	BusyTimeout  time.Duration
	TraceQueries bool
}

type documentRow struct {
	Key       string `db:"doc_key"`
	Revision  string `db:"revision"`
	Body      []byte `db:"body"`
	UpdatedAt int64  `db:"updated_at"`
}

// DocumentStore is a durable docstore.Store over a single SQLite file. Writes
// run in IMMEDIATE transactions and commit with synchronous=FULL, so a
// returned revision is on disk.
type DocumentStore struct {
	mu        sync.RWMutex
	db        *sqlx.DB
	path      string
	destroyed bool
	logger    *logging.Logger
	now       func() time.Time
}

func Open(ctx context.Context, opts Options, logger *logging.Logger) (*DocumentStore, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return nil, errors.New("sqlite store path is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	dsn := buildDSN(path, opts.BusyTimeout)
	if err := applySchema(dsn); err != nil {
		return nil, docstore.Unavailable(err, "prepare sqlite schema")
	}

	var (
		db  *sqlx.DB
		err error
	)
	if opts.TraceQueries {
		db, err = otelsqlx.Open(driverName, dsn,
			otelsql.WithDBSystem("sqlite"),
			otelsql.WithDBName(dbNameFromPath(path)),
			otelsql.WithQueryFormatter(formatQueryForTrace),
		)
	} else {
		db, err = sqlx.Open(driverName, dsn)
	}
	if err != nil {
		return nil, docstore.Unavailable(err, "open sqlite store")
	}
	// One connection serialises writers; SQLite allows a single writer anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, docstore.Unavailable(err, "ping sqlite store")
	}

	logger.Info("sqlite document store opened", "path", path, "trace_queries", opts.TraceQueries)
	return &DocumentStore{db: db, path: path, logger: logger, now: time.Now}, nil
}

func (s *DocumentStore) Get(ctx context.Context, key string) (docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.usable(); err != nil {
		return docstore.Document{}, err
	}
	row, ok, err := getRow(ctx, s.db, key)
	if err != nil {
		return docstore.Document{}, err
	}
	if !ok {
		return docstore.Document{}, errors.Wrapf(docstore.ErrNotFound, "%s", key)
	}
	return row.document(), nil
}

func (s *DocumentStore) Put(ctx context.Context, doc docstore.Document) (string, error) {
	revs, err := s.BulkPut(ctx, []docstore.Document{doc})
	if err != nil {
		return "", err
	}
	return revs[0], nil
}

func (s *DocumentStore) BulkPut(ctx context.Context, docs []docstore.Document) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.usable(); err != nil {
		return nil, err
	}

	revs := make([]string, len(docs))
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		now := s.now().UnixMilli()
		for i, doc := range docs {
			rev, err := putRow(ctx, tx, doc, now)
			if err != nil {
				return err
			}
			revs[i] = rev
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return revs, nil
}

func (s *DocumentStore) Remove(ctx context.Context, key, revision string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.usable(); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := querybuilder.DeleteFrom(documentsTable).
			Where(querybuilder.Eq("doc_key", key), querybuilder.Eq("revision", revision)).
			ToSQL()
		if err != nil {
			return errors.Wrap(err, "build delete document query")
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return docstore.Unavailable(err, "delete document")
		}
		if n, err := res.RowsAffected(); err == nil && n == 1 {
			return nil
		}

		current, ok, err := getRow(ctx, tx, key)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(docstore.ErrNotFound, "%s", key)
		}
		return docstore.CheckRevision(key, current.Revision, true, revision)
	})
}

func (s *DocumentStore) List(ctx context.Context) ([]docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.usable(); err != nil {
		return nil, err
	}

	query, args, err := querybuilder.Select("doc_key", "revision", "body").
		From(documentsTable).
		Where(querybuilder.NotPrefix("doc_key", docstore.LocalPrefix)).
		OrderBy("doc_key").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list documents query")
	}

	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, docstore.Unavailable(err, "list documents")
	}
	out := make([]docstore.Document, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.document())
	}
	return out, nil
}

// Destroy closes the database and deletes its files.
func (s *DocumentStore) Destroy(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return nil
	}
	s.destroyed = true
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Warn("close sqlite store before destroy failed", "error", err)
		}
		s.db = nil
	}

	for _, file := range sidecarFiles(s.path) {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			return docstore.Unavailable(err, "remove "+file)
		}
	}
	s.logger.Warn("sqlite document store destroyed", "path", s.path)
	return nil
}

func (s *DocumentStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return docstore.Unavailable(err, "close sqlite store")
	}
	return nil
}

func (s *DocumentStore) usable() error {
	if s.destroyed {
		return docstore.ErrDestroyed
	}
	if s.db == nil {
		return errors.Mark(errors.New("sqlite document store closed"), docstore.ErrUnavailable)
	}
	return nil
}

func (s *DocumentStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return docstore.Unavailable(err, "begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return docstore.Unavailable(err, "commit transaction")
	}
	return nil
}

func getRow(ctx context.Context, q sqlx.QueryerContext, key string) (documentRow, bool, error) {
	query, args, err := querybuilder.Select("doc_key", "revision", "body").
		From(documentsTable).
		Where(querybuilder.Eq("doc_key", key)).
		Limit(1).
		ToSQL()
	if err != nil {
		return documentRow{}, false, errors.Wrap(err, "build get document query")
	}

	var row documentRow
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return documentRow{}, false, nil
		}
		return documentRow{}, false, docstore.Unavailable(err, "get document")
	}
	return row, true, nil
}

// putRow inserts a new key or updates an existing one at the expected
// revision. Zero affected rows means the revision check failed.
func putRow(ctx context.Context, tx *sqlx.Tx, doc docstore.Document, now int64) (string, error) {
	if strings.TrimSpace(doc.Key) == "" {
		return "", errors.New("document key is required")
	}
	rev := docstore.NextRevision(doc.Revision, doc.Body)
	body := doc.Body
	if body == nil {
		body = []byte{}
	}

	var (
		query string
		args  []any
		err   error
	)
	if doc.Revision == "" {
		query, args, err = querybuilder.InsertModel(documentsTable, documentRow{
			Key:       doc.Key,
			Revision:  rev,
			Body:      body,
			UpdatedAt: now,
		}, "ON CONFLICT (doc_key) DO NOTHING")
	} else {
		query, args, err = querybuilder.Update(documentsTable).
			Set("revision", rev).
			Set("body", body).
			Set("updated_at", now).
			Where(querybuilder.Eq("doc_key", doc.Key), querybuilder.Eq("revision", doc.Revision)).
			ToSQL()
	}
	if err != nil {
		return "", errors.Wrap(err, "build put document query")
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return "", docstore.Unavailable(err, "put document")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", docstore.Unavailable(err, "put document")
	}
	if n == 0 {
		current, ok, err := getRow(ctx, tx, doc.Key)
		if err != nil {
			return "", err
		}
		if cerr := docstore.CheckRevision(doc.Key, current.Revision, ok, doc.Revision); cerr != nil {
			return "", cerr
		}
		return "", errors.Wrapf(docstore.ErrConflict, "%s", doc.Key)
	}
	return rev, nil
}

func (r documentRow) document() docstore.Document {
	return docstore.Document{Key: r.Key, Revision: r.Revision, Body: r.Body}
}
