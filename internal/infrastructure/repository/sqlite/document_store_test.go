package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/tally-pad/internal/domain/docstore"
	"github.com/riskibarqy/tally-pad/internal/domain/docstore/docstoretest"
	"github.com/riskibarqy/tally-pad/internal/platform/logging"
)

func openTestStore(t *testing.T, path string) *DocumentStore {
	t.Helper()
	s, err := Open(context.Background(), Options{Path: path}, logging.NewNop())
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDocumentStore(t *testing.T) {
	docstoretest.Run(t, func(t *testing.T) docstore.Store {
		return openTestStore(t, filepath.Join(t.TempDir(), "games.db"))
	})
}

func TestDocumentStore_DurableAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "games.db")

	first := openTestStore(t, path)
	rev, err := first.Put(ctx, docstore.Document{Key: "g1", Body: []byte(`{"name":"Golf"}`)})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := openTestStore(t, path)
	got, err := second.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got.Revision != rev || string(got.Body) != `{"name":"Golf"}` {
		t.Fatalf("unexpected document after reopen: %+v", got)
	}
}

func TestDocumentStore_DestroyRemovesFiles(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "games.db")
	s := openTestStore(t, path)
	if _, err := s.Put(ctx, docstore.Document{Key: "g1", Body: []byte(`{}`)}); err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := s.Destroy(ctx); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected database file to be removed, stat err=%v", err)
	}
	if _, err := s.List(ctx); !errors.Is(err, docstore.ErrDestroyed) {
		t.Fatalf("expected destroyed error, got %v", err)
	}
	if err := s.Destroy(ctx); err != nil {
		t.Fatalf("second destroy must be a no-op: %v", err)
	}

	fresh := openTestStore(t, path)
	docs, err := fresh.List(ctx)
	if err != nil {
		t.Fatalf("list fresh store: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty store after destroy, got %d documents", len(docs))
	}
}

func TestDocumentStore_TracedConnection(t *testing.T) {
	s, err := Open(context.Background(), Options{
		Path:         filepath.Join(t.TempDir(), "traced.db"),
		TraceQueries: true,
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("open traced store: %v", err)
	}
	defer s.Close()

	if _, err := s.Put(context.Background(), docstore.Document{Key: "k", Body: []byte(`{}`)}); err != nil {
		t.Fatalf("put through traced driver: %v", err)
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), Options{Path: "  "}, nil); err == nil {
		t.Fatalf("expected error for blank path")
	}
}
