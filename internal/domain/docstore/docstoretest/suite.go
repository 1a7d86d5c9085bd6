// Package docstoretest checks a docstore.Store implementation against the
// shared revision and listing rules.
package docstoretest

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/tally-pad/internal/domain/docstore"
)

// Opener returns a fresh, empty store. Implementations should register their
// own cleanup with t.
type Opener func(t *testing.T) docstore.Store

func Run(t *testing.T, open Opener) {
	t.Run("PutGet", func(t *testing.T) { testPutGet(t, open(t)) })
	t.Run("RevisionChain", func(t *testing.T) { testRevisionChain(t, open(t)) })
	t.Run("NewKeyRules", func(t *testing.T) { testNewKeyRules(t, open(t)) })
	t.Run("BulkPutAtomic", func(t *testing.T) { testBulkPutAtomic(t, open(t)) })
	t.Run("Remove", func(t *testing.T) { testRemove(t, open(t)) })
	t.Run("ListSkipsLocal", func(t *testing.T) { testListSkipsLocal(t, open(t)) })
	t.Run("Destroy", func(t *testing.T) { testDestroy(t, open(t)) })
}

func testPutGet(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	rev, err := s.Put(ctx, docstore.Document{Key: "g1", Body: []byte(`{"name":"Yahtzee"}`)})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Revision != rev || string(got.Body) != `{"name":"Yahtzee"}` {
		t.Fatalf("unexpected document: %+v (rev %s)", got, rev)
	}
}

func testRevisionChain(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	rev, err := s.Put(ctx, docstore.Document{Key: "g1", Body: []byte(`{"v":0}`)})
	if err != nil {
		t.Fatalf("first put: %v", err)
	}
	first := rev

	for i := 1; i <= 3; i++ {
		next, err := s.Put(ctx, docstore.Document{Key: "g1", Revision: rev, Body: []byte(`{"v":1}`)})
		if err != nil {
			t.Fatalf("put %d: %v", i, err)
		}
		if next == rev {
			t.Fatalf("revision did not change on write %d", i)
		}
		rev = next
	}

	if _, err := s.Put(ctx, docstore.Document{Key: "g1", Revision: first, Body: []byte(`{"v":2}`)}); !errors.Is(err, docstore.ErrConflict) {
		t.Fatalf("expected stale revision conflict, got %v", err)
	}
	got, err := s.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Revision != rev || string(got.Body) != `{"v":1}` {
		t.Fatalf("conflicting write changed the document: %+v", got)
	}
}

func testNewKeyRules(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	if _, err := s.Put(ctx, docstore.Document{Key: "g1", Revision: "1-abc", Body: []byte(`{}`)}); !errors.Is(err, docstore.ErrConflict) {
		t.Fatalf("expected conflict for revision on new key, got %v", err)
	}
	if _, err := s.Put(ctx, docstore.Document{Key: "g1", Body: []byte(`{}`)}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := s.Put(ctx, docstore.Document{Key: "g1", Body: []byte(`{}`)}); !errors.Is(err, docstore.ErrConflict) {
		t.Fatalf("expected conflict for blind overwrite, got %v", err)
	}
}

func testBulkPutAtomic(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	revA, err := s.Put(ctx, docstore.Document{Key: "a", Body: []byte(`{"n":1}`)})
	if err != nil {
		t.Fatalf("put a: %v", err)
	}

	_, err = s.BulkPut(ctx, []docstore.Document{
		{Key: "a", Revision: revA, Body: []byte(`{"n":2}`)},
		{Key: "b", Revision: "9-stale", Body: []byte(`{"n":2}`)},
	})
	if !errors.Is(err, docstore.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get a: %v", err)
	}
	if got.Revision != revA {
		t.Fatalf("failed batch must not write any document")
	}

	revs, err := s.BulkPut(ctx, []docstore.Document{
		{Key: "a", Revision: revA, Body: []byte(`{"n":3}`)},
		{Key: "b", Body: []byte(`{"n":3}`)},
	})
	if err != nil {
		t.Fatalf("bulk put: %v", err)
	}
	if len(revs) != 2 || revs[0] == revA || revs[1] == "" {
		t.Fatalf("unexpected revisions %v", revs)
	}
}

func testRemove(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	if err := s.Remove(ctx, "missing", "1-a"); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	rev, err := s.Put(ctx, docstore.Document{Key: "g1", Body: []byte(`{}`)})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Remove(ctx, "g1", "1-stale"); !errors.Is(err, docstore.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := s.Remove(ctx, "g1", rev); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Get(ctx, "g1"); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected removed document to be gone, got %v", err)
	}
	if _, err := s.Put(ctx, docstore.Document{Key: "g1", Body: []byte(`{}`)}); err != nil {
		t.Fatalf("key must be reusable after remove: %v", err)
	}
}

func testListSkipsLocal(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	for _, key := range []string{"b", docstore.VersionKey, "a"} {
		if _, err := s.Put(ctx, docstore.Document{Key: key, Body: []byte(`{}`)}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	docs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 2 || docs[0].Key != "a" || docs[1].Key != "b" {
		t.Fatalf("expected [a b], got %+v", docs)
	}
	if _, err := s.Get(ctx, docstore.VersionKey); err != nil {
		t.Fatalf("local documents stay readable by key: %v", err)
	}
}

func testDestroy(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	if _, err := s.Put(ctx, docstore.Document{Key: "g1", Body: []byte(`{}`)}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Destroy(ctx); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := s.Get(ctx, "g1"); !errors.Is(err, docstore.ErrUnavailable) {
		t.Fatalf("expected destroyed store to be unavailable, got %v", err)
	}
}
