package memory

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/tally-pad/internal/domain/docstore"
	"github.com/riskibarqy/tally-pad/internal/domain/docstore/docstoretest"
)

func TestDocumentStore(t *testing.T) {
	docstoretest.Run(t, func(t *testing.T) docstore.Store {
		return NewDocumentStore()
	})
}

func TestDocumentStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore()
	body := []byte(`{"a":1}`)
	if _, err := s.Put(ctx, docstore.Document{Key: "k", Body: body}); err != nil {
		t.Fatalf("put: %v", err)
	}
	body[2] = 'b'

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Body[2] = 'c'

	again, _ := s.Get(ctx, "k")
	if string(again.Body) != `{"a":1}` {
		t.Fatalf("stored body was aliased: %s", again.Body)
	}
}

func TestDocumentStore_Closed(t *testing.T) {
	s := NewDocumentStore()
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := s.List(context.Background()); !errors.Is(err, docstore.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}
