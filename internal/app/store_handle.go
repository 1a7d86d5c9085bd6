package app

import (
	"context"
	"sync"

	"github.com/riskibarqy/tally-pad/internal/domain/docstore"
)

// storeHandle is the single docstore.Store the repositories hold. The store
// behind it is only replaced by replace, which blocks every other call until
// the new store is ready.
type storeHandle struct {
	mu      sync.RWMutex
	current docstore.Store
}

func newStoreHandle(store docstore.Store) *storeHandle {
	return &storeHandle{current: store}
}

func (h *storeHandle) replace(build func(old docstore.Store) (docstore.Store, error)) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	next, err := build(h.current)
	if err != nil {
		return err
	}
	h.current = next
	return nil
}

func (h *storeHandle) Get(ctx context.Context, key string) (docstore.Document, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.Get(ctx, key)
}

func (h *storeHandle) Put(ctx context.Context, doc docstore.Document) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.Put(ctx, doc)
}

func (h *storeHandle) BulkPut(ctx context.Context, docs []docstore.Document) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.BulkPut(ctx, docs)
}

func (h *storeHandle) Remove(ctx context.Context, key, revision string) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.Remove(ctx, key, revision)
}

func (h *storeHandle) List(ctx context.Context) ([]docstore.Document, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.List(ctx)
}

func (h *storeHandle) Destroy(ctx context.Context) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.Destroy(ctx)
}

func (h *storeHandle) Close() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.Close()
}
