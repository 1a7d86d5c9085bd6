package docstore

import "context"

// Store persists documents with revision-token optimistic concurrency. Every
// method is durable before it returns.
//
// Put succeeds only when doc.Revision equals the revision currently stored
// for doc.Key, or when both are empty (a new key). Any mismatch yields
// ErrConflict. List returns non-local documents ordered by key.
type Store interface {
	Get(ctx context.Context, key string) (Document, error)
	Put(ctx context.Context, doc Document) (string, error)
	// BulkPut writes all documents or none of them.
	BulkPut(ctx context.Context, docs []Document) ([]string, error)
	Remove(ctx context.Context, key, revision string) error
	List(ctx context.Context) ([]Document, error)
	// Destroy irreversibly deletes every document. The store is unusable
	// afterwards; callers open a fresh one.
	Destroy(ctx context.Context) error
	Close() error
}
