package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/tally-pad/internal/domain/docstore"
)

// DocumentStore keeps documents in process memory. It honours the same
// revision rules as the durable store and is used by tests and the
// STORE_DRIVER=memory mode.
type DocumentStore struct {
	mu        sync.RWMutex
	items     map[string]docstore.Document
	destroyed bool
	closed    bool
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{items: make(map[string]docstore.Document)}
}

func (s *DocumentStore) Get(_ context.Context, key string) (docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.usable(); err != nil {
		return docstore.Document{}, err
	}
	doc, ok := s.items[key]
	if !ok {
		return docstore.Document{}, errors.Wrapf(docstore.ErrNotFound, "%s", key)
	}
	return doc.Clone(), nil
}

func (s *DocumentStore) Put(_ context.Context, doc docstore.Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(); err != nil {
		return "", err
	}
	rev, err := s.prepare(doc)
	if err != nil {
		return "", err
	}
	s.commit(doc, rev)
	return rev, nil
}

func (s *DocumentStore) BulkPut(_ context.Context, docs []docstore.Document) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(docs))
	revs := make([]string, len(docs))
	for i, doc := range docs {
		if _, dup := seen[doc.Key]; dup {
			return nil, errors.Wrapf(docstore.ErrConflict, "%s written twice in one batch", doc.Key)
		}
		seen[doc.Key] = struct{}{}

		rev, err := s.prepare(doc)
		if err != nil {
			return nil, err
		}
		revs[i] = rev
	}
	for i, doc := range docs {
		s.commit(doc, revs[i])
	}
	return revs, nil
}

func (s *DocumentStore) Remove(_ context.Context, key, revision string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(); err != nil {
		return err
	}
	current, ok := s.items[key]
	if !ok {
		return errors.Wrapf(docstore.ErrNotFound, "%s", key)
	}
	if err := docstore.CheckRevision(key, current.Revision, true, revision); err != nil {
		return err
	}
	delete(s.items, key)
	return nil
}

func (s *DocumentStore) List(_ context.Context) ([]docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.usable(); err != nil {
		return nil, err
	}
	out := make([]docstore.Document, 0, len(s.items))
	for key, doc := range s.items {
		if docstore.IsLocal(key) {
			continue
		}
		out = append(out, doc.Clone())
	}
	slices.SortFunc(out, func(a, b docstore.Document) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out, nil
}

func (s *DocumentStore) Destroy(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return nil
	}
	s.items = nil
	s.destroyed = true
	return nil
}

func (s *DocumentStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

func (s *DocumentStore) usable() error {
	if s.destroyed {
		return docstore.ErrDestroyed
	}
	if s.closed {
		return errors.Mark(errors.New("memory document store closed"), docstore.ErrUnavailable)
	}
	return nil
}

func (s *DocumentStore) prepare(doc docstore.Document) (string, error) {
	if strings.TrimSpace(doc.Key) == "" {
		return "", errors.New("document key is required")
	}
	current, ok := s.items[doc.Key]
	if err := docstore.CheckRevision(doc.Key, current.Revision, ok, doc.Revision); err != nil {
		return "", err
	}
	return docstore.NextRevision(current.Revision, doc.Body), nil
}

func (s *DocumentStore) commit(doc docstore.Document, rev string) {
	stored := doc.Clone()
	stored.Revision = rev
	s.items[doc.Key] = stored
}
