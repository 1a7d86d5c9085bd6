package documents

import (
	"cmp"
	"context"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/tally-pad/internal/domain/docstore"
	"github.com/riskibarqy/tally-pad/internal/domain/game"
)

// GameRepository maps games onto documents keyed by game id.
type GameRepository struct {
	store docstore.Store
}

func NewGameRepository(store docstore.Store) *GameRepository {
	return &GameRepository{store: store}
}

func (r *GameRepository) Create(ctx context.Context, g game.Game) (game.Game, error) {
	body, err := encodeGame(g)
	if err != nil {
		return game.Game{}, errors.Wrap(err, "encode game")
	}
	rev, err := r.store.Put(ctx, docstore.Document{Key: g.ID, Body: body})
	if err != nil {
		return game.Game{}, errors.Wrapf(err, "create game %s", g.ID)
	}
	out := g.Clone()
	out.Revision = rev
	return out, nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	if docstore.IsLocal(gameID) {
		return game.Game{}, false, nil
	}
	doc, err := r.store.Get(ctx, gameID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, errors.Wrapf(err, "get game %s", gameID)
	}

	kind, err := documentType(doc.Body)
	if err != nil {
		return game.Game{}, false, errors.Wrapf(err, "get game %s", gameID)
	}
	if kind != "" && kind != TypeGame {
		return game.Game{}, false, nil
	}

	g, err := decodeGame(doc.Key, doc.Revision, doc.Body)
	if err != nil {
		return game.Game{}, false, err
	}
	return g, true, nil
}

// List returns every game, most recently played first.
func (r *GameRepository) List(ctx context.Context) ([]game.Game, error) {
	docs, err := r.store.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list games")
	}

	out := make([]game.Game, 0, len(docs))
	for _, doc := range docs {
		kind, err := documentType(doc.Body)
		if err != nil {
			return nil, errors.Wrapf(err, "list games: %s", doc.Key)
		}
		if kind != "" && kind != TypeGame {
			continue
		}
		g, err := decodeGame(doc.Key, doc.Revision, doc.Body)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}

	slices.SortStableFunc(out, func(a, b game.Game) int {
		if c := b.LastPlayedAt.Compare(a.LastPlayedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Save writes g at g.Revision and returns it with the new revision.
func (r *GameRepository) Save(ctx context.Context, g game.Game) (game.Game, error) {
	body, err := encodeGame(g)
	if err != nil {
		return game.Game{}, errors.Wrap(err, "encode game")
	}
	rev, err := r.store.Put(ctx, docstore.Document{Key: g.ID, Revision: g.Revision, Body: body})
	if err != nil {
		return game.Game{}, errors.Wrapf(err, "save game %s", g.ID)
	}
	out := g.Clone()
	out.Revision = rev
	return out, nil
}

func (r *GameRepository) Delete(ctx context.Context, gameID, revision string) error {
	if err := r.store.Remove(ctx, gameID, revision); err != nil {
		return errors.Wrapf(err, "delete game %s", gameID)
	}
	return nil
}
