package documents

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/tally-pad/internal/domain/docstore"
	"github.com/riskibarqy/tally-pad/internal/domain/game"
)

type CourseRepository struct {
	store docstore.Store
}

func NewCourseRepository(store docstore.Store) *CourseRepository {
	return &CourseRepository{store: store}
}

// Create stores a new template. A template with the same name and game type
// already present yields docstore.ErrConflict.
func (r *CourseRepository) Create(ctx context.Context, c game.CourseTemplate) (game.CourseTemplate, error) {
	body, err := encodeCourse(c)
	if err != nil {
		return game.CourseTemplate{}, errors.Wrap(err, "encode course template")
	}
	rev, err := r.store.Put(ctx, docstore.Document{Key: CourseKey(c.GameType, c.Name), Body: body})
	if err != nil {
		return game.CourseTemplate{}, errors.Wrapf(err, "create course template %q", c.Name)
	}
	out := c.Clone()
	out.Revision = rev
	return out, nil
}

func (r *CourseRepository) Get(ctx context.Context, gameType game.Variant, name string) (game.CourseTemplate, bool, error) {
	key := CourseKey(gameType, name)
	doc, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return game.CourseTemplate{}, false, nil
		}
		return game.CourseTemplate{}, false, errors.Wrapf(err, "get course template %q", name)
	}
	c, err := decodeCourse(doc.Key, doc.Revision, doc.Body)
	if err != nil {
		return game.CourseTemplate{}, false, err
	}
	if strings.TrimSpace(c.Name) != strings.TrimSpace(name) || c.GameType != gameType {
		return game.CourseTemplate{}, false, nil
	}
	return c, true, nil
}

func (r *CourseRepository) ListByGameType(ctx context.Context, gameType game.Variant) ([]game.CourseTemplate, error) {
	docs, err := r.store.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list course templates")
	}

	prefix := courseKeyPrefix(gameType)
	out := make([]game.CourseTemplate, 0)
	for _, doc := range docs {
		if !strings.HasPrefix(doc.Key, prefix) {
			continue
		}
		c, err := decodeCourse(doc.Key, doc.Revision, doc.Body)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b game.CourseTemplate) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out, nil
}

func (r *CourseRepository) Delete(ctx context.Context, gameType game.Variant, name string) error {
	c, ok, err := r.Get(ctx, gameType, name)
	if err != nil {
		return errors.Wrapf(err, "delete course template %q", name)
	}
	if !ok {
		return errors.Wrapf(docstore.ErrNotFound, "delete course template %q", name)
	}
	if err := r.store.Remove(ctx, CourseKey(gameType, name), c.Revision); err != nil {
		return errors.Wrapf(err, "delete course template %q", name)
	}
	return nil
}
