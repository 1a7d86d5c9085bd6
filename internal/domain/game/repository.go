package game

import "context"

// Repository describes game persistence needs from use cases. Save and Delete
// require the caller's revision to match the stored one.
type Repository interface {
	Create(ctx context.Context, g Game) (Game, error)
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	List(ctx context.Context) ([]Game, error)
	Save(ctx context.Context, g Game) (Game, error)
	Delete(ctx context.Context, gameID, revision string) error
}

type CourseRepository interface {
	Create(ctx context.Context, c CourseTemplate) (CourseTemplate, error)
	Get(ctx context.Context, gameType Variant, name string) (CourseTemplate, bool, error)
	ListByGameType(ctx context.Context, gameType Variant) ([]CourseTemplate, error)
	Delete(ctx context.Context, gameType Variant, name string) error
}
