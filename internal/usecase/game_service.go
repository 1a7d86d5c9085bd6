package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/tally-pad/internal/domain/game"
	"github.com/riskibarqy/tally-pad/internal/domain/scoring"
	idgen "github.com/riskibarqy/tally-pad/internal/platform/id"
	"github.com/riskibarqy/tally-pad/internal/platform/logging"
)

// CreatedDateLayout formats the informational creation date of a game.
const CreatedDateLayout = "January 2, 2006"

// CreateGameInput is the payload for starting a game. Golf-like variants take
// their holes from CourseName, then Pars, then HoleCount at the default par.
type CreateGameInput struct {
	Variant    game.Variant `validate:"required,variant"`
	Players    []string     `validate:"required,min=1,max=16,dive,required,max=40"`
	HoleCount  int          `validate:"omitempty,min=1,max=36"`
	Pars       []int        `validate:"omitempty,max=36,dive,min=1,max=10"`
	CourseName string       `validate:"omitempty,max=80"`
}

// GameUpdate is a shallow merge over a stored game; nil fields are kept.
// A non-empty ExpectedRevision must match the stored revision.
type GameUpdate struct {
	ExpectedRevision string
	Name             *string
	Status           *game.Status
	CourseName       *string
	LastPlayedAt     *time.Time
	Entries          game.Entries
}

type AddSimpleScoreInput struct {
	GameID string `validate:"required"`
	Player string `validate:"required"`
	Score  int
}

type SetYahtzeeEntryInput struct {
	GameID   string        `validate:"required"`
	Player   string        `validate:"required"`
	Category game.Category `validate:"required"`
	Entry    game.Entry
}

type SetPhase10EntryInput struct {
	GameID         string `validate:"required"`
	Round          int    `validate:"gte=0"`
	Player         string `validate:"required"`
	Score          int    `validate:"gte=0"`
	PhaseCompleted bool
}

type SetGolfScoreInput struct {
	GameID  string `validate:"required"`
	Player  string `validate:"required"`
	Hole    int    `validate:"gte=0"`
	Strokes game.Entry
}

type FinishResult struct {
	Game    game.Game
	Winners []string
	// Finished is false when the call changed nothing.
	Finished bool
}

// StoreResetter wipes all persisted data and leaves an empty, migrated store
// behind the repositories.
type StoreResetter interface {
	Reset(ctx context.Context) error
}

type GameService struct {
	gameRepo   game.Repository
	courseRepo game.CourseRepository
	resetter   StoreResetter
	idGen      idgen.Generator
	validate   *validator.Validate
	logger     *logging.Logger
	now        func() time.Time
}

func NewGameService(
	gameRepo game.Repository,
	courseRepo game.CourseRepository,
	resetter StoreResetter,
	idGen idgen.Generator,
	logger *logging.Logger,
) *GameService {
	if logger == nil {
		logger = logging.Default()
	}

	return &GameService{
		gameRepo:   gameRepo,
		courseRepo: courseRepo,
		resetter:   resetter,
		idGen:      idGen,
		validate:   newValidator(),
		logger:     logger,
		now:        time.Now,
	}
}

func (s *GameService) CreateGame(ctx context.Context, input CreateGameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.CreateGame")
	defer span.End()

	input.CourseName = strings.TrimSpace(input.CourseName)
	players := make([]string, 0, len(input.Players))
	for _, p := range input.Players {
		players = append(players, strings.TrimSpace(p))
	}
	input.Players = players

	if err := validateInput(ctx, s.validate, input); err != nil {
		return game.Game{}, err
	}
	if err := game.ValidatePlayers(input.Players); err != nil {
		return game.Game{}, domainError(err, "create game")
	}

	holes, courseName, err := s.resolveHoles(ctx, input)
	if err != nil {
		return game.Game{}, err
	}
	entries, err := game.NewEntries(input.Variant, input.Players, holes)
	if err != nil {
		return game.Game{}, domainError(err, "seed game entries")
	}

	gameID, err := s.idGen.NewID()
	if err != nil {
		return game.Game{}, errors.Wrap(err, "generate game id")
	}

	now := s.now().UTC()
	g := game.Game{
		ID:           gameID,
		Name:         input.Variant.DisplayName(),
		Variant:      input.Variant,
		Status:       game.StatusInProgress,
		CreatedDate:  now.Format(CreatedDateLayout),
		LastPlayedAt: now,
		Players:      input.Players,
		Entries:      entries,
		CourseName:   courseName,
	}

	created, err := s.gameRepo.Create(ctx, g)
	if err != nil {
		return game.Game{}, storeError(err, "create game")
	}

	s.logger.InfoContext(ctx, "game created",
		"game_id", created.ID,
		"variant", created.Variant,
		"players", len(created.Players),
		"revision", created.Revision,
	)
	return created, nil
}

func (s *GameService) resolveHoles(ctx context.Context, input CreateGameInput) ([]game.Hole, string, error) {
	if !input.Variant.HasCourse() {
		return nil, "", nil
	}

	if input.CourseName != "" {
		course, ok, err := s.courseRepo.Get(ctx, input.Variant, input.CourseName)
		if err != nil {
			return nil, "", storeError(err, "get course template")
		}
		if !ok {
			return nil, "", errors.Wrapf(ErrNotFound, "course template %q for %s", input.CourseName, input.Variant)
		}
		return course.Holes(), course.Name, nil
	}

	if len(input.Pars) > 0 {
		if input.HoleCount != 0 && input.HoleCount != len(input.Pars) {
			return nil, "", errors.Wrapf(ErrInvalidInput, "hole count %d does not match %d pars", input.HoleCount, len(input.Pars))
		}
		return game.HolesFromPars(input.Pars), "", nil
	}

	count := input.HoleCount
	if count == 0 {
		count = 9
	}
	return game.DefaultHoles(input.Variant, count), "", nil
}

func (s *GameService) GetGame(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetGame")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return game.Game{}, errors.Wrap(ErrInvalidInput, "game id is required")
	}

	g, ok, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, storeError(err, "get game")
	}
	if !ok {
		return game.Game{}, errors.Wrapf(ErrNotFound, "game id=%s", gameID)
	}
	return g, nil
}

// ListGames returns all games, most recently played first.
func (s *GameService) ListGames(ctx context.Context) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ListGames")
	defer span.End()

	games, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, storeError(err, "list games")
	}
	return games, nil
}

// UpdateGame merges update over the stored game and writes it back. On
// ErrConflict the caller re-reads and decides whether to retry.
func (s *GameService) UpdateGame(ctx context.Context, gameID string, update GameUpdate) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.UpdateGame")
	defer span.End()

	current, err := s.GetGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}

	merged := current.Clone()
	if update.ExpectedRevision != "" {
		merged.Revision = update.ExpectedRevision
	}
	if update.Name != nil {
		merged.Name = strings.TrimSpace(*update.Name)
	}
	if update.Status != nil {
		if !update.Status.Valid() {
			return game.Game{}, errors.Wrapf(ErrInvalidInput, "unknown status %q", *update.Status)
		}
		if current.Completed() && *update.Status != game.StatusCompleted {
			return game.Game{}, errors.Wrap(ErrInvalidInput, "a completed game cannot be reopened")
		}
		merged.Status = *update.Status
	}
	if update.CourseName != nil {
		merged.CourseName = strings.TrimSpace(*update.CourseName)
	}
	if update.Entries != nil {
		if err := merged.ReplaceEntries(update.Entries); err != nil {
			return game.Game{}, domainError(err, "update game entries")
		}
		merged.LastPlayedAt = s.now().UTC()
	}
	if update.LastPlayedAt != nil {
		merged.LastPlayedAt = *update.LastPlayedAt
	}
	if err := merged.Validate(); err != nil {
		return game.Game{}, domainError(err, "update game")
	}

	return s.save(ctx, merged, "update game")
}

// DeleteGame removes a game. An empty revision deletes whatever is stored.
func (s *GameService) DeleteGame(ctx context.Context, gameID, revision string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.DeleteGame")
	defer span.End()

	if revision == "" {
		current, err := s.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		revision = current.Revision
	}
	if err := s.gameRepo.Delete(ctx, gameID, revision); err != nil {
		return storeError(err, "delete game")
	}

	s.logger.InfoContext(ctx, "game deleted", "game_id", gameID)
	return nil
}

// ClearAll destroys every stored game and template.
func (s *GameService) ClearAll(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ClearAll")
	defer span.End()

	if s.resetter == nil {
		return errors.Wrap(ErrStoreUnavailable, "clear all data: store reset is not configured")
	}
	if err := s.resetter.Reset(ctx); err != nil {
		return storeError(err, "clear all data")
	}

	s.logger.WarnContext(ctx, "all game data cleared")
	return nil
}

func (s *GameService) AddSimpleScore(ctx context.Context, input AddSimpleScoreInput) (game.Game, error) {
	if err := validateInput(ctx, s.validate, input); err != nil {
		return game.Game{}, err
	}
	return s.edit(ctx, "add simple score", input.GameID, func(g *game.Game) (bool, error) {
		return true, g.AddSimpleScore(input.Player, input.Score)
	})
}

// UndoSimpleRound drops the latest score of every player that has one.
func (s *GameService) UndoSimpleRound(ctx context.Context, gameID string) (game.Game, error) {
	return s.edit(ctx, "undo simple round", gameID, func(g *game.Game) (bool, error) {
		return g.UndoSimpleRound()
	})
}

func (s *GameService) SetYahtzeeEntry(ctx context.Context, input SetYahtzeeEntryInput) (game.Game, error) {
	if err := validateInput(ctx, s.validate, input); err != nil {
		return game.Game{}, err
	}
	return s.edit(ctx, "set yahtzee entry", input.GameID, func(g *game.Game) (bool, error) {
		return true, g.SetYahtzee(input.Player, input.Category, input.Entry)
	})
}

func (s *GameService) SetYahtzeeBonus(ctx context.Context, gameID, player string, count int) (game.Game, error) {
	return s.edit(ctx, "set yahtzee bonus", gameID, func(g *game.Game) (bool, error) {
		return true, g.SetYahtzeeBonus(player, count)
	})
}

// AddPhase10Round appends an empty round; at the round cap it changes nothing.
func (s *GameService) AddPhase10Round(ctx context.Context, gameID string) (game.Game, error) {
	return s.edit(ctx, "add phase 10 round", gameID, func(g *game.Game) (bool, error) {
		return g.AddPhase10Round()
	})
}

// RemovePhase10Round drops the last round; the only remaining round is kept.
func (s *GameService) RemovePhase10Round(ctx context.Context, gameID string) (game.Game, error) {
	return s.edit(ctx, "remove phase 10 round", gameID, func(g *game.Game) (bool, error) {
		return g.RemovePhase10Round()
	})
}

func (s *GameService) SetPhase10Entry(ctx context.Context, input SetPhase10EntryInput) (game.Game, error) {
	if err := validateInput(ctx, s.validate, input); err != nil {
		return game.Game{}, err
	}
	return s.edit(ctx, "set phase 10 entry", input.GameID, func(g *game.Game) (bool, error) {
		return true, g.SetPhase10Result(input.Round, input.Player, game.Phase10Result{
			Score:          input.Score,
			PhaseCompleted: input.PhaseCompleted,
		})
	})
}

func (s *GameService) SetGolfScore(ctx context.Context, input SetGolfScoreInput) (game.Game, error) {
	if err := validateInput(ctx, s.validate, input); err != nil {
		return game.Game{}, err
	}
	return s.edit(ctx, "set golf score", input.GameID, func(g *game.Game) (bool, error) {
		return true, g.SetGolfScore(input.Player, input.Hole, input.Strokes)
	})
}

// FinishGame completes the game and reports its winners. Finishing a
// completed game, or a Phase 10 game nobody has cleared, changes nothing.
func (s *GameService) FinishGame(ctx context.Context, gameID string) (FinishResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.FinishGame")
	defer span.End()

	current, err := s.GetGame(ctx, gameID)
	if err != nil {
		return FinishResult{}, err
	}
	if !scoring.CanFinish(current) {
		return FinishResult{Game: current, Winners: scoring.Winners(current)}, nil
	}

	done := current.Clone()
	done.Status = game.StatusCompleted
	saved, err := s.save(ctx, done, "finish game")
	if err != nil {
		return FinishResult{}, err
	}

	winners := scoring.Winners(saved)
	s.logger.InfoContext(ctx, "game finished", "game_id", saved.ID, "variant", saved.Variant, "winners", winners)
	return FinishResult{Game: saved, Winners: winners, Finished: true}, nil
}

func (s *GameService) Summary(ctx context.Context, gameID string) (scoring.Summary, error) {
	g, err := s.GetGame(ctx, gameID)
	if err != nil {
		return scoring.Summary{}, err
	}
	return scoring.Summarize(g), nil
}

// edit runs a read-modify-write of one game. Completed games and mutations
// reporting no change are returned untouched.
func (s *GameService) edit(ctx context.Context, op, gameID string, mutate func(g *game.Game) (bool, error)) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService."+op)
	defer span.End()

	current, err := s.GetGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if current.Completed() {
		s.logger.DebugContext(ctx, "edit ignored on completed game", "game_id", gameID, "op", op)
		return current, nil
	}

	next := current.Clone()
	changed, err := mutate(&next)
	if err != nil {
		return game.Game{}, domainError(err, op)
	}
	if !changed {
		return current, nil
	}
	next.LastPlayedAt = s.now().UTC()

	return s.save(ctx, next, op)
}

func (s *GameService) save(ctx context.Context, g game.Game, op string) (game.Game, error) {
	saved, err := s.gameRepo.Save(ctx, g)
	if err != nil {
		err = storeError(err, op)
		if errors.Is(err, ErrConflict) {
			s.logger.WarnContext(ctx, "game write conflict", "game_id", g.ID, "op", op, "revision", g.Revision)
		}
		return game.Game{}, err
	}

	s.logger.InfoContext(ctx, "game saved", "game_id", saved.ID, "op", op, "revision", saved.Revision)
	return saved, nil
}
