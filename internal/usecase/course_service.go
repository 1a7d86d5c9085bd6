package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/tally-pad/internal/domain/game"
	"github.com/riskibarqy/tally-pad/internal/platform/logging"
	"gopkg.in/yaml.v3"
)

type SaveCourseTemplateInput struct {
	Name     string       `validate:"required,max=80" yaml:"name"`
	GameType game.Variant `validate:"required,course_variant" yaml:"gameType"`
	Pars     []int        `validate:"required,min=1,max=36,dive,min=1,max=10" yaml:"pars"`
}

type courseFile struct {
	Courses []SaveCourseTemplateInput `yaml:"courses"`
}

type ImportCoursesResult struct {
	Imported []game.CourseTemplate
	// Skipped lists names already present for their game type.
	Skipped []string
}

type CourseService struct {
	courseRepo game.CourseRepository
	validate   *validator.Validate
	logger     *logging.Logger
}

func NewCourseService(courseRepo game.CourseRepository, logger *logging.Logger) *CourseService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CourseService{
		courseRepo: courseRepo,
		validate:   newValidator(),
		logger:     logger,
	}
}

// SaveCourseTemplate stores a new template. Templates are immutable; saving a
// name already used for the game type returns ErrConflict.
func (s *CourseService) SaveCourseTemplate(ctx context.Context, input SaveCourseTemplateInput) (game.CourseTemplate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CourseService.SaveCourseTemplate")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	if gameType, ok := game.ParseVariant(string(input.GameType)); ok {
		input.GameType = gameType
	}
	if err := validateInput(ctx, s.validate, input); err != nil {
		return game.CourseTemplate{}, err
	}

	course := game.CourseTemplate{
		Name:      input.Name,
		GameType:  input.GameType,
		HoleCount: len(input.Pars),
		Pars:      append([]int(nil), input.Pars...),
	}
	if err := course.Validate(); err != nil {
		return game.CourseTemplate{}, errors.Mark(errors.Wrap(err, "validate course template"), ErrInvalidInput)
	}

	created, err := s.courseRepo.Create(ctx, course)
	if err != nil {
		return game.CourseTemplate{}, storeError(err, "save course template")
	}

	s.logger.InfoContext(ctx, "course template saved",
		"name", created.Name,
		"game_type", created.GameType,
		"holes", created.HoleCount,
	)
	return created, nil
}

func (s *CourseService) ListCourseTemplates(ctx context.Context, gameType game.Variant) ([]game.CourseTemplate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CourseService.ListCourseTemplates")
	defer span.End()

	if !gameType.HasCourse() {
		return nil, errors.Wrapf(ErrInvalidInput, "course templates are for golf or putt-putt, got %q", gameType)
	}
	courses, err := s.courseRepo.ListByGameType(ctx, gameType)
	if err != nil {
		return nil, storeError(err, "list course templates")
	}
	return courses, nil
}

func (s *CourseService) DeleteCourseTemplate(ctx context.Context, gameType game.Variant, name string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CourseService.DeleteCourseTemplate")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" || !gameType.HasCourse() {
		return errors.Wrap(ErrInvalidInput, "course game type and name are required")
	}
	if err := s.courseRepo.Delete(ctx, gameType, name); err != nil {
		return storeError(err, "delete course template")
	}

	s.logger.InfoContext(ctx, "course template deleted", "name", name, "game_type", gameType)
	return nil
}

// ImportCourseTemplates saves every course listed in a YAML document of the form
//
//	courses:
//	  - name: Harbour Mini
//	    gameType: puttputt
//	    pars: [2, 3, 3, 2]
//
// Courses whose name is taken are skipped; any other failure stops the import.
func (s *CourseService) ImportCourseTemplates(ctx context.Context, data []byte) (ImportCoursesResult, error) {
	var file courseFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return ImportCoursesResult{}, errors.Mark(errors.Wrap(err, "parse course file"), ErrInvalidInput)
	}
	if len(file.Courses) == 0 {
		return ImportCoursesResult{}, errors.Wrap(ErrInvalidInput, "course file lists no courses")
	}

	var result ImportCoursesResult
	for _, input := range file.Courses {
		created, err := s.SaveCourseTemplate(ctx, input)
		if errors.Is(err, ErrConflict) {
			result.Skipped = append(result.Skipped, input.Name)
			continue
		}
		if err != nil {
			return result, errors.Wrapf(err, "import course %q", input.Name)
		}
		result.Imported = append(result.Imported, created)
	}
	return result, nil
}
