package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/tally-pad/internal/domain/game"
)

// newValidator registers the game-specific tags used on input structs:
// "variant" accepts any game variant, "course_variant" only golf-like ones.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("variant", func(fl validator.FieldLevel) bool {
		return game.Variant(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("course_variant", func(fl validator.FieldLevel) bool {
		return game.Variant(fl.Field().String()).HasCourse()
	})
	return v
}

func validateInput(ctx context.Context, v *validator.Validate, payload any) error {
	if err := v.StructCtx(ctx, payload); err != nil {
		return errors.Mark(errors.Wrap(err, "validation failed"), ErrInvalidInput)
	}
	return nil
}
