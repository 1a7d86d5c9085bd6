package usecase

import (
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/tally-pad/internal/domain/docstore"
	"github.com/riskibarqy/tally-pad/internal/domain/game"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("resource not found")
	ErrConflict         = errors.New("revision conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// storeError wraps err with op and marks it with the matching use case
// sentinel. The store sentinel still matches through errors.Is.
func storeError(err error, op string) error {
	if err == nil {
		return nil
	}
	wrapped := errors.Wrap(err, op)
	switch {
	case errors.Is(err, docstore.ErrConflict):
		return errors.Mark(wrapped, ErrConflict)
	case errors.Is(err, docstore.ErrNotFound):
		return errors.Mark(wrapped, ErrNotFound)
	case errors.Is(err, docstore.ErrUnavailable):
		return errors.Mark(wrapped, ErrStoreUnavailable)
	default:
		return wrapped
	}
}

// domainError marks rule violations reported by the game package as invalid input.
func domainError(err error, op string) error {
	if err == nil {
		return nil
	}
	wrapped := errors.Wrap(err, op)
	for _, target := range []error{
		game.ErrNoPlayers,
		game.ErrBlankPlayer,
		game.ErrDuplicatePlayer,
		game.ErrUnknownPlayer,
		game.ErrUnknownVariant,
		game.ErrVariantMismatch,
		game.ErrInvalidScore,
		game.ErrRoundOutOfRange,
		game.ErrHoleOutOfRange,
		game.ErrInvalidHoleCount,
		game.ErrUnknownCategory,
	} {
		if errors.Is(err, target) {
			return errors.Mark(wrapped, ErrInvalidInput)
		}
	}
	return wrapped
}
