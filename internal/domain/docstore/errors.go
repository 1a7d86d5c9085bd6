package docstore

import "github.com/cockroachdb/errors"

var (
	ErrNotFound = errors.New("document not found")
	ErrConflict = errors.New("document update conflict")
	// ErrUnavailable covers storage that cannot be reached or written: a closed
	// or destroyed store, quota exhaustion, I/O failures.
	ErrUnavailable = errors.New("document store unavailable")
	ErrDestroyed   = errors.Mark(errors.New("document store destroyed"), ErrUnavailable)
)

// Unavailable tags err so errors.Is(err, ErrUnavailable) holds.
func Unavailable(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrap(err, msg), ErrUnavailable)
}
