package docstore

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
)

const (
	// LocalPrefix marks bookkeeping documents that never appear in listings.
	LocalPrefix = "_local/"
	VersionKey  = LocalPrefix + "version"
)

// Document is one stored record. Body holds the JSON encoded fields; the key
// and revision live beside it rather than inside it.
type Document struct {
	Key      string
	Revision string
	Body     []byte
}

func IsLocal(key string) bool {
	return strings.HasPrefix(key, LocalPrefix)
}

func (d Document) Clone() Document {
	d.Body = append([]byte(nil), d.Body...)
	return d
}

// NextRevision derives the token for the write that follows prev. Tokens have
// the form "<generation>-<hash>", the generation increasing by one per write.
func NextRevision(prev string, body []byte) string {
	gen := RevisionGeneration(prev) + 1
	return strconv.Itoa(gen) + "-" + strconv.FormatUint(xxhash.Sum64(body), 16)
}

// RevisionGeneration returns the numeric prefix of a revision token, or 0 for
// an empty or malformed token.
func RevisionGeneration(rev string) int {
	head, _, ok := strings.Cut(rev, "-")
	if !ok {
		return 0
	}
	gen, err := strconv.Atoi(head)
	if err != nil || gen < 0 {
		return 0
	}
	return gen
}

// CheckRevision validates a write carrying rev against what is stored for the
// key. A new key accepts only an empty revision.
func CheckRevision(key, stored string, exists bool, rev string) error {
	switch {
	case !exists && rev != "":
		return errors.Wrapf(ErrConflict, "%s: no stored revision, got %q", key, rev)
	case exists && rev != stored:
		return errors.Wrapf(ErrConflict, "%s: stored revision %q, got %q", key, stored, rev)
	}
	return nil
}
