package docstore

import (
	"testing"

	"github.com/cockroachdb/errors"
)

func TestNextRevision(t *testing.T) {
	first := NextRevision("", []byte(`{"a":1}`))
	if RevisionGeneration(first) != 1 {
		t.Fatalf("expected generation 1, got %s", first)
	}

	second := NextRevision(first, []byte(`{"a":1}`))
	if RevisionGeneration(second) != 2 {
		t.Fatalf("expected generation 2, got %s", second)
	}
	if first == second {
		t.Fatalf("revisions must change on every write")
	}

	other := NextRevision(first, []byte(`{"a":2}`))
	if other == second {
		t.Fatalf("different bodies must produce different revisions")
	}
}

func TestRevisionGeneration_Malformed(t *testing.T) {
	for _, rev := range []string{"", "abc", "x-1", "-3-a"} {
		if got := RevisionGeneration(rev); got != 0 {
			t.Fatalf("RevisionGeneration(%q) = %d, want 0", rev, got)
		}
	}
}

func TestIsLocal(t *testing.T) {
	if !IsLocal(VersionKey) {
		t.Fatalf("version key must be local")
	}
	if IsLocal("game-1") || IsLocal("_localish") {
		t.Fatalf("only the _local/ prefix is local")
	}
}

func TestErrDestroyedIsUnavailable(t *testing.T) {
	if !errors.Is(ErrDestroyed, ErrUnavailable) {
		t.Fatalf("destroyed must match unavailable")
	}
	wrapped := Unavailable(errors.New("disk I/O error"), "put document")
	if !errors.Is(wrapped, ErrUnavailable) {
		t.Fatalf("expected wrapped error to match ErrUnavailable, got %v", wrapped)
	}
	if Unavailable(nil, "noop") != nil {
		t.Fatalf("nil error must stay nil")
	}
}

func TestCheckRevision(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		exists   bool
		rev      string
		conflict bool
	}{
		{name: "new key", exists: false, rev: ""},
		{name: "new key with revision", exists: false, rev: "1-a", conflict: true},
		{name: "matching", stored: "2-b", exists: true, rev: "2-b"},
		{name: "stale", stored: "2-b", exists: true, rev: "1-a", conflict: true},
		{name: "missing revision on existing key", stored: "1-a", exists: true, rev: "", conflict: true},
	}
	for _, tc := range tests {
		err := CheckRevision("k", tc.stored, tc.exists, tc.rev)
		if tc.conflict != errors.Is(err, ErrConflict) {
			t.Fatalf("%s: conflict=%v, got %v", tc.name, tc.conflict, err)
		}
		if !tc.conflict && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
}
