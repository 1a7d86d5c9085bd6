package game

import "strconv"

type EntryKind uint8

const (
	EntryUnset EntryKind = iota
	EntryValue
	EntryScratched
)

// Entry is one scorecard cell. A scratched cell is shown differently from an
// empty one but both score nothing.
type Entry struct {
	kind  EntryKind
	value int
}

var Unset = Entry{}

func Value(n int) Entry {
	return Entry{kind: EntryValue, value: n}
}

func Scratch() Entry {
	return Entry{kind: EntryScratched}
}

func (e Entry) Kind() EntryKind { return e.kind }

func (e Entry) IsSet() bool { return e.kind != EntryUnset }

func (e Entry) IsScratched() bool { return e.kind == EntryScratched }

// Int returns the numeric value and whether the entry holds one.
func (e Entry) Int() (int, bool) {
	if e.kind != EntryValue {
		return 0, false
	}
	return e.value, true
}

// Points is the entry's contribution to any total.
func (e Entry) Points() int {
	if e.kind != EntryValue {
		return 0
	}
	return e.value
}

func (e Entry) String() string {
	switch e.kind {
	case EntryValue:
		return strconv.Itoa(e.value)
	case EntryScratched:
		return "X"
	default:
		return "-"
	}
}
