package game

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Category is a Yahtzee scorecard row. Values double as stored keys.
type Category string

const (
	Aces          Category = "Aces"
	Twos          Category = "Twos"
	Threes        Category = "Threes"
	Fours         Category = "Fours"
	Fives         Category = "Fives"
	Sixes         Category = "Sixes"
	ThreeOfAKind  Category = "3 of a Kind"
	FourOfAKind   Category = "4 of a Kind"
	FullHouse     Category = "Full House"
	SmallStraight Category = "Small Straight"
	LargeStraight Category = "Large Straight"
	Yahtzee       Category = "Yahtzee"
	Chance        Category = "Chance"

	// BonusKey stores the extra-Yahtzee counter beside the categories.
	BonusKey = "Yahtzee Bonus"
)

// BonusPoints is the value of one extra Yahtzee.
const BonusPoints = 100

var (
	UpperCategories = []Category{Aces, Twos, Threes, Fours, Fives, Sixes}
	LowerCategories = []Category{ThreeOfAKind, FourOfAKind, FullHouse, SmallStraight, LargeStraight, Yahtzee, Chance}
	AllCategories   = append(append([]Category{}, UpperCategories...), LowerCategories...)
)

var fixedValues = map[Category]int{
	FullHouse:     25,
	SmallStraight: 30,
	LargeStraight: 40,
	Yahtzee:       50,
}

var ErrUnknownCategory = errors.New("unknown yahtzee category")

// FixedValue returns the score of a fixed-value category.
func (c Category) FixedValue() (int, bool) {
	v, ok := fixedValues[c]
	return v, ok
}

func (c Category) IsUpper() bool {
	for _, u := range UpperCategories {
		if u == c {
			return true
		}
	}
	return false
}

func (c Category) Valid() bool {
	for _, cat := range AllCategories {
		if cat == c {
			return true
		}
	}
	return false
}

// ParseCategory matches a category name ignoring case and surrounding space.
// "1s".."6s" and "ones".."sixes" are accepted for the upper section.
func ParseCategory(raw string) (Category, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, cat := range AllCategories {
		if strings.ToLower(string(cat)) == key {
			return cat, true
		}
	}
	aliases := map[string]Category{
		"ones": Aces, "1s": Aces, "2s": Twos, "3s": Threes, "4s": Fours, "5s": Fives, "6s": Sixes,
		"3k": ThreeOfAKind, "4k": FourOfAKind, "fh": FullHouse, "ss": SmallStraight, "ls": LargeStraight,
	}
	cat, ok := aliases[key]
	return cat, ok
}

type FixedChoice int

const (
	ChoiceClear FixedChoice = iota
	ChoiceYes
	ChoiceNo
)

// ResolveFixedChoice turns a yes/no answer for a fixed-value category into a
// cell: yes scores the fixed value, no scratches, clear empties it.
func ResolveFixedChoice(cat Category, choice FixedChoice) (Entry, error) {
	value, ok := cat.FixedValue()
	if !ok {
		return Unset, errors.Wrapf(ErrUnknownCategory, "%q has no fixed value", cat)
	}
	switch choice {
	case ChoiceYes:
		return Value(value), nil
	case ChoiceNo:
		return Scratch(), nil
	default:
		return Unset, nil
	}
}

// ValidateYahtzeeEntry rejects negative values and, for fixed-value
// categories, anything other than the fixed value, zero or a scratch.
func ValidateYahtzeeEntry(cat Category, e Entry) error {
	if !cat.Valid() {
		return errors.Wrapf(ErrUnknownCategory, "%q", cat)
	}
	n, ok := e.Int()
	if !ok {
		return nil
	}
	if n < 0 {
		return errors.Wrapf(ErrInvalidScore, "%s: %d", cat, n)
	}
	if fixed, isFixed := cat.FixedValue(); isFixed && n != fixed && n != 0 {
		return errors.Wrapf(ErrInvalidScore, "%s scores %d or nothing", cat, fixed)
	}
	return nil
}

// SetYahtzee writes one cell on a player's card; Unset clears it.
func (g *Game) SetYahtzee(player string, cat Category, e Entry) error {
	entries, ok := g.Entries.(YahtzeeEntries)
	if !ok {
		return ErrVariantMismatch
	}
	if err := g.requirePlayer(player); err != nil {
		return err
	}
	if err := ValidateYahtzeeEntry(cat, e); err != nil {
		return err
	}
	card := entries.Card(player)
	if e.IsSet() {
		card.Entries[cat] = e
	} else {
		delete(card.Entries, cat)
	}
	entries[player] = card
	return nil
}

func (g *Game) SetYahtzeeBonus(player string, count int) error {
	entries, ok := g.Entries.(YahtzeeEntries)
	if !ok {
		return ErrVariantMismatch
	}
	if err := g.requirePlayer(player); err != nil {
		return err
	}
	if count < 0 {
		return errors.Wrapf(ErrInvalidScore, "bonus count %d", count)
	}
	card := entries.Card(player)
	card.Bonus = count
	entries[player] = card
	return nil
}
