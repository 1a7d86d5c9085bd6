package game

import (
	"maps"
	"slices"
)

// Entries is the raw score data of a game. Implementations: SimpleEntries,
// YahtzeeEntries, Phase10Entries and GolfEntries (shared by Golf and Putt-Putt).
type Entries interface {
	Variant() Variant
	clone() Entries
}

// NewEntries seeds the empty score structure for a new game.
func NewEntries(variant Variant, players []string, holes []Hole) (Entries, error) {
	switch variant {
	case VariantSimple:
		e := make(SimpleEntries, len(players))
		for _, p := range players {
			e[p] = []int{}
		}
		return e, nil
	case VariantYahtzee:
		e := make(YahtzeeEntries, len(players))
		for _, p := range players {
			e[p] = NewYahtzeeCard()
		}
		return e, nil
	case VariantPhase10:
		e := Phase10Entries{}
		e.AddRound(players)
		return e, nil
	case VariantGolf, VariantPuttPutt:
		return NewGolfEntries(players, holes)
	default:
		return nil, ErrUnknownVariant
	}
}

// SimpleEntries maps each player to the ordered list of round scores.
type SimpleEntries map[string][]int

func (SimpleEntries) Variant() Variant { return VariantSimple }

func (e SimpleEntries) clone() Entries {
	out := make(SimpleEntries, len(e))
	for p, rounds := range e {
		out[p] = slices.Clone(rounds)
	}
	return out
}

func (e SimpleEntries) Add(player string, score int) {
	e[player] = append(e[player], score)
}

// UndoLastRound drops the last score of every player. Players without scores
// are skipped. It reports whether anything was removed.
func (e SimpleEntries) UndoLastRound() bool {
	removed := false
	for p, rounds := range e {
		if len(rounds) == 0 {
			continue
		}
		e[p] = rounds[:len(rounds)-1]
		removed = true
	}
	return removed
}

// YahtzeeEntries maps each player to their scorecard.
type YahtzeeEntries map[string]YahtzeeCard

func (YahtzeeEntries) Variant() Variant { return VariantYahtzee }

func (e YahtzeeEntries) clone() Entries {
	out := make(YahtzeeEntries, len(e))
	for p, card := range e {
		out[p] = card.Clone()
	}
	return out
}

// Card returns the player's card, creating it when missing.
func (e YahtzeeEntries) Card(player string) YahtzeeCard {
	card, ok := e[player]
	if !ok || card.Entries == nil {
		card = NewYahtzeeCard()
		e[player] = card
	}
	return card
}

type YahtzeeCard struct {
	Entries map[Category]Entry
	// Bonus counts extra Yahtzees, each worth 100 points.
	Bonus int
}

func NewYahtzeeCard() YahtzeeCard {
	return YahtzeeCard{Entries: map[Category]Entry{}}
}

func (c YahtzeeCard) Clone() YahtzeeCard {
	c.Entries = maps.Clone(c.Entries)
	if c.Entries == nil {
		c.Entries = map[Category]Entry{}
	}
	return c
}

func (c YahtzeeCard) Get(cat Category) Entry {
	return c.Entries[cat]
}

// Filled reports whether every category holds a value or a scratch.
func (c YahtzeeCard) Filled() bool {
	for _, cat := range AllCategories {
		if !c.Entries[cat].IsSet() {
			return false
		}
	}
	return true
}

type Phase10Result struct {
	Score          int
	PhaseCompleted bool
}

// Phase10Round maps a player to their result for one hand.
type Phase10Round map[string]Phase10Result

const (
	MinPhase10Rounds = 1
	MaxPhase10Rounds = 25
	Phase10Phases    = 10
)

type Phase10Entries struct {
	Rounds []Phase10Round
}

func (Phase10Entries) Variant() Variant { return VariantPhase10 }

func (e Phase10Entries) clone() Entries {
	out := Phase10Entries{Rounds: make([]Phase10Round, len(e.Rounds))}
	for i, r := range e.Rounds {
		out.Rounds[i] = maps.Clone(r)
	}
	return out
}

// AddRound appends an all-zero round. It refuses once MaxPhase10Rounds exist.
func (e *Phase10Entries) AddRound(players []string) bool {
	if len(e.Rounds) >= MaxPhase10Rounds {
		return false
	}
	round := make(Phase10Round, len(players))
	for _, p := range players {
		round[p] = Phase10Result{}
	}
	e.Rounds = append(e.Rounds, round)
	return true
}

// RemoveRound drops the last round. The final remaining round is never removed.
func (e *Phase10Entries) RemoveRound() bool {
	if len(e.Rounds) <= MinPhase10Rounds {
		return false
	}
	e.Rounds = e.Rounds[:len(e.Rounds)-1]
	return true
}

func (e *Phase10Entries) Set(round int, player string, result Phase10Result) error {
	if round < 0 || round >= len(e.Rounds) {
		return ErrRoundOutOfRange
	}
	if e.Rounds[round] == nil {
		e.Rounds[round] = Phase10Round{}
	}
	e.Rounds[round][player] = result
	return nil
}

const (
	MinHoles = 1
	MaxHoles = 36
)

type Hole struct {
	Par int
}

// DefaultHoles lays out count holes at the variant's default par.
func DefaultHoles(variant Variant, count int) []Hole {
	holes := make([]Hole, count)
	for i := range holes {
		holes[i].Par = variant.DefaultPar()
	}
	return holes
}

func HolesFromPars(pars []int) []Hole {
	holes := make([]Hole, len(pars))
	for i, par := range pars {
		holes[i].Par = par
	}
	return holes
}

type GolfEntries struct {
	Holes []Hole
	// Scores maps a player to strokes per hole, aligned with Holes.
	Scores map[string][]Entry
}

func NewGolfEntries(players []string, holes []Hole) (GolfEntries, error) {
	if len(holes) < MinHoles || len(holes) > MaxHoles {
		return GolfEntries{}, ErrInvalidHoleCount
	}
	for _, h := range holes {
		if h.Par <= 0 {
			return GolfEntries{}, ErrInvalidScore
		}
	}
	e := GolfEntries{Holes: slices.Clone(holes), Scores: make(map[string][]Entry, len(players))}
	for _, p := range players {
		e.Scores[p] = make([]Entry, len(holes))
	}
	return e, nil
}

func (GolfEntries) Variant() Variant { return VariantGolf }

func (e GolfEntries) clone() Entries {
	out := GolfEntries{Holes: slices.Clone(e.Holes), Scores: make(map[string][]Entry, len(e.Scores))}
	for p, s := range e.Scores {
		out.Scores[p] = slices.Clone(s)
	}
	return out
}

// Set records strokes for one hole. The hole count never changes.
func (e GolfEntries) Set(player string, hole int, strokes Entry) error {
	if hole < 0 || hole >= len(e.Holes) {
		return ErrHoleOutOfRange
	}
	if strokes.IsScratched() {
		return ErrInvalidScore
	}
	if n, ok := strokes.Int(); ok && n < 0 {
		return ErrInvalidScore
	}
	row := e.Scores[player]
	if len(row) < len(e.Holes) {
		grown := make([]Entry, len(e.Holes))
		copy(grown, row)
		row = grown
	}
	row[hole] = strokes
	e.Scores[player] = row
	return nil
}
