package game

import (
	"testing"

	"github.com/cockroachdb/errors"
)

func newGame(t *testing.T, variant Variant, players ...string) Game {
	t.Helper()
	var holes []Hole
	if variant.HasCourse() {
		holes = DefaultHoles(variant, 9)
	}
	entries, err := NewEntries(variant, players, holes)
	if err != nil {
		t.Fatalf("seed entries: %v", err)
	}
	return Game{ID: "g1", Variant: variant, Status: StatusInProgress, Players: players, Entries: entries}
}

func TestSimple_AddAndUndo(t *testing.T) {
	g := newGame(t, VariantSimple, "Ann", "Ben")
	for _, score := range []int{5, 7} {
		if err := g.AddSimpleScore("Ann", score); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := g.AddSimpleScore("Zed", 1); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected unknown player, got %v", err)
	}

	removed, err := g.UndoSimpleRound()
	if err != nil || !removed {
		t.Fatalf("expected undo to remove, got %v %v", removed, err)
	}
	if got := g.SimpleEntries()["Ann"]; len(got) != 1 || got[0] != 5 {
		t.Fatalf("unexpected rounds after undo: %v", got)
	}
	if len(g.SimpleEntries()["Ben"]) != 0 {
		t.Fatalf("player without entries must be skipped")
	}

	_, _ = g.UndoSimpleRound()
	removed, _ = g.UndoSimpleRound()
	if removed {
		t.Fatalf("undo on empty tally must report nothing removed")
	}
}

func TestPhase10_RoundBounds(t *testing.T) {
	g := newGame(t, VariantPhase10, "Ann", "Ben")

	removed, err := g.RemovePhase10Round()
	if err != nil || removed {
		t.Fatalf("removing the only round must be refused, got %v %v", removed, err)
	}
	if n := len(g.Phase10Entries().Rounds); n != 1 {
		t.Fatalf("expected 1 round, got %d", n)
	}

	for i := 0; i < 25; i++ {
		_, _ = g.AddPhase10Round()
	}
	added, _ := g.AddPhase10Round()
	if added {
		t.Fatalf("expected add past the cap to be refused")
	}
	if n := len(g.Phase10Entries().Rounds); n != MaxPhase10Rounds {
		t.Fatalf("expected %d rounds, got %d", MaxPhase10Rounds, n)
	}
}

func TestPhase10_SetResult(t *testing.T) {
	g := newGame(t, VariantPhase10, "Ann")
	if err := g.SetPhase10Result(0, "Ann", Phase10Result{Score: 15, PhaseCompleted: true}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := g.Phase10Entries().Rounds[0]["Ann"]; got.Score != 15 || !got.PhaseCompleted {
		t.Fatalf("unexpected result: %+v", got)
	}
	if err := g.SetPhase10Result(3, "Ann", Phase10Result{}); !errors.Is(err, ErrRoundOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
	if err := g.SetPhase10Result(0, "Ann", Phase10Result{Score: -5}); !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("expected invalid score, got %v", err)
	}
}

func TestYahtzee_SetClearScratch(t *testing.T) {
	g := newGame(t, VariantYahtzee, "Ann")

	if err := g.SetYahtzee("Ann", Fours, Value(12)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := g.SetYahtzee("Ann", Chance, Scratch()); err != nil {
		t.Fatalf("scratch: %v", err)
	}
	card := g.YahtzeeEntries()["Ann"]
	if card.Get(Fours).Points() != 12 || !card.Get(Chance).IsScratched() {
		t.Fatalf("unexpected card: %+v", card)
	}

	if err := g.SetYahtzee("Ann", Fours, Unset); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := g.YahtzeeEntries()["Ann"].Entries[Fours]; ok {
		t.Fatalf("cleared category must be removed from the card")
	}

	if err := g.SetYahtzee("Ann", FullHouse, Value(20)); !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("expected fixed value rejection, got %v", err)
	}
	if err := g.SetYahtzee("Ann", Category("Sevens"), Value(1)); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected unknown category, got %v", err)
	}
	if err := g.SetYahtzeeBonus("Ann", 2); err != nil {
		t.Fatalf("bonus: %v", err)
	}
	if g.YahtzeeEntries()["Ann"].Bonus != 2 {
		t.Fatalf("expected bonus count 2")
	}
}

func TestResolveFixedChoice(t *testing.T) {
	tests := []struct {
		cat    Category
		choice FixedChoice
		want   Entry
	}{
		{FullHouse, ChoiceYes, Value(25)},
		{SmallStraight, ChoiceYes, Value(30)},
		{LargeStraight, ChoiceYes, Value(40)},
		{Yahtzee, ChoiceYes, Value(50)},
		{Yahtzee, ChoiceNo, Scratch()},
		{FullHouse, ChoiceClear, Unset},
	}
	for _, tc := range tests {
		got, err := ResolveFixedChoice(tc.cat, tc.choice)
		if err != nil || got != tc.want {
			t.Fatalf("ResolveFixedChoice(%s, %d) = %v, %v; want %v", tc.cat, tc.choice, got, err, tc.want)
		}
	}
	if _, err := ResolveFixedChoice(Chance, ChoiceYes); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected error for free-entry category, got %v", err)
	}
}

func TestParseCategory(t *testing.T) {
	for raw, want := range map[string]Category{
		"aces":        Aces,
		"3s":          Threes,
		"full house":  FullHouse,
		"3 OF A KIND": ThreeOfAKind,
		" chance ":    Chance,
	} {
		if got, ok := ParseCategory(raw); !ok || got != want {
			t.Fatalf("ParseCategory(%q) = %q, %v", raw, got, ok)
		}
	}
}

func TestGolf_SetScore(t *testing.T) {
	g := newGame(t, VariantGolf, "Ann")
	if err := g.SetGolfScore("Ann", 0, Value(5)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := g.SetGolfScore("Ann", 9, Value(5)); !errors.Is(err, ErrHoleOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
	if err := g.SetGolfScore("Ann", 1, Scratch()); !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("golf holes cannot be scratched, got %v", err)
	}
	if n := len(g.GolfEntries().Holes); n != 9 {
		t.Fatalf("hole count changed: %d", n)
	}
	if got := g.GolfEntries().Scores["Ann"][0].Points(); got != 5 {
		t.Fatalf("unexpected strokes %d", got)
	}
}

func TestVariantMismatch(t *testing.T) {
	g := newGame(t, VariantSimple, "Ann")
	if err := g.SetGolfScore("Ann", 0, Value(3)); !errors.Is(err, ErrVariantMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if _, err := g.AddPhase10Round(); !errors.Is(err, ErrVariantMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
}

func TestReplaceEntries(t *testing.T) {
	golf := newGame(t, VariantGolf, "Ann")
	short, err := NewGolfEntries([]string{"Ann"}, DefaultHoles(VariantGolf, 3))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := golf.ReplaceEntries(short); !errors.Is(err, ErrInvalidHoleCount) {
		t.Fatalf("expected invalid hole count, got %v", err)
	}
	if n := len(golf.GolfEntries().Holes); n != 9 {
		t.Fatalf("rejected replacement changed the game to %d holes", n)
	}

	phase10 := newGame(t, VariantPhase10, "Ann")
	if err := phase10.ReplaceEntries(Phase10Entries{}); !errors.Is(err, ErrRoundOutOfRange) {
		t.Fatalf("expected round out of range, got %v", err)
	}
	stranger := Phase10Entries{Rounds: []Phase10Round{{"Zed": {}}}}
	if err := phase10.ReplaceEntries(stranger); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected unknown player, got %v", err)
	}

	simple := newGame(t, VariantSimple, "Ann")
	if err := simple.ReplaceEntries(Phase10Entries{}); !errors.Is(err, ErrVariantMismatch) {
		t.Fatalf("expected variant mismatch, got %v", err)
	}
	next := SimpleEntries{"Ann": {1, 2, 3}}
	if err := simple.ReplaceEntries(next); err != nil {
		t.Fatalf("replace: %v", err)
	}
	next["Ann"][0] = 50
	if got := simple.SimpleEntries()["Ann"]; got[0] != 1 {
		t.Fatalf("replacement must be copied, got %v", got)
	}
}
