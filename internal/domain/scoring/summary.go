package scoring

import "github.com/riskibarqy/tally-pad/internal/domain/game"

// PlayerSummary is one row of a scoreboard. Only the detail matching the
// game's variant is set.
type PlayerSummary struct {
	Player  string
	Total   int
	Rounds  int
	Yahtzee *YahtzeeTotals
	Phase10 *Phase10Standing
	Golf    *GolfTotals
}

type Summary struct {
	GameID    string
	Variant   game.Variant
	Status    game.Status
	Order     Order
	Players   []PlayerSummary
	Winners   []string
	CanFinish bool
	// NextPlayer is set for simple tallies only.
	NextPlayer string
	Rounds     int
	TotalPar   int
}

func OrderOf(v game.Variant) Order {
	switch v {
	case game.VariantPhase10, game.VariantGolf, game.VariantPuttPutt:
		return LowestWins
	default:
		return HighestWins
	}
}

// Winners dispatches to the engine of the game's variant.
func Winners(g game.Game) []string {
	switch g.Variant {
	case game.VariantSimple:
		return SimpleWinners(g.Players, g.SimpleEntries())
	case game.VariantYahtzee:
		return YahtzeeWinners(g.Players, g.YahtzeeEntries())
	case game.VariantPhase10:
		return Phase10Winners(g.Players, g.Phase10Entries())
	case game.VariantGolf, game.VariantPuttPutt:
		return GolfWinners(g.Players, g.GolfEntries())
	default:
		return nil
	}
}

// CanFinish reports whether an in-progress game may be marked completed.
func CanFinish(g game.Game) bool {
	if g.Completed() || !g.Variant.Valid() {
		return false
	}
	if g.Variant == game.VariantPhase10 {
		return Phase10CanFinish(g.Players, g.Phase10Entries())
	}
	return true
}

func Summarize(g game.Game) Summary {
	s := Summary{
		GameID:    g.ID,
		Variant:   g.Variant,
		Status:    g.Status,
		Order:     OrderOf(g.Variant),
		Players:   make([]PlayerSummary, 0, len(g.Players)),
		Winners:   Winners(g),
		CanFinish: CanFinish(g),
	}

	switch g.Variant {
	case game.VariantSimple:
		entries := g.SimpleEntries()
		for _, p := range g.Players {
			s.Players = append(s.Players, PlayerSummary{Player: p, Total: SimpleTotal(entries[p]), Rounds: len(entries[p])})
		}
		s.Rounds = SimpleRounds(entries)
		if !g.Completed() {
			s.NextPlayer = NextPlayer(g.Players, entries)
		}
	case game.VariantYahtzee:
		entries := g.YahtzeeEntries()
		for _, p := range g.Players {
			t := ScoreYahtzeeCard(entries[p])
			s.Players = append(s.Players, PlayerSummary{Player: p, Total: t.Grand, Yahtzee: &t})
		}
	case game.VariantPhase10:
		entries := g.Phase10Entries()
		for _, p := range g.Players {
			st := Phase10StandingOf(p, entries)
			s.Players = append(s.Players, PlayerSummary{Player: p, Total: st.Total, Rounds: len(entries.Rounds), Phase10: &st})
		}
		s.Rounds = len(entries.Rounds)
	case game.VariantGolf, game.VariantPuttPutt:
		entries := g.GolfEntries()
		for _, p := range g.Players {
			t := GolfPlayerTotals(entries.Holes, entries.Scores[p])
			s.Players = append(s.Players, PlayerSummary{Player: p, Total: t.Strokes, Rounds: t.HolesPlayed, Golf: &t})
		}
		s.Rounds = len(entries.Holes)
		s.TotalPar = TotalPar(entries.Holes)
	}
	return s
}
