package scoring

import "github.com/riskibarqy/tally-pad/internal/domain/game"

type GolfTotals struct {
	Strokes     int
	HolesPlayed int
	// ParPlayed sums the par of the holes that have a score.
	ParPlayed int
	ToPar     int
}

func TotalPar(holes []game.Hole) int {
	total := 0
	for _, h := range holes {
		total += h.Par
	}
	return total
}

func GolfPlayerTotals(holes []game.Hole, strokes []game.Entry) GolfTotals {
	var t GolfTotals
	for i, e := range strokes {
		if i >= len(holes) {
			break
		}
		n, ok := e.Int()
		if !ok {
			continue
		}
		t.Strokes += n
		t.HolesPlayed++
		t.ParPlayed += holes[i].Par
	}
	t.ToPar = t.Strokes - t.ParPlayed
	return t
}

func GolfTotalsByPlayer(players []string, entries game.GolfEntries) map[string]GolfTotals {
	out := make(map[string]GolfTotals, len(players))
	for _, p := range players {
		out[p] = GolfPlayerTotals(entries.Holes, entries.Scores[p])
	}
	return out
}

// GolfWinners returns the players tied at the fewest strokes. Par plays no part.
func GolfWinners(players []string, entries game.GolfEntries) []string {
	standings := make([]Standing, 0, len(players))
	for _, p := range players {
		standings = append(standings, Standing{
			Player:   p,
			Score:    GolfPlayerTotals(entries.Holes, entries.Scores[p]).Strokes,
			Eligible: true,
		})
	}
	return SelectWinners(standings, LowestWins)
}
