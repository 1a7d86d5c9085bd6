package scoring

import "github.com/riskibarqy/tally-pad/internal/domain/game"

func SimpleTotal(rounds []int) int {
	return sum(rounds)
}

func SimpleTotals(players []string, entries game.SimpleEntries) map[string]int {
	totals := make(map[string]int, len(players))
	for _, p := range players {
		totals[p] = SimpleTotal(entries[p])
	}
	return totals
}

// SimpleWinners returns the players tied at the highest tally.
func SimpleWinners(players []string, entries game.SimpleEntries) []string {
	standings := make([]Standing, 0, len(players))
	for _, p := range players {
		standings = append(standings, Standing{Player: p, Score: SimpleTotal(entries[p]), Eligible: true})
	}
	return SelectWinners(standings, HighestWins)
}

// NextPlayer is whose turn it is: the first player, in display order, holding
// the fewest scores.
func NextPlayer(players []string, entries game.SimpleEntries) string {
	next, fewest := "", -1
	for _, p := range players {
		if n := len(entries[p]); fewest < 0 || n < fewest {
			next, fewest = p, n
		}
	}
	return next
}

// SimpleRounds is the number of rounds entered by the furthest-ahead player.
func SimpleRounds(entries game.SimpleEntries) int {
	rounds := 0
	for _, r := range entries {
		rounds = max(rounds, len(r))
	}
	return rounds
}
