// Package scoring derives totals, progress and winners from a game's raw
// entries. Every function is pure and safe to call on each render; missing
// entries contribute zero.
package scoring

// Order tells which end of the score range wins.
type Order int

const (
	HighestWins Order = iota
	LowestWins
)

func (o Order) String() string {
	if o == LowestWins {
		return "lowest wins"
	}
	return "highest wins"
}

// Standing is one player's position for winner selection.
type Standing struct {
	Player   string
	Score    int
	Eligible bool
}

// SelectWinners returns every eligible player tied at the best score, in
// standings order. It returns nil when nobody is eligible.
func SelectWinners(standings []Standing, order Order) []string {
	best, found := 0, false
	for _, s := range standings {
		if !s.Eligible {
			continue
		}
		if !found || better(s.Score, best, order) {
			best, found = s.Score, true
		}
	}
	if !found {
		return nil
	}

	winners := make([]string, 0, 1)
	for _, s := range standings {
		if s.Eligible && s.Score == best {
			winners = append(winners, s.Player)
		}
	}
	return winners
}

func better(a, b int, order Order) bool {
	if order == LowestWins {
		return a < b
	}
	return a > b
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
