package scoring

import "github.com/riskibarqy/tally-pad/internal/domain/game"

const (
	UpperBonusThreshold = 63
	UpperBonus          = 35
	YahtzeeBonusPoints  = game.BonusPoints
)

type YahtzeeTotals struct {
	Upper          int
	Bonus          int
	UpperWithBonus int
	// Lower includes the Yahtzee bonus points.
	Lower int
	Grand int
}

// ScoreYahtzeeCard totals one card. Scratched and empty cells add nothing.
func ScoreYahtzeeCard(card game.YahtzeeCard) YahtzeeTotals {
	var t YahtzeeTotals
	for _, cat := range game.UpperCategories {
		t.Upper += card.Get(cat).Points()
	}
	t.Bonus = UpperSectionBonus(t.Upper)
	t.UpperWithBonus = t.Upper + t.Bonus

	for _, cat := range game.LowerCategories {
		t.Lower += card.Get(cat).Points()
	}
	t.Lower += max(card.Bonus, 0) * YahtzeeBonusPoints

	t.Grand = t.UpperWithBonus + t.Lower
	return t
}

func UpperSectionBonus(upper int) int {
	if upper >= UpperBonusThreshold {
		return UpperBonus
	}
	return 0
}

func YahtzeeTotalsByPlayer(players []string, entries game.YahtzeeEntries) map[string]YahtzeeTotals {
	out := make(map[string]YahtzeeTotals, len(players))
	for _, p := range players {
		out[p] = ScoreYahtzeeCard(entries[p])
	}
	return out
}

// YahtzeeWinners returns the players tied at the highest grand total.
func YahtzeeWinners(players []string, entries game.YahtzeeEntries) []string {
	standings := make([]Standing, 0, len(players))
	for _, p := range players {
		standings = append(standings, Standing{Player: p, Score: ScoreYahtzeeCard(entries[p]).Grand, Eligible: true})
	}
	return SelectWinners(standings, HighestWins)
}
