package scoring

import "github.com/riskibarqy/tally-pad/internal/domain/game"

type Phase10Standing struct {
	// Phase is the phase the player is working on; above 10 means all done.
	Phase int
	Total int
}

func (s Phase10Standing) Finished() bool {
	return s.Phase > game.Phase10Phases
}

// CurrentPhase is 1 plus the number of rounds, among the first upTo, in which
// the player completed their phase.
func CurrentPhase(player string, rounds []game.Phase10Round, upTo int) int {
	phase := 1
	for i := 0; i < upTo && i < len(rounds); i++ {
		if rounds[i][player].PhaseCompleted {
			phase++
		}
	}
	return phase
}

func Phase10StandingOf(player string, entries game.Phase10Entries) Phase10Standing {
	s := Phase10Standing{Phase: CurrentPhase(player, entries.Rounds, len(entries.Rounds))}
	for _, r := range entries.Rounds {
		s.Total += r[player].Score
	}
	return s
}

func Phase10Standings(players []string, entries game.Phase10Entries) map[string]Phase10Standing {
	out := make(map[string]Phase10Standing, len(players))
	for _, p := range players {
		out[p] = Phase10StandingOf(p, entries)
	}
	return out
}

// Phase10CanFinish reports whether some player has cleared all ten phases.
func Phase10CanFinish(players []string, entries game.Phase10Entries) bool {
	for _, p := range players {
		if Phase10StandingOf(p, entries).Finished() {
			return true
		}
	}
	return false
}

// Phase10Winners picks the lowest total among players past phase 10. When no
// one got there, the furthest phase wins and the lowest total breaks ties.
func Phase10Winners(players []string, entries game.Phase10Entries) []string {
	standings := Phase10Standings(players, entries)

	finished := make([]Standing, 0, len(players))
	anyFinished := false
	for _, p := range players {
		s := standings[p]
		anyFinished = anyFinished || s.Finished()
		finished = append(finished, Standing{Player: p, Score: s.Total, Eligible: s.Finished()})
	}
	if anyFinished {
		return SelectWinners(finished, LowestWins)
	}

	byPhase := make([]Standing, 0, len(players))
	for _, p := range players {
		byPhase = append(byPhase, Standing{Player: p, Score: standings[p].Phase, Eligible: true})
	}
	leaders := SelectWinners(byPhase, HighestWins)

	tied := make([]Standing, 0, len(leaders))
	for _, p := range leaders {
		tied = append(tied, Standing{Player: p, Score: standings[p].Total, Eligible: true})
	}
	return SelectWinners(tied, LowestWins)
}
