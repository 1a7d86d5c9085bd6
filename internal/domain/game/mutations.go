package game

import "github.com/cockroachdb/errors"

// AddSimpleScore appends one round score for player.
func (g *Game) AddSimpleScore(player string, score int) error {
	entries, ok := g.Entries.(SimpleEntries)
	if !ok {
		return ErrVariantMismatch
	}
	if err := g.requirePlayer(player); err != nil {
		return err
	}
	entries.Add(player, score)
	return nil
}

func (g *Game) UndoSimpleRound() (bool, error) {
	entries, ok := g.Entries.(SimpleEntries)
	if !ok {
		return false, ErrVariantMismatch
	}
	return entries.UndoLastRound(), nil
}

func (g *Game) AddPhase10Round() (bool, error) {
	entries, ok := g.Entries.(Phase10Entries)
	if !ok {
		return false, ErrVariantMismatch
	}
	added := entries.AddRound(g.Players)
	g.Entries = entries
	return added, nil
}

func (g *Game) RemovePhase10Round() (bool, error) {
	entries, ok := g.Entries.(Phase10Entries)
	if !ok {
		return false, ErrVariantMismatch
	}
	removed := entries.RemoveRound()
	g.Entries = entries
	return removed, nil
}

func (g *Game) SetPhase10Result(round int, player string, result Phase10Result) error {
	entries, ok := g.Entries.(Phase10Entries)
	if !ok {
		return ErrVariantMismatch
	}
	if err := g.requirePlayer(player); err != nil {
		return err
	}
	if result.Score < 0 {
		return errors.Wrapf(ErrInvalidScore, "phase 10 score %d", result.Score)
	}
	if err := entries.Set(round, player, result); err != nil {
		return errors.Wrapf(err, "round %d of %d", round+1, len(entries.Rounds))
	}
	g.Entries = entries
	return nil
}

func (g *Game) SetGolfScore(player string, hole int, strokes Entry) error {
	entries, ok := g.Entries.(GolfEntries)
	if !ok {
		return ErrVariantMismatch
	}
	if err := g.requirePlayer(player); err != nil {
		return err
	}
	if err := entries.Set(player, hole, strokes); err != nil {
		return errors.Wrapf(err, "hole %d of %d", hole+1, len(entries.Holes))
	}
	return nil
}

// ReplaceEntries swaps in a whole score set. The replacement must hold the
// game's variant, only name rostered players, and keep the golf hole count and
// the Phase 10 round bounds.
func (g *Game) ReplaceEntries(entries Entries) error {
	if entries == nil {
		return errors.Wrap(ErrVariantMismatch, "entries are required")
	}
	if entries.Variant() != entriesVariant(g.Variant) {
		return errors.Wrapf(ErrVariantMismatch, "game %s cannot hold %s entries", g.Variant, entries.Variant())
	}

	switch e := entries.(type) {
	case SimpleEntries:
		for p := range e {
			if err := g.requirePlayer(p); err != nil {
				return err
			}
		}
	case YahtzeeEntries:
		for p, card := range e {
			if err := g.requirePlayer(p); err != nil {
				return err
			}
			if card.Bonus < 0 {
				return errors.Wrapf(ErrInvalidScore, "%s: yahtzee bonus %d", p, card.Bonus)
			}
			for cat, entry := range card.Entries {
				if err := ValidateYahtzeeEntry(cat, entry); err != nil {
					return errors.Wrapf(err, "%s", p)
				}
			}
		}
	case Phase10Entries:
		if n := len(e.Rounds); n < MinPhase10Rounds || n > MaxPhase10Rounds {
			return errors.Wrapf(ErrRoundOutOfRange, "%d rounds, want %d to %d", n, MinPhase10Rounds, MaxPhase10Rounds)
		}
		for i, round := range e.Rounds {
			for p, result := range round {
				if err := g.requirePlayer(p); err != nil {
					return errors.Wrapf(err, "round %d", i+1)
				}
				if result.Score < 0 {
					return errors.Wrapf(ErrInvalidScore, "round %d: phase 10 score %d", i+1, result.Score)
				}
			}
		}
	case GolfEntries:
		if current, ok := g.Entries.(GolfEntries); ok && len(e.Holes) != len(current.Holes) {
			return errors.Wrapf(ErrInvalidHoleCount, "%d holes, the game has %d", len(e.Holes), len(current.Holes))
		}
		if len(e.Holes) < MinHoles || len(e.Holes) > MaxHoles {
			return errors.Wrapf(ErrInvalidHoleCount, "%d holes", len(e.Holes))
		}
		for i, h := range e.Holes {
			if h.Par <= 0 {
				return errors.Wrapf(ErrInvalidScore, "hole %d par %d", i+1, h.Par)
			}
		}
		for p, row := range e.Scores {
			if err := g.requirePlayer(p); err != nil {
				return err
			}
			if len(row) > len(e.Holes) {
				return errors.Wrapf(ErrHoleOutOfRange, "%s has %d scores for %d holes", p, len(row), len(e.Holes))
			}
			for i, strokes := range row {
				if n, ok := strokes.Int(); strokes.IsScratched() || (ok && n < 0) {
					return errors.Wrapf(ErrInvalidScore, "%s hole %d", p, i+1)
				}
			}
		}
	}

	g.Entries = entries.clone()
	return nil
}
