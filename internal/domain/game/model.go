package game

import (
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

var (
	ErrNoPlayers        = errors.New("at least one player is required")
	ErrBlankPlayer      = errors.New("player name is blank")
	ErrDuplicatePlayer  = errors.New("duplicate player")
	ErrUnknownPlayer    = errors.New("player is not part of the game")
	ErrUnknownVariant   = errors.New("unknown game variant")
	ErrVariantMismatch  = errors.New("operation does not apply to this game variant")
	ErrInvalidScore     = errors.New("invalid score")
	ErrRoundOutOfRange  = errors.New("round out of range")
	ErrHoleOutOfRange   = errors.New("hole out of range")
	ErrInvalidHoleCount = errors.New("invalid hole count")
)

// Game is one play session. Entries holds the raw scores; its concrete type is
// fixed by Variant.
type Game struct {
	ID           string
	Revision     string
	Name         string
	Variant      Variant
	Status       Status
	CreatedDate  string
	LastPlayedAt time.Time
	Players      []string
	Entries      Entries
	CourseName   string
}

func (g Game) Completed() bool {
	return g.Status == StatusCompleted
}

func (g Game) HasPlayer(name string) bool {
	return slices.Contains(g.Players, name)
}

func (g Game) Clone() Game {
	out := g
	out.Players = slices.Clone(g.Players)
	if g.Entries != nil {
		out.Entries = g.Entries.clone()
	}
	return out
}

func (g Game) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return errors.New("game id is required")
	}
	if !g.Variant.Valid() {
		return errors.Wrapf(ErrUnknownVariant, "%q", g.Variant)
	}
	if !g.Status.Valid() {
		return errors.Newf("unknown game status %q", g.Status)
	}
	if err := ValidatePlayers(g.Players); err != nil {
		return err
	}
	if g.Entries != nil && g.Entries.Variant() != entriesVariant(g.Variant) {
		return errors.Wrapf(ErrVariantMismatch, "game %s holds %s entries", g.Variant, g.Entries.Variant())
	}
	return nil
}

// ValidatePlayers enforces a non-empty, duplicate-free roster of non-blank names.
func ValidatePlayers(players []string) error {
	if len(players) == 0 {
		return ErrNoPlayers
	}
	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		if strings.TrimSpace(p) == "" {
			return ErrBlankPlayer
		}
		if _, ok := seen[p]; ok {
			return errors.Wrapf(ErrDuplicatePlayer, "%q", p)
		}
		seen[p] = struct{}{}
	}
	return nil
}

func (g Game) requirePlayer(player string) error {
	if !g.HasPlayer(player) {
		return errors.Wrapf(ErrUnknownPlayer, "%q", player)
	}
	return nil
}

// SimpleEntries returns the game's tally scores, or an empty set when the game
// is of another variant.
func (g Game) SimpleEntries() SimpleEntries {
	if e, ok := g.Entries.(SimpleEntries); ok {
		return e
	}
	return SimpleEntries{}
}

func (g Game) YahtzeeEntries() YahtzeeEntries {
	if e, ok := g.Entries.(YahtzeeEntries); ok {
		return e
	}
	return YahtzeeEntries{}
}

func (g Game) Phase10Entries() Phase10Entries {
	if e, ok := g.Entries.(Phase10Entries); ok {
		return e
	}
	return Phase10Entries{}
}

func (g Game) GolfEntries() GolfEntries {
	if e, ok := g.Entries.(GolfEntries); ok {
		return e
	}
	return GolfEntries{}
}

func entriesVariant(v Variant) Variant {
	if v == VariantPuttPutt {
		return VariantGolf
	}
	return v
}
