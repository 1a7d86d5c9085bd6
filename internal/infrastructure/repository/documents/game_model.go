package documents

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/tally-pad/internal/domain/game"
	"github.com/riskibarqy/tally-pad/internal/platform/jsoncodec"
)

const (
	TypeGame           = "game"
	TypeCourseTemplate = "courseTemplate"

	scratchMarker = "X"

	// BonusUnitCount marks yahtzee documents whose "Yahtzee Bonus" holds the
	// number of extra Yahtzees. Unmarked documents hold bonus points.
	BonusUnitCount = "count"
)

var ErrCorruptDocument = errors.New("corrupt document")

// gameDocument is the stored body of a game. Score shapes by variant:
// simple and golf use {"<player>": {"rounds": [...]}}, yahtzee uses
// {"<player>": {"<category>": n | "X", "Yahtzee Bonus": count}} with
// bonusUnit "count".
type gameDocument struct {
	Type          string                     `json:"type"`
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	Variant       string                     `json:"variant"`
	Status        string                     `json:"status"`
	Date          string                     `json:"date"`
	LastPlayed    int64                      `json:"lastPlayed"`
	Players       []string                   `json:"players"`
	Scores        map[string]json.RawMessage `json:"scores"`
	Phase10Rounds []map[string]phase10Cell   `json:"phase10Rounds,omitempty"`
	GolfRounds    []holeDocument             `json:"golfRounds,omitempty"`
	CourseName    string                     `json:"courseName,omitempty"`
	BonusUnit     string                     `json:"bonusUnit,omitempty"`
}

type roundsDocument struct {
	Rounds []int `json:"rounds"`
}

type golfRowDocument struct {
	Rounds []cell `json:"rounds"`
}

type phase10Cell struct {
	Score          int  `json:"score"`
	PhaseCompleted bool `json:"phaseCompleted"`
}

type holeDocument struct {
	Par int `json:"par"`
}

// cell stores a game.Entry as null, a number or the scratch marker "X".
type cell game.Entry

func (c cell) MarshalJSON() ([]byte, error) {
	e := game.Entry(c)
	switch e.Kind() {
	case game.EntryValue:
		n, _ := e.Int()
		return strconv.AppendInt(nil, int64(n), 10), nil
	case game.EntryScratched:
		return []byte(`"` + scratchMarker + `"`), nil
	default:
		return []byte("null"), nil
	}
}

func (c *cell) UnmarshalJSON(data []byte) error {
	entry, err := parseCell(data)
	if err != nil {
		return err
	}
	*c = cell(entry)
	return nil
}

func parseCell(data []byte) (game.Entry, error) {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return game.Unset, nil
	}
	if raw[0] == '"' {
		s, err := strconv.Unquote(string(raw))
		if err != nil {
			return game.Unset, errors.Wrapf(ErrCorruptDocument, "score cell %s", raw)
		}
		switch s {
		case scratchMarker, "x":
			return game.Scratch(), nil
		case "":
			return game.Unset, nil
		}
		raw = []byte(s)
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return game.Unset, errors.Wrapf(ErrCorruptDocument, "score cell %s", raw)
	}
	return game.Value(int(math.Round(f))), nil
}

func encodeGame(g game.Game) ([]byte, error) {
	doc := gameDocument{
		Type:       TypeGame,
		ID:         g.ID,
		Name:       g.Name,
		Variant:    string(g.Variant),
		Status:     string(g.Status),
		Date:       g.CreatedDate,
		LastPlayed: unixMilli(g.LastPlayedAt),
		Players:    g.Players,
		Scores:     map[string]json.RawMessage{},
		CourseName: g.CourseName,
	}
	if doc.Name == "" {
		doc.Name = g.Variant.DisplayName()
	}

	var err error
	switch e := g.Entries.(type) {
	case game.SimpleEntries:
		for _, p := range g.Players {
			rounds := e[p]
			if rounds == nil {
				rounds = []int{}
			}
			if doc.Scores[p], err = jsoncodec.Marshal(roundsDocument{Rounds: rounds}); err != nil {
				return nil, err
			}
		}
	case game.YahtzeeEntries:
		doc.BonusUnit = BonusUnitCount
		for _, p := range g.Players {
			if doc.Scores[p], err = encodeYahtzeeCard(e[p]); err != nil {
				return nil, err
			}
		}
	case game.Phase10Entries:
		doc.Phase10Rounds = make([]map[string]phase10Cell, len(e.Rounds))
		for i, round := range e.Rounds {
			out := make(map[string]phase10Cell, len(round))
			for p, r := range round {
				out[p] = phase10Cell{Score: r.Score, PhaseCompleted: r.PhaseCompleted}
			}
			doc.Phase10Rounds[i] = out
		}
	case game.GolfEntries:
		doc.GolfRounds = make([]holeDocument, len(e.Holes))
		for i, h := range e.Holes {
			doc.GolfRounds[i] = holeDocument{Par: h.Par}
		}
		for _, p := range g.Players {
			row := make([]cell, len(e.Scores[p]))
			for i, entry := range e.Scores[p] {
				row[i] = cell(entry)
			}
			if doc.Scores[p], err = jsoncodec.Marshal(golfRowDocument{Rounds: row}); err != nil {
				return nil, err
			}
		}
	case nil:
	default:
		return nil, errors.Wrapf(game.ErrVariantMismatch, "cannot encode %T", e)
	}

	return jsoncodec.Marshal(doc)
}

func encodeYahtzeeCard(card game.YahtzeeCard) ([]byte, error) {
	out := make(map[string]any, len(card.Entries)+1)
	for cat, entry := range card.Entries {
		if entry.IsSet() {
			out[string(cat)] = cell(entry)
		}
	}
	if card.Bonus > 0 {
		out[game.BonusKey] = card.Bonus
	}
	return jsoncodec.Marshal(out)
}

func decodeGame(key, revision string, body []byte) (game.Game, error) {
	var doc gameDocument
	if err := jsoncodec.Unmarshal(body, &doc); err != nil {
		return game.Game{}, errors.Mark(errors.Wrapf(err, "game %s", key), ErrCorruptDocument)
	}
	if doc.Type != "" && doc.Type != TypeGame {
		return game.Game{}, errors.Wrapf(ErrCorruptDocument, "%s is a %s document", key, doc.Type)
	}

	variant, ok := game.ParseVariant(doc.Variant)
	if !ok {
		if variant, ok = game.ParseVariant(doc.Name); !ok {
			return game.Game{}, errors.Wrapf(game.ErrUnknownVariant, "game %s variant %q", key, doc.Variant)
		}
	}

	// The key is authoritative; legacy bodies may carry a different id.
	g := game.Game{
		ID:           key,
		Revision:     revision,
		Name:         doc.Name,
		Variant:      variant,
		Status:       game.Status(doc.Status),
		CreatedDate:  doc.Date,
		LastPlayedAt: fromUnixMilli(doc.LastPlayed),
		Players:      doc.Players,
		CourseName:   doc.CourseName,
	}
	if !g.Status.Valid() {
		g.Status = game.StatusInProgress
	}

	entries, err := decodeEntries(variant, doc)
	if err != nil {
		return game.Game{}, errors.Mark(errors.Wrapf(err, "game %s scores", key), ErrCorruptDocument)
	}
	g.Entries = entries
	return g, nil
}

func decodeEntries(variant game.Variant, doc gameDocument) (game.Entries, error) {
	switch variant {
	case game.VariantSimple:
		out := make(game.SimpleEntries, len(doc.Players))
		for _, p := range doc.Players {
			var row roundsDocument
			if raw, ok := doc.Scores[p]; ok && !isNull(raw) {
				if err := jsoncodec.Unmarshal(raw, &row); err != nil {
					return nil, err
				}
			}
			out[p] = row.Rounds
			if out[p] == nil {
				out[p] = []int{}
			}
		}
		return out, nil
	case game.VariantYahtzee:
		out := make(game.YahtzeeEntries, len(doc.Players))
		for _, p := range doc.Players {
			card, err := decodeYahtzeeCard(doc.Scores[p], doc.BonusUnit != BonusUnitCount)
			if err != nil {
				return nil, err
			}
			out[p] = card
		}
		return out, nil
	case game.VariantPhase10:
		out := game.Phase10Entries{Rounds: make([]game.Phase10Round, 0, len(doc.Phase10Rounds))}
		for _, round := range doc.Phase10Rounds {
			r := make(game.Phase10Round, len(round))
			for p, c := range round {
				r[p] = game.Phase10Result{Score: c.Score, PhaseCompleted: c.PhaseCompleted}
			}
			out.Rounds = append(out.Rounds, r)
		}
		if len(out.Rounds) == 0 {
			out.AddRound(doc.Players)
		}
		return out, nil
	case game.VariantGolf, game.VariantPuttPutt:
		out := game.GolfEntries{
			Holes:  make([]game.Hole, len(doc.GolfRounds)),
			Scores: make(map[string][]game.Entry, len(doc.Players)),
		}
		for i, h := range doc.GolfRounds {
			out.Holes[i] = game.Hole{Par: h.Par}
		}
		for _, p := range doc.Players {
			row := make([]game.Entry, len(out.Holes))
			if raw, ok := doc.Scores[p]; ok && !isNull(raw) {
				var stored golfRowDocument
				if err := jsoncodec.Unmarshal(raw, &stored); err != nil {
					return nil, err
				}
				for i, c := range stored.Rounds {
					if i < len(row) {
						row[i] = game.Entry(c)
					}
				}
			}
			out.Scores[p] = row
		}
		return out, nil
	default:
		return nil, game.ErrUnknownVariant
	}
}

// decodeYahtzeeCard reads one player's card. With bonusInPoints the stored
// bonus is points and is converted to a count, rounding down.
func decodeYahtzeeCard(raw json.RawMessage, bonusInPoints bool) (game.YahtzeeCard, error) {
	card := game.NewYahtzeeCard()
	if len(raw) == 0 || isNull(raw) {
		return card, nil
	}

	var cells map[string]json.RawMessage
	if err := jsoncodec.Unmarshal(raw, &cells); err != nil {
		return card, err
	}
	for key, value := range cells {
		entry, err := parseCell(value)
		if err != nil {
			return card, err
		}
		if key == game.BonusKey {
			card.Bonus = max(entry.Points(), 0)
			if bonusInPoints {
				card.Bonus /= game.BonusPoints
			}
			continue
		}
		cat, ok := game.ParseCategory(key)
		if !ok || !entry.IsSet() {
			continue
		}
		card.Entries[cat] = entry
	}
	return card, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromUnixMilli(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
