package game

import "strings"

// Variant selects the rule set, the raw score shape and the scoring engine of a game.
type Variant string

const (
	VariantSimple   Variant = "simple"
	VariantYahtzee  Variant = "yahtzee"
	VariantPhase10  Variant = "phase10"
	VariantGolf     Variant = "golf"
	VariantPuttPutt Variant = "puttputt"
)

var AllVariants = []Variant{VariantSimple, VariantYahtzee, VariantPhase10, VariantGolf, VariantPuttPutt}

var displayNames = map[Variant]string{
	VariantSimple:   "Simple Score",
	VariantYahtzee:  "Yahtzee",
	VariantPhase10:  "Phase 10",
	VariantGolf:     "Golf",
	VariantPuttPutt: "Putt-Putt",
}

func (v Variant) Valid() bool {
	_, ok := displayNames[v]
	return ok
}

// DisplayName is the label stored in a game's name field.
func (v Variant) DisplayName() string {
	if name, ok := displayNames[v]; ok {
		return name
	}
	return string(v)
}

// HasCourse reports whether the variant is played over a fixed list of holes.
func (v Variant) HasCourse() bool {
	return v == VariantGolf || v == VariantPuttPutt
}

func (v Variant) DefaultPar() int {
	switch v {
	case VariantGolf:
		return 4
	case VariantPuttPutt:
		return 3
	default:
		return 0
	}
}

// ParseVariant accepts identifiers and display names, ignoring case,
// spaces, dashes and underscores ("Phase 10", "putt-putt", "SIMPLE").
func ParseVariant(raw string) (Variant, bool) {
	key := normalizeVariant(raw)
	if key == "" {
		return "", false
	}
	for _, v := range AllVariants {
		if key == normalizeVariant(string(v)) || key == normalizeVariant(v.DisplayName()) {
			return v, true
		}
	}
	if key == "simpletally" {
		return VariantSimple, true
	}
	return "", false
}

func normalizeVariant(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch r {
		case ' ', '-', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type Status string

const (
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

func (s Status) Valid() bool {
	return s == StatusInProgress || s == StatusCompleted
}
