package game

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// CourseTemplate is a reusable hole layout. Templates are never edited in
// place; a change is a delete followed by a new save.
type CourseTemplate struct {
	Name      string
	GameType  Variant
	HoleCount int
	Pars      []int
	Revision  string
}

func (c CourseTemplate) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("course name is required")
	}
	if !c.GameType.HasCourse() {
		return errors.Wrapf(ErrVariantMismatch, "course templates are for golf or putt-putt, got %q", c.GameType)
	}
	if c.HoleCount < MinHoles || c.HoleCount > MaxHoles {
		return errors.Wrapf(ErrInvalidHoleCount, "%d", c.HoleCount)
	}
	if len(c.Pars) != c.HoleCount {
		return errors.Newf("course has %d holes but %d pars", c.HoleCount, len(c.Pars))
	}
	for i, par := range c.Pars {
		if par <= 0 {
			return errors.Wrapf(ErrInvalidScore, "hole %d par %d", i+1, par)
		}
	}
	return nil
}

func (c CourseTemplate) Holes() []Hole {
	return HolesFromPars(c.Pars)
}

func (c CourseTemplate) TotalPar() int {
	total := 0
	for _, p := range c.Pars {
		total += p
	}
	return total
}

func (c CourseTemplate) Clone() CourseTemplate {
	c.Pars = slices.Clone(c.Pars)
	return c
}
