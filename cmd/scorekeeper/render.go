package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/riskibarqy/tally-pad/internal/domain/game"
	"github.com/riskibarqy/tally-pad/internal/domain/scoring"
	"github.com/riskibarqy/tally-pad/internal/usecase"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func renderMigration(out io.Writer, result usecase.MigrationResult) error {
	switch {
	case result.Initialized:
		fmt.Fprintf(out, "initialised new store at schema v%d\n", result.ToVersion)
	case result.FromVersion == result.ToVersion:
		fmt.Fprintf(out, "schema v%d is current\n", result.ToVersion)
	default:
		fmt.Fprintf(out, "migrated schema v%d -> v%d (%d document writes)\n", result.FromVersion, result.ToVersion, result.Migrated)
	}
	return nil
}

func renderGameList(out io.Writer, games []game.Game) error {
	if len(games) == 0 {
		fmt.Fprintln(out, "no games yet")
		return nil
	}

	w := newTable(out)
	fmt.Fprintln(w, "ID\tGAME\tSTATUS\tPLAYERS\tCREATED\tLAST PLAYED")
	for _, g := range games {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			g.ID, g.Name, g.Status, strings.Join(g.Players, ", "), g.CreatedDate, formatLastPlayed(g.LastPlayedAt))
	}
	return w.Flush()
}

func formatLastPlayed(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func renderGame(out io.Writer, g game.Game, s scoring.Summary) error {
	fmt.Fprintf(out, "%s  %s  [%s]  rev %s\n", g.Name, g.ID, g.Status, g.Revision)
	if g.CourseName != "" {
		fmt.Fprintf(out, "course: %s\n", g.CourseName)
	}

	var err error
	switch g.Variant {
	case game.VariantSimple:
		err = renderSimple(out, g, s)
	case game.VariantYahtzee:
		err = renderYahtzee(out, g, s)
	case game.VariantPhase10:
		err = renderPhase10(out, g, s)
	case game.VariantGolf, game.VariantPuttPutt:
		err = renderGolf(out, g, s)
	}
	if err != nil {
		return err
	}

	label := "leading"
	if g.Completed() {
		label = "winner(s)"
	}
	if len(s.Winners) > 0 {
		fmt.Fprintf(out, "%s: %s (%s)\n", label, strings.Join(s.Winners, ", "), s.Order)
	}
	if s.NextPlayer != "" {
		fmt.Fprintf(out, "next up: %s\n", s.NextPlayer)
	}
	return nil
}

func renderSimple(out io.Writer, g game.Game, s scoring.Summary) error {
	entries := g.SimpleEntries()
	w := newTable(out)
	header := []string{"ROUND"}
	header = append(header, g.Players...)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for round := 0; round < s.Rounds; round++ {
		row := []string{fmt.Sprint(round + 1)}
		for _, p := range g.Players {
			if round < len(entries[p]) {
				row = append(row, fmt.Sprint(entries[p][round]))
			} else {
				row = append(row, "")
			}
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	fmt.Fprintln(w, totalsRow("TOTAL", s))
	return w.Flush()
}

func renderYahtzee(out io.Writer, g game.Game, s scoring.Summary) error {
	entries := g.YahtzeeEntries()
	w := newTable(out)
	header := []string{"CATEGORY"}
	header = append(header, g.Players...)
	fmt.Fprintln(w, strings.Join(header, "\t"))

	writeCategories := func(cats []game.Category) {
		for _, cat := range cats {
			row := []string{string(cat)}
			for _, p := range g.Players {
				row = append(row, entries.Card(p).Get(cat).String())
			}
			fmt.Fprintln(w, strings.Join(row, "\t"))
		}
	}
	writeDetail := func(label string, pick func(t *scoring.YahtzeeTotals) int) {
		row := []string{label}
		for _, ps := range s.Players {
			row = append(row, fmt.Sprint(pick(ps.Yahtzee)))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	writeCategories(game.UpperCategories)
	writeDetail("Upper", func(t *scoring.YahtzeeTotals) int { return t.Upper })
	writeDetail("Bonus", func(t *scoring.YahtzeeTotals) int { return t.Bonus })
	writeCategories(game.LowerCategories)
	bonusRow := []string{game.BonusKey}
	for _, p := range g.Players {
		bonusRow = append(bonusRow, fmt.Sprint(entries.Card(p).Bonus))
	}
	fmt.Fprintln(w, strings.Join(bonusRow, "\t"))
	writeDetail("Lower", func(t *scoring.YahtzeeTotals) int { return t.Lower })
	fmt.Fprintln(w, totalsRow("TOTAL", s))
	return w.Flush()
}

func renderPhase10(out io.Writer, g game.Game, s scoring.Summary) error {
	entries := g.Phase10Entries()
	w := newTable(out)
	header := []string{"ROUND"}
	header = append(header, g.Players...)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for i, round := range entries.Rounds {
		row := []string{fmt.Sprint(i + 1)}
		for _, p := range g.Players {
			cell := fmt.Sprint(round[p].Score)
			if round[p].PhaseCompleted {
				cell += " *"
			}
			row = append(row, cell)
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	phaseRow := []string{"PHASE"}
	for _, ps := range s.Players {
		phase := fmt.Sprint(ps.Phase10.Phase)
		if ps.Phase10.Finished() {
			phase = "done"
		}
		phaseRow = append(phaseRow, phase)
	}
	fmt.Fprintln(w, strings.Join(phaseRow, "\t"))
	fmt.Fprintln(w, totalsRow("TOTAL", s))
	return w.Flush()
}

func renderGolf(out io.Writer, g game.Game, s scoring.Summary) error {
	entries := g.GolfEntries()
	w := newTable(out)
	header := []string{"HOLE", "PAR"}
	header = append(header, g.Players...)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for i, hole := range entries.Holes {
		row := []string{fmt.Sprint(i + 1), fmt.Sprint(hole.Par)}
		for _, p := range g.Players {
			cell := "-"
			if scores := entries.Scores[p]; i < len(scores) {
				cell = scores[i].String()
			}
			row = append(row, cell)
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	totals := []string{"TOTAL", fmt.Sprint(s.TotalPar)}
	toPar := []string{"TO PAR", ""}
	for _, ps := range s.Players {
		totals = append(totals, fmt.Sprint(ps.Total))
		toPar = append(toPar, fmt.Sprintf("%+d", ps.Golf.ToPar))
	}
	fmt.Fprintln(w, strings.Join(totals, "\t"))
	fmt.Fprintln(w, strings.Join(toPar, "\t"))
	return w.Flush()
}

func totalsRow(label string, s scoring.Summary) string {
	row := []string{label}
	for _, ps := range s.Players {
		row = append(row, fmt.Sprint(ps.Total))
	}
	return strings.Join(row, "\t")
}

func renderCourses(out io.Writer, courses []game.CourseTemplate) error {
	if len(courses) == 0 {
		fmt.Fprintln(out, "no saved courses")
		return nil
	}
	w := newTable(out)
	fmt.Fprintln(w, "NAME\tHOLES\tPAR\tPARS")
	for _, c := range courses {
		pars := make([]string, len(c.Pars))
		for i, p := range c.Pars {
			pars[i] = fmt.Sprint(p)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", c.Name, c.HoleCount, c.TotalPar(), strings.Join(pars, ","))
	}
	return w.Flush()
}
