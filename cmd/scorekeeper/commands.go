package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/tally-pad/internal/app"
	"github.com/riskibarqy/tally-pad/internal/domain/game"
	"github.com/riskibarqy/tally-pad/internal/usecase"
)

var errUsage = errors.New("usage")

func printUsage(w io.Writer) {
	fmt.Fprint(w, `usage: scorekeeper <command> [args]

commands:
  migrate                                   report the schema migration run at startup
  list                                      list games, most recently played first
  show <game-id>                            scoreboard of one game
  new [-holes N] [-pars 4,3,5] [-course NAME] <variant> <player>...
  score <game-id> <player> <points>         add a simple tally round score
  undo <game-id>                            drop the latest simple tally round
  yahtzee <game-id> <player> <category> <value|X|-|yes|no>
  bonus <game-id> <player> <count>          set the extra Yahtzee count
  phase10 add|remove <game-id>              add or remove a round
  phase10 set [-done] <game-id> <round> <player> <score>
  golf <game-id> <player> <hole> <strokes|->
  finish <game-id>
  delete <game-id> [revision]
  clear -yes                                destroy all games and courses
  courses list <golf|puttputt>
  courses add <golf|puttputt> <name> <pars>
  courses delete <golf|puttputt> <name>
  courses import <file.yaml>
`)
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, errUsage), errors.Is(err, usecase.ErrInvalidInput):
		return 2
	case errors.Is(err, usecase.ErrNotFound):
		return 3
	case errors.Is(err, usecase.ErrConflict):
		return 4
	default:
		return 1
	}
}

func usageErr(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), errUsage)
}

func run(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	if len(args) == 0 {
		printUsage(out)
		return usageErr("missing command")
	}

	cmd, rest := strings.ToLower(strings.TrimSpace(args[0])), args[1:]
	switch cmd {
	case "migrate":
		return renderMigration(out, a.Migration())
	case "list":
		games, err := a.Games.ListGames(ctx)
		if err != nil {
			return err
		}
		return renderGameList(out, games)
	case "show":
		if len(rest) != 1 {
			return usageErr("show <game-id>")
		}
		return show(ctx, a, out, rest[0])
	case "new":
		return newGame(ctx, a, out, rest)
	case "score":
		if len(rest) != 3 {
			return usageErr("score <game-id> <player> <points>")
		}
		points, err := parseInt("points", rest[2])
		if err != nil {
			return err
		}
		g, err := a.Games.AddSimpleScore(ctx, usecase.AddSimpleScoreInput{GameID: rest[0], Player: rest[1], Score: points})
		return showAfter(ctx, a, out, g, err)
	case "undo":
		if len(rest) != 1 {
			return usageErr("undo <game-id>")
		}
		g, err := a.Games.UndoSimpleRound(ctx, rest[0])
		return showAfter(ctx, a, out, g, err)
	case "yahtzee":
		return setYahtzee(ctx, a, out, rest)
	case "bonus":
		if len(rest) != 3 {
			return usageErr("bonus <game-id> <player> <count>")
		}
		count, err := parseInt("count", rest[2])
		if err != nil {
			return err
		}
		g, err := a.Games.SetYahtzeeBonus(ctx, rest[0], rest[1], count)
		return showAfter(ctx, a, out, g, err)
	case "phase10":
		return phase10(ctx, a, out, rest)
	case "golf":
		return setGolf(ctx, a, out, rest)
	case "finish":
		if len(rest) != 1 {
			return usageErr("finish <game-id>")
		}
		return finish(ctx, a, out, rest[0])
	case "delete":
		if len(rest) < 1 || len(rest) > 2 {
			return usageErr("delete <game-id> [revision]")
		}
		revision := ""
		if len(rest) == 2 {
			revision = rest[1]
		}
		if err := a.Games.DeleteGame(ctx, rest[0], revision); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted %s\n", rest[0])
		return nil
	case "clear":
		return clearAll(ctx, a, out, rest)
	case "courses":
		return courses(ctx, a, out, rest)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		printUsage(out)
		return usageErr("unknown command %q", cmd)
	}
}

func show(ctx context.Context, a *app.App, out io.Writer, gameID string) error {
	g, err := a.Games.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	summary, err := a.Games.Summary(ctx, gameID)
	if err != nil {
		return err
	}
	return renderGame(out, g, summary)
}

func showAfter(ctx context.Context, a *app.App, out io.Writer, g game.Game, err error) error {
	if err != nil {
		return err
	}
	return show(ctx, a, out, g.ID)
}

func newGame(ctx context.Context, a *app.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	holes := fs.Int("holes", 0, "hole count for golf or putt-putt")
	pars := fs.String("pars", "", "comma separated par per hole")
	course := fs.String("course", "", "saved course template name")
	if err := fs.Parse(args); err != nil {
		return usageErr("new: %v", err)
	}
	if fs.NArg() < 2 {
		return usageErr("new [-holes N] [-pars 4,3,5] [-course NAME] <variant> <player>...")
	}

	variant, ok := game.ParseVariant(fs.Arg(0))
	if !ok {
		return errors.Wrapf(usecase.ErrInvalidInput, "unknown variant %q", fs.Arg(0))
	}
	parList, err := parseInts("pars", *pars)
	if err != nil {
		return err
	}

	g, err := a.Games.CreateGame(ctx, usecase.CreateGameInput{
		Variant:    variant,
		Players:    fs.Args()[1:],
		HoleCount:  *holes,
		Pars:       parList,
		CourseName: *course,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created %s (%s)\n", g.ID, g.Name)
	return show(ctx, a, out, g.ID)
}

func setYahtzee(ctx context.Context, a *app.App, out io.Writer, args []string) error {
	if len(args) != 4 {
		return usageErr("yahtzee <game-id> <player> <category> <value|X|-|yes|no>")
	}
	cat, ok := game.ParseCategory(args[2])
	if !ok {
		return errors.Wrapf(usecase.ErrInvalidInput, "unknown category %q", args[2])
	}
	entry, err := parseYahtzeeEntry(cat, args[3])
	if err != nil {
		return err
	}
	g, err := a.Games.SetYahtzeeEntry(ctx, usecase.SetYahtzeeEntryInput{GameID: args[0], Player: args[1], Category: cat, Entry: entry})
	return showAfter(ctx, a, out, g, err)
}

func parseYahtzeeEntry(cat game.Category, raw string) (game.Entry, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "x":
		return game.Scratch(), nil
	case "-", "":
		return game.Unset, nil
	case "yes", "y":
		entry, err := game.ResolveFixedChoice(cat, game.ChoiceYes)
		return entry, errors.Mark(err, usecase.ErrInvalidInput)
	case "no", "n":
		entry, err := game.ResolveFixedChoice(cat, game.ChoiceNo)
		return entry, errors.Mark(err, usecase.ErrInvalidInput)
	}
	n, err := parseInt("value", raw)
	if err != nil {
		return game.Unset, err
	}
	return game.Value(n), nil
}

func phase10(ctx context.Context, a *app.App, out io.Writer, args []string) error {
	if len(args) < 2 {
		return usageErr("phase10 add|remove|set ...")
	}

	var (
		g   game.Game
		err error
	)
	switch strings.ToLower(args[0]) {
	case "add":
		g, err = a.Games.AddPhase10Round(ctx, args[1])
	case "remove":
		g, err = a.Games.RemovePhase10Round(ctx, args[1])
	case "set":
		fs := flag.NewFlagSet("phase10 set", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		done := fs.Bool("done", false, "the player completed their phase this round")
		if err := fs.Parse(args[1:]); err != nil {
			return usageErr("phase10 set: %v", err)
		}
		if fs.NArg() != 4 {
			return usageErr("phase10 set [-done] <game-id> <round> <player> <score>")
		}
		round, perr := parseInt("round", fs.Arg(1))
		if perr != nil {
			return perr
		}
		score, perr := parseInt("score", fs.Arg(3))
		if perr != nil {
			return perr
		}
		if round < 1 {
			return errors.Wrapf(usecase.ErrInvalidInput, "round numbers start at 1, got %d", round)
		}
		g, err = a.Games.SetPhase10Entry(ctx, usecase.SetPhase10EntryInput{
			GameID:         fs.Arg(0),
			Round:          round - 1,
			Player:         fs.Arg(2),
			Score:          score,
			PhaseCompleted: *done,
		})
	default:
		return usageErr("unknown phase10 action %q", args[0])
	}
	return showAfter(ctx, a, out, g, err)
}

func setGolf(ctx context.Context, a *app.App, out io.Writer, args []string) error {
	if len(args) != 4 {
		return usageErr("golf <game-id> <player> <hole> <strokes|->")
	}
	hole, err := parseInt("hole", args[2])
	if err != nil {
		return err
	}
	if hole < 1 {
		return errors.Wrapf(usecase.ErrInvalidInput, "hole numbers start at 1, got %d", hole)
	}
	strokes := game.Unset
	if raw := strings.TrimSpace(args[3]); raw != "-" {
		n, err := parseInt("strokes", raw)
		if err != nil {
			return err
		}
		strokes = game.Value(n)
	}
	g, err := a.Games.SetGolfScore(ctx, usecase.SetGolfScoreInput{GameID: args[0], Player: args[1], Hole: hole - 1, Strokes: strokes})
	return showAfter(ctx, a, out, g, err)
}

func finish(ctx context.Context, a *app.App, out io.Writer, gameID string) error {
	result, err := a.Games.FinishGame(ctx, gameID)
	if err != nil {
		return err
	}
	switch {
	case result.Finished:
		fmt.Fprintf(out, "finished %s, winner(s): %s\n", result.Game.ID, strings.Join(result.Winners, ", "))
	case result.Game.Completed():
		fmt.Fprintf(out, "%s is already completed, winner(s): %s\n", result.Game.ID, strings.Join(result.Winners, ", "))
	default:
		fmt.Fprintf(out, "%s cannot be finished yet\n", result.Game.ID)
	}
	return nil
}

func clearAll(ctx context.Context, a *app.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	yes := fs.Bool("yes", false, "confirm destroying all data")
	if err := fs.Parse(args); err != nil {
		return usageErr("clear: %v", err)
	}
	if !*yes {
		return usageErr("clear destroys every game and course; pass -yes to confirm")
	}
	if err := a.ClearAll(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "all data cleared")
	return nil
}

func courses(ctx context.Context, a *app.App, out io.Writer, args []string) error {
	if len(args) < 2 {
		return usageErr("courses list|add|delete|import ...")
	}

	switch strings.ToLower(args[0]) {
	case "list":
		gameType, err := parseCourseVariant(args[1])
		if err != nil {
			return err
		}
		list, err := a.Courses.ListCourseTemplates(ctx, gameType)
		if err != nil {
			return err
		}
		return renderCourses(out, list)
	case "add":
		if len(args) != 4 {
			return usageErr("courses add <golf|puttputt> <name> <pars>")
		}
		gameType, err := parseCourseVariant(args[1])
		if err != nil {
			return err
		}
		pars, err := parseInts("pars", args[3])
		if err != nil {
			return err
		}
		course, err := a.Courses.SaveCourseTemplate(ctx, usecase.SaveCourseTemplateInput{Name: args[2], GameType: gameType, Pars: pars})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "saved %s (%d holes, par %d)\n", course.Name, course.HoleCount, course.TotalPar())
		return nil
	case "delete":
		if len(args) != 3 {
			return usageErr("courses delete <golf|puttputt> <name>")
		}
		gameType, err := parseCourseVariant(args[1])
		if err != nil {
			return err
		}
		if err := a.Courses.DeleteCourseTemplate(ctx, gameType, args[2]); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted course %s\n", args[2])
		return nil
	case "import":
		data, err := os.ReadFile(args[1])
		if err != nil {
			return errors.Wrapf(err, "read course file %s", args[1])
		}
		result, err := a.Courses.ImportCourseTemplates(ctx, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "imported %d course(s)", len(result.Imported))
		if len(result.Skipped) > 0 {
			fmt.Fprintf(out, ", skipped existing: %s", strings.Join(result.Skipped, ", "))
		}
		fmt.Fprintln(out)
		return nil
	default:
		return usageErr("unknown courses action %q", args[0])
	}
}

func parseCourseVariant(raw string) (game.Variant, error) {
	v, ok := game.ParseVariant(raw)
	if !ok || !v.HasCourse() {
		return "", errors.Wrapf(usecase.ErrInvalidInput, "course game type must be golf or puttputt, got %q", raw)
	}
	return v, nil
}

func parseInt(name, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.Wrapf(usecase.ErrInvalidInput, "%s must be a whole number, got %q", name, raw)
	}
	return n, nil
}

func parseInts(name, raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := parseInt(name, part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
