package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/riskibarqy/tally-pad/internal/app"
	"github.com/riskibarqy/tally-pad/internal/config"
)

var createdPattern = regexp.MustCompile(`created (\S+)`)

func openTestApp(t *testing.T) *app.App {
	t.Helper()
	a, err := app.Open(context.Background(), config.Config{StoreDriver: config.StoreDriverMemory, MigrationWorkers: 1}, nil)
	if err != nil {
		t.Fatalf("open app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func runCmd(t *testing.T, a *app.App, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), a, args, &out)
	return out.String(), err
}

func createGame(t *testing.T, a *app.App, args ...string) string {
	t.Helper()
	out, err := runCmd(t, a, append([]string{"new"}, args...)...)
	if err != nil {
		t.Fatalf("new %v: %v", args, err)
	}
	m := createdPattern.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("no game id in output: %s", out)
	}
	return m[1]
}

func TestRun_SimpleGame(t *testing.T) {
	a := openTestApp(t)
	id := createGame(t, a, "simple", "Ann", "Bob")

	if _, err := runCmd(t, a, "score", id, "Ann", "12"); err != nil {
		t.Fatalf("score: %v", err)
	}
	out, err := runCmd(t, a, "score", id, "Bob", "9")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if !strings.Contains(out, "next up: Ann") {
		t.Fatalf("expected turn order in output:\n%s", out)
	}

	out, err = runCmd(t, a, "finish", id)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !strings.Contains(out, "winner(s): Ann") {
		t.Fatalf("unexpected finish output: %s", out)
	}

	out, err = runCmd(t, a, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, id) || !strings.Contains(out, "Completed") {
		t.Fatalf("expected the completed game in list:\n%s", out)
	}
}

func TestRun_YahtzeeAndGolf(t *testing.T) {
	a := openTestApp(t)

	yid := createGame(t, a, "yahtzee", "Ann")
	out, err := runCmd(t, a, "yahtzee", yid, "Ann", "fh", "yes")
	if err != nil {
		t.Fatalf("yahtzee: %v", err)
	}
	if !strings.Contains(out, "Full House") || !strings.Contains(out, "25") {
		t.Fatalf("expected full house scored:\n%s", out)
	}
	if _, err := runCmd(t, a, "yahtzee", yid, "Ann", "aces", "yes"); exitCode(err) != 2 {
		t.Fatalf("expected invalid input for yes on aces, got %v", err)
	}

	gid := createGame(t, a, "-pars", "4,3", "golf", "Ann", "Bob")
	out, err = runCmd(t, a, "golf", gid, "Bob", "2", "2")
	if err != nil {
		t.Fatalf("golf: %v", err)
	}
	if !strings.Contains(out, "-1") {
		t.Fatalf("expected to-par for Bob:\n%s", out)
	}
	if _, err := runCmd(t, a, "golf", gid, "Bob", "3", "2"); exitCode(err) != 2 {
		t.Fatalf("expected invalid input for hole 3, got %v", err)
	}
}

func TestRun_Phase10(t *testing.T) {
	a := openTestApp(t)
	id := createGame(t, a, "phase 10", "Ann", "Bob")

	if _, err := runCmd(t, a, "phase10", "set", "-done", id, "1", "Ann", "15"); err != nil {
		t.Fatalf("phase10 set: %v", err)
	}
	out, err := runCmd(t, a, "phase10", "add", id)
	if err != nil {
		t.Fatalf("phase10 add: %v", err)
	}
	if !strings.Contains(out, "15 *") {
		t.Fatalf("expected completed marker:\n%s", out)
	}

	out, err = runCmd(t, a, "finish", id)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !strings.Contains(out, "cannot be finished yet") {
		t.Fatalf("expected refusal, got %s", out)
	}
}

func TestRun_Courses(t *testing.T) {
	a := openTestApp(t)

	if _, err := runCmd(t, a, "courses", "add", "putt-putt", "Harbour", "2,3,3"); err != nil {
		t.Fatalf("courses add: %v", err)
	}
	path := filepath.Join(t.TempDir(), "courses.yaml")
	data := "courses:\n  - name: Lakeside\n    gameType: golf\n    pars: [4, 5]\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write courses: %v", err)
	}
	out, err := runCmd(t, a, "courses", "import", path)
	if err != nil {
		t.Fatalf("courses import: %v", err)
	}
	if !strings.Contains(out, "imported 1 course(s)") {
		t.Fatalf("unexpected import output: %s", out)
	}

	id := createGame(t, a, "-course", "Harbour", "puttputt", "Ann")
	out, err = runCmd(t, a, "show", id)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "course: Harbour") {
		t.Fatalf("expected course name:\n%s", out)
	}

	out, err = runCmd(t, a, "courses", "list", "golf")
	if err != nil {
		t.Fatalf("courses list: %v", err)
	}
	if !strings.Contains(out, "Lakeside") || strings.Contains(out, "Harbour") {
		t.Fatalf("unexpected course list:\n%s", out)
	}
}

func TestRun_DeleteClearAndErrors(t *testing.T) {
	a := openTestApp(t)
	id := createGame(t, a, "simple", "Ann")

	if _, err := runCmd(t, a, "show", "missing"); exitCode(err) != 3 {
		t.Fatalf("expected not-found exit code, got %v", err)
	}
	if _, err := runCmd(t, a, "delete", id, "9-ffff"); exitCode(err) != 4 {
		t.Fatalf("expected conflict exit code, got %v", err)
	}
	if _, err := runCmd(t, a, "delete", id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	createGame(t, a, "simple", "Bob")
	if _, err := runCmd(t, a, "clear"); exitCode(err) != 2 {
		t.Fatalf("clear without -yes must be refused, got %v", err)
	}
	if _, err := runCmd(t, a, "clear", "-yes"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	out, err := runCmd(t, a, "list")
	if err != nil {
		t.Fatalf("list after clear: %v", err)
	}
	if !strings.Contains(out, "no games yet") {
		t.Fatalf("expected empty list, got %s", out)
	}

	if _, err := runCmd(t, a, "bogus"); exitCode(err) != 2 {
		t.Fatalf("expected usage error, got %v", err)
	}
}
