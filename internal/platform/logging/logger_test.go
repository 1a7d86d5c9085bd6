package logging

import (
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_FieldsAndLevels(t *testing.T) {
	core, logs := observer.New(LevelInfo)
	logger := FromZap(zap.New(core)).With("component", "test")

	logger.Debug("hidden")
	logger.Info("game created", "game_id", "g1", "players", 3)
	logger.Warn("odd args", "dangling")
	logger.Error("boom", "error", errors.New("disk full"))

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries above debug, got %d", len(entries))
	}

	first := entries[0].ContextMap()
	if first["component"] != "test" || first["game_id"] != "g1" || first["players"] != int64(3) {
		t.Fatalf("unexpected fields: %+v", first)
	}
	if _, ok := entries[1].ContextMap()["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept, got %+v", entries[1].ContextMap())
	}
	if entries[2].ContextMap()["error"] != "disk full" {
		t.Fatalf("expected error field, got %+v", entries[2].ContextMap())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestNew_FileOutputClosesTwice(t *testing.T) {
	logger := New(Options{
		Level:      LevelInfo,
		FilePath:   filepath.Join(t.TempDir(), "tallypad.log"),
		MaxSizeMB:  1,
		MaxBackups: 1,
	})
	logger.Info("written to file")

	if err := logger.Close(); err != nil {
		t.Fatalf("close logger: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("second close should be a no-op: %v", err)
	}
}

func TestDefault_NeverNil(t *testing.T) {
	SetDefault(nil)
	if Default() == nil {
		t.Fatalf("default logger must not be nil")
	}
	var nilLogger *Logger
	nilLogger.Info("does not panic")
}
