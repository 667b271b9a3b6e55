package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sandeepkv93/planner/internal/model"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.GridMinutes != 30 || cfg.StepMinutes != 30 || cfg.RecurrenceSpan != 4 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DefaultStartClock() != model.NewClock(9, 0) || cfg.LatestStartClock() != model.NewClock(23, 0) {
		t.Fatalf("unexpected placement window: %s-%s", cfg.DefaultStart, cfg.LatestStart)
	}
	if cfg.Backend != "json" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected backend/log defaults: %+v", cfg)
	}
}

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GridMinutes != 30 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600, got %v", info.Mode().Perm())
	}
}

func TestLoadNormalizesInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	doc := "backend: postgres\ngrid_minutes: 20\ndefault_start: \"10:30\"\nlatest_start: \"8 AM\"\nrecurrence_span: -2\nlog_level: LOUD\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != "json" || cfg.GridMinutes != 30 || cfg.RecurrenceSpan != 4 || cfg.LogLevel != "info" {
		t.Fatalf("invalid values not repaired: %+v", cfg)
	}
	if cfg.DefaultStartClock() != model.NewClock(10, 30) {
		t.Fatalf("valid default start lost: %s", cfg.DefaultStart)
	}
	if cfg.LatestStartClock() != model.NewClock(10, 30) {
		t.Fatalf("latest start before default start should be raised, got %s", cfg.LatestStart)
	}
	if cfg.StepMinutes != 30 {
		t.Fatalf("missing key should keep default, got %d", cfg.StepMinutes)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := DefaultConfig()
	cfg.Backend = "sqlite"
	cfg.GridMinutes = 15
	cfg.Editor = "vim"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Backend != "sqlite" || loaded.GridMinutes != 15 || loaded.Editor != "vim" {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PLANNER_DATA_DIR", "/tmp/planner-data")
	t.Setenv("PLANNER_BACKEND", "sqlite")
	t.Setenv("PLANNER_GRID_MINUTES", "15")
	t.Setenv("PLANNER_DEFAULT_START", "8:00 AM")
	t.Setenv("PLANNER_LATEST_START", "not a time")
	t.Setenv("PLANNER_STEP_MINUTES", "15")
	t.Setenv("PLANNER_RECURRENCE_SPAN", "6")
	t.Setenv("PLANNER_EDITOR", "")
	t.Setenv("EDITOR", "vi")
	t.Setenv("PLANNER_LOG_LEVEL", "debug")
	t.Setenv("PLANNER_LOG_FILE", "/tmp/planner.log")

	cfg := FromEnv(*DefaultConfig())
	if cfg.DataDir != "/tmp/planner-data" || cfg.Backend != "sqlite" || cfg.GridMinutes != 15 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.DefaultStartClock() != model.NewClock(8, 0) || cfg.LatestStartClock() != model.NewClock(23, 0) {
		t.Fatalf("unexpected placement window: %s-%s", cfg.DefaultStart, cfg.LatestStart)
	}
	if cfg.StepMinutes != 15 || cfg.RecurrenceSpan != 6 || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected numeric overrides: %+v", cfg)
	}
	if cfg.Editor != "vi" {
		t.Fatalf("expected EDITOR fallback, got %q", cfg.Editor)
	}
	if cfg.ResolvedLogFile() != "/tmp/planner.log" {
		t.Fatalf("unexpected log file %s", cfg.ResolvedLogFile())
	}
}

func TestResolvedPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg := DefaultConfig()
	if got := cfg.ResolvedDataDir(); got != filepath.Join(home, DirName) {
		t.Fatalf("unexpected data dir %s", got)
	}
	if got := cfg.ResolvedLogFile(); got != filepath.Join(home, DirName, "planner.log") {
		t.Fatalf("unexpected log file %s", got)
	}
	if got := DefaultPath(); got != filepath.Join(home, DirName, FileName) {
		t.Fatalf("unexpected config path %s", got)
	}
}
