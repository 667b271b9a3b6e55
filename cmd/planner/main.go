package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/sandeepkv93/planner/internal/calendar"
	"github.com/sandeepkv93/planner/internal/config"
	"github.com/sandeepkv93/planner/internal/deadlines"
	"github.com/sandeepkv93/planner/internal/habits"
	"github.com/sandeepkv93/planner/internal/notes"
	"github.com/sandeepkv93/planner/internal/scheduler"
	"github.com/sandeepkv93/planner/internal/storage"
	"github.com/sandeepkv93/planner/internal/students"
	"github.com/sandeepkv93/planner/internal/tasks"
	"github.com/sandeepkv93/planner/internal/update"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "planner",
		Usage: "Terminal planner: weekly calendar, tasks, notes, habits, students and deadlines.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: config.DefaultPath(), Usage: "path to the YAML config file"},
			&cli.StringFlag{Name: "data-dir", Usage: "directory holding the planner documents (overrides the config)"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "planner failed: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	fileCfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	cfg := config.FromEnv(*fileCfg)
	if dir := strings.TrimSpace(c.String("data-dir")); dir != "" {
		cfg.DataDir = dir
	}
	dataDir := cfg.ResolvedDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	logOut, err := openLogFile(cfg.ResolvedLogFile())
	if err != nil {
		return err
	}
	defer logOut.Close()
	logger := setupLogger(cfg.LogLevel, logOut)
	logger.Info("starting planner", "data_dir", dataDir, "backend", cfg.Backend)

	repo, err := storage.Open(cfg.Backend, dataDir)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Backend, err)
	}
	defer repo.Close()

	cal := calendar.NewStore(repo, calendar.Options{
		Span:   cfg.RecurrenceSpan,
		Logger: logger.With("component", "calendar"),
	})
	list := tasks.NewList(repo, logger.With("component", "tasks"))
	sched := scheduler.New(cal, list, scheduler.Options{
		Policy: scheduler.Policy{
			DefaultStart: cfg.DefaultStartClock(),
			LatestStart:  cfg.LatestStartClock(),
			Step:         time.Duration(cfg.StepMinutes) * time.Minute,
		},
		Logger: logger.With("component", "scheduler"),
	})

	model := update.NewModel(update.Deps{
		Calendar:    cal,
		Tasks:       list,
		Scheduler:   sched,
		Notes:       notes.NewStore(filepath.Join(dataDir, notes.DirName)),
		Habits:      habits.NewStore(dataDir, nil),
		Students:    students.NewStore(dataDir, nil),
		Deadlines:   deadlines.NewStore(dataDir, nil),
		DataDir:     dataDir,
		Editor:      cfg.Editor,
		GridMinutes: cfg.GridMinutes,
		Span:        cfg.RecurrenceSpan,
		Logger:      logger.With("component", "ui"),
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	logger.Info("planner stopped")
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// setupLogger writes to w rather than stderr because the terminal belongs to
// the UI.
func setupLogger(level string, w io.Writer) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}
