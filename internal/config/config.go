package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/planner/internal/model"
)

const (
	DirName  = ".planner"
	FileName = "config.yaml"
)

// Config is the planner configuration stored as YAML. Environment variables
// prefixed with PLANNER_ override file values.
type Config struct {
	// DataDir holds every document the planner writes.
	DataDir string `yaml:"data_dir"`
	// Backend stores calendar and tasks as "json" documents or in "sqlite".
	Backend string `yaml:"backend"`
	// GridMinutes is the initial calendar grid granularity, 15 or 30.
	GridMinutes int `yaml:"grid_minutes"`
	// DefaultStart is where automatic task placement starts looking.
	DefaultStart string `yaml:"default_start"`
	// LatestStart is the last start time automatic placement may pick.
	LatestStart    string `yaml:"latest_start"`
	StepMinutes    int    `yaml:"step_minutes"`
	RecurrenceSpan int    `yaml:"recurrence_span"`
	Editor         string `yaml:"editor"`
	LogLevel       string `yaml:"log_level"`
	// LogFile defaults to planner.log inside DataDir.
	LogFile string `yaml:"log_file"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:        filepath.Join("~", DirName),
		Backend:        "json",
		GridMinutes:    30,
		DefaultStart:   "09:00",
		LatestStart:    "23:00",
		StepMinutes:    30,
		RecurrenceSpan: model.DefaultRecurrenceSpan,
		Editor:         "",
		LogLevel:       "info",
		LogFile:        "",
	}
}

// Normalize repairs missing or invalid values.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = def.DataDir
	}
	switch strings.ToLower(strings.TrimSpace(c.Backend)) {
	case "json", "sqlite":
		c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	default:
		c.Backend = def.Backend
	}
	if c.GridMinutes != 15 && c.GridMinutes != 30 {
		c.GridMinutes = def.GridMinutes
	}
	if _, err := model.ParseClock(c.DefaultStart); err != nil {
		c.DefaultStart = def.DefaultStart
	}
	if _, err := model.ParseClock(c.LatestStart); err != nil {
		c.LatestStart = def.LatestStart
	}
	if c.LatestStartClock() < c.DefaultStartClock() {
		c.LatestStart = c.DefaultStart
	}
	if c.StepMinutes <= 0 || c.StepMinutes > 240 {
		c.StepMinutes = def.StepMinutes
	}
	if c.RecurrenceSpan <= 0 {
		c.RecurrenceSpan = def.RecurrenceSpan
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		c.LogLevel = def.LogLevel
	}
}

func (c *Config) DefaultStartClock() model.Clock {
	clock, err := model.ParseClock(c.DefaultStart)
	if err != nil {
		return model.NewClock(9, 0)
	}
	return clock
}

func (c *Config) LatestStartClock() model.Clock {
	clock, err := model.ParseClock(c.LatestStart)
	if err != nil {
		return model.NewClock(23, 0)
	}
	return clock
}

// ResolvedDataDir expands a leading "~" in DataDir.
func (c *Config) ResolvedDataDir() string {
	return expandHome(c.DataDir)
}

func (c *Config) ResolvedLogFile() string {
	if strings.TrimSpace(c.LogFile) == "" {
		return filepath.Join(c.ResolvedDataDir(), "planner.log")
	}
	return expandHome(c.LogFile)
}

// DefaultPath is ~/.planner/config.yaml.
func DefaultPath() string {
	return filepath.Join(expandHome("~"), DirName, FileName)
}

// Load reads the YAML config at path. A missing file is created with the
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes cfg atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config: path is empty")
	}
	if cfg == nil {
		return errors.New("config: nil config")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".planner-config-*.tmp")
	if err != nil {
		return fmt.Errorf("config: temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("config: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: close: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("config: chmod: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("config: replace: %w", err)
	}
	return nil
}

// FromEnv applies PLANNER_* overrides to base. EDITOR is honored when no
// editor is configured.
func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("PLANNER_DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := getEnvString("PLANNER_BACKEND"); ok {
		cfg.Backend = v
	}
	if v, ok := getEnvInt("PLANNER_GRID_MINUTES"); ok && (v == 15 || v == 30) {
		cfg.GridMinutes = v
	}
	if v, ok := getEnvString("PLANNER_DEFAULT_START"); ok {
		if _, err := model.ParseClock(v); err == nil {
			cfg.DefaultStart = v
		}
	}
	if v, ok := getEnvString("PLANNER_LATEST_START"); ok {
		if _, err := model.ParseClock(v); err == nil {
			cfg.LatestStart = v
		}
	}
	if v, ok := getEnvInt("PLANNER_STEP_MINUTES"); ok && v > 0 {
		cfg.StepMinutes = v
	}
	if v, ok := getEnvInt("PLANNER_RECURRENCE_SPAN"); ok && v > 0 {
		cfg.RecurrenceSpan = v
	}
	if v, ok := getEnvString("PLANNER_EDITOR"); ok {
		cfg.Editor = v
	} else if v, ok := getEnvString("EDITOR"); ok && cfg.Editor == "" {
		cfg.Editor = v
	}
	if v, ok := getEnvString("PLANNER_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvString("PLANNER_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	cfg.Normalize()
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
