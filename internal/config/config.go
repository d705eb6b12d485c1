package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alexanderramin/canteiro/internal/adherence"
	"github.com/alexanderramin/canteiro/internal/interpreter"
	"gopkg.in/yaml.v3"
)

const (
	appDir         = ".canteiro"
	configFileName = "config.yaml"
	dbFileName     = "canteiro.db"
)

// InterpreterConfig overrides the field-report keyword rules. Empty lists
// keep the built-in Portuguese keyword sets.
type InterpreterConfig struct {
	DelayKeywords     []string `yaml:"delay_keywords"`
	ProgressKeywords  []string `yaml:"progress_keywords"`
	ProgressIncrement int      `yaml:"progress_increment"`
	MinWordLength     int      `yaml:"min_word_length"`
	MinWordMatches    int      `yaml:"min_word_matches"`
}

type AdherenceConfig struct {
	SlipDaysPerDelayedTask float64 `yaml:"slip_days_per_delayed_task"`
	OnTrackThresholdPct    int     `yaml:"on_track_threshold_pct"`
}

// Config holds everything the binary reads at startup.
type Config struct {
	DBPath          string            `yaml:"db_path"`
	LogUseCases     bool              `yaml:"log_use_cases"`
	LogFormat       string            `yaml:"log_format"` // text or json
	MaxEvents       int               `yaml:"max_events"` // 0 = unbounded
	InboxDebounceMs int               `yaml:"inbox_debounce_ms"`
	Interpreter     InterpreterConfig `yaml:"interpreter"`
	Adherence       AdherenceConfig   `yaml:"adherence"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath:          filepath.Join(homeDir(), appDir, dbFileName),
		LogFormat:       "text",
		MaxEvents:       500,
		InboxDebounceMs: 500,
		Interpreter: InterpreterConfig{
			ProgressIncrement: interpreter.DefaultProgressIncrement,
			MinWordLength:     interpreter.DefaultMinWordLength,
			MinWordMatches:    interpreter.DefaultMinWordMatches,
		},
		Adherence: AdherenceConfig{
			SlipDaysPerDelayedTask: adherence.DefaultSlipDaysPerDelayedTask,
			OnTrackThresholdPct:    adherence.DefaultOnTrackThresholdPct,
		},
	}
}

// Load layers defaults, the YAML file and environment variables, in that
// order. The file is CANTEIRO_CONFIG when set (and must exist), otherwise
// ~/.canteiro/config.yaml when present.
func Load() (Config, error) {
	cfg := Default()

	path, required := os.Getenv("CANTEIRO_CONFIG"), true
	if path == "" {
		path, required = filepath.Join(homeDir(), appDir, configFileName), false
	}
	if err := mergeFile(&cfg, path, required); err != nil {
		return Config{}, err
	}

	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

// LoadFile layers a single YAML file over the defaults, without env.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if err := mergeFile(&cfg, path, true); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func mergeFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CANTEIRO_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CANTEIRO_LOG_USE_CASES"); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CANTEIRO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("CANTEIRO_MAX_EVENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxEvents = n
		}
	}
	if v := os.Getenv("CANTEIRO_PROGRESS_INCREMENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			cfg.Interpreter.ProgressIncrement = n
		}
	}
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	switch {
	case c.DBPath == "":
		return fmt.Errorf("config: db_path is empty")
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("config: log_format must be text or json, got %q", c.LogFormat)
	case c.MaxEvents < 0:
		return fmt.Errorf("config: max_events must be >= 0, got %d", c.MaxEvents)
	case c.Interpreter.ProgressIncrement < 1 || c.Interpreter.ProgressIncrement > 100:
		return fmt.Errorf("config: interpreter.progress_increment must be within 1..100, got %d", c.Interpreter.ProgressIncrement)
	case c.Adherence.SlipDaysPerDelayedTask <= 0:
		return fmt.Errorf("config: adherence.slip_days_per_delayed_task must be > 0, got %g", c.Adherence.SlipDaysPerDelayedTask)
	case c.Adherence.OnTrackThresholdPct < 1 || c.Adherence.OnTrackThresholdPct > 100:
		return fmt.Errorf("config: adherence.on_track_threshold_pct must be within 1..100, got %d", c.Adherence.OnTrackThresholdPct)
	}
	return nil
}

func (c Config) InterpreterRules() interpreter.Rules {
	return interpreter.Rules{
		DelayKeywords:     c.Interpreter.DelayKeywords,
		ProgressKeywords:  c.Interpreter.ProgressKeywords,
		ProgressIncrement: c.Interpreter.ProgressIncrement,
		MinWordLength:     c.Interpreter.MinWordLength,
		MinWordMatches:    c.Interpreter.MinWordMatches,
	}
}

func (c Config) AdherencePolicy() adherence.Policy {
	return adherence.Policy{
		SlipDaysPerDelayedTask: c.Adherence.SlipDaysPerDelayedTask,
		OnTrackThresholdPct:    c.Adherence.OnTrackThresholdPct,
	}
}

func (c Config) InboxDebounce() time.Duration {
	if c.InboxDebounceMs <= 0 {
		return 0
	}
	return time.Duration(c.InboxDebounceMs) * time.Millisecond
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
