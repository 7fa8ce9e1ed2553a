// Package config loads server settings from an optional YAML file with
// environment overrides. Credentials never live in the file; the decision
// collaborator key is read from the environment by its adapter.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joelkehle/weekly-planner/internal/plan"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	SQLitePath string `yaml:"sqlite_path"`
	CSVDir     string `yaml:"csv_dir"`

	ToleranceDays    int  `yaml:"tolerance_days"`
	EarlyArrivalIsOK bool `yaml:"early_arrival_is_ok"`

	DecisionModel          string `yaml:"decision_model"`
	DecisionConcurrency    int    `yaml:"decision_concurrency"`
	DecisionTimeoutSeconds int    `yaml:"decision_timeout_seconds"`

	WebhookSecret string `yaml:"webhook_secret"`

	// Columns overrides the schema v1 column mapping when the upstream
	// sheet headers drift.
	Columns *plan.ColumnMap `yaml:"columns,omitempty"`
}

func Default() Config {
	return Config{
		ListenAddr:             ":8080",
		SQLitePath:             "data/planner.db",
		CSVDir:                 "data/tables",
		ToleranceDays:          plan.DefaultToleranceDays,
		DecisionConcurrency:    plan.DefaultConcurrency,
		DecisionTimeoutSeconds: 45,
	}
}

// Load reads path when non-empty, then applies environment overrides. A
// missing file with an empty path is not an error; a named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		blob, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(blob, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnv(&cfg)

	cfg.ToleranceDays = plan.ClampTolerance(cfg.ToleranceDays)
	if cfg.DecisionConcurrency <= 0 {
		cfg.DecisionConcurrency = plan.DefaultConcurrency
	}
	if cfg.DecisionTimeoutSeconds <= 0 {
		cfg.DecisionTimeoutSeconds = 45
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("PLANNER_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("PLANNER_DB")); v != "" {
		cfg.SQLitePath = v
	}
	if v := strings.TrimSpace(os.Getenv("PLANNER_CSV_DIR")); v != "" {
		cfg.CSVDir = v
	}
	if v := strings.TrimSpace(os.Getenv("PLANNER_WEBHOOK_SECRET")); v != "" {
		cfg.WebhookSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("PLANNER_DECISION_MODEL")); v != "" {
		cfg.DecisionModel = v
	}
	if v := strings.TrimSpace(os.Getenv("PLANNER_TOLERANCE_DAYS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ToleranceDays = n
		}
	}
}

// ColumnMap resolves the effective column mapping.
func (c Config) ColumnMap() plan.ColumnMap {
	if c.Columns != nil {
		return *c.Columns
	}
	return plan.DefaultColumns()
}
