// Package config loads process options from STARBOTS_* environment variables
// and the optional YAML tuning file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"starbots/internal/domain/bot"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "STARBOTS_"

type Config struct {
	DBDSN           string `env:"DB_DSN"`
	HTTPAddr        string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	TuningFile      string `env:"TUNING_FILE"`
	AuditSQLitePath string `env:"AUDIT_SQLITE_PATH"`
	MigrationsDir   string `env:"MIGRATIONS_DIR"`
	DemoAgents      int    `env:"DEMO_AGENTS" envDefault:"24"`
	DBMaxOpenConns  int    `env:"DB_MAX_OPEN_CONNS" envDefault:"0"`

	// Empty allows any origin on the ops endpoints.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// Unset overrides keep the tuning file value.
	Workers            *int           `env:"WORKERS"`
	BatchSize          *int           `env:"BATCH_SIZE"`
	TickInterval       *time.Duration `env:"TICK_INTERVAL"`
	TickCron           *string        `env:"TICK_CRON"`
	AgentTimeout       *time.Duration `env:"AGENT_TIMEOUT"`
	MutationsPerSecond *float64       `env:"MUTATIONS_PER_SECOND"`
	PhalanxEnabled     *bool          `env:"PHALANX_ENABLED"`

	Tuning bot.Tuning `env:"-"`
}

// UsePostgres reports whether agent state lives in postgres rather than memory.
func (c Config) UsePostgres() bool {
	return strings.TrimSpace(c.DBDSN) != ""
}

func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, &bot.ConfigurationError{Field: "env", Reason: err.Error()}
	}

	cfg.Tuning = bot.DefaultTuning()
	if cfg.TuningFile != "" {
		t, err := LoadTuning(cfg.TuningFile)
		if err != nil {
			return Config{}, err
		}
		cfg.Tuning = t
	}
	cfg.applyOverrides()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadTuning reads a YAML tuning file on top of the defaults. Keys missing
// from the file keep their default values.
func LoadTuning(path string) (bot.Tuning, error) {
	t := bot.DefaultTuning()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, &bot.ConfigurationError{Field: "tuning_file", Reason: err.Error()}
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, &bot.ConfigurationError{Field: "tuning_file", Reason: fmt.Sprintf("%s: %v", path, err)}
	}
	return t, nil
}

func (c *Config) applyOverrides() {
	if c.Workers != nil {
		c.Tuning.Workers = *c.Workers
	}
	if c.BatchSize != nil {
		c.Tuning.BatchSize = *c.BatchSize
	}
	if c.TickInterval != nil {
		c.Tuning.TickInterval = *c.TickInterval
	}
	if c.TickCron != nil {
		c.Tuning.TickCron = strings.TrimSpace(*c.TickCron)
	}
	if c.AgentTimeout != nil {
		c.Tuning.AgentTimeout = *c.AgentTimeout
	}
	if c.MutationsPerSecond != nil {
		c.Tuning.MutationsPerSecond = *c.MutationsPerSecond
	}
	if c.PhalanxEnabled != nil {
		c.Tuning.PhalanxEnabled = *c.PhalanxEnabled
	}
}

func (c Config) Validate() error {
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.DemoAgents < 0 {
		return &bot.ConfigurationError{Field: "demo_agents", Reason: "must not be negative"}
	}
	if c.DBMaxOpenConns < 0 {
		return &bot.ConfigurationError{Field: "db_max_open_conns", Reason: "must not be negative"}
	}
	return c.Tuning.Validate()
}

func ParseLogLevel(s string) (hlog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return hlog.LevelTrace, nil
	case "debug":
		return hlog.LevelDebug, nil
	case "", "info":
		return hlog.LevelInfo, nil
	case "notice":
		return hlog.LevelNotice, nil
	case "warn", "warning":
		return hlog.LevelWarn, nil
	case "error":
		return hlog.LevelError, nil
	case "fatal":
		return hlog.LevelFatal, nil
	}
	return hlog.LevelInfo, &bot.ConfigurationError{Field: "log_level", Reason: fmt.Sprintf("unknown level %q", s)}
}
