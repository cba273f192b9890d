// Package config loads process settings from an optional YAML file, a .env
// file, and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/shiftledger/internal/ledger"
	"github.com/alexanderramin/shiftledger/internal/logging"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// EnvConfigPath names the variable pointing at the YAML config file.
const EnvConfigPath = "SHIFTLEDGER_CONFIG"

const (
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

type Config struct {
	Store     StoreConfig     `yaml:"store"`
	AMQP      AMQPConfig      `yaml:"amqp"`
	HTTP      HTTPConfig      `yaml:"http"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Retention RetentionConfig `yaml:"retention"`
	Log       LogConfig       `yaml:"log"`
}

type StoreConfig struct {
	Backend string `yaml:"backend" env:"SHIFTLEDGER_STORE" env-default:"sqlite"`
	// SQLitePath defaults to ~/.shiftledger/ledger.db.
	SQLitePath    string `yaml:"sqlite_path" env:"SHIFTLEDGER_DB"`
	MongoURI      string `yaml:"mongo_uri" env:"SHIFTLEDGER_MONGO_URI"`
	MongoDatabase string `yaml:"mongo_database" env:"SHIFTLEDGER_MONGO_DB" env-default:"shiftledger"`
}

// AMQPConfig enables event publishing when URL is set.
type AMQPConfig struct {
	URL      string `yaml:"url" env:"SHIFTLEDGER_AMQP_URL"`
	Exchange string `yaml:"exchange" env:"SHIFTLEDGER_AMQP_EXCHANGE" env-default:"shiftledger"`
}

type HTTPConfig struct {
	Address         string        `yaml:"address" env:"SHIFTLEDGER_HTTP_ADDR" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SHIFTLEDGER_HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SHIFTLEDGER_HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SHIFTLEDGER_HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHIFTLEDGER_HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type LedgerConfig struct {
	RecordTimeout time.Duration `yaml:"record_timeout" env:"SHIFTLEDGER_RECORD_TIMEOUT" env-default:"10s"`
}

type RetentionConfig struct {
	DailyMonths   int `yaml:"daily_months" env:"SHIFTLEDGER_RETAIN_DAILY_MONTHS" env-default:"2"`
	WeeklyWeeks   int `yaml:"weekly_weeks" env:"SHIFTLEDGER_RETAIN_WEEKLY_WEEKS" env-default:"7"`
	MonthlyMonths int `yaml:"monthly_months" env:"SHIFTLEDGER_RETAIN_MONTHLY_MONTHS" env-default:"2"`
	// YearlyYears of 0 keeps yearly rollups forever.
	YearlyYears int `yaml:"yearly_years" env:"SHIFTLEDGER_RETAIN_YEARLY_YEARS" env-default:"0"`
	// SweepSchedule is a standard five-field cron spec, evaluated in UTC.
	SweepSchedule string `yaml:"sweep_schedule" env:"SHIFTLEDGER_SWEEP_SCHEDULE" env-default:"15 3 * * *"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"SHIFTLEDGER_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"SHIFTLEDGER_LOG_FORMAT" env-default:"text"`
}

// Load reads .env from the working directory if present, then the YAML file
// named by SHIFTLEDGER_CONFIG if set, then the environment. The result is
// validated.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if path := os.Getenv(EnvConfigPath); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if cfg.Store.SQLitePath == "" {
		path, err := DefaultSQLitePath()
		if err != nil {
			return nil, err
		}
		cfg.Store.SQLitePath = path
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultSQLitePath is ~/.shiftledger/ledger.db.
func DefaultSQLitePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".shiftledger", "ledger.db"), nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("store.sqlite_path is required for the sqlite backend"))
		}
	case BackendMongo:
		if c.Store.MongoURI == "" {
			errs = append(errs, errors.New("store.mongo_uri is required for the mongo backend"))
		}
		if c.Store.MongoDatabase == "" {
			errs = append(errs, errors.New("store.mongo_database is required for the mongo backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend must be %q or %q, got %q", BackendSQLite, BackendMongo, c.Store.Backend))
	}

	if c.AMQP.URL != "" && c.AMQP.Exchange == "" {
		errs = append(errs, errors.New("amqp.exchange is required when amqp.url is set"))
	}
	if c.Ledger.RecordTimeout <= 0 {
		errs = append(errs, fmt.Errorf("ledger.record_timeout must be positive, got %s", c.Ledger.RecordTimeout))
	}
	if err := c.RetentionPolicy().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("retention: %w", err))
	}
	if _, err := cron.ParseStandard(c.Retention.SweepSchedule); err != nil {
		errs = append(errs, fmt.Errorf("retention.sweep_schedule: %w", err))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if f := strings.ToLower(c.Log.Format); f != logging.FormatText && f != logging.FormatJSON {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

func (c *Config) RetentionPolicy() ledger.RetentionPolicy {
	return ledger.RetentionPolicy{
		DailyMonths:   c.Retention.DailyMonths,
		WeeklyWeeks:   c.Retention.WeeklyWeeks,
		MonthlyMonths: c.Retention.MonthlyMonths,
		YearlyYears:   c.Retention.YearlyYears,
	}
}
