package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
	SessionStoreSQLite = "sqlite"
)

const (
	defaultPort              = 8000
	defaultMetricsPort       = "9090"
	defaultSessionTTLMinutes = 12 * 60
	defaultGeminiModel       = "gemini-2.0-flash"
	defaultCoachSheetRange   = "Workout_Logs!A:F"
	defaultQuickSheetRange   = "Quick_Logs!A:G"
	defaultRestSeconds       = 120
	maxRestSeconds           = 60 * 60
	defaultSQLitePath        = "./data/vibefit.db"
)

var defaultRestOptions = []int{30, 60, 90, 120, 180, 240, 300}

type MenuItem struct {
	Exercise string    `toml:"exercise"`
	Weights  []float64 `toml:"weights"`
}

type Config struct {
	Environment string `toml:"-"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// sessions
	SessionStore      string `toml:"session_store"`
	SessionTTLMinutes int    `toml:"session_ttl_minutes"`
	SQLitePath        string `toml:"sqlite_path"`

	// redis
	RedisHost            string `toml:"redis_host"`
	RedisPort            string `toml:"redis_port"`
	CoachRateLimitPerMin int    `toml:"coach_rate_limit_per_min"`

	// postgres mirror of the workout log
	PostgresEnabled bool   `toml:"postgres_enabled"`
	PostgresHost    string `toml:"postgres_host"`
	PostgresPort    string `toml:"postgres_port"`
	PostgresDBName  string `toml:"postgres_db_name"`
	PostgresUser    string `toml:"postgres_user"`

	// google sheets
	SpreadsheetID   string `toml:"spreadsheet_id"`
	CoachSheetRange string `toml:"coach_sheet_range"`
	QuickSheetRange string `toml:"quick_sheet_range"`
	TimeZone        string `toml:"time_zone"`

	// coach
	GeminiModel   string `toml:"gemini_model"`
	GeminiBaseURL string `toml:"gemini_base_url"`

	// form
	RestOptions []int      `toml:"rest_options"`
	DefaultRest int        `toml:"default_rest"`
	Menu        []MenuItem `toml:"menu"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the config for the given env,
// with defaults applied for everything left unset.
func Load(env, path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(env, string(content))
}

func Parse(env, content string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.Decode(content, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode toml config: %w", err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing", env)
	}

	cfg.Environment = env
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = defaultMetricsPort
	}
	if c.SessionStore == "" {
		c.SessionStore = SessionStoreMemory
	}
	if c.SessionTTLMinutes <= 0 {
		c.SessionTTLMinutes = defaultSessionTTLMinutes
	}
	if c.SQLitePath == "" {
		c.SQLitePath = defaultSQLitePath
	}
	if c.RedisHost == "" {
		c.RedisHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.CoachSheetRange == "" {
		c.CoachSheetRange = defaultCoachSheetRange
	}
	if c.QuickSheetRange == "" {
		c.QuickSheetRange = defaultQuickSheetRange
	}
	if c.GeminiModel == "" {
		c.GeminiModel = defaultGeminiModel
	}
	if len(c.RestOptions) == 0 {
		c.RestOptions = append([]int(nil), defaultRestOptions...)
	}
	if c.DefaultRest <= 0 {
		c.DefaultRest = defaultRestSeconds
	}
}

func (c *Config) Validate() error {
	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreRedis, SessionStoreSQLite:
	default:
		return &ConfigurationError{Setting: "session_store", Reason: fmt.Sprintf("unknown store [%s]", c.SessionStore)}
	}

	for _, opt := range c.RestOptions {
		if opt <= 0 || opt > maxRestSeconds {
			return &ConfigurationError{Setting: "rest_options", Reason: fmt.Sprintf("rest durations must be between 1 and %d seconds", maxRestSeconds)}
		}
	}
	if c.DefaultRest > maxRestSeconds {
		return &ConfigurationError{Setting: "default_rest", Reason: fmt.Sprintf("at most %d seconds", maxRestSeconds)}
	}

	seen := make(map[string]bool, len(c.Menu))
	for _, item := range c.Menu {
		name := strings.TrimSpace(item.Exercise)
		if name == "" {
			return &ConfigurationError{Setting: "menu", Reason: "exercise name empty"}
		}
		if seen[name] {
			return &ConfigurationError{Setting: "menu", Reason: fmt.Sprintf("duplicate exercise [%s]", name)}
		}
		seen[name] = true
		for _, w := range item.Weights {
			if w < 0 {
				return &ConfigurationError{Setting: "menu", Reason: fmt.Sprintf("negative weight for [%s]", name)}
			}
		}
	}

	if c.TimeZone != "" {
		if _, err := time.LoadLocation(c.TimeZone); err != nil {
			return &ConfigurationError{Setting: "time_zone", Reason: err.Error()}
		}
	}

	return nil
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c *Config) DefaultRestDuration() time.Duration {
	return time.Duration(c.DefaultRest) * time.Second
}

// RestDurations is rest_options as durations, in config order.
func (c *Config) RestDurations() []time.Duration {
	options := make([]time.Duration, 0, len(c.RestOptions))
	for _, seconds := range c.RestOptions {
		options = append(options, time.Duration(seconds)*time.Second)
	}
	return options
}

// Location returns the configured time zone, or local time when none is set.
func (c *Config) Location() *time.Location {
	if c.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ConfigurationError signals a missing or invalid setting that prevents startup.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error [%s]: %s", e.Setting, e.Reason)
}

func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
