// Package config provides generation tuning knobs with built-in defaults,
// overridable from a config file or HISTORYGEN_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all tunable generation parameters. The statistical shape of
// the output is a tuning concern; the invariants the generator enforces
// (non-overlap, bounds, monotonic times) hold for any sane values here.
type Config struct {
	// Timezone is the IANA zone generation is anchored in.
	Timezone string `mapstructure:"timezone"`

	// MinWeeks/MaxWeeks bound the accepted time window.
	MinWeeks int `mapstructure:"min_weeks"`
	MaxWeeks int `mapstructure:"max_weeks"`

	// PreviewLimit is the default preview size; MaxPreviewLimit caps it.
	PreviewLimit    int `mapstructure:"preview_limit"`
	MaxPreviewLimit int `mapstructure:"max_preview_limit"`

	// MaxVisitsPerWeek bounds total output; exceeding it is treated as an
	// internal defect rather than silently truncated.
	MaxVisitsPerWeek int `mapstructure:"max_visits_per_week"`

	// GapLoSec/GapHiSec bound the sampled gap between consecutive visits,
	// on top of the previous page's dwell time.
	GapLoSec int `mapstructure:"gap_lo_sec"`
	GapHiSec int `mapstructure:"gap_hi_sec"`

	// SessionMinMinutes/SessionMaxMinutes bound session durations.
	SessionMinMinutes int `mapstructure:"session_min_minutes"`
	SessionMaxMinutes int `mapstructure:"session_max_minutes"`

	// MaxVisitsPerSession caps how many visits one session may contain.
	MaxVisitsPerSession int `mapstructure:"max_visits_per_session"`

	// LogLevel sets logger verbosity: "info" or "debug".
	LogLevel string `mapstructure:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Timezone:            "Asia/Singapore",
		MinWeeks:            1,
		MaxWeeks:            12,
		PreviewLimit:        50,
		MaxPreviewLimit:     200,
		MaxVisitsPerWeek:    500,
		GapLoSec:            3,
		GapHiSec:            40,
		SessionMinMinutes:   20,
		SessionMaxMinutes:   90,
		MaxVisitsPerSession: 12,
		LogLevel:            "info",
	}
}

// Load resolves configuration from defaults, an optional historygen.yaml in
// the working directory, and HISTORYGEN_* environment variables.
func Load() (Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("min_weeks", def.MinWeeks)
	v.SetDefault("max_weeks", def.MaxWeeks)
	v.SetDefault("preview_limit", def.PreviewLimit)
	v.SetDefault("max_preview_limit", def.MaxPreviewLimit)
	v.SetDefault("max_visits_per_week", def.MaxVisitsPerWeek)
	v.SetDefault("gap_lo_sec", def.GapLoSec)
	v.SetDefault("gap_hi_sec", def.GapHiSec)
	v.SetDefault("session_min_minutes", def.SessionMinMinutes)
	v.SetDefault("session_max_minutes", def.SessionMaxMinutes)
	v.SetDefault("max_visits_per_session", def.MaxVisitsPerSession)
	v.SetDefault("log_level", def.LogLevel)

	v.SetEnvPrefix("HISTORYGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("historygen")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the generator cannot honor.
func (c Config) Validate() error {
	if c.MinWeeks < 1 || c.MaxWeeks < c.MinWeeks {
		return fmt.Errorf("config: invalid weeks bounds [%d,%d]", c.MinWeeks, c.MaxWeeks)
	}
	if c.GapLoSec < 1 || c.GapHiSec < c.GapLoSec {
		return fmt.Errorf("config: invalid gap range [%d,%d]", c.GapLoSec, c.GapHiSec)
	}
	if c.SessionMinMinutes < 5 || c.SessionMaxMinutes < c.SessionMinMinutes {
		return fmt.Errorf("config: invalid session duration range [%d,%d]", c.SessionMinMinutes, c.SessionMaxMinutes)
	}
	if c.MaxVisitsPerSession < 1 {
		return fmt.Errorf("config: max_visits_per_session must be positive")
	}
	if c.MaxVisitsPerWeek < c.MaxVisitsPerSession {
		return fmt.Errorf("config: max_visits_per_week below max_visits_per_session")
	}
	if c.PreviewLimit < 1 || c.MaxPreviewLimit < c.PreviewLimit {
		return fmt.Errorf("config: invalid preview limits [%d,%d]", c.PreviewLimit, c.MaxPreviewLimit)
	}
	return nil
}
