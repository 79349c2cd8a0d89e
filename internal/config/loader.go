package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config captures configuration values for the tracker service. Values come
// from an optional YAML file overridden by environment variables.
type Config struct {
	SQLiteDSN       string `yaml:"sqlite_dsn"`
	Timezone        string `yaml:"timezone"`
	WindowDays      int    `yaml:"window_days"`
	StatusRefresh   string `yaml:"status_refresh"`
	DigestSchedule  string `yaml:"digest_schedule"`
	SlackToken      string `yaml:"slack_token"`
	SlackChannel    string `yaml:"slack_channel"`
	LogLevel        string `yaml:"log_level"`
	CalendarName    string `yaml:"calendar_name"`
	ICSPath         string `yaml:"ics_path"`
	DefaultEmployee string `yaml:"default_employee"`
}

// DigestEnabled reports whether Slack digest delivery is configured.
func (c Config) DigestEnabled() bool {
	return c.SlackToken != "" && c.SlackChannel != ""
}

// ICSEnabled reports whether the iCalendar feed export is configured.
func (c Config) ICSEnabled() bool {
	return c.ICSPath != ""
}

// Load parses configuration from TRACKER_CONFIG_FILE (when set) and the
// process environment. Environment variables win over file values.
//
// The loader applies sensible defaults for optional fields while validating
// the rest and reporting every invalid entry at once.
func Load() (Config, error) {
	cfg := Config{
		SQLiteDSN:      "file:tracker.db?_foreign_keys=on",
		Timezone:       "Local",
		WindowDays:     14,
		StatusRefresh:  "@every 1m",
		DigestSchedule: "0 9 * * 1-5",
		LogLevel:       "info",
		CalendarName:   "Upcoming events",
	}

	if path := strings.TrimSpace(os.Getenv("TRACKER_CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	invalid := make([]string, 0, 2)

	if dsn := strings.TrimSpace(os.Getenv("TRACKER_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}
	if tz := strings.TrimSpace(os.Getenv("TRACKER_TIMEZONE")); tz != "" {
		cfg.Timezone = tz
	}
	if value := strings.TrimSpace(os.Getenv("TRACKER_WINDOW_DAYS")); value != "" {
		days, err := strconv.Atoi(value)
		if err != nil || days <= 0 {
			invalid = append(invalid, "TRACKER_WINDOW_DAYS")
		} else {
			cfg.WindowDays = days
		}
	}
	if spec := strings.TrimSpace(os.Getenv("TRACKER_STATUS_REFRESH")); spec != "" {
		cfg.StatusRefresh = spec
	}
	if spec := strings.TrimSpace(os.Getenv("TRACKER_DIGEST_SCHEDULE")); spec != "" {
		cfg.DigestSchedule = spec
	}
	if token := strings.TrimSpace(os.Getenv("TRACKER_SLACK_TOKEN")); token != "" {
		cfg.SlackToken = token
	}
	if channel := strings.TrimSpace(os.Getenv("TRACKER_SLACK_CHANNEL")); channel != "" {
		cfg.SlackChannel = channel
	}
	if level := strings.TrimSpace(os.Getenv("TRACKER_LOG_LEVEL")); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	if name := strings.TrimSpace(os.Getenv("TRACKER_CALENDAR_NAME")); name != "" {
		cfg.CalendarName = name
	}
	if path := strings.TrimSpace(os.Getenv("TRACKER_ICS_PATH")); path != "" {
		cfg.ICSPath = path
	}
	if id := strings.TrimSpace(os.Getenv("TRACKER_DEFAULT_EMPLOYEE")); id != "" {
		cfg.DefaultEmployee = id
	}

	if cfg.WindowDays <= 0 {
		invalid = append(invalid, "window_days")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		invalid = append(invalid, "log_level")
	}
	if cfg.SlackToken != "" && cfg.SlackChannel == "" {
		invalid = append(invalid, "slack_channel")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid configuration values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}
