// Package config loads samc configuration from an optional YAML file and
// environment variables; environment values override the file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Vimeo API
	VimeoToken   string
	VimeoBaseURL string

	// Lookback bounds discovery to videos created inside this window.
	Lookback time.Duration

	// ExcludedFolders lists folder ids whose videos are never retagged.
	ExcludedFolders []int64

	// RequestsPerSecond throttles Vimeo API calls. Zero disables throttling.
	RequestsPerSecond float64

	// Logging
	LogFile  string
	LogLevel slog.Level

	// Report exporter
	Report ReportConfig
}

// ReportConfig holds the event report exporter settings.
type ReportConfig struct {
	BaseURL      string   `yaml:"base_url"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Table        string   `yaml:"table"`
	Select       []string `yaml:"select"`
	Filter       string   `yaml:"filter"`
	OrderBy      string   `yaml:"order_by"`
}

// fileConfig is the YAML file shape. Secrets normally come from the
// environment; the file covers the stable, shareable settings.
type fileConfig struct {
	Lookback          string       `yaml:"lookback"`
	ExcludedFolders   []int64      `yaml:"excluded_folders"`
	RequestsPerSecond float64      `yaml:"requests_per_second"`
	LogFile           string       `yaml:"log_file"`
	LogLevel          string       `yaml:"log_level"`
	Report            ReportConfig `yaml:"report"`
}

// Load reads configuration: defaults, then the YAML file at path (skipped
// when path is empty and the default file is absent), then environment
// overrides.
func Load(path string) (Config, error) {
	cfg := Config{
		VimeoBaseURL:      "https://api.vimeo.com",
		Lookback:          48 * time.Hour,
		RequestsPerSecond: 5,
		LogFile:           "/tmp/samc.log",
		LogLevel:          slog.LevelInfo,
	}

	explicit := path != ""
	if path == "" {
		path = "samc.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if err := cfg.applyFile(fc); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; env and defaults carry the run.
	default:
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(fc fileConfig) error {
	if fc.Lookback != "" {
		d, err := time.ParseDuration(fc.Lookback)
		if err != nil {
			return fmt.Errorf("parse lookback: %w", err)
		}
		c.Lookback = d
	}
	if len(fc.ExcludedFolders) > 0 {
		c.ExcludedFolders = fc.ExcludedFolders
	}
	if fc.RequestsPerSecond > 0 {
		c.RequestsPerSecond = fc.RequestsPerSecond
	}
	if fc.LogFile != "" {
		c.LogFile = fc.LogFile
	}
	if fc.LogLevel != "" {
		c.LogLevel = parseLogLevel(fc.LogLevel)
	}
	if fc.Report.BaseURL != "" {
		c.Report = fc.Report
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.VimeoToken = getEnv("SAMC_VIMEO_TOKEN", c.VimeoToken)
	c.VimeoBaseURL = getEnv("SAMC_VIMEO_BASE_URL", c.VimeoBaseURL)
	c.LogFile = getEnv("SAMC_LOG_FILE", c.LogFile)
	if v := os.Getenv("SAMC_LOG_LEVEL"); v != "" {
		c.LogLevel = parseLogLevel(v)
	}

	if v := os.Getenv("SAMC_LOOKBACK"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse SAMC_LOOKBACK: %w", err)
		}
		c.Lookback = d
	}

	if v := os.Getenv("SAMC_EXCLUDED_FOLDERS"); v != "" {
		ids, err := parseFolderList(v)
		if err != nil {
			return fmt.Errorf("parse SAMC_EXCLUDED_FOLDERS: %w", err)
		}
		c.ExcludedFolders = ids
	}

	if v := os.Getenv("SAMC_REQUESTS_PER_SECOND"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse SAMC_REQUESTS_PER_SECOND: %w", err)
		}
		c.RequestsPerSecond = rps
	}

	c.Report.BaseURL = getEnv("SAMC_MP_BASE_URL", c.Report.BaseURL)
	c.Report.ClientID = getEnv("SAMC_MP_CLIENT_ID", c.Report.ClientID)
	c.Report.ClientSecret = getEnv("SAMC_MP_CLIENT_SECRET", c.Report.ClientSecret)
	return nil
}

// ExcludedSet returns the exclusion list as a lookup set.
func (c *Config) ExcludedSet() map[int64]struct{} {
	set := make(map[int64]struct{}, len(c.ExcludedFolders))
	for _, id := range c.ExcludedFolders {
		set[id] = struct{}{}
	}
	return set
}

func parseFolderList(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid folder id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
