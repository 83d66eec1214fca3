// Package config provides YAML-based configuration loading for Gantry.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Gantry configuration, loaded from gantry.yaml.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Notify    NotifyConfig    `yaml:"notify"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DBConfig holds connection settings for the MySQL server.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// NotifyConfig holds optional chat notification settings. A target is
// enabled when its token and channel are both set.
type NotifyConfig struct {
	SlackToken     string `yaml:"slack_token"`
	SlackChannel   string `yaml:"slack_channel"`
	DiscordToken   string `yaml:"discord_token"`
	DiscordChannel string `yaml:"discord_channel"`
}

// ReconcileConfig controls the periodic project-progress reconciliation job.
type ReconcileConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"` // 5-field cron expression
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.DB.Host == "" {
		c.DB.Host = "127.0.0.1"
	}
	if c.DB.Port == 0 {
		c.DB.Port = 3306
	}
	if c.DB.User == "" {
		c.DB.User = "root"
	}
	if c.DB.Database == "" {
		c.DB.Database = "gantry"
	}
	if c.Reconcile.Schedule == "" {
		c.Reconcile.Schedule = "0 2 * * *"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 0 and 65535")
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		errs = append(errs, "db.port must be between 1 and 65535")
	}
	if c.Notify.SlackToken != "" && c.Notify.SlackChannel == "" {
		errs = append(errs, "notify.slack_channel is required when slack_token is set")
	}
	if c.Notify.DiscordToken != "" && c.Notify.DiscordChannel == "" {
		errs = append(errs, "notify.discord_channel is required when discord_token is set")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
