package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures `pengo serve`
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	DataDir         string        `yaml:"data_dir"`
	DBPath          string        `yaml:"db_path"`
	BalanceExport   string        `yaml:"balance_export"`
	ReloadCron      string        `yaml:"reload_cron"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoadServerConfig reads the server config from a YAML file, then applies
// environment variable overrides and defaults. A missing file is not an error.
func LoadServerConfig(path string) (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PENGO_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("PENGO_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PENGO_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PENGO_RELOAD_CRON"); v != "" {
		cfg.ReloadCron = v
	}
	if v := os.Getenv("PENGO_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = strings.Split(v, ",")
	}

	// Defaults
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	return cfg, nil
}

// Validate checks the fields that cannot be defaulted
func (c *ServerConfig) Validate() error {
	if c.ReloadCron != "" && c.DataDir == "" {
		return fmt.Errorf("reload_cron requires data_dir; embedded tables never change")
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout cannot be negative")
	}
	return nil
}
