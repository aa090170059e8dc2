package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ReaderConfig configures the terminal reader (newsctl read).
type ReaderConfig struct {
	ServerURL      string `yaml:"server_url"`
	PageSize       int    `yaml:"page_size"`
	Category       string `yaml:"category"`
	TickerInterval string `yaml:"ticker_interval"`
	TickerWindow   string `yaml:"ticker_window"`
	RequestTimeout string `yaml:"request_timeout"`
	LogFile        string `yaml:"log_file"`
}

// DefaultReaderConfig returns the reader defaults used when no file exists.
func DefaultReaderConfig() *ReaderConfig {
	cfg := &ReaderConfig{}
	cfg.applyDefaults()
	return cfg
}

// LoadReader reads the reader configuration from path. A missing file yields
// the defaults.
func LoadReader(path string) (*ReaderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultReaderConfig(), nil
		}
		return nil, fmt.Errorf("reading reader config: %w", err)
	}

	var cfg ReaderConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing reader config: %w", err)
	}
	cfg.applyDefaults()

	if cfg.PageSize < 1 || cfg.PageSize > 50 {
		return nil, fmt.Errorf("page_size %d out of range [1,50]", cfg.PageSize)
	}
	for name, v := range map[string]string{
		"ticker_interval": cfg.TickerInterval,
		"ticker_window":   cfg.TickerWindow,
		"request_timeout": cfg.RequestTimeout,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	return &cfg, nil
}

func (c *ReaderConfig) applyDefaults() {
	if c.ServerURL == "" {
		c.ServerURL = "http://localhost:8080"
	}
	if c.PageSize == 0 {
		c.PageSize = 10
	}
	if c.TickerInterval == "" {
		c.TickerInterval = "30s"
	}
	if c.TickerWindow == "" {
		c.TickerWindow = "24h"
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = "15s"
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(os.TempDir(), "newsctl.log")
	}
}

// GetTickerInterval returns the polling interval of the breaking-news ticker.
func (c *ReaderConfig) GetTickerInterval() time.Duration {
	return parseDurationOr(c.TickerInterval, 30*time.Second)
}

func (c *ReaderConfig) GetTickerWindow() time.Duration {
	return parseDurationOr(c.TickerWindow, 24*time.Hour)
}

func (c *ReaderConfig) GetRequestTimeout() time.Duration {
	return parseDurationOr(c.RequestTimeout, 15*time.Second)
}

// DefaultReaderConfigPath returns ~/.config/newsroom/reader.yaml.
func DefaultReaderConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "reader.yaml"
	}
	return filepath.Join(home, ".config", "newsroom", "reader.yaml")
}
