package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fuyuntt/minichess/search"
	"github.com/sirupsen/logrus"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Depth        int    `json:"depth"`
	TimeBudgetMs int    `json:"time_budget_ms"`
	LogLevel     string `json:"log_level"`
	// 为空时写标准错误
	LogFile  string `json:"log_file"`
	TCPPort  int    `json:"tcp_port"`
	HTTPAddr string `json:"http_addr"`
}

func Default() Config {
	return Config{
		Depth:        search.DefaultDepth,
		TimeBudgetMs: int(search.DefaultTimeBudget / time.Millisecond),
		LogLevel:     "info",
		LogFile:      "chess.log",
		TCPPort:      1234,
		HTTPAddr:     ":8080",
	}
}

// Load reads a JSON file over the defaults. An empty path yields the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Depth < 1 {
		return fmt.Errorf("%w: depth %d", ErrInvalid, c.Depth)
	}
	if c.TimeBudgetMs < 1 {
		return fmt.Errorf("%w: time_budget_ms %d", ErrInvalid, c.TimeBudgetMs)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.TCPPort < 0 || c.TCPPort > 65535 {
		return fmt.Errorf("%w: tcp_port %d", ErrInvalid, c.TCPPort)
	}
	return nil
}

func (c Config) TimeBudget() time.Duration {
	return time.Duration(c.TimeBudgetMs) * time.Millisecond
}

// Level falls back to info for an unparsable level.
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
