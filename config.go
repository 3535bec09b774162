package gamesearch

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config is the file form of Options.
type Config struct {
	// NodeBudget caps best-first expansions and real-time moves. 0 disables it.
	NodeBudget int `yaml:"node_budget"`

	// Order is "min" or "max".
	Order string `yaml:"order"`

	// Player is passed to the visitor by single-agent searches.
	Player string `yaml:"player"`

	Pruning           bool `yaml:"pruning"`
	MaxRecursionDepth int  `yaml:"max_recursion_depth"`

	// Workers bounds SearchAll concurrency.
	Workers int `yaml:"workers"`

	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig mirrors DefaultOptions.
func DefaultConfig() Config {
	return Config{
		NodeBudget:        DefaultNodeBudget,
		Order:             MinFirst.String(),
		Pruning:           true,
		MaxRecursionDepth: DefaultMaxRecursionDepth,
		Workers:           runtime.NumCPU(),
		LogLevel:          zerolog.InfoLevel.String(),
	}
}

// LoadConfig reads a YAML config on top of DefaultConfig, applies
// GAMESEARCH_* environment overrides and validates the result.
// An empty path or a missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return config, fmt.Errorf("load config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return config, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	loadConfigFromEnv(&config)

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func loadConfigFromEnv(config *Config) {
	if v := os.Getenv("GAMESEARCH_NODE_BUDGET"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.NodeBudget = i
		}
	}
	if v := os.Getenv("GAMESEARCH_ORDER"); v != "" {
		config.Order = v
	}
	if v := os.Getenv("GAMESEARCH_PLAYER"); v != "" {
		config.Player = v
	}
	if v := os.Getenv("GAMESEARCH_PRUNING"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Pruning = b
		}
	}
	if v := os.Getenv("GAMESEARCH_MAX_RECURSION_DEPTH"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.MaxRecursionDepth = i
		}
	}
	if v := os.Getenv("GAMESEARCH_WORKERS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Workers = i
		}
	}
	if v := os.Getenv("GAMESEARCH_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if c.NodeBudget < 0 {
		return fmt.Errorf("node_budget must be >= 0: %w", ErrInvalidArgument)
	}
	if c.Order != MinFirst.String() && c.Order != MaxFirst.String() {
		return fmt.Errorf("order must be %q or %q, got %q: %w", MinFirst, MaxFirst, c.Order, ErrInvalidArgument)
	}
	if c.MaxRecursionDepth < 1 {
		return fmt.Errorf("max_recursion_depth must be >= 1: %w", ErrInvalidArgument)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1: %w", ErrInvalidArgument)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Options converts the config into search options. Call Validate first; an
// unknown order or log level falls back to the default.
func (c Config) Options() []Option {
	order := MinFirst
	if c.Order == MaxFirst.String() {
		order = MaxFirst
	}
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return []Option{
		WithNodeBudget(c.NodeBudget),
		WithOrder(order),
		WithPlayer(Player(c.Player)),
		WithPruning(c.Pruning),
		WithMaxRecursionDepth(c.MaxRecursionDepth),
		WithWorkers(c.Workers),
		WithLogger(defaultLogger().Level(level)),
	}
}
