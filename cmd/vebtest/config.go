package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	verrors "github.com/23skdu/vebtree/internal/errors"
	"github.com/23skdu/vebtree/internal/logging"
	"github.com/23skdu/vebtree/internal/veb"
)

const envPrefix = "VEBTEST"

// Config holds the driver settings. Values come from the environment with
// the VEBTEST_ prefix, optionally seeded from a .env file.
type Config struct {
	Universe    uint64 `envconfig:"UNIVERSE" default:"1000000"`
	PercentPop  uint64 `envconfig:"PERCENT_POP" default:"30"` // per mille
	Seed        int64  `envconfig:"SEED"`                     // current time when unset
	Trials      int    `envconfig:"TRIALS" default:"1"`
	Concurrency int    `envconfig:"CONCURRENCY" default:"1"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"json"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	MetricsFile string `envconfig:"METRICS_FILE"`
}

// Config validation errors
var (
	ErrInvalidUniverse    = errors.New("universe must be in [1, 2^32]")
	ErrInvalidPercentPop  = errors.New("percent_pop must be at most 1000")
	ErrInvalidTrials      = errors.New("trials must be positive")
	ErrInvalidConcurrency = errors.New("concurrency must be positive")
	ErrInvalidLogFormat   = errors.New("log_format must be json, console or text")
	ErrInvalidLogLevel    = errors.New("log_level must be debug, info, warn, error, or fatal")
	ErrTooManyArgs        = errors.New("usage: vebtest [percentage populated (0-1000)] [random seed]")
)

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		Universe:    1000000,
		PercentPop:  30,
		Seed:        0,
		Trials:      1,
		Concurrency: 1,
		LogFormat:   "json",
		LogLevel:    "info",
	}
}

// ValidateConfig validates the configuration and returns an error if invalid
func ValidateConfig(cfg *Config) error {
	if cfg.Universe == 0 || cfg.Universe > veb.MaxUniverse {
		return ErrInvalidUniverse
	}
	if cfg.PercentPop > 1000 {
		return ErrInvalidPercentPop
	}
	if cfg.Trials <= 0 {
		return ErrInvalidTrials
	}
	if cfg.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if err := logging.ValidateFormat(cfg.LogFormat); err != nil {
		return ErrInvalidLogFormat
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return ErrInvalidLogLevel
	}
	return nil
}

// LoadConfig reads envFile (if it exists), the environment and then the
// positional arguments, in increasing order of precedence. Population above
// 1000 per mille is clamped. When neither VEBTEST_SEED nor a seed argument
// is given the seed is the current time. Every failure is a configuration
// error.
func LoadConfig(envFile string, args []string) (Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return Config{}, verrors.WrapConfigurationError(err, "load_config", "load "+envFile)
			}
		}
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, verrors.WrapConfigurationError(err, "load_config", "process environment")
	}
	seeded, err := applyArgs(&cfg, args)
	if err != nil {
		return Config{}, verrors.WrapConfigurationError(err, "load_config", "parse arguments")
	}
	if os.Getenv(envPrefix+"_SEED") != "" {
		seeded = true
	}
	if !seeded {
		cfg.Seed = time.Now().Unix()
	}
	cfg.PercentPop = min(cfg.PercentPop, 1000)

	if err := ValidateConfig(&cfg); err != nil {
		return Config{}, verrors.WrapConfigurationError(err, "load_config", "validate")
	}
	return cfg, nil
}

// applyArgs applies [percentage] [seed] and reports whether a seed was given.
func applyArgs(cfg *Config, args []string) (bool, error) {
	if len(args) > 2 {
		return false, ErrTooManyArgs
	}
	if len(args) == 2 {
		seed, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return false, fmt.Errorf("seed %q: %w", args[1], err)
		}
		cfg.Seed = seed
	}
	if len(args) >= 1 {
		pop, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return false, fmt.Errorf("percentage %q: %w", args[0], err)
		}
		cfg.PercentPop = pop
	}
	return len(args) == 2, nil
}
