// Command vebtest runs randomized verification trials against the veb tree
// and reports phase timings as logs and Prometheus metrics.
//
// Usage: vebtest [percentage populated (0-1000)] [random seed]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	verrors "github.com/23skdu/vebtree/internal/errors"
	"github.com/23skdu/vebtree/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := LoadConfig(".env", args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vebtest: %v\n", err)
		return exitCode(err)
	}

	logger, err := logging.NewLogger(logging.Config{
		Format: cfg.LogFormat,
		Level:  cfg.LogLevel,
		Output: os.Stderr,
	})
	if err != nil {
		err = verrors.WrapConfigurationError(err, "new_logger", "build logger")
		fmt.Fprintf(os.Stderr, "vebtest: %v\n", err)
		return exitCode(err)
	}

	logger.Info().
		Uint64("universe", cfg.Universe).
		Uint64("percent_pop", cfg.PercentPop).
		Int64("seed", cfg.Seed).
		Int("trials", cfg.Trials).
		Int("concurrency", cfg.Concurrency).
		Msg("Starting verification")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	runErr := RunTrials(ctx, cfg, logger)

	if cfg.MetricsFile != "" {
		if err := writeMetrics(cfg.MetricsFile); err != nil {
			logger.Error().Err(err).Str("error_type", string(verrors.ErrorTypeResource)).Msg("Failed to write metrics")
		}
	}

	if runErr != nil {
		typ, _ := verrors.TypeOf(runErr)
		logger.Error().Err(runErr).Str("error_type", string(typ)).Dur("elapsed", time.Since(start)).Msg("Verification failed")
		return exitCode(runErr)
	}
	logger.Info().Dur("elapsed", time.Since(start)).Msg("Verification passed")
	return 0
}

// exitCode maps a failure to the process status: 2 for a configuration
// error, 1 for anything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case verrors.IsType(err, verrors.ErrorTypeConfiguration):
		return 2
	default:
		return 1
	}
}

func writeMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return verrors.Wrap(err, verrors.ErrorTypeResource, "write_metrics", "write "+path)
	}
	return nil
}
