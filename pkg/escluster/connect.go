package escluster

import (
	"context"
	"log/slog"
	"time"

	"logfleet/curator/pkg/config"
)

// Connect establishes a health-checked connection to the cluster. The
// scheduled job regularly fires while the cluster is mid-restart, so a
// failed probe is retried with a fixed delay up to the configured attempt
// cap (defaults: 2 attempts, 10s apart; see config.ElasticsearchConfig).
// When every attempt fails the returned FatalConnectionError terminates
// the run.
//
// Certificate and configuration problems fail immediately: retrying cannot
// fix a bad keypair.
func Connect(ctx context.Context, cfg config.ElasticsearchConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	attempts := cfg.ConnectAttempts
	if attempts < 1 {
		attempts = config.DefaultConnectAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := client.Ping(ctx)
		if err == nil {
			logger.Debug("connected to cluster", "host", cfg.Host, "attempt", attempt)
			return client, nil
		}
		lastErr = &ConnectionError{Host: cfg.Host, Err: err}

		if attempt < attempts {
			logger.Warn("cluster unreachable, retrying",
				"host", cfg.Host,
				"attempt", attempt,
				"max_attempts", attempts,
				"retry_delay", cfg.ConnectRetryDelay.String(),
				"error", err.Error(),
			)
			if err := sleepCtx(ctx, cfg.ConnectRetryDelay); err != nil {
				return nil, err
			}
		}
	}

	fatal := &FatalConnectionError{Host: cfg.Host, Attempts: attempts, Err: lastErr}
	logger.Error("giving up connecting to cluster",
		"host", cfg.Host,
		"attempts", attempts,
		"error", lastErr.Error(),
	)
	return nil, fatal
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
