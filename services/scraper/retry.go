package scraper

import (
	"context"
	"fmt"
	"time"

	"scout/utils/logging"

	"go.uber.org/zap"
)

// withRetry runs fn, retrying up to maxRetries more times on failure
// with a fixed delay between attempts. The wrapper knows nothing about
// browsers; callers decide the unit of work. The final error carries
// the attempt count.
func withRetry(ctx context.Context, maxRetries int, delay time.Duration, name string, fn func() error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	attempts := maxRetries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		logging.AppLogger.Warn("attempt failed",
			zap.String("op", name),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.String("error", truncate(err.Error(), 200)),
		)
		if attempt == attempts {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", name, attempts, lastErr)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
