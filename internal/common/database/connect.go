// internal/common/database/connect.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// WaitFor retries connect with exponential backoff, starting at two seconds,
// until it succeeds, attempts run out or ctx ends.
func WaitFor(ctx context.Context, name string, attempts uint64, connect func() error, log *zap.Logger) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		return connect()
	}, backoff.WithContext(backoff.WithMaxRetries(b, attempts), ctx), func(err error, next time.Duration) {
		log.Warn(fmt.Sprintf("%s failed, retrying...", name),
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Duration("nextRetryIn", next),
		)
	})
	if err != nil {
		return fmt.Errorf("%s failed after %d attempts: %w", name, attempt, err)
	}
	return nil
}
