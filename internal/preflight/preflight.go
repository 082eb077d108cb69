// Package preflight runs the startup dependency checks spec.md §6
// requires before the daemon starts accepting work: the library service
// must answer a health check within five attempts, ten seconds apart.
// Grounded on the teacher's internal/preflight check-list pattern,
// narrowed to this project's single outbound dependency.
package preflight

import (
	"context"
	"fmt"
	"time"
)

// HealthChecker is the narrow contract the library adapter exposes for
// startup validation.
type HealthChecker interface {
	ValidateConfig(ctx context.Context) error
}

const (
	maxAttempts = 5
	retryDelay  = 10 * time.Second
)

// CheckSonarr retries client's health check up to five times, ten seconds
// apart, returning the last error if every attempt fails.
func CheckSonarr(ctx context.Context, client HealthChecker) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = client.ValidateConfig(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}
	return fmt.Errorf("library service validation failed after %d attempts: %w", maxAttempts, lastErr)
}
