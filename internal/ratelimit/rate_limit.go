/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Rate describes the frequency of calls.
type Rate struct {
	Count    int
	Duration time.Duration
}

// Validate checks that the rate allows at least one call per positive duration.
func (r Rate) Validate() error {
	if r.Count <= 0 {
		return fmt.Errorf("rate count should be positive, got %d", r.Count)
	}
	if r.Duration <= 0 {
		return fmt.Errorf("rate duration should be positive, got %s", r.Duration)
	}
	return nil
}

// Limiter interface defines the rate limiting contract.
type Limiter interface {
	Allow(ctx context.Context, key string) (allow bool, retryAfter time.Duration, err error)
}
