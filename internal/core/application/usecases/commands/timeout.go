package commands

import (
	"context"
	"time"
)

// withTimeout runs fn under a deadline of d. A non-positive d leaves ctx as is.
func withTimeout(ctx context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	if d <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return fn(ctx)
}
