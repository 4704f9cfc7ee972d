// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/okeydokey/okeydokey-cli/pkg/constants"
)

// Context for API requests derived from [parent], with large timeout
func GetAPILargeContextFrom(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, constants.APIRequestLargeTimeout)
}

// RetryWithContextGen retries [fn] up to [maxAttempts] times, creating a new context
// with [ctxGen] for each attempt and sleeping [retryInterval] between failures
func RetryWithContextGen[T any](
	ctxGen func() (context.Context, context.CancelFunc),
	fn func(context.Context) (T, error),
	maxAttempts int,
	retryInterval time.Duration,
) (T, error) {
	var (
		result T
		err    error
	)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		ctx, cancel := ctxGen()
		result, err = fn(ctx)
		cancel()
		if err == nil {
			return result, nil
		}
		if attempt < maxAttempts-1 {
			time.Sleep(retryInterval)
		}
	}
	return result, fmt.Errorf("maximum retry attempts reached: %w", err)
}
