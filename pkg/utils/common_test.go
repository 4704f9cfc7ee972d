// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetryWithContextGen(t *testing.T) {
	calls := 0
	result, err := RetryWithContextGen(
		func() (context.Context, context.CancelFunc) {
			return GetAPILargeContextFrom(context.Background())
		},
		func(context.Context) (int, error) {
			calls++
			if calls < 3 {
				return 0, errors.New("not yet")
			}
			return 42, nil
		},
		3,
		time.Millisecond,
	)
	require.NoError(t, err)
	require.Equal(t, 42, result)
	require.Equal(t, 3, calls)

	calls = 0
	_, err = RetryWithContextGen(
		func() (context.Context, context.CancelFunc) {
			return GetAPILargeContextFrom(context.Background())
		},
		func(context.Context) (int, error) {
			calls++
			return 0, errors.New("always")
		},
		2,
		time.Millisecond,
	)
	require.ErrorContains(t, err, "maximum retry attempts reached")
	require.ErrorContains(t, err, "always")
	require.Equal(t, 2, calls)
}
