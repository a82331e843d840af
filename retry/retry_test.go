/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package retry

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-apputil/config"
)

var errTemporary = errors.New("temporary")

func TestDoWithRetry(t *testing.T) {
	t.Run("succeeds after failures", func(t *testing.T) {
		attempts := 0
		var notified []error
		err := DoWithRetry(context.Background(), NewConstantBackoffPolicy(time.Millisecond, 5), nil,
			func(err error, _ time.Duration) { notified = append(notified, err) },
			func(ctx context.Context) error {
				attempts++
				if attempts < 3 {
					return errTemporary
				}
				return nil
			})
		require.NoError(t, err)
		require.Equal(t, 3, attempts)
		require.Equal(t, []error{errTemporary, errTemporary}, notified)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		attempts := 0
		err := DoWithRetry(context.Background(), NewExponentialBackoffPolicy(time.Millisecond, 2), nil, nil,
			func(ctx context.Context) error {
				attempts++
				return errTemporary
			})
		require.ErrorIs(t, err, errTemporary)
		require.Equal(t, 3, attempts)
	})

	t.Run("not retryable error stops immediately", func(t *testing.T) {
		errFatal := errors.New("fatal")
		attempts := 0
		err := DoWithRetry(context.Background(), NewConstantBackoffPolicy(time.Millisecond, 5),
			func(err error) bool { return errors.Is(err, errTemporary) }, nil,
			func(ctx context.Context) error {
				attempts++
				return errFatal
			})
		require.ErrorIs(t, err, errFatal)
		require.Equal(t, 1, attempts)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := DoWithRetry(ctx, NewConstantBackoffPolicy(time.Hour, 0), nil, nil,
			func(ctx context.Context) error { return errTemporary })
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestConfig(t *testing.T) {
	load := func(data string) (*Config, error) {
		cfg := NewConfig()
		err := config.NewLoader(config.NewViperAdapter()).LoadFromReader(bytes.NewBufferString(data), config.DataTypeJSON, cfg)
		return cfg, err
	}

	cfg, err := load(`{}`)
	require.NoError(t, err)
	require.Equal(t, NewDefaultConfig(), cfg)

	cfg, err = load(`{"retry":{"policy":"constant","interval":"1s","maxRetryAttempts":0}}`)
	require.NoError(t, err)
	policy, err := NewPolicyFromConfig(cfg)
	require.NoError(t, err)
	require.Equal(t, ConstantBackoffPolicy{Interval: time.Second}, policy)

	_, err = load(`{"retry":{"policy":"linear"}}`)
	require.ErrorContains(t, err, "retry.policy")

	_, err = load(`{"retry":{"maxRetryAttempts":-1}}`)
	require.ErrorContains(t, err, "retry.maxRetryAttempts")

	_, err = NewPolicyFromConfig(&Config{Policy: "linear"})
	require.EqualError(t, err, `unknown retry policy "linear"`)
}

func TestExponentialBackoffPolicy(t *testing.T) {
	b := ExponentialBackoffPolicy{InitialInterval: time.Second, MaxInterval: 2 * time.Second, Multiplier: 10}.NewBackOff()
	// Delays are randomized by ±50%.
	require.LessOrEqual(t, b.NextBackOff(), 1500*time.Millisecond)
	require.LessOrEqual(t, b.NextBackOff(), 3*time.Second)
	require.LessOrEqual(t, b.NextBackOff(), 3*time.Second)
}
