package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackoff(attempts int) Backoff {
	return Backoff{Attempts: attempts, Base: time.Millisecond, Cap: 5 * time.Millisecond}
}

func TestRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		failures  int
		err       error
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{"first try", 0, nil, 3, 1, false},
		{"recovers after transient", 2, Transient(errors.New("busy"), 503), 3, 3, false},
		{"exhausts attempts", 10, Transient(errors.New("busy"), 503), 3, 3, true},
		{"permanent stops immediately", 10, errors.New("bad request"), 3, 1, true},
		{"single attempt", 10, Transient(errors.New("busy"), 429), 1, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			calls := 0
			val, err := Retry(context.Background(), fastBackoff(tt.attempts), func(context.Context) (string, error) {
				calls++
				if calls <= tt.failures {
					return "", tt.err
				}
				return "ok", nil
			})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, val)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ok", val)
		})
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, Backoff{Attempts: 5, Base: time.Hour, Cap: time.Hour}, func(context.Context) error {
		calls++
		cancel()
		return Transient(errors.New("busy"), 503)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryHooks(t *testing.T) {
	t.Parallel()

	var seen []int
	b := fastBackoff(3)
	b.Retryable = func(error) bool { return true }
	b.OnRetry = func(attempt int, _ error) { seen = append(seen, attempt) }

	err := Do(context.Background(), b, func(context.Context) error { return errors.New("x") })
	require.Error(t, err)
	assert.Equal(t, []int{1, 2}, seen)
}

func TestBackoffDelay(t *testing.T) {
	t.Parallel()

	b := Backoff{Base: 100 * time.Millisecond, Cap: time.Second, Factor: 2}
	assert.Equal(t, 100*time.Millisecond, b.Delay(0))
	assert.Equal(t, 400*time.Millisecond, b.Delay(2))
	assert.Equal(t, time.Second, b.Delay(10))

	b.Jitter = 0.5
	for range 20 {
		d := b.Delay(0)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

func TestLogRetry(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { LogRetry("anthropic", "classify")(1, errors.New("x")) })
}
