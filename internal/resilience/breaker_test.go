package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestBreaker(threshold int) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	b := NewBreaker("test", threshold, time.Minute)
	b.now = clock.now
	return b, clock
}

func fail(context.Context) (int, error) { return 0, Transient(errors.New("down"), 503) }

func succeed(context.Context) (int, error) { return 1, nil }

func TestBreakerOpensAfterThreshold(t *testing.T) {
	t.Parallel()

	b, _ := newTestBreaker(2)
	ctx := context.Background()

	_, _ = Call(ctx, b, fail)
	assert.Equal(t, Closed, b.State())
	_, _ = Call(ctx, b, fail)
	assert.Equal(t, Open, b.State())

	_, err := Call(ctx, b, succeed)
	assert.ErrorIs(t, err, ErrBreakerOpen)
}

func TestBreakerPermanentErrorsDoNotTrip(t *testing.T) {
	t.Parallel()

	b, _ := newTestBreaker(1)
	_, err := Call(context.Background(), b, func(context.Context) (int, error) {
		return 0, errors.New("bad request")
	})
	require.Error(t, err)
	assert.Equal(t, Closed, b.State())
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	t.Parallel()

	b, clock := newTestBreaker(1)
	ctx := context.Background()

	_, _ = Call(ctx, b, fail)
	require.Equal(t, Open, b.State())

	clock.t = clock.t.Add(time.Minute)
	assert.Equal(t, HalfOpen, b.State())

	// Failed probe reopens.
	_, _ = Call(ctx, b, fail)
	assert.Equal(t, Open, b.State())

	clock.t = clock.t.Add(time.Minute)
	v, err := Call(ctx, b, succeed)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, Closed, b.State())
}

func TestStateString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "half-open", HalfOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}
