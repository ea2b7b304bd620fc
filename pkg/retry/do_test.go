package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDo_SucceedsAfterRetries(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, WithMaxAttempts(5), WithBackoff(Fixed(time.Millisecond)))

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	failure := errors.New("always")
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return failure
	}, WithMaxAttempts(3), WithBackoff(Fixed(time.Millisecond)))

	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 3, attempts)
}

func TestDo_ContextErrorStopsEarly(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return context.DeadlineExceeded
	}, WithMaxAttempts(5))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, attempts)
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, func(ctx context.Context) error {
		t.Fatal("should not run under a cancelled context")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, func(ctx context.Context) error {
		attempts++
		return errors.New("transient")
	}, WithMaxAttempts(10), WithBackoff(Fixed(time.Second)))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestBackoff_Progressions(t *testing.T) {
	exp := Exponential(10*time.Millisecond, 40*time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, exp(0))
	assert.Equal(t, 20*time.Millisecond, exp(1))
	assert.Equal(t, 40*time.Millisecond, exp(2))
	assert.Equal(t, 40*time.Millisecond, exp(5)) // capped

	fixed := Fixed(15 * time.Millisecond)
	assert.Equal(t, 15*time.Millisecond, fixed(0))
	assert.Equal(t, 15*time.Millisecond, fixed(9))
}

func TestJitter(t *testing.T) {
	assert.Equal(t, time.Second, NoJitter(time.Second))

	for i := 0; i < 50; i++ {
		d := FullJitter(time.Second)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.Less(t, d, time.Second)
	}
	assert.Equal(t, time.Duration(0), FullJitter(0))
}
