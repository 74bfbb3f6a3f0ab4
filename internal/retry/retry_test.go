package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func TestDo_SucceedsAfterRetries(t *testing.T) {
	p := Policy{Interval: 10 * time.Millisecond, Deadline: time.Second}

	attempts := 0
	err := p.Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errFlaky
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_NonRetryableStopsImmediately(t *testing.T) {
	fatal := errors.New("fatal")
	p := Policy{
		Interval:  10 * time.Millisecond,
		Deadline:  time.Second,
		Retryable: func(err error) bool { return errors.Is(err, errFlaky) },
	}

	attempts := 0
	err := p.Do(context.Background(), func() error {
		attempts++
		return fatal
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, fatal))
	assert.Equal(t, 1, attempts)
}

func TestDo_GivesUpAtDeadline(t *testing.T) {
	p := Policy{Interval: 20 * time.Millisecond, Deadline: 150 * time.Millisecond}

	start := time.Now()
	attempts := 0
	err := p.Do(context.Background(), func() error {
		attempts++
		return errFlaky
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	// several paced attempts, then the ceiling
	assert.GreaterOrEqual(t, attempts, 3)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestDo_FixedInterval(t *testing.T) {
	p := Policy{Interval: 50 * time.Millisecond, Deadline: time.Second}

	var stamps []time.Time
	_ = p.Do(context.Background(), func() error {
		stamps = append(stamps, time.Now())
		if len(stamps) < 3 {
			return errFlaky
		}
		return nil
	})

	require.Len(t, stamps, 3)
	for i := 1; i < len(stamps); i++ {
		gap := stamps[i].Sub(stamps[i-1])
		assert.GreaterOrEqual(t, gap, 40*time.Millisecond)
		assert.Less(t, gap, 200*time.Millisecond)
	}
}
