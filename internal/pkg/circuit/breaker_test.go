package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerOpensAtThreshold(t *testing.T) {
	b := NewBreaker("test", 3, time.Minute)

	for i := 0; i < 2; i++ {
		b.RecordFailure()
		assert.True(t, b.Allow())
	}
	b.RecordFailure()
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	b := NewBreaker("test", 1, 10*time.Millisecond)

	b.RecordFailure()
	require.False(t, b.Allow())

	time.Sleep(20 * time.Millisecond)

	// One probe is allowed after the timeout.
	assert.True(t, b.Allow())
	assert.Equal(t, StateHalfOpen, b.State())

	// A failing probe reopens immediately.
	b.RecordFailure()
	assert.False(t, b.Allow())

	time.Sleep(20 * time.Millisecond)
	require.True(t, b.Allow())
	b.RecordSuccess()
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreakerSuccessResetsFailures(t *testing.T) {
	b := NewBreaker("test", 3, time.Minute)

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}
