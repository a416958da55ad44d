package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// step is one recorded call: true for a success, false for a failure.
type step bool

const (
	ok   step = true
	fail step = false
)

func replay(b *Breaker, steps ...step) {
	for _, s := range steps {
		if s {
			b.RecordSuccess()
		} else {
			b.RecordFailure()
		}
	}
}

func TestNewBreakerIsClosed(t *testing.T) {
	b := New("judgment")
	assert.Equal(t, "judgment", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreakerTransitions(t *testing.T) {
	tests := []struct {
		name     string
		failures int
		recovers int
		steps    []step
		wantOpen bool
	}{
		{"below threshold", 3, 1, []step{fail, fail}, false},
		{"reaches threshold", 3, 1, []step{fail, fail, fail}, true},
		{"success clears failure streak", 3, 1, []step{fail, fail, ok, fail, fail}, false},
		{"streak after success opens", 3, 1, []step{fail, fail, ok, fail, fail, fail}, true},
		{"partial recovery stays open", 1, 2, []step{fail, ok}, true},
		{"full recovery closes", 1, 2, []step{fail, ok, ok}, false},
		{"failure restarts recovery", 1, 3, []step{fail, ok, ok, fail, ok, ok}, true},
		{"recovery after restart closes", 1, 3, []step{fail, ok, ok, fail, ok, ok, ok}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("judgment", WithFailureThreshold(tt.failures), WithSuccessThreshold(tt.recovers))
			replay(b, tt.steps...)
			assert.Equal(t, tt.wantOpen, b.IsOpen())
		})
	}
}

func TestRecordReportsChanges(t *testing.T) {
	b := New("judgment", WithFailureThreshold(2), WithSuccessThreshold(1))

	fallback, change := b.RecordFailure()
	assert.False(t, fallback)
	assert.Equal(t, Change{}, change)

	fallback, change = b.RecordFailure()
	assert.True(t, fallback)
	assert.True(t, change.Opened)

	fallback, change = b.RecordFailure()
	assert.True(t, fallback, "open breaker keeps reporting fallback")
	assert.False(t, change.Opened, "no second open transition")

	primary, change := b.RecordSuccess()
	assert.True(t, primary)
	assert.True(t, change.Closed)
}

func TestResetClosesOpenBreaker(t *testing.T) {
	b := New("judgment", WithFailureThreshold(1))
	b.RecordFailure()
	require.True(t, b.IsOpen())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	b.RecordFailure()
	assert.True(t, b.IsOpen(), "counters restart from zero")
}

func TestAllowProbesOncePerCooldown(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b := New("judgment", WithFailureThreshold(1), WithCooldown(time.Minute), WithClock(func() time.Time { return now }))

	b.RecordFailure()
	assert.False(t, b.Allow(), "open breaker blocks until cooldown")

	now = now.Add(30 * time.Second)
	assert.False(t, b.Allow())

	now = now.Add(30 * time.Second)
	assert.True(t, b.Allow(), "one probe after cooldown")
	assert.False(t, b.Allow(), "second probe waits for the next cooldown")
}
