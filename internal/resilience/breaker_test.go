package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fail() error { return errBoom }
func ok() error   { return nil }

// fakeClock lets tests move the breaker's notion of time.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(max int, timeout time.Duration) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := NewBreaker(max, timeout)
	b.now = clock.now
	return b, clock
}

// isOpen reports whether b is in the open state.
func isOpen(b *Breaker) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state == stateOpen
}

func TestBreaker_OpensAfterMaxFailures(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	for range 3 {
		assert.ErrorIs(t, b.Execute(fail, nil), errBoom)
	}

	assert.True(t, isOpen(b))
	assert.ErrorIs(t, b.Execute(ok, nil), ErrCircuitOpen)
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b, _ := newTestBreaker(2, time.Minute)

	_ = b.Execute(fail, nil)
	require.NoError(t, b.Execute(ok, nil))
	_ = b.Execute(fail, nil)

	assert.False(t, isOpen(b), "failures must be consecutive")
}

func TestBreaker_HalfOpenAfterTimeout(t *testing.T) {
	b, clock := newTestBreaker(1, 30*time.Second)

	_ = b.Execute(fail, nil)
	require.ErrorIs(t, b.Execute(ok, nil), ErrCircuitOpen)

	clock.advance(30 * time.Second)

	require.NoError(t, b.Execute(ok, nil), "trial call allowed once timeout elapses")
	assert.False(t, isOpen(b))
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b, clock := newTestBreaker(3, 10*time.Second)

	for range 3 {
		_ = b.Execute(fail, nil)
	}
	clock.advance(10 * time.Second)

	assert.ErrorIs(t, b.Execute(fail, nil), errBoom)
	assert.True(t, isOpen(b))
}

func TestBreaker_IgnoredErrorsDoNotTrip(t *testing.T) {
	b, _ := newTestBreaker(1, time.Minute)
	ignoreBoom := func(err error) bool { return errors.Is(err, errBoom) }

	assert.ErrorIs(t, b.Execute(fail, ignoreBoom), errBoom)
	assert.ErrorIs(t, b.Execute(fail, ignoreBoom), errBoom)

	assert.False(t, isOpen(b))
}

func TestNewBreaker_ClampsMaxFailures(t *testing.T) {
	b := NewBreaker(0, time.Minute)

	_ = b.Execute(fail, nil)

	assert.True(t, isOpen(b))
}

func TestBreaker_HalfOpenAdmitsSingleTrial(t *testing.T) {
	b, clock := newTestBreaker(1, 10*time.Second)

	_ = b.Execute(fail, nil)
	clock.advance(10 * time.Second)

	var concurrent error
	trial := func() error {
		concurrent = b.Execute(ok, nil)
		return nil
	}

	require.NoError(t, b.Execute(trial, nil))
	assert.ErrorIs(t, concurrent, ErrCircuitOpen, "second caller must wait for the trial to finish")
	assert.NoError(t, b.Execute(ok, nil), "closed again after a successful trial")
}

func TestBreaker_FailedTrialRejectsUntilNextTimeout(t *testing.T) {
	b, clock := newTestBreaker(1, 10*time.Second)

	_ = b.Execute(fail, nil)
	clock.advance(10 * time.Second)
	require.ErrorIs(t, b.Execute(fail, nil), errBoom)

	assert.ErrorIs(t, b.Execute(ok, nil), ErrCircuitOpen)
	clock.advance(10 * time.Second)
	assert.NoError(t, b.Execute(ok, nil))
}
