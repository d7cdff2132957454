package timer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdown_FiresOnceAtZero(t *testing.T) {
	calls := 0
	c := New(1, func() { calls++ })

	for i := 0; i < 59; i++ {
		assert.False(t, c.Tick(), "tick %d", i)
	}
	assert.Equal(t, 1, c.Seconds())
	assert.True(t, c.Tick())
	assert.Equal(t, 1, calls)
	assert.True(t, c.Expired())

	for i := 0; i < 10; i++ {
		assert.False(t, c.Tick())
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, c.Seconds())
}

func TestCountdown_NeverNegative(t *testing.T) {
	c := New(0, nil)
	for i := 0; i < 5; i++ {
		c.Tick()
		assert.GreaterOrEqual(t, c.Seconds(), 0)
	}
}

func TestCountdown_ZeroDurationFiresImmediately(t *testing.T) {
	calls := 0
	c := New(0, func() { calls++ })
	assert.True(t, c.Start())
	assert.Equal(t, 1, calls)
	assert.False(t, c.Tick())
	assert.Equal(t, 1, calls)
}

func TestCountdown_NegativeDurationFiresOnFirstTick(t *testing.T) {
	calls := 0
	c := New(-5, func() { calls++ })
	assert.Equal(t, 0, c.Seconds())
	assert.True(t, c.Tick())
	assert.Equal(t, 1, calls)
}

func TestCountdown_StartIsNoopWithTimeLeft(t *testing.T) {
	c := New(2, nil)
	assert.False(t, c.Start())
	assert.Equal(t, 120, c.Seconds())
}

func TestCountdown_PauseResume(t *testing.T) {
	c := New(1, nil)
	c.Tick()
	c.Pause()
	assert.True(t, c.Paused())
	for i := 0; i < 10; i++ {
		c.Tick()
	}
	assert.Equal(t, 59, c.Seconds())

	c.Resume()
	c.Tick()
	assert.Equal(t, 58, c.Seconds())
}

func TestCountdown_StrictlyDecreasing(t *testing.T) {
	c := New(2, nil)
	prev := c.Seconds()
	for !c.Expired() {
		c.Tick()
		require.Less(t, c.Seconds(), prev)
		prev = c.Seconds()
	}
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, LevelNormal, LevelFor(301))
	assert.Equal(t, LevelLow, LevelFor(300))
	assert.Equal(t, LevelLow, LevelFor(61))
	assert.Equal(t, LevelCritical, LevelFor(60))
	assert.Equal(t, LevelCritical, LevelFor(0))
	assert.Equal(t, "critical", LevelCritical.String())
}

func TestFormat(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{61, "01:01"},
		{3599, "59:59"},
		{3600, "01:00:00"},
		{3725, "01:02:05"},
		{-3, "00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.secs), "secs %d", tt.secs)
	}
	assert.Equal(t, "01:30:00", New(90, nil).Format())
}

func TestRunner_FiresAndStops(t *testing.T) {
	fired := make(chan struct{}, 1)
	c := New(0, func() { fired <- struct{}{} })
	c.remaining = 2

	r := &Runner{Countdown: c, Interval: time.Millisecond}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, r.Run(ctx))
	select {
	case <-fired:
	default:
		t.Fatal("time-up callback did not run")
	}
	assert.True(t, c.Fired())
}

func TestRunner_Cancel(t *testing.T) {
	c := New(10, nil)
	r := &Runner{Countdown: c, Interval: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, c.Fired())
}
