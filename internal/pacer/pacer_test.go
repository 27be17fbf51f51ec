package pacer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstCallNeverBlocks(t *testing.T) {
	p := New(time.Second, 0)
	start := time.Now()
	require.NoError(t, p.Pace(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestSecondCallWaitsMinInterval(t *testing.T) {
	p := New(60*time.Millisecond, 0)
	require.NoError(t, p.Pace(context.Background()))
	start := time.Now()
	require.NoError(t, p.Pace(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestElapsedTimeCounts(t *testing.T) {
	p := New(40*time.Millisecond, 0)
	require.NoError(t, p.Pace(context.Background()))
	time.Sleep(60 * time.Millisecond)
	start := time.Now()
	require.NoError(t, p.Pace(context.Background()))
	// The interval already elapsed while we slept; no further blocking.
	assert.Less(t, time.Since(start), 30*time.Millisecond)
}

func TestNegativeSettingsClamped(t *testing.T) {
	p := New(-time.Second, -time.Second)
	require.NoError(t, p.Pace(context.Background()))
	start := time.Now()
	require.NoError(t, p.Pace(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestCancelledContext(t *testing.T) {
	p := New(time.Hour, 0)
	require.NoError(t, p.Pace(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Pace(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
