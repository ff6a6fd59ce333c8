package leads

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeperDefaultInterval(t *testing.T) {
	s := NewSweeper(NewStore(DefaultDecayConfig()), 0)
	assert.Equal(t, 90*time.Second, s.interval)
}

func TestSweeperRunStopsOnCancel(t *testing.T) {
	store := NewStore(DefaultDecayConfig())
	sweeper := NewSweeper(store, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestSweeperPurgesExpired(t *testing.T) {
	store := NewStore(DecayConfig{
		HotIdle:  time.Hour,
		WarmIdle: time.Hour,
		ColdTTL:  10 * time.Millisecond,
	})
	_, err := store.Touch("stale.com")
	require.NoError(t, err)

	sweeper := NewSweeper(store, 20*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	go sweeper.Run(ctx)

	assert.Eventually(t, func() bool {
		_, ok := store.Get("stale.com")
		return !ok
	}, time.Second, 10*time.Millisecond)
}
