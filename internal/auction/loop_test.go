package auction

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startEngine(t *testing.T) (*Engine, context.CancelFunc) {
	t.Helper()
	e := NewEngine(64, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go e.Run(ctx)
	return e, cancel
}

func TestEngineRoundTrip(t *testing.T) {
	e, cancel := startEngine(t)
	defer cancel()
	ctx := context.Background()

	id, err := e.Submit(ctx, "alice", SideBuy, dec("10"), dec("5"))
	require.NoError(t, err)
	_, err = e.Submit(ctx, "bob", SideSell, dec("8"), dec("5"))
	require.NoError(t, err)

	trades, err := e.Match(ctx)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.True(t, trades[0].Price.Equal(dec("9")))

	// the buy was fully filled in the pass
	assert.ErrorIs(t, e.Cancel(ctx, "alice", id), ErrOrderNotFound)
}

func TestEngineSerializesConcurrentSubmitters(t *testing.T) {
	e, cancel := startEngine(t)
	defer cancel()
	ctx := context.Background()

	const perSide = 50
	var wg sync.WaitGroup
	for i := 0; i < perSide; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := e.Submit(ctx, "buyer", SideBuy, dec("10"), dec("1"))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := e.Submit(ctx, "seller", SideSell, dec("10"), dec("1"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	trades, err := e.Match(ctx)
	require.NoError(t, err)
	assert.Len(t, trades, perSide)

	bids, asks, err := e.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, bids)
	assert.Empty(t, asks)
}

func TestEngineCancelAllAndOrdersOf(t *testing.T) {
	e, cancel := startEngine(t)
	defer cancel()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := e.Submit(ctx, "u1", SideBuy, dec("10"), dec("1"))
		require.NoError(t, err)
	}
	mine, err := e.OrdersOf(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	removed, err := e.CancelAll(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	mine, err = e.OrdersOf(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestEngineStopsWithContext(t *testing.T) {
	e, cancel := startEngine(t)
	cancel()

	// wait for the loop to exit
	select {
	case <-e.done:
	case <-time.After(time.Second):
		t.Fatal("engine did not stop")
	}

	_, err := e.Submit(context.Background(), "u1", SideBuy, decimal.NewFromInt(10), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrEngineStopped)
}

func TestEngineRespectsCallerContext(t *testing.T) {
	e := NewEngine(0, nil) // unbuffered, nobody consuming
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := e.Submit(ctx, "u1", SideBuy, dec("10"), dec("1"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
