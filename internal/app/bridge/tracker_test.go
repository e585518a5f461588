package bridge

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackerLatestRequestWins(t *testing.T) {
	var tr Tracker

	ctx1, first := tr.Begin(context.Background())
	ctx2, second := tr.Begin(context.Background())

	require.ErrorIs(t, ctx1.Err(), context.Canceled)
	require.NoError(t, ctx2.Err())
	require.False(t, tr.Current(first))
	require.True(t, tr.Current(second))

	tr.Finish(first)
	require.NoError(t, ctx2.Err())

	tr.Finish(second)
	require.ErrorIs(t, ctx2.Err(), context.Canceled)
	require.True(t, tr.Current(second))
}

func TestTrackerStop(t *testing.T) {
	var tr Tracker
	ctx, ticket := tr.Begin(context.Background())
	tr.Stop()
	require.Error(t, ctx.Err())
	require.False(t, tr.Current(ticket))
}

func TestTrackerConcurrentBegin(t *testing.T) {
	var tr Tracker
	var wg sync.WaitGroup
	tickets := make(chan Ticket, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, tk := tr.Begin(context.Background())
			tickets <- tk
		}()
	}
	wg.Wait()
	close(tickets)

	current := 0
	for tk := range tickets {
		if tr.Current(tk) {
			current++
		}
	}
	require.Equal(t, 1, current)
}
