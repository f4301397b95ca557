package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueNonBlockingEnqueue(t *testing.T) {
	q := New[int](1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx, 0)
	for i := 0; i < 1000; i++ {
		require.True(t, q.Enqueue(i), "enqueue failed at %d", i)
	}
	assert.Greater(t, q.QueueDepth(), 0)
}

func TestQueueShutdownIntake(t *testing.T) {
	q := New[int](1, nil)
	q.CloseIntake()
	assert.True(t, q.IsShuttingDown())
	assert.False(t, q.Enqueue(1), "expected enqueue false when shutting down")
}

func TestQueuePreservesOrder(t *testing.T) {
	q := New[int](4, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx, 0)
	for i := 0; i < 100; i++ {
		q.Enqueue(i)
	}
	for i := 0; i < 100; i++ {
		select {
		case got := <-q.Out():
			require.Equal(t, i, got)
			q.MarkProcessed()
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for item %d", i)
		}
	}
	enq, proc, backlog, depth := q.Metrics()
	assert.Equal(t, uint64(100), enq)
	assert.Equal(t, uint64(100), proc)
	assert.Zero(t, backlog)
	assert.Zero(t, depth)
}

func TestSequencer(t *testing.T) {
	var s Sequencer
	assert.Equal(t, uint64(0), s.Current())
	g1 := s.Next()
	assert.True(t, s.IsCurrent(g1))
	g2 := s.Next()
	assert.False(t, s.IsCurrent(g1))
	assert.True(t, s.IsCurrent(g2))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Next()
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(52), s.Current())
}
